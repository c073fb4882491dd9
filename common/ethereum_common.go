package common

import (
	"encoding/json"

	ethereumCommon "github.com/ethereum/go-ethereum/common"
)

// Hash is a 32-byte digest sharing go-ethereum's hex formatting.
type Hash ethereumCommon.Hash

func (h Hash) Bytes() []byte {
	return ethereumCommon.Hash(h).Bytes()
}

func (h Hash) String() string {
	return ethereumCommon.Hash(h).String()
}

// Hex is the 0x-prefixed lowercase form.
func (h Hash) Hex() string {
	return ethereumCommon.Hash(h).Hex()
}

// BytesToHash keeps the last 32 bytes of b, left-padding shorter input.
func BytesToHash(b []byte) Hash {
	return Hash(ethereumCommon.BytesToHash(b))
}

func FromHex(s string) []byte {
	return ethereumCommon.FromHex(s)
}

func HexToHash(s string) Hash {
	return Hash(ethereumCommon.HexToHash(s))
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Hex())
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*h = HexToHash(s)
	return nil
}
