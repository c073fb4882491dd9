package types

func powerOfTwo(exp uint32) uint64 {
	if exp >= 64 {
		return 0
	}
	return uint64(1) << exp
}

// GP eq(C.5)  E_l - fixed width little-endian integer encoding
func E_l(x uint64, l uint32) []byte {
	encoded := make([]byte, l)
	for i := uint32(0); i < l; i++ {
		encoded[i] = byte(x)
		x >>= 8
	}
	return encoded
}

// GP eq(C.5)  E_l - fixed width little-endian integer decoding
func DecodeE_l(encoded []byte) uint64 {
	var x uint64 = 0
	for i := len(encoded) - 1; i >= 0; i-- {
		x = x*256 + uint64(encoded[i])
	}
	return x
}

// GP eq(C.1) E - general natural number serialization up to 2^64
func E(x uint64) []byte {
	for l := uint32(0); l < 8; l++ {
		if x < powerOfTwo(7*(l+1)) {
			prefix := byte(256 - (uint64(1) << (8 - l)) + x>>(8*l))
			return append([]byte{prefix}, E_l(x, l)...)
		}
	}
	return append([]byte{0xff}, E_l(x, 8)...)
}

// DecodeE reads one general natural number from the front of encoded and
// returns it together with the number of bytes consumed. A consumed length
// of 0 means encoded was too short.
func DecodeE(encoded []byte) (uint64, uint32) {
	if len(encoded) == 0 {
		return 0, 0
	}
	firstByte := encoded[0]
	if firstByte == 0xff {
		if len(encoded) < 9 {
			return 0, 0
		}
		return DecodeE_l(encoded[1:9]), 9
	}
	// l is the count of leading one bits in the prefix byte
	var l uint32
	for l = 0; l < 8 && firstByte&(0x80>>l) != 0; l++ {
	}
	if uint32(len(encoded)) < 1+l {
		return 0, 0
	}
	high := uint64(firstByte) & (uint64(0xff) >> (l + 1))
	return high<<(8*l) + DecodeE_l(encoded[1:1+l]), l + 1
}
