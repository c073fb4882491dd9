package storage

import (
	"fmt"

	"github.com/colorfulnotion/jampvm/common"
	"github.com/colorfulnotion/jampvm/jamerrors"
	"github.com/colorfulnotion/jampvm/log"
	"github.com/klauspost/compress/zstd"
)

// programPrefix namespaces program blobs inside the database.
var programPrefix = []byte("prog:")

// ProgramStore keeps program blobs keyed by their blake2b code hash. Blobs
// are stored zstd-compressed and verified against the hash on read.
type ProgramStore struct {
	kv  *PersistenceStore
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// OpenProgramStore opens the store at path, in memory when path is empty.
func OpenProgramStore(path string) (*ProgramStore, error) {
	kv, err := NewPersistenceStore(path)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		kv.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &ProgramStore{kv: kv, enc: enc, dec: dec}, nil
}

func programKey(h common.Hash) []byte {
	return append(append([]byte(nil), programPrefix...), h.Bytes()...)
}

// Put stores blob and returns its code hash. Storing the same blob twice is
// a no-op.
func (s *ProgramStore) Put(blob []byte) (common.Hash, error) {
	if len(blob) == 0 {
		return common.Hash{}, jamerrors.ErrKEmptyBlob
	}
	h := common.Blake2Hash(blob)
	packed := s.enc.EncodeAll(blob, nil)
	if err := s.kv.Put(programKey(h), packed); err != nil {
		return common.Hash{}, fmt.Errorf("put program %s: %w", h, err)
	}
	log.Debug(log.PvmStore, "program stored", "hash", h, "size", len(blob), "compressed", len(packed))
	return h, nil
}

// Get returns the blob stored under h.
func (s *ProgramStore) Get(h common.Hash) ([]byte, error) {
	packed, ok, err := s.kv.Get(programKey(h))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", jamerrors.ErrKNotFound, h)
	}
	blob, err := s.dec.DecodeAll(packed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", jamerrors.ErrKCorrupted, h, err)
	}
	if got := common.Blake2Hash(blob); got != h {
		return nil, fmt.Errorf("%w: %s hashes to %s", jamerrors.ErrKCorrupted, h, got)
	}
	return blob, nil
}

func (s *ProgramStore) Has(h common.Hash) (bool, error) {
	return s.kv.Has(programKey(h))
}

func (s *ProgramStore) Delete(h common.Hash) error {
	return s.kv.Delete(programKey(h))
}

// List returns the hashes of every stored program in key order.
func (s *ProgramStore) List() ([]common.Hash, error) {
	keys, err := s.kv.Keys(programPrefix)
	if err != nil {
		return nil, err
	}
	hashes := make([]common.Hash, 0, len(keys))
	for _, k := range keys {
		hashes = append(hashes, common.BytesToHash(k[len(programPrefix):]))
	}
	return hashes, nil
}

func (s *ProgramStore) Close() error {
	s.dec.Close()
	s.enc.Close()
	return s.kv.Close()
}
