package program

import (
	"fmt"

	"github.com/colorfulnotion/jampvm/common"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of decoded programs a Cache retains.
const DefaultCacheSize = 1024

// Cache holds the most recently used decoded programs keyed by the blake2b
// hash of their blob. A cached *Program is shared by every caller and must
// not be modified.
type Cache struct {
	programs *lru.Cache[common.Hash, *Program]
}

func NewCache(size int) (*Cache, error) {
	programs, err := lru.New[common.Hash, *Program](size)
	if err != nil {
		return nil, fmt.Errorf("program cache: %w", err)
	}
	return &Cache{programs: programs}, nil
}

// Get returns the decoded form of blob, decoding and caching it on a miss.
// Blobs that fail to decode are not cached.
func (c *Cache) Get(blob []byte) (*Program, error) {
	key := common.Blake2Hash(blob)
	if p, ok := c.programs.Get(key); ok {
		return p, nil
	}

	p, err := Decode(blob)
	if err != nil {
		return nil, err
	}
	// a concurrent miss may have stored the same program first
	if existing, ok, _ := c.programs.PeekOrAdd(key, p); ok {
		return existing, nil
	}
	return p, nil
}

func (c *Cache) Len() int {
	return c.programs.Len()
}
