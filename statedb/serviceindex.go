package statedb

import (
	"fmt"

	"github.com/colorfulnotion/jampvm/common"
	"github.com/colorfulnotion/jampvm/jamerrors"
	"github.com/colorfulnotion/jampvm/log"
	"github.com/colorfulnotion/jampvm/types"
)

// Service indices below MinServiceIndex are reserved; new indices are drawn
// from the IndexSpace values starting there.
const (
	MinServiceIndex uint32 = 1 << 8
	IndexSpace      uint32 = (1 << 32) - (1 << 9)
)

// ServiceOccupancy reports which service indices are taken.
type ServiceOccupancy interface {
	ServiceExists(index uint32) bool
}

// ServiceSet is a ServiceOccupancy over an in-memory set.
type ServiceSet map[uint32]struct{}

func NewServiceSet(indices ...uint32) ServiceSet {
	s := make(ServiceSet, len(indices))
	for _, i := range indices {
		s.Add(i)
	}
	return s
}

func (s ServiceSet) Add(index uint32) {
	s[index] = struct{}{}
}

func (s ServiceSet) ServiceExists(index uint32) bool {
	_, ok := s[index]
	return ok
}

func (s ServiceSet) Len() int {
	return len(s)
}

// Bump returns the index probed after a: 2^8 + ((a - 2^8 + 1) mod (2^32 - 2^9)).
func Bump(a uint32) uint32 {
	adjusted := (int64(a) - int64(MinServiceIndex) + 1) % int64(IndexSpace)
	if adjusted < 0 {
		adjusted += int64(IndexSpace)
	}
	return MinServiceIndex + uint32(adjusted)
}

// Check returns the first unoccupied index in the probe sequence i, Bump(i),
// Bump(Bump(i)), ... It gives up once every index of the space was probed.
func Check(i uint32, occ ServiceOccupancy) (uint32, error) {
	if c, ok := occ.(interface{ Len() int }); ok && uint64(c.Len()) >= uint64(IndexSpace) {
		return 0, fmt.Errorf("%w: %d indices taken", jamerrors.ErrSIndexSpaceExhausted, c.Len())
	}
	for probes := uint64(0); probes <= uint64(IndexSpace); probes++ {
		if !occ.ServiceExists(i) {
			if probes > 0 {
				log.Trace(log.PvmHost, "service index probed", "index", i, "probes", probes)
			}
			return i, nil
		}
		i = Bump(i)
	}
	return 0, fmt.Errorf("%w: probed %d indices", jamerrors.ErrSIndexSpaceExhausted, uint64(IndexSpace)+1)
}

// NewServiceIndex derives the index of a service created by service at
// timeslot: the first free index at or after
// E_4^-1(blake2b(E_4(service) ++ entropy ++ E_4(timeslot))[:4]) mod (2^32 - 2^9) + 2^8.
func NewServiceIndex(service uint32, entropy common.Hash, timeslot uint32, occ ServiceOccupancy) (uint32, error) {
	h := common.Blake2HashConcat(types.E_l(uint64(service), 4), entropy.Bytes(), types.E_l(uint64(timeslot), 4))
	seed := uint32(types.DecodeE_l(h[:4]) % uint64(IndexSpace))
	return Check(seed+MinServiceIndex, occ)
}
