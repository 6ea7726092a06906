// Package graph holds small pieces shared by floydwarshall and astar: the
// entity id↔index bijection both engines expose through their *WithMapping
// methods. Kept as a plain struct rather than an interface, consistent with
// this module's avoidance of interface-based polymorphism outside the
// heuristic selector.
package graph

import (
	"github.com/pkg/errors"

	"simkit/sparseset"
)

// IDMapper assigns each previously-unseen entity id a fresh, densely
// packed index in [0, capacity), and translates back the other way.
type IDMapper struct {
	idToIdx  *sparseset.SparseSet[uint32, uint32]
	idxToID  []uint32
	capacity int
	nextIdx  uint32
}

// NewIDMapper creates a mapper accepting ids in [0, idSpace) and producing
// indices in [0, capacity).
func NewIDMapper(idSpace uint64, capacity int) *IDMapper {
	return &IDMapper{
		idToIdx:  sparseset.New[uint32, uint32](idSpace, capacity),
		idxToID:  make([]uint32, capacity),
		capacity: capacity,
	}
}

// IndexFor returns the index assigned to id, registering a fresh index the
// first time id is seen. Fails once every index in [0, capacity) has been
// assigned.
func (m *IDMapper) IndexFor(id uint32) (uint32, error) {
	if existing, ok := m.idToIdx.Get(id); ok {
		return existing, nil
	}
	idx := m.nextIdx
	if int(idx) >= m.capacity {
		return 0, errors.Errorf("graph: id space exhausted, capacity=%d", m.capacity)
	}
	if err := m.idToIdx.Put(id, idx); err != nil {
		return 0, errors.Wrapf(err, "registering id %d", id)
	}
	m.idxToID[idx] = id
	m.nextIdx++
	return idx, nil
}

// IndexOf reports the index already assigned to id, without registering a
// new one.
func (m *IDMapper) IndexOf(id uint32) (uint32, bool) {
	return m.idToIdx.Get(id)
}

// IDAt returns the entity id registered at idx. idx must have been
// returned by a prior IndexFor call.
func (m *IDMapper) IDAt(idx uint32) uint32 {
	return m.idxToID[idx]
}
