// Package sparseset provides a worst-case O(1) key→value map with a dense,
// cache-friendly payload array — the sparse/dense duality used throughout
// the module wherever entity ids need to be mapped to internal indices.
package sparseset

import (
	"math"

	"github.com/pkg/errors"
)

// Unsigned constrains sparse set keys to unsigned integer types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// ErrKeyOutOfRange is returned by Put when the key is >= the set's max key.
var ErrKeyOutOfRange = errors.New("sparseset: key out of range")

// ErrCapacityExceeded is returned by Put when the dense arrays would have
// to grow past 2^32-1 entries.
var ErrCapacityExceeded = errors.New("sparseset: capacity exceeded")

// ErrOutOfMemory is returned when growing the dense arrays fails.
var ErrOutOfMemory = errors.New("sparseset: out of memory")

const emptySlot = math.MaxUint32
const maxCount = math.MaxUint32

// SparseSet maps keys in [0, maxKey) to values, with O(1) get/put/remove
// and O(count) iteration over a dense prefix whose order is stable between
// mutations.
//
// Invariant: for every live key k, sparse[k] = i and denseKeys[i] = k. The
// first count entries of the dense arrays are live; Remove preserves this
// via swap-with-last.
type SparseSet[K Unsigned, V any] struct {
	sparse      []uint32
	denseKeys   []K
	denseValues []V
	count       uint32
	maxKey      uint64
}

// New allocates a SparseSet accepting keys in [0, maxKey) with room for
// initialCapacity entries before the dense arrays must grow.
func New[K Unsigned, V any](maxKey uint64, initialCapacity int) *SparseSet[K, V] {
	if initialCapacity < 0 {
		initialCapacity = 0
	}
	sparse := make([]uint32, maxKey)
	for i := range sparse {
		sparse[i] = emptySlot
	}
	return &SparseSet[K, V]{
		sparse:      sparse,
		denseKeys:   make([]K, 0, initialCapacity),
		denseValues: make([]V, 0, initialCapacity),
		maxKey:      maxKey,
	}
}

// Len returns the number of live keys.
func (s *SparseSet[K, V]) Len() int { return int(s.count) }

// Cap returns the current dense-array capacity.
func (s *SparseSet[K, V]) Cap() int { return cap(s.denseKeys) }

func (s *SparseSet[K, V]) inRange(k K) bool {
	return uint64(k) < s.maxKey
}

// Contains reports whether k is present.
func (s *SparseSet[K, V]) Contains(k K) bool {
	if !s.inRange(k) {
		return false
	}
	idx := s.sparse[uint64(k)]
	return idx != emptySlot && idx < s.count && s.denseKeys[idx] == k
}

// Get returns the value for k and whether it was present.
func (s *SparseSet[K, V]) Get(k K) (V, bool) {
	if !s.Contains(k) {
		var zero V
		return zero, false
	}
	idx := s.sparse[uint64(k)]
	return s.denseValues[idx], true
}

// GetPtr returns a pointer to the stored value for k, or nil if absent.
// The pointer is invalidated by any subsequent Put that grows the dense
// arrays or any Remove that swaps the backing slot.
func (s *SparseSet[K, V]) GetPtr(k K) *V {
	if !s.Contains(k) {
		return nil
	}
	idx := s.sparse[uint64(k)]
	return &s.denseValues[idx]
}

// Put inserts or updates the value for k. It fails with ErrKeyOutOfRange if
// k >= maxKey, and with ErrCapacityExceeded if growing the dense arrays
// would exceed 2^32-1 entries. On any error the set is left unchanged.
func (s *SparseSet[K, V]) Put(k K, v V) error {
	if !s.inRange(k) {
		return errors.Wrapf(ErrKeyOutOfRange, "key %v >= maxKey %d", k, s.maxKey)
	}

	if s.Contains(k) {
		idx := s.sparse[uint64(k)]
		s.denseValues[idx] = v
		return nil
	}

	if uint64(s.count) >= maxCount {
		return errors.Wrapf(ErrCapacityExceeded, "count %d at limit", s.count)
	}

	if err := s.growIfNeeded(); err != nil {
		return err
	}

	idx := s.count
	s.denseKeys = append(s.denseKeys, k)
	s.denseValues = append(s.denseValues, v)
	s.sparse[uint64(k)] = idx
	s.count++
	return nil
}

// growIfNeeded doubles the dense arrays' capacity when they are full. New
// arrays are allocated and populated before the old ones are dropped, so a
// failed grow (recovered from the allocator's panic) leaves the set
// unchanged instead of partially mutated.
func (s *SparseSet[K, V]) growIfNeeded() (err error) {
	if int(s.count) < cap(s.denseKeys) {
		return nil
	}
	newCap := cap(s.denseKeys) * 2
	if newCap == 0 {
		newCap = 4
	}
	if uint64(newCap) > maxCount {
		newCap = maxCount
	}

	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrOutOfMemory, "grow to capacity %d: %v", newCap, r)
		}
	}()

	newKeys := make([]K, len(s.denseKeys), newCap)
	newValues := make([]V, len(s.denseValues), newCap)
	copy(newKeys, s.denseKeys)
	copy(newValues, s.denseValues)

	s.denseKeys = newKeys
	s.denseValues = newValues
	return nil
}

// Remove deletes k via swap-with-last, preserving the dense-array
// invariant. It is a no-op returning false if k was not present.
func (s *SparseSet[K, V]) Remove(k K) bool {
	if !s.Contains(k) {
		return false
	}
	idx := s.sparse[uint64(k)]
	last := s.count - 1

	if idx != last {
		lastKey := s.denseKeys[last]
		s.denseKeys[idx] = lastKey
		s.denseValues[idx] = s.denseValues[last]
		s.sparse[uint64(lastKey)] = idx
	}

	var zeroV V
	s.denseValues[last] = zeroV
	s.denseKeys = s.denseKeys[:last]
	s.denseValues = s.denseValues[:last]
	s.sparse[uint64(k)] = emptySlot
	s.count--
	return true
}

// Keys returns the live dense key prefix. The slice is a view into the
// set's internal storage and is invalidated by the next mutating call.
func (s *SparseSet[K, V]) Keys() []K { return s.denseKeys[:s.count] }

// Values returns the live dense value prefix. The slice is a view into the
// set's internal storage and is invalidated by the next mutating call.
func (s *SparseSet[K, V]) Values() []V { return s.denseValues[:s.count] }

// Clear removes every key. Only the sparse slots that were actually used by
// a live key are reset; unused slots are left untouched.
func (s *SparseSet[K, V]) Clear() {
	for i := uint32(0); i < s.count; i++ {
		s.sparse[uint64(s.denseKeys[i])] = emptySlot
	}
	s.denseKeys = s.denseKeys[:0]
	s.denseValues = s.denseValues[:0]
	s.count = 0
}
