// Package zbucket provides a container keyed by a small unsigned integer
// "z-index": O(1) insertion into the bucket named by the key, and ordered
// iteration bucket-0 through bucket-(numBuckets-1), insertion order within
// a bucket (a removal moves the bucket's last item into the freed slot).
// It is typically used to keep render or update order stable
// across many z-layers without a full sort every frame.
package zbucket

import "github.com/pkg/errors"

// Unsigned constrains z-index keys to unsigned integer types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// ErrItemNotFound is returned by ChangeZIndex when the item is not present
// at the claimed old bucket.
var ErrItemNotFound = errors.New("zbucket: item not found")

// EqualFunc reports whether a and b should be treated as the same item.
// If nil, Buckets falls back to Go's built-in == on T.
type EqualFunc[T any] func(a, b T) bool

// Buckets is a fixed number of independent ordered sequences keyed by a
// small unsigned integer. TotalCount equals the sum of bucket lengths;
// Iterate visits bucket 0..numBuckets-1, in append order within each.
type Buckets[T any, Z Unsigned] struct {
	buckets    [][]T
	totalCount int
	equal      EqualFunc[T]
}

// New allocates a Buckets container with numBuckets independent sequences
// (bucket indices 0..numBuckets-1 are valid z-index values). equal may be
// nil, in which case items are compared with ==; pass a non-nil EqualFunc
// for element types that are not comparable with ==.
func New[T any, Z Unsigned](numBuckets int, equal EqualFunc[T]) *Buckets[T, Z] {
	if numBuckets < 0 {
		numBuckets = 0
	}
	return &Buckets[T, Z]{
		buckets: make([][]T, numBuckets),
		equal:   equal,
	}
}

// TotalCount returns the number of items across all buckets.
func (b *Buckets[T, Z]) TotalCount() int { return b.totalCount }

// NumBuckets returns the number of buckets this container was created with.
func (b *Buckets[T, Z]) NumBuckets() int { return len(b.buckets) }

func (b *Buckets[T, Z]) itemsEqual(x, y T) bool {
	if b.equal != nil {
		return b.equal(x, y)
	}
	return equalFallback(x, y)
}

// Insert appends item to bucket z. O(1) amortized.
func (b *Buckets[T, Z]) Insert(item T, z Z) {
	b.buckets[z] = append(b.buckets[z], item)
	b.totalCount++
}

// Remove scans bucket z for item and removes its first occurrence via
// swap-with-last, reporting whether anything was removed. O(bucket size).
func (b *Buckets[T, Z]) Remove(item T, z Z) bool {
	bucket := b.buckets[z]
	for i, existing := range bucket {
		if b.itemsEqual(existing, item) {
			last := len(bucket) - 1
			bucket[i] = bucket[last]
			var zero T
			bucket[last] = zero
			b.buckets[z] = bucket[:last]
			b.totalCount--
			return true
		}
	}
	return false
}

// ChangeZIndex moves item from bucket oldZ to bucket newZ. It is
// transactional: presence at oldZ is verified without mutation first, the
// item is appended to newZ, and only then is it removed from oldZ — if
// that removal does not find the item (e.g. because the caller's EqualFunc
// misbehaves), the append is rolled back and the container is unchanged. If oldZ == newZ this is a no-op. Returns
// ErrItemNotFound if item is not present at oldZ.
func (b *Buckets[T, Z]) ChangeZIndex(item T, oldZ, newZ Z) error {
	if oldZ == newZ {
		if !b.contains(item, oldZ) {
			return errors.Wrapf(ErrItemNotFound, "item not present at z=%v", oldZ)
		}
		return nil
	}

	if !b.contains(item, oldZ) {
		return errors.Wrapf(ErrItemNotFound, "item not present at z=%v", oldZ)
	}

	b.buckets[newZ] = append(b.buckets[newZ], item)
	b.totalCount++

	if !b.Remove(item, oldZ) {
		// Should not happen: we just verified presence and nothing else
		// mutates concurrently. Roll back the append defensively.
		last := len(b.buckets[newZ]) - 1
		b.buckets[newZ] = b.buckets[newZ][:last]
		b.totalCount--
		return errors.Wrapf(ErrItemNotFound, "item vanished from z=%v mid-transaction", oldZ)
	}
	return nil
}

func (b *Buckets[T, Z]) contains(item T, z Z) bool {
	for _, existing := range b.buckets[z] {
		if b.itemsEqual(existing, item) {
			return true
		}
	}
	return false
}

// Iterate calls visit for every item, bucket 0 through numBuckets-1, in
// append order within each bucket, except that Remove moves a bucket's last
// item into the removed item's slot. Empty buckets are skipped implicitly.
// Iteration stops early if visit returns false.
func (b *Buckets[T, Z]) Iterate(visit func(item T, z Z) bool) {
	for i, bucket := range b.buckets {
		for _, item := range bucket {
			if !visit(item, Z(i)) {
				return
			}
		}
	}
}

// All returns every item in iteration order as a single slice. Convenience
// wrapper over Iterate for callers that don't need early exit.
func (b *Buckets[T, Z]) All() []T {
	out := make([]T, 0, b.totalCount)
	b.Iterate(func(item T, _ Z) bool {
		out = append(out, item)
		return true
	})
	return out
}

// Clear empties every bucket and zeroes TotalCount. O(numBuckets).
func (b *Buckets[T, Z]) Clear() {
	for i := range b.buckets {
		b.buckets[i] = b.buckets[i][:0]
	}
	b.totalCount = 0
}

// equalFallback compares two values of an unconstrained type parameter via
// interface equality. It panics at runtime if T is not comparable — callers
// with a non-comparable element type must supply an EqualFunc to New.
func equalFallback[T any](a, b T) bool {
	return any(a) == any(b)
}
