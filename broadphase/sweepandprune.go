// Package broadphase implements a sweep-and-prune broad-phase collision
// detector: entities are sorted by their AABB's minimum X each frame and
// swept once to report overlapping pairs, the same "sort the endpoints,
// sweep once" shape as the teacher's internal/game/spatial SweepAndPrune
// (Baraff & Witkin's SAP), adapted from its uniform-radius endpoint-list
// form to the spec's full-AABB single-pass scan.
package broadphase

import (
	"cmp"
	"sort"
	"time"

	"simkit/geometry"
	"simkit/metrics"
)

// CollisionPair is an unordered pair of entity ids stored in canonical
// (min, max) order so that the same pair always compares equal regardless
// of discovery order.
type CollisionPair[Id cmp.Ordered] struct {
	A, B Id
}

func newPair[Id cmp.Ordered](a, b Id) CollisionPair[Id] {
	if a <= b {
		return CollisionPair[Id]{A: a, B: b}
	}
	return CollisionPair[Id]{A: b, B: a}
}

type entity[Id cmp.Ordered] struct {
	id   Id
	aabb geometry.AABB
}

// SweepAndPrune is a broad-phase collision detector over axis-aligned
// bounding boxes. Entities are kept in an unordered slice; FindCollisions
// sorts a scratch index array by minX and sweeps it once per call.
type SweepAndPrune[Id cmp.Ordered] struct {
	entities      []entity[Id]
	sortedIndices []int
	metrics       *metrics.Metrics
}

// New creates an empty broad-phase detector.
func New[Id cmp.Ordered]() *SweepAndPrune[Id] {
	return &SweepAndPrune[Id]{}
}

// SetMetrics attaches Prometheus collectors that FindCollisions reports
// against. Pass nil to disable instrumentation.
func (s *SweepAndPrune[Id]) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Add registers an entity with the given id and bounding box. O(1).
func (s *SweepAndPrune[Id]) Add(id Id, aabb geometry.AABB) {
	s.entities = append(s.entities, entity[Id]{id: id, aabb: aabb})
}

// Remove deletes the entity with the given id via linear scan and
// swap-remove. Returns false if id was not present.
func (s *SweepAndPrune[Id]) Remove(id Id) bool {
	for i := range s.entities {
		if s.entities[i].id == id {
			last := len(s.entities) - 1
			s.entities[i] = s.entities[last]
			s.entities = s.entities[:last]
			return true
		}
	}
	return false
}

// UpdatePosition moves the entity with the given id to a new center,
// keeping its half-extents. Found via linear scan. Returns false if id was
// not present.
func (s *SweepAndPrune[Id]) UpdatePosition(id Id, centerX, centerY float32) bool {
	for i := range s.entities {
		if s.entities[i].id == id {
			s.entities[i].aabb.CenterX = centerX
			s.entities[i].aabb.CenterY = centerY
			return true
		}
	}
	return false
}

// Len returns the number of tracked entities.
func (s *SweepAndPrune[Id]) Len() int { return len(s.entities) }

// Each calls visit once per tracked entity, in no particular order. Used by
// debugrender to draw the current set of AABBs.
func (s *SweepAndPrune[Id]) Each(visit func(id Id, aabb geometry.AABB)) {
	for _, e := range s.entities {
		visit(e.id, e.aabb)
	}
}

// FindCollisions appends every overlapping pair to out and returns the
// extended slice. Entities are sorted by AABB.MinX, then for each entity
// (in ascending minX order) subsequent entities are scanned until one
// starts at or past the current entity's maxX — the standard sweep prune.
// Pairs appear in sweep order; no pair is emitted twice.
func (s *SweepAndPrune[Id]) FindCollisions(out []CollisionPair[Id]) []CollisionPair[Id] {
	before := len(out)
	start := time.Now()
	n := len(s.entities)
	if cap(s.sortedIndices) < n {
		s.sortedIndices = make([]int, n)
	}
	s.sortedIndices = s.sortedIndices[:n]
	for i := range s.sortedIndices {
		s.sortedIndices[i] = i
	}

	sort.Slice(s.sortedIndices, func(i, j int) bool {
		return s.entities[s.sortedIndices[i]].aabb.MinX() < s.entities[s.sortedIndices[j]].aabb.MinX()
	})

	for i := 0; i < n; i++ {
		a := s.entities[s.sortedIndices[i]]
		maxXa := a.aabb.MaxX()
		for j := i + 1; j < n; j++ {
			b := s.entities[s.sortedIndices[j]]
			if b.aabb.MinX() >= maxXa {
				break
			}
			if geometry.Overlaps(a.aabb, b.aabb) {
				out = append(out, newPair(a.id, b.id))
			}
		}
	}
	if s.metrics != nil {
		s.metrics.BroadPhaseSweepSeconds.Observe(time.Since(start).Seconds())
		s.metrics.CollisionPairsFound.Add(float64(len(out) - before))
	}
	return out
}

// QueryRect appends the id of every entity whose AABB overlaps the given
// center/half-extent rectangle to out.
func (s *SweepAndPrune[Id]) QueryRect(centerX, centerY, halfWidth, halfHeight float32, out []Id) []Id {
	query := geometry.AABB{CenterX: centerX, CenterY: centerY, HalfWidth: halfWidth, HalfHeight: halfHeight}
	for _, e := range s.entities {
		if geometry.Overlaps(e.aabb, query) {
			out = append(out, e.id)
		}
	}
	return out
}

// QueryRadius appends the id of every entity whose AABB lies within radius
// of center to out. Distance is measured from center to the closest point
// on each entity's AABB (via coordinate clamping), compared squared
// against radius squared.
func (s *SweepAndPrune[Id]) QueryRadius(centerX, centerY, radius float32, out []Id) []Id {
	radiusSq := radius * radius
	roughBox := geometry.AABB{CenterX: centerX, CenterY: centerY, HalfWidth: radius, HalfHeight: radius}
	for _, e := range s.entities {
		if !geometry.Overlaps(e.aabb, roughBox) {
			continue
		}
		if e.aabb.DistanceSquaredToPoint(centerX, centerY) <= radiusSq {
			out = append(out, e.id)
		}
	}
	return out
}
