package floydwarshall

import (
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"

	"simkit/graph"
	"simkit/internal/barrier"
	"simkit/metrics"
)

const simdLanes = 4

func maxU32() uint32 { return ^uint32(0) }

func saturatingAdd32(a, b uint32) uint32 {
	sum := a + b
	if sum < a {
		return maxU32()
	}
	return sum
}

// Config selects which code path FloydWarshallOptimized.Generate takes.
// Both default to true; Generate falls back toward the simpler paths when
// the graph is too small to benefit, or when fewer than two workers are
// available for the row-parallel engine.
type Config struct {
	Parallel bool
	SIMD     bool
}

// DefaultConfig returns the Config used by NewOptimized: parallel and SIMD
// both enabled.
func DefaultConfig() Config { return Config{Parallel: true, SIMD: true} }

// parallelThreshold is the graph size Generate must exceed before it
// considers the row-parallel engine.
const parallelThreshold = 64

// FloydWarshallOptimized is the flat-array, optionally SIMD-and-row-
// parallel variant of FloydWarshall. Weights are fixed at uint32 so the
// row-parallel engine can partition and reason about a single concrete
// lane width.
type FloydWarshallOptimized struct {
	n       int
	dist    []uint32
	next    []uint32
	cfg     Config
	idSpace uint64

	ids     *graph.IDMapper
	metrics *metrics.Metrics
}

// SetMetrics attaches Prometheus collectors that Generate and the
// row-parallel engine report against. Pass nil to disable instrumentation.
func (fw *FloydWarshallOptimized) SetMetrics(m *metrics.Metrics) {
	fw.metrics = m
}

// NewOptimized creates an empty solver with the default configuration.
// idSpace bounds the *WithMapping id range; pass 0 to use only raw indices.
func NewOptimized(idSpace uint64) *FloydWarshallOptimized {
	return NewOptimizedWithConfig(idSpace, DefaultConfig())
}

// NewOptimizedWithConfig is NewOptimized with an explicit Config.
func NewOptimizedWithConfig(idSpace uint64, cfg Config) *FloydWarshallOptimized {
	return &FloydWarshallOptimized{cfg: cfg, idSpace: idSpace}
}

// Size returns the current node count.
func (fw *FloydWarshallOptimized) Size() int { return fw.n }

// Resize grows the flat matrices to size n×n, reallocating only when n
// exceeds current capacity. Fails with ErrSizeOverflow if n*n would
// overflow int, leaving the solver unchanged.
func (fw *FloydWarshallOptimized) Resize(n int) error {
	needed, err := squareSize(n)
	if err != nil {
		return err
	}
	fw.n = n
	if cap(fw.dist) < needed {
		fw.dist = make([]uint32, needed)
		fw.next = make([]uint32, needed)
	} else {
		fw.dist = fw.dist[:needed]
		fw.next = fw.next[:needed]
	}
	if fw.idSpace > 0 && fw.ids == nil {
		fw.ids = graph.NewIDMapper(fw.idSpace, n)
	}
	return nil
}

// Clean resets dist/next to the identity state.
func (fw *FloydWarshallOptimized) Clean() {
	inf := maxU32()
	n := fw.n
	for i := 0; i < n; i++ {
		row := i * n
		for j := 0; j < n; j++ {
			if i == j {
				fw.dist[row+j] = 0
			} else {
				fw.dist[row+j] = inf
			}
			fw.next[row+j] = uint32(j)
		}
	}
}

func (fw *FloydWarshallOptimized) at(i, j int) int { return i*fw.n + j }

// AddEdge records a directed edge u→v of weight w, by raw index. If u→v
// already holds a lighter or equal weight, that weight is kept.
func (fw *FloydWarshallOptimized) AddEdge(u, v int, w uint32) error {
	if u < 0 || u >= fw.n || v < 0 || v >= fw.n {
		return errors.Wrapf(ErrIndexOutOfRange, "edge (%d,%d) with size %d", u, v, fw.n)
	}
	idx := fw.at(u, v)
	if w < fw.dist[idx] {
		fw.dist[idx] = w
		fw.next[idx] = uint32(v)
	}
	return nil
}

// AddEdgeWithMapping sets a directed edge between two entity ids.
func (fw *FloydWarshallOptimized) AddEdgeWithMapping(uid, vid uint32, w uint32) error {
	u, err := fw.ids.IndexFor(uid)
	if err != nil {
		return err
	}
	v, err := fw.ids.IndexFor(vid)
	if err != nil {
		return err
	}
	return fw.AddEdge(int(u), int(v), w)
}

// Generate dispatches to the scalar, single-thread SIMD, or row-parallel
// SIMD engine per the solver's Config and graph size.
func (fw *FloydWarshallOptimized) Generate() {
	if fw.n > parallelThreshold && fw.cfg.Parallel {
		start := time.Now()
		ok := fw.generateParallel()
		if ok {
			fw.observeGenerate("parallel", start)
			return
		}
		if fw.metrics != nil {
			fw.metrics.ParallelFallbackTotal.Inc()
		}
		// The row-parallel engine declined (fewer than two workers):
		// fall through to the SIMD or scalar engine.
	}
	if fw.cfg.SIMD {
		start := time.Now()
		fw.generateSIMD()
		fw.observeGenerate("simd", start)
		return
	}
	start := time.Now()
	fw.generateScalar()
	fw.observeGenerate("scalar", start)
}

func (fw *FloydWarshallOptimized) observeGenerate(engine string, start time.Time) {
	if fw.metrics == nil {
		return
	}
	fw.metrics.GenerateSeconds.WithLabelValues(engine).Observe(time.Since(start).Seconds())
}

func (fw *FloydWarshallOptimized) generateScalar() {
	n := fw.n
	inf := maxU32()
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			dik := fw.dist[fw.at(i, k)]
			if dik == inf {
				continue
			}
			for j := 0; j < n; j++ {
				dkj := fw.dist[fw.at(k, j)]
				if dkj == inf {
					continue
				}
				candidate := saturatingAdd32(dik, dkj)
				ij := fw.at(i, j)
				if candidate < fw.dist[ij] {
					fw.dist[ij] = candidate
					fw.next[ij] = fw.next[fw.at(i, k)]
				}
			}
		}
	}
}

// relaxRowSIMD relaxes row i against pivot k, processing j in 4-wide
// unrolled chunks (software-emulated SIMD: Go has no portable SIMD
// intrinsic in the standard library, so the vector width is expressed as
// plain unrolled scalar lanes rather than true hardware vector
// instructions). The tail (n not a multiple of 4) is handled scalarly.
// Lane semantics match the scalar tie-break: a candidate equal to the
// existing distance never overwrites it.
func (fw *FloydWarshallOptimized) relaxRowSIMD(k, i int) {
	dik := fw.dist[fw.at(i, k)]
	if dik == maxU32() {
		return
	}
	nik := fw.next[fw.at(i, k)]
	n := fw.n
	j := 0
	for ; j+simdLanes <= n; j += simdLanes {
		for lane := 0; lane < simdLanes; lane++ {
			jj := j + lane
			dkj := fw.dist[fw.at(k, jj)]
			candidate := saturatingAdd32(dik, dkj)
			ij := fw.at(i, jj)
			if candidate < fw.dist[ij] {
				fw.dist[ij] = candidate
				fw.next[ij] = nik
			}
		}
	}
	for ; j < n; j++ {
		dkj := fw.dist[fw.at(k, j)]
		candidate := saturatingAdd32(dik, dkj)
		ij := fw.at(i, j)
		if candidate < fw.dist[ij] {
			fw.dist[ij] = candidate
			fw.next[ij] = nik
		}
	}
}

func (fw *FloydWarshallOptimized) generateSIMD() {
	n := fw.n
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			fw.relaxRowSIMD(k, i)
		}
	}
}

// generateParallel runs the barrier-per-k row-parallel engine. Rows are
// partitioned evenly across T = min(NumCPU, n) workers, the first n mod T
// workers getting one extra row. Returns false (caller should fall back to
// SIMD-only) if the graph is too small to partition into at least 2
// workers worth of rows.
func (fw *FloydWarshallOptimized) generateParallel() bool {
	n := fw.n
	t := runtime.NumCPU()
	if t > n {
		t = n
	}
	if t < 2 {
		return false
	}

	starts := make([]int, t+1)
	base := n / t
	extra := n % t
	for w, cursor := 0, 0; w < t; w++ {
		starts[w] = cursor
		rows := base
		if w < extra {
			rows++
		}
		cursor += rows
	}
	starts[t] = n

	bar := barrier.New(t, n)
	var wg sync.WaitGroup
	wg.Add(t)
	for w := 0; w < t; w++ {
		rowStart, rowEnd := starts[w], starts[w+1]
		go func(rowStart, rowEnd int) {
			defer wg.Done()
			for k := 0; k < n; k++ {
				if fw.metrics != nil {
					waitStart := time.Now()
					bar.Wait(k)
					fw.metrics.BarrierWaitSeconds.Observe(time.Since(waitStart).Seconds())
				} else {
					bar.Wait(k)
				}
				for i := rowStart; i < rowEnd; i++ {
					fw.relaxRowSIMD(k, i)
				}
				// Row k+1 is the next pivot; only its owner has just
				// finished relaxing it through pivot k, so only that
				// owner may unblock Wait(k+1).
				if k+1 >= rowStart && k+1 < rowEnd {
					bar.Release(k)
				}
			}
		}(rowStart, rowEnd)
	}
	wg.Wait()
	return true
}

// Value returns dist[u][v] and whether a path exists (dist != INF).
func (fw *FloydWarshallOptimized) Value(u, v int) (uint32, bool) {
	if u < 0 || u >= fw.n || v < 0 || v >= fw.n {
		return maxU32(), false
	}
	d := fw.dist[fw.at(u, v)]
	return d, d != maxU32()
}

// Next returns the first-hop index on the shortest path from u to v, and
// whether a path exists.
func (fw *FloydWarshallOptimized) Next(u, v int) (uint32, bool) {
	if _, ok := fw.Value(u, v); !ok {
		return 0, false
	}
	return fw.next[fw.at(u, v)], true
}

// NextWithMapping is Next, translating through the idx→id mapping.
func (fw *FloydWarshallOptimized) NextWithMapping(uid, vid uint32) (uint32, bool) {
	u, ok := fw.ids.IndexOf(uid)
	if !ok {
		return 0, false
	}
	v, ok := fw.ids.IndexOf(vid)
	if !ok {
		return 0, false
	}
	nextIdx, ok := fw.Next(int(u), int(v))
	if !ok {
		return 0, false
	}
	return fw.ids.IDAt(nextIdx), true
}

// Path appends the index sequence from u to v onto buf, per FloydWarshall.Path.
func (fw *FloydWarshallOptimized) Path(buf []int, u, v int) ([]int, error) {
	start := len(buf)
	cur := u
	buf = append(buf, cur)
	for cur != v {
		next, ok := fw.Next(cur, v)
		if !ok {
			return buf[:start], errors.Wrapf(ErrPathNotFound, "from %d to %d", u, v)
		}
		cur = int(next)
		buf = append(buf, cur)
	}
	return buf, nil
}

// SetPathWithMapping is Path expressed in entity ids via the idx↔id bijection.
func (fw *FloydWarshallOptimized) SetPathWithMapping(buf []uint32, uid, vid uint32) ([]uint32, error) {
	start := len(buf)
	cur := uid
	buf = append(buf, cur)
	for cur != vid {
		next, ok := fw.NextWithMapping(cur, vid)
		if !ok {
			return buf[:start], errors.Wrapf(ErrPathNotFound, "from %d to %d", uid, vid)
		}
		cur = next
		buf = append(buf, cur)
	}
	return buf, nil
}
