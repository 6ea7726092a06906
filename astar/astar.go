// Package astar implements A* over a fixed adjacency list with a
// pluggable heuristic, plus an optional id↔index entity mapping for
// callers who prefer to address nodes by entity id and real-world
// position rather than raw graph indices. The priority queue is a
// concrete-typed min-heap (no container/heap boxing), the same shape as
// the teacher corpus's Dijkstra routing priority queue.
package astar

import (
	"math"

	"github.com/pkg/errors"

	"simkit/geometry"
	"simkit/graph"
	"simkit/sparseset"
)

// Unsigned constrains edge weights to unsigned integer types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// ErrPathNotFound is the package's path-not-found sentinel. FindPath and
// FindPathWithMapping do not return it; they report an unreachable dest
// with ok == false.
var ErrPathNotFound = errors.New("astar: path not found")

// noParent is the "no predecessor" sentinel for came_from.
const noParent = math.MaxUint32

func maxValue[W Unsigned]() W {
	var zero W
	return ^zero
}

func saturatingAdd[W Unsigned](a, b W) W {
	sum := a + b
	if sum < a {
		return maxValue[W]()
	}
	return sum
}

// Heuristic names one of the built-in distance estimators usable with
// SetHeuristic. Setting a tag clears any custom heuristic function;
// setting a custom function (SetCustomHeuristic) overrides the tag.
type Heuristic int

const (
	HeuristicZero Heuristic = iota
	HeuristicEuclidean
	HeuristicManhattan
	HeuristicChebyshev
	HeuristicOctile
)

// HeuristicFn estimates the remaining cost from a to b.
type HeuristicFn func(a, b geometry.Position) float32

func evalHeuristic(tag Heuristic, a, b geometry.Position) float32 {
	dx := absf32(a.X - b.X)
	dy := absf32(a.Y - b.Y)
	switch tag {
	case HeuristicEuclidean:
		return float32(math.Sqrt(float64(dx*dx + dy*dy)))
	case HeuristicManhattan:
		return dx + dy
	case HeuristicChebyshev:
		if dx > dy {
			return dx
		}
		return dy
	case HeuristicOctile:
		const sqrt2MinusOne = 0.41421356237
		if dx > dy {
			return dx + sqrt2MinusOne*dy
		}
		return dy + sqrt2MinusOne*dx
	default:
		return 0
	}
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

type heapItem struct {
	node uint32
	f    float32
}

// minHeap is a concrete-typed binary min-heap keyed on f-score, avoiding
// the interface-boxing overhead of container/heap for a type this hot.
type minHeap struct {
	items []heapItem
}

func (h *minHeap) Len() int { return len(h.items) }

func (h *minHeap) Push(node uint32, f float32) {
	h.items = append(h.items, heapItem{node, f})
	h.siftUp(len(h.items) - 1)
}

func (h *minHeap) Pop() heapItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *minHeap) Reset() { h.items = h.items[:0] }

func (h *minHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].f >= h.items[parent].f {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *minHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left, right := 2*i+1, 2*i+2
		if left < n && h.items[left].f < h.items[smallest].f {
			smallest = left
		}
		if right < n && h.items[right].f < h.items[smallest].f {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

type edge[W Unsigned] struct {
	to     uint32
	weight W
}

// AStar finds shortest paths over a fixed-size adjacency list using the
// A* algorithm, with a pluggable heuristic and bitset-based closed set.
type AStar[W Unsigned] struct {
	n   int
	adj [][]edge[W]

	heuristicTag Heuristic
	customFn     HeuristicFn
	positions    *sparseset.SparseSet[uint32, geometry.Position]

	ids *graph.IDMapper

	gScore   []W
	cameFrom []uint32
	closed   []uint64
	open     minHeap
}

// New creates a solver over n nodes (raw index space 0..n-1).
func New[W Unsigned](n int) *AStar[W] {
	a := &AStar[W]{
		n:         n,
		adj:       make([][]edge[W], n),
		positions: sparseset.New[uint32, geometry.Position](uint64(n), n),
		gScore:    make([]W, n),
		cameFrom:  make([]uint32, n),
		closed:    make([]uint64, (n+63)/64),
	}
	return a
}

// NewWithMapping creates a solver over n nodes that also accepts entity ids
// in [0, idSpace) via the *WithMapping methods.
func NewWithMapping[W Unsigned](n int, idSpace uint64) *AStar[W] {
	a := New[W](n)
	a.ids = graph.NewIDMapper(idSpace, n)
	return a
}

// Size returns the node count.
func (a *AStar[W]) Size() int { return a.n }

// AddEdge adds a directed edge u→v of weight w, by raw index. An
// out-of-range u or v is a silent no-op reporting false: raw indices are a
// precondition the caller is expected to already satisfy, unlike entity ids
// at AddEdgeWithMapping, which are registered on demand.
func (a *AStar[W]) AddEdge(u, v int, w W) bool {
	if u < 0 || u >= a.n || v < 0 || v >= a.n {
		return false
	}
	a.adj[u] = append(a.adj[u], edge[W]{to: uint32(v), weight: w})
	return true
}

// AddEdgeWithMapping adds a directed edge between two entity ids,
// registering either id's index on first sight. Fails if an id is outside
// the mapper's id space or every index has already been assigned.
func (a *AStar[W]) AddEdgeWithMapping(uid, vid uint32, w W) error {
	u, err := a.ids.IndexFor(uid)
	if err != nil {
		return err
	}
	v, err := a.ids.IndexFor(vid)
	if err != nil {
		return err
	}
	a.AddEdge(int(u), int(v), w)
	return nil
}

// SetPosition records the world position of node index idx, used by the
// built-in heuristics.
func (a *AStar[W]) SetPosition(idx uint32, pos geometry.Position) error {
	return a.positions.Put(idx, pos)
}

// SetPositionWithMapping is SetPosition addressed by entity id; the id is
// registered with the index mapping if not already seen.
func (a *AStar[W]) SetPositionWithMapping(id uint32, pos geometry.Position) error {
	idx, err := a.ids.IndexFor(id)
	if err != nil {
		return err
	}
	return a.SetPosition(idx, pos)
}

// SetHeuristic selects one of the built-in heuristics and clears any
// custom function.
func (a *AStar[W]) SetHeuristic(tag Heuristic) {
	a.heuristicTag = tag
	a.customFn = nil
}

// SetCustomHeuristic installs a caller-supplied heuristic, overriding the
// tag selected by SetHeuristic.
func (a *AStar[W]) SetCustomHeuristic(fn HeuristicFn) {
	a.customFn = fn
}

func (a *AStar[W]) heuristic(u, v uint32) float32 {
	pu, okU := a.positions.Get(u)
	pv, okV := a.positions.Get(v)
	if !okU || !okV {
		return 0
	}
	if a.customFn != nil {
		return a.customFn(pu, pv)
	}
	return evalHeuristic(a.heuristicTag, pu, pv)
}

func (a *AStar[W]) closedBit(idx uint32) bool {
	return a.closed[idx/64]&(1<<(idx%64)) != 0
}

func (a *AStar[W]) setClosedBit(idx uint32) {
	a.closed[idx/64] |= 1 << (idx % 64)
}

func (a *AStar[W]) resetState() {
	inf := maxValue[W]()
	for i := range a.gScore {
		a.gScore[i] = inf
		a.cameFrom[i] = noParent
	}
	for i := range a.closed {
		a.closed[i] = 0
	}
	a.open.Reset()
}

// FindPath searches from source to dest (raw indices) and appends the
// resulting path onto outPath. Returns the total cost and true on success;
// on failure outPath is left unmodified and ok is false.
func (a *AStar[W]) FindPath(source, dest int, outPath []int) (cost W, path []int, ok bool) {
	if source == dest {
		return 0, append(outPath, source), true
	}

	a.resetState()
	src, dst := uint32(source), uint32(dest)
	a.gScore[src] = 0
	a.open.Push(src, a.heuristic(src, dst))

	for a.open.Len() > 0 {
		top := a.open.Pop()
		u := top.node
		if u == dst {
			return a.gScore[dst], a.reconstructPath(src, dst, outPath), true
		}
		if a.closedBit(u) {
			continue
		}
		a.setClosedBit(u)

		for _, e := range a.adj[u] {
			if a.closedBit(e.to) {
				continue
			}
			tentative := saturatingAdd(a.gScore[u], e.weight)
			if tentative < a.gScore[e.to] {
				a.cameFrom[e.to] = u
				a.gScore[e.to] = tentative
				f := float32(tentative) + a.heuristic(e.to, dst)
				a.open.Push(e.to, f)
			}
		}
	}
	return 0, nil, false
}

func (a *AStar[W]) reconstructPath(src, dst uint32, outPath []int) []int {
	start := len(outPath)
	cur := dst
	for {
		outPath = append(outPath, int(cur))
		if cur == src {
			break
		}
		cur = a.cameFrom[cur]
	}
	// reverse the newly appended segment in place
	for i, j := start, len(outPath)-1; i < j; i, j = i+1, j-1 {
		outPath[i], outPath[j] = outPath[j], outPath[i]
	}
	return outPath
}

// FindPathWithMapping is FindPath addressed by entity id.
func (a *AStar[W]) FindPathWithMapping(sourceID, destID uint32, outPath []uint32) (cost W, path []uint32, ok bool) {
	src, found := a.ids.IndexOf(sourceID)
	if !found {
		return 0, nil, false
	}
	dst, found := a.ids.IndexOf(destID)
	if !found {
		return 0, nil, false
	}
	idxBuf := make([]int, 0, 8)
	cost, idxPath, ok := a.FindPath(int(src), int(dst), idxBuf)
	if !ok {
		return 0, nil, false
	}
	for _, idx := range idxPath {
		outPath = append(outPath, a.ids.IDAt(uint32(idx)))
	}
	return cost, outPath, true
}
