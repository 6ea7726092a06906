// Package floydwarshall implements the dense all-pairs shortest path
// algorithm over a fixed-size node index space, with an optional id↔index
// bijection (backed by sparseset.SparseSet) for callers who want to key
// edges and queries by arbitrary entity ids instead of raw 0..n-1 indices.
package floydwarshall

import (
	"github.com/pkg/errors"

	"simkit/graph"
)

// Unsigned constrains edge weights to unsigned integer types.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// ErrPathNotFound is returned by Path/PathWithMapping when no route exists
// between the requested nodes.
var ErrPathNotFound = errors.New("floydwarshall: path not found")

// ErrIndexOutOfRange is returned by AddEdge when an index falls outside
// [0, size). Value and Next report such indices as no path, so Path fails
// on them with ErrPathNotFound.
var ErrIndexOutOfRange = errors.New("floydwarshall: index out of range")

// ErrSizeOverflow is returned by Resize when n*n would overflow int.
var ErrSizeOverflow = errors.New("floydwarshall: size overflow")

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

// FloydWarshall computes all-pairs shortest paths over a dense n×n weight
// matrix. Lifecycle: New → Resize → Clean → AddEdge* → Generate →
// Value/Next/Path queries → Clean (to reuse) → drop the reference.
type FloydWarshall[W Unsigned] struct {
	n       int
	dist    []W
	next    []uint32
	idSpace uint64

	ids *graph.IDMapper
}

// New creates an empty solver. idSpace bounds the range of ids accepted by
// the *WithMapping methods; pass 0 if only the raw-index API will be used.
func New[W Unsigned](idSpace uint64) *FloydWarshall[W] {
	return &FloydWarshall[W]{idSpace: idSpace}
}

// Size returns the current node count.
func (fw *FloydWarshall[W]) Size() int { return fw.n }

// Resize grows the dist/next matrices to hold n nodes, reallocating only
// when n exceeds the current backing capacity. Existing cell values are
// not preserved; call Clean afterward to reinitialize them. Fails with
// ErrSizeOverflow if n*n would overflow int, leaving the solver unchanged.
func (fw *FloydWarshall[W]) Resize(n int) error {
	needed, err := squareSize(n)
	if err != nil {
		return err
	}
	fw.n = n
	if cap(fw.dist) < needed {
		fw.dist = make([]W, needed)
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

// squareSize computes n*n, reporting ErrSizeOverflow instead of wrapping
// silently when the product would exceed what int can represent.
func squareSize(n int) (int, error) {
	if n < 0 {
		return 0, errors.Wrapf(ErrSizeOverflow, "negative size %d", n)
	}
	needed := n * n
	if n != 0 && needed/n != n {
		return 0, errors.Wrapf(ErrSizeOverflow, "size %d squared overflows int", n)
	}
	return needed, nil
}

// Clean resets dist to the identity state (0 on the diagonal, INF
// elsewhere) and next[i][j] = j, ready for a fresh set of AddEdge calls.
func (fw *FloydWarshall[W]) Clean() {
	inf := maxValue[W]()
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

func (fw *FloydWarshall[W]) at(i, j int) int { return i*fw.n + j }

// AddEdge records a directed edge u→v of weight w, by raw index. Indices
// must satisfy 0 <= u,v < Size(). If u→v already holds a lighter or equal
// weight, that weight is kept.
func (fw *FloydWarshall[W]) AddEdge(u, v int, w W) error {
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

// AddEdgeWithMapping sets a directed edge between two entity ids, assigning
// each a fresh internal index the first time it is seen.
func (fw *FloydWarshall[W]) AddEdgeWithMapping(uid, vid uint32, w W) error {
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

// Generate runs the Floyd-Warshall relaxation over the current dist/next
// matrices. Source-side and destination-side INF pruning skip work for
// pairs with no path through the current pivot.
func (fw *FloydWarshall[W]) Generate() {
	n := fw.n
	inf := maxValue[W]()
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
				candidate := saturatingAdd(dik, dkj)
				ij := fw.at(i, j)
				if candidate < fw.dist[ij] {
					fw.dist[ij] = candidate
					fw.next[ij] = fw.next[fw.at(i, k)]
				}
			}
		}
	}
}

// Value returns dist[u][v] and whether a path exists (dist != INF).
func (fw *FloydWarshall[W]) Value(u, v int) (W, bool) {
	if u < 0 || u >= fw.n || v < 0 || v >= fw.n {
		return maxValue[W](), false
	}
	d := fw.dist[fw.at(u, v)]
	return d, d != maxValue[W]()
}

// Next returns the first-hop index on the shortest path from u to v, and
// whether a path exists.
func (fw *FloydWarshall[W]) Next(u, v int) (uint32, bool) {
	if _, ok := fw.Value(u, v); !ok {
		return 0, false
	}
	return fw.next[fw.at(u, v)], true
}

// NextWithMapping is Next, translating the result back through the
// idx→id mapping.
func (fw *FloydWarshall[W]) NextWithMapping(uid, vid uint32) (uint32, bool) {
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

// Path appends the sequence of indices from u to v (inclusive) onto buf,
// following Next hops, and returns the extended slice. If no path exists
// buf is returned unchanged (truncated back to its original length) and
// ErrPathNotFound is returned.
func (fw *FloydWarshall[W]) Path(buf []int, u, v int) ([]int, error) {
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

// SetPathWithMapping is Path expressed in entity ids via the idx↔id
// bijection.
func (fw *FloydWarshall[W]) SetPathWithMapping(buf []uint32, uid, vid uint32) ([]uint32, error) {
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
