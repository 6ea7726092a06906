package astar

import (
	"math"
	"testing"

	"simkit/geometry"
)

func TestScenarioFZeroHeuristicShortestPath(t *testing.T) {
	a := New[uint64](4)
	a.SetHeuristic(HeuristicZero)
	mustAdd(t, a, 0, 1, 5)
	mustAdd(t, a, 1, 3, 3)
	mustAdd(t, a, 0, 2, 2)
	mustAdd(t, a, 2, 3, 2)

	cost, path, ok := a.FindPath(0, 3, nil)
	if !ok {
		t.Fatal("FindPath(0,3) should succeed")
	}
	if cost != 4 {
		t.Errorf("cost = %d, want 4", cost)
	}
	want := []int{0, 2, 3}
	if len(path) != len(want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("path[%d] = %d, want %d", i, path[i], want[i])
		}
	}
}

func TestScenarioFDisconnectedGraphReturnsNone(t *testing.T) {
	a := New[uint64](4)
	a.SetHeuristic(HeuristicZero)
	mustAdd(t, a, 0, 1, 1)
	// Node 3 has no incoming edge from {0,1,2}: unreachable.

	_, path, ok := a.FindPath(0, 3, nil)
	if ok {
		t.Error("FindPath across a disconnected graph should return None")
	}
	if path != nil {
		t.Errorf("failed FindPath must not populate a path, got %v", path)
	}
}

func mustAdd(t *testing.T, a *AStar[uint64], u, v int, w uint64) {
	t.Helper()
	if !a.AddEdge(u, v, w) {
		t.Fatalf("AddEdge(%d,%d,%d) should succeed", u, v, w)
	}
}

func TestSourceEqualsDestReturnsSingletonPath(t *testing.T) {
	a := New[uint64](3)
	cost, path, ok := a.FindPath(1, 1, nil)
	if !ok || cost != 0 {
		t.Fatalf("FindPath(1,1) = (%d,%v), want (0,true)", cost, ok)
	}
	if len(path) != 1 || path[0] != 1 {
		t.Errorf("path = %v, want [1]", path)
	}
}

func TestCostEqualsSumOfEdgeWeightsAlongPath(t *testing.T) {
	a := New[uint32](5)
	a.SetHeuristic(HeuristicZero)
	mustAdd32(t, a, 0, 1, 3)
	mustAdd32(t, a, 1, 2, 4)
	mustAdd32(t, a, 2, 3, 5)
	mustAdd32(t, a, 0, 3, 100)

	cost, path, ok := a.FindPath(0, 3, nil)
	if !ok {
		t.Fatal("FindPath should succeed")
	}
	var sum uint32
	for i := 0; i+1 < len(path); i++ {
		sum += edgeWeight(t, a, path[i], path[i+1])
	}
	if sum != cost {
		t.Errorf("sum of edge weights = %d, cost returned = %d", sum, cost)
	}
	if path[0] != 0 || path[len(path)-1] != 3 {
		t.Errorf("path endpoints = %v, want first=0 last=3", path)
	}
}

func edgeWeight(t *testing.T, a *AStar[uint32], u, v int) uint32 {
	t.Helper()
	for _, e := range a.adj[u] {
		if int(e.to) == v {
			return e.weight
		}
	}
	t.Fatalf("no edge %d->%d in adjacency list", u, v)
	return 0
}

func mustAdd32(t *testing.T, a *AStar[uint32], u, v int, w uint32) {
	t.Helper()
	if !a.AddEdge(u, v, w) {
		t.Fatalf("AddEdge(%d,%d,%d) should succeed", u, v, w)
	}
}

func TestZeroHeuristicMatchesEuclideanOnOptimalCost(t *testing.T) {
	// Dijkstra equivalence: with an admissible (here, Euclidean) heuristic the
	// search must still find the same optimal cost as zero-heuristic search.
	grid := New[uint32](4)
	gridEuclid := New[uint32](4)
	positions := []geometry.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	edges := [][3]int{{0, 1, 1}, {1, 3, 1}, {0, 2, 1}, {2, 3, 1}}

	for idx, pos := range positions {
		grid.SetPosition(uint32(idx), pos)
		gridEuclid.SetPosition(uint32(idx), pos)
	}
	for _, e := range edges {
		mustAdd32(t, grid, e[0], e[1], uint32(e[2]))
		mustAdd32(t, gridEuclid, e[0], e[1], uint32(e[2]))
	}
	grid.SetHeuristic(HeuristicZero)
	gridEuclid.SetHeuristic(HeuristicEuclidean)

	zeroCost, _, zeroOk := grid.FindPath(0, 3, nil)
	euclidCost, _, euclidOk := gridEuclid.FindPath(0, 3, nil)
	if !zeroOk || !euclidOk {
		t.Fatal("both searches should find a path")
	}
	if zeroCost != euclidCost {
		t.Errorf("zero-heuristic cost=%d, euclidean cost=%d, want equal optimal cost", zeroCost, euclidCost)
	}
}

func TestAddEdgeOutOfRangeIsSilentNoop(t *testing.T) {
	a := New[uint64](3)
	if a.AddEdge(-1, 1, 5) {
		t.Error("AddEdge with negative u should report false")
	}
	if a.AddEdge(0, 3, 5) {
		t.Error("AddEdge with v >= n should report false")
	}
	if a.AddEdge(5, 1, 5) {
		t.Error("AddEdge with u >= n should report false")
	}
	for _, row := range a.adj {
		if len(row) != 0 {
			t.Errorf("out-of-range AddEdge calls must not mutate adjacency, got %v", a.adj)
		}
	}
}

func TestOctileIdentity(t *testing.T) {
	a := geometry.Position{X: 0, Y: 0}
	b := geometry.Position{X: 3, Y: 5}
	dx, dy := float64(3), float64(5)
	maxVal, minVal := dy, dx
	want := maxVal + (math.Sqrt2-1)*minVal

	got := evalHeuristic(HeuristicOctile, a, b)
	if diff := math.Abs(float64(got) - want); diff > 1e-3 {
		t.Errorf("octile(%v,%v) = %f, want %f within 1e-3", a, b, got, want)
	}
}

func TestSetCustomHeuristicOverridesTag(t *testing.T) {
	a := New[uint64](2)
	a.SetHeuristic(HeuristicEuclidean)
	a.SetCustomHeuristic(func(p, q geometry.Position) float32 { return 42 })
	a.SetPosition(0, geometry.Position{X: 0, Y: 0})
	a.SetPosition(1, geometry.Position{X: 0, Y: 0})
	if h := a.heuristic(0, 1); h != 42 {
		t.Errorf("heuristic() = %v, want the custom function's 42", h)
	}
	a.SetHeuristic(HeuristicZero)
	if h := a.heuristic(0, 1); h != 0 {
		t.Errorf("SetHeuristic should clear the custom function; got %v", h)
	}
}

func TestEntityMappedFindPath(t *testing.T) {
	a := NewWithMapping[uint32](3, 1000)
	mustAddMapped(t, a, 10, 20, 1)
	mustAddMapped(t, a, 20, 30, 1)
	a.SetHeuristic(HeuristicZero)

	cost, path, ok := a.FindPathWithMapping(10, 30, nil)
	if !ok {
		t.Fatal("FindPathWithMapping should succeed")
	}
	if cost != 2 {
		t.Errorf("cost = %d, want 2", cost)
	}
	want := []uint32{10, 20, 30}
	if len(path) != len(want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("path[%d] = %d, want %d", i, path[i], want[i])
		}
	}
}

func mustAddMapped(t *testing.T, a *AStar[uint32], uid, vid, w uint32) {
	t.Helper()
	if err := a.AddEdgeWithMapping(uid, vid, w); err != nil {
		t.Fatalf("AddEdgeWithMapping(%d,%d,%d): %v", uid, vid, w, err)
	}
}
