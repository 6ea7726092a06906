// Command bench exercises every solver in this module end to end against a
// randomly generated workload, logging timing for each stage and writing a
// pair of debug PNGs. It is dev tooling for manually sanity-checking the
// library, not part of the library's own interface.
package main

import (
	"flag"
	"log"
	"math/rand"
	"time"

	"simkit/astar"
	"simkit/broadphase"
	"simkit/debugrender"
	"simkit/floydwarshall"
	"simkit/geometry"
	"simkit/metrics"
	"simkit/quadtree"
	"simkit/sparseset"
	"simkit/zbucket"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	entityCount := flag.Int("entities", 500, "number of entities to simulate")
	graphSize := flag.Int("graph-size", 80, "node count for the pathfinding graphs")
	edgeCount := flag.Int("edges", 400, "directed edge count for the pathfinding graphs")
	seed := flag.Int64("seed", 1, "random seed")
	outDir := flag.String("out", ".", "directory to write debug PNGs into")
	flag.Parse()

	log.Println("================================")
	log.Println("  SIMKIT BENCH")
	log.Println("================================")

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	rng := rand.New(rand.NewSource(*seed))

	runQuadTree(rng, *entityCount, *outDir)
	runSweepAndPrune(rng, *entityCount, m, *outDir)
	runZIndexBuckets(rng, *entityCount)
	runSparseSet(rng, *entityCount)
	runFloydWarshall(rng, *graphSize, *edgeCount)
	runFloydWarshallOptimized(rng, *graphSize, *edgeCount, m)
	runAStar(rng, *graphSize, *edgeCount)

	log.Println("Bench complete.")
}

func randomPosition(rng *rand.Rand, extent float32) geometry.Position {
	return geometry.Position{
		X: rng.Float32()*extent - extent/2,
		Y: rng.Float32()*extent - extent/2,
	}
}

func runQuadTree(rng *rand.Rand, n int, outDir string) {
	start := time.Now()
	qt := quadtree.New[int](geometry.Rectangle{X: -500, Y: -500, Width: 1000, Height: 1000})
	for i := 0; i < n; i++ {
		qt.Insert(i, randomPosition(rng, 900))
	}
	log.Printf("quadtree: inserted %d points in %v (count=%d)", n, time.Since(start), qt.Count())

	path := outDir + "/quadtree.png"
	if err := debugrender.QuadTree(qt, 1024, 1024, debugrender.Style{}, path); err != nil {
		log.Printf("quadtree: debug render failed: %v", err)
		return
	}
	log.Printf("quadtree: wrote %s", path)
}

func runSweepAndPrune(rng *rand.Rand, n int, m *metrics.Metrics, outDir string) {
	sap := broadphase.New[int]()
	sap.SetMetrics(m)
	for i := 0; i < n; i++ {
		pos := randomPosition(rng, 900)
		sap.Add(i, geometry.AABB{CenterX: pos.X, CenterY: pos.Y, HalfWidth: 8, HalfHeight: 8})
	}

	start := time.Now()
	pairs := sap.FindCollisions(make([]broadphase.CollisionPair[int], 0, n))
	log.Printf("broadphase: found %d pairs among %d entities in %v", len(pairs), n, time.Since(start))

	path := outDir + "/sweepandprune.png"
	if err := debugrender.SweepAndPrune(sap, 1024, 1024, debugrender.Style{}, path); err != nil {
		log.Printf("broadphase: debug render failed: %v", err)
		return
	}
	log.Printf("broadphase: wrote %s", path)
}

func runZIndexBuckets(rng *rand.Rand, n int) {
	buckets := zbucket.New[int, uint8](256, nil)
	for i := 0; i < n; i++ {
		buckets.Insert(i, uint8(rng.Intn(256)))
	}
	log.Printf("zbucket: %d items across %d buckets (total=%d)", n, buckets.NumBuckets(), buckets.TotalCount())
}

func runSparseSet(rng *rand.Rand, n int) {
	set := sparseset.New[uint32, float32](uint64(n), n)
	for i := 0; i < n; i++ {
		if err := set.Put(uint32(i), rng.Float32()); err != nil {
			log.Printf("sparseset: put failed: %v", err)
			return
		}
	}
	log.Printf("sparseset: stored %d entries (len=%d, cap=%d)", n, set.Len(), set.Cap())
}

// randomGraphEdges generates a random directed edge list over [0, n) nodes
// with uint32 weights in [1, 100], used by both the floydwarshall and
// astar runs so their timings are comparable.
func randomGraphEdges(rng *rand.Rand, n, edgeCount int) [][3]uint32 {
	edges := make([][3]uint32, edgeCount)
	for i := range edges {
		u := uint32(rng.Intn(n))
		v := uint32(rng.Intn(n))
		w := uint32(1 + rng.Intn(100))
		edges[i] = [3]uint32{u, v, w}
	}
	return edges
}

func runFloydWarshall(rng *rand.Rand, n, edgeCount int) {
	edges := randomGraphEdges(rng, n, edgeCount)

	fw := floydwarshall.New[uint32](0)
	fw.Resize(n)
	fw.Clean()
	for _, e := range edges {
		if err := fw.AddEdge(int(e[0]), int(e[1]), e[2]); err != nil {
			log.Printf("floydwarshall: add edge failed: %v", err)
			return
		}
	}

	start := time.Now()
	fw.Generate()
	log.Printf("floydwarshall: scalar generate over %d nodes / %d edges in %v", n, edgeCount, time.Since(start))
}

func runFloydWarshallOptimized(rng *rand.Rand, n, edgeCount int, m *metrics.Metrics) {
	edges := randomGraphEdges(rng, n, edgeCount)

	fw := floydwarshall.NewOptimized(0)
	fw.SetMetrics(m)
	fw.Resize(n)
	fw.Clean()
	for _, e := range edges {
		if err := fw.AddEdge(int(e[0]), int(e[1]), e[2]); err != nil {
			log.Printf("floydwarshall(optimized): add edge failed: %v", err)
			return
		}
	}

	start := time.Now()
	fw.Generate()
	log.Printf("floydwarshall: optimized generate over %d nodes / %d edges in %v", n, edgeCount, time.Since(start))
}

func runAStar(rng *rand.Rand, n, edgeCount int) {
	edges := randomGraphEdges(rng, n, edgeCount)

	a := astar.New[uint32](n)
	a.SetHeuristic(astar.HeuristicEuclidean)
	for i := 0; i < n; i++ {
		a.SetPosition(uint32(i), randomPosition(rng, 900))
	}
	for _, e := range edges {
		a.AddEdge(int(e[0]), int(e[1]), e[2])
	}

	start := time.Now()
	cost, path, ok := a.FindPath(0, n-1, make([]int, 0, n))
	if !ok {
		log.Printf("astar: no path from 0 to %d after %v", n-1, time.Since(start))
		return
	}
	log.Printf("astar: found path of %d hops, cost=%d, in %v", len(path), cost, time.Since(start))
}
