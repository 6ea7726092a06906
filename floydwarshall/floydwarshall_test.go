package floydwarshall

import (
	"errors"
	"testing"
)

func TestScenarioDShortestPathAndNextHop(t *testing.T) {
	fw := New[uint32](0)
	fw.Resize(4)
	fw.Clean()
	mustAddEdge(t, fw, 0, 1, 5)
	mustAddEdge(t, fw, 1, 3, 3)
	mustAddEdge(t, fw, 0, 2, 2)
	mustAddEdge(t, fw, 2, 3, 2)

	fw.Generate()

	dist, ok := fw.Value(0, 3)
	if !ok || dist != 4 {
		t.Fatalf("dist(0,3) = (%d, %v), want (4, true)", dist, ok)
	}
	next, ok := fw.Next(0, 3)
	if !ok || next != 2 {
		t.Fatalf("next(0,3) = (%d, %v), want (2, true)", next, ok)
	}

	path, err := fw.Path(nil, 0, 3)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	want := []int{0, 2, 3}
	if len(path) != len(want) {
		t.Fatalf("Path = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("Path[%d] = %d, want %d", i, path[i], want[i])
		}
	}
}

func mustAddEdge(t *testing.T, fw *FloydWarshall[uint32], u, v int, w uint32) {
	t.Helper()
	if err := fw.AddEdge(u, v, w); err != nil {
		t.Fatalf("AddEdge(%d,%d,%d): %v", u, v, w, err)
	}
}

func TestScenarioEPathReconstructionWithMapping(t *testing.T) {
	fw := New[uint32](64)
	fw.Resize(4)
	fw.Clean()
	if err := fw.AddEdgeWithMapping(10, 20, 1); err != nil {
		t.Fatalf("AddEdgeWithMapping: %v", err)
	}
	if err := fw.AddEdgeWithMapping(20, 30, 1); err != nil {
		t.Fatalf("AddEdgeWithMapping: %v", err)
	}
	if err := fw.AddEdgeWithMapping(30, 40, 1); err != nil {
		t.Fatalf("AddEdgeWithMapping: %v", err)
	}

	fw.Generate()

	path, err := fw.SetPathWithMapping(nil, 10, 40)
	if err != nil {
		t.Fatalf("SetPathWithMapping: %v", err)
	}
	want := []uint32{10, 20, 30, 40}
	if len(path) != len(want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("path[%d] = %d, want %d", i, path[i], want[i])
		}
	}
}

func TestNoPathReturnsErrPathNotFound(t *testing.T) {
	fw := New[uint32](0)
	fw.Resize(3)
	fw.Clean()
	mustAddEdge(t, fw, 0, 1, 1)
	fw.Generate()

	if _, ok := fw.Value(0, 2); ok {
		t.Error("Value(0,2) should report no path")
	}
	buf := []int{99}
	out, err := fw.Path(buf, 0, 2)
	if err == nil {
		t.Fatal("Path should fail when no route exists")
	}
	if len(out) != 1 || out[0] != 99 {
		t.Errorf("Path must truncate buf back to its original length on failure, got %v", out)
	}
}

func TestTriangleInequalityHolds(t *testing.T) {
	fw := New[uint8](0)
	fw.Resize(3)
	fw.Clean()
	mustAddEdge8(t, fw, 0, 1, 90)
	mustAddEdge8(t, fw, 1, 2, 90)
	mustAddEdge8(t, fw, 0, 2, 200)
	fw.Generate()

	dik, _ := fw.Value(0, 1)
	dkj, _ := fw.Value(1, 2)
	dij, ok := fw.Value(0, 2)
	if !ok {
		t.Fatal("expected a path from 0 to 2")
	}
	if dij > saturatingAdd(dik, dkj) {
		t.Errorf("triangle inequality violated: dist(0,2)=%d > dist(0,1)+dist(1,2)=%d", dij, saturatingAdd(dik, dkj))
	}
	if dij != 180 {
		t.Errorf("dist(0,2) = %d, want the relaxed 0->1->2 route of 180", dij)
	}
}

func TestSaturatingAddClampsAtMaxValueAndReadsAsNoPath(t *testing.T) {
	fw := New[uint8](0)
	fw.Resize(3)
	fw.Clean()
	mustAddEdge8(t, fw, 0, 1, 200)
	mustAddEdge8(t, fw, 1, 2, 200)
	fw.Generate()

	if saturatingAdd(uint8(200), uint8(200)) != maxValue[uint8]() {
		t.Fatalf("saturatingAdd(200,200) = %d, want %d", saturatingAdd(uint8(200), uint8(200)), maxValue[uint8]())
	}
	// A route whose saturated cost collides with the INF sentinel is
	// indistinguishable from "no path" by construction.
	if _, ok := fw.Value(0, 2); ok {
		t.Error("a saturated-to-INF route must read back as no path")
	}
}

func mustAddEdge8(t *testing.T, fw *FloydWarshall[uint8], u, v int, w uint8) {
	t.Helper()
	if err := fw.AddEdge(u, v, w); err != nil {
		t.Fatalf("AddEdge(%d,%d,%d): %v", u, v, w, err)
	}
}

func TestResizeReportsSizeOverflow(t *testing.T) {
	fw := New[uint32](0)
	const huge = 1 << 32 // huge*huge overflows a 64-bit int
	if err := fw.Resize(huge); !errors.Is(err, ErrSizeOverflow) {
		t.Fatalf("Resize(%d) = %v, want ErrSizeOverflow", huge, err)
	}
	if fw.Size() != 0 {
		t.Errorf("Size() after failed Resize = %d, want unchanged 0", fw.Size())
	}
}

func TestCleanResetsForReuse(t *testing.T) {
	fw := New[uint32](0)
	fw.Resize(2)
	fw.Clean()
	mustAddEdge(t, fw, 0, 1, 7)
	fw.Generate()
	if d, _ := fw.Value(0, 1); d != 7 {
		t.Fatalf("Value(0,1) = %d, want 7", d)
	}

	fw.Clean()
	if _, ok := fw.Value(0, 1); ok {
		t.Error("Clean should reset dist(0,1) back to INF")
	}
	if d, _ := fw.Value(0, 0); d != 0 {
		t.Errorf("Value(0,0) after Clean = %d, want 0", d)
	}
}
