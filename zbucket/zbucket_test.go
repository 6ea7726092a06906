package zbucket

import "testing"

func TestInsertIterateOrder(t *testing.T) {
	b := New[int, uint8](11, nil)
	b.Insert(100, 5)
	b.Insert(200, 10)
	b.Insert(300, 5)

	var got []int
	b.Iterate(func(item int, z uint8) bool {
		got = append(got, item)
		return true
	})

	want := []int{100, 300, 200}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Iterate order[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if b.TotalCount() != 3 {
		t.Errorf("TotalCount() = %d, want 3", b.TotalCount())
	}
}

func TestRemove(t *testing.T) {
	b := New[int, uint8](11, nil)
	b.Insert(100, 5)
	b.Insert(300, 5)

	if !b.Remove(100, 5) {
		t.Fatal("Remove(100, 5) should succeed")
	}
	if b.TotalCount() != 1 {
		t.Errorf("TotalCount() = %d, want 1", b.TotalCount())
	}
	if b.Remove(999, 5) {
		t.Error("Remove of absent item should return false")
	}
}

func TestChangeZIndexScenarioA(t *testing.T) {
	b := New[int, uint8](11, nil)
	b.Insert(100, 5)
	b.Insert(200, 10)
	b.Insert(300, 5)

	if !b.Remove(100, 5) {
		t.Fatal("Remove(100,5) should succeed")
	}
	if b.TotalCount() != 2 {
		t.Fatalf("TotalCount() = %d, want 2", b.TotalCount())
	}

	if err := b.ChangeZIndex(200, 10, 0); err != nil {
		t.Fatalf("ChangeZIndex: %v", err)
	}

	var got []int
	b.Iterate(func(item int, z uint8) bool {
		got = append(got, item)
		return true
	})
	want := []int{200, 300}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestChangeZIndexNotFound(t *testing.T) {
	b := New[int, uint8](11, nil)
	b.Insert(100, 5)
	if err := b.ChangeZIndex(999, 5, 0); err == nil {
		t.Error("expected ErrItemNotFound for an absent item")
	}
}

func TestChangeZIndexSameBucketNoop(t *testing.T) {
	b := New[int, uint8](11, nil)
	b.Insert(100, 5)
	if err := b.ChangeZIndex(100, 5, 5); err != nil {
		t.Fatalf("same-bucket ChangeZIndex should succeed: %v", err)
	}
	if b.TotalCount() != 1 {
		t.Errorf("TotalCount() = %d, want 1", b.TotalCount())
	}
}

func TestClear(t *testing.T) {
	b := New[int, uint8](11, nil)
	b.Insert(1, 0)
	b.Insert(2, 1)
	b.Clear()
	if b.TotalCount() != 0 {
		t.Errorf("TotalCount() after Clear = %d, want 0", b.TotalCount())
	}
	var count int
	b.Iterate(func(int, uint8) bool {
		count++
		return true
	})
	if count != 0 {
		t.Errorf("Iterate after Clear visited %d items, want 0", count)
	}
}

func TestCustomEqualFunc(t *testing.T) {
	type item struct {
		id   int
		tag  string // not relevant for equality
	}
	eq := func(a, b item) bool { return a.id == b.id }
	b := New[item, uint8](2, eq)
	b.Insert(item{id: 1, tag: "a"}, 0)

	if !b.Remove(item{id: 1, tag: "different-tag"}, 0) {
		t.Error("Remove should use the supplied EqualFunc, not struct equality")
	}
}
