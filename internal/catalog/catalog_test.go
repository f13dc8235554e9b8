package catalog

import "testing"

func TestSnapshotSortsByNameLocaleAware(t *testing.T) {
	snap := NewSnapshot([]Entry{
		{ID: 1, Name: "Zamorak brew"},
		{ID: 2, Name: "air rune"},
		{ID: 3, Name: "Bronze axe"},
	})

	got := snap.Entries()
	want := []int64{2, 3, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected id %d, got %d (%s)", i, id, got[i].ID, got[i].Name)
		}
	}
}

func TestSnapshotGet(t *testing.T) {
	snap := NewSnapshot([]Entry{{ID: 4151, Name: "Abyssal whip"}})

	if _, ok := snap.Get(4151); !ok {
		t.Fatal("expected id 4151 to resolve")
	}
	if _, ok := snap.Get(9999); ok {
		t.Fatal("unknown id should not resolve")
	}
}

func TestIndexReplaceIsWholesale(t *testing.T) {
	idx := NewIndex()
	if idx.Len() != 0 {
		t.Fatal("empty index should report zero entries")
	}

	idx.Replace(NewSnapshot([]Entry{{ID: 1, Name: "Coal"}, {ID: 2, Name: "Iron ore"}}))
	idx.Replace(NewSnapshot([]Entry{{ID: 3, Name: "Rune bar"}}))

	if idx.Len() != 1 {
		t.Fatalf("replace should drop the previous snapshot, got %d entries", idx.Len())
	}
	if _, ok := idx.Get(1); ok {
		t.Fatal("entry from the previous snapshot should be gone")
	}
	if _, ok := idx.Get(3); !ok {
		t.Fatal("entry from the new snapshot should resolve")
	}
}

func TestNilSnapshotIsEmpty(t *testing.T) {
	var snap *Snapshot
	if snap.Len() != 0 || snap.Entries() != nil {
		t.Fatal("nil snapshot should behave as empty")
	}
	if _, ok := snap.Get(1); ok {
		t.Fatal("nil snapshot should not resolve ids")
	}
}
