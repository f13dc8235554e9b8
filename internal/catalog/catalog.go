package catalog

import (
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Entry is a single catalog item as delivered by the mapping provider.
// Entries are immutable once created; a reload replaces the full set.
type Entry struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Examine    string `json:"examine"`
	Members    bool   `json:"members"`
	LowAlch    *int64 `json:"lowalch,omitempty"`
	HighAlch   *int64 `json:"highalch,omitempty"`
	BuyLimit   *int64 `json:"limit,omitempty"`
	StoreValue int64  `json:"value"`
	IconKey    string `json:"icon"`
}

// Snapshot is an immutable view of the catalog: entries sorted by display
// name ascending (locale-aware), plus an id index for direct lookup.
type Snapshot struct {
	entries []Entry
	byID    map[int64]Entry
}

// NewSnapshot builds a snapshot from the raw provider order. The input slice
// is copied and sorted; the caller may reuse it afterwards.
func NewSnapshot(entries []Entry) *Snapshot {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	coll := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(sorted, func(i, j int) bool {
		return coll.CompareString(sorted[i].Name, sorted[j].Name) < 0
	})

	byID := make(map[int64]Entry, len(sorted))
	for _, e := range sorted {
		byID[e.ID] = e
	}

	return &Snapshot{entries: sorted, byID: byID}
}

// Entries returns the sorted entry slice. Callers must not mutate it.
func (s *Snapshot) Entries() []Entry {
	if s == nil {
		return nil
	}
	return s.entries
}

// Get looks up an entry by id.
func (s *Snapshot) Get(id int64) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	e, ok := s.byID[id]
	return e, ok
}

// Len reports the number of entries in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Index owns the current catalog snapshot. It has a single writer (the
// aggregator) and any number of readers; the snapshot itself is immutable,
// so readers only pay for the pointer load.
type Index struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// NewIndex constructs an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Replace swaps in a new snapshot wholesale. No merging with the previous
// snapshot takes place.
func (i *Index) Replace(snap *Snapshot) {
	i.mu.Lock()
	i.snap = snap
	i.mu.Unlock()
}

// Snapshot returns the current snapshot. It is nil until the first load
// completed.
func (i *Index) Snapshot() *Snapshot {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.snap
}

// Get looks up an entry by id in the current snapshot.
func (i *Index) Get(id int64) (Entry, bool) {
	return i.Snapshot().Get(id)
}

// Len reports the size of the current snapshot.
func (i *Index) Len() int {
	return i.Snapshot().Len()
}
