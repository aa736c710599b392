package catalog

import (
	"strings"
	"sync/atomic"
)

// Index is an immutable snapshot of the load catalog. All filtering is over
// the slice captured at build time; nothing mutates it after construction.
type Index struct {
	loads []Load
}

func NewIndex(loads []Load) *Index {
	snapshot := make([]Load, len(loads))
	copy(snapshot, loads)
	return &Index{loads: snapshot}
}

func (idx *Index) Size() int {
	return len(idx.loads)
}

// Search applies every set filter conjunctively. String filters match the
// stored field exactly, case-insensitively; a load missing a filtered field
// is excluded, never wildcard-matched. Results keep catalog order.
func (idx *Index) Search(q Query) []Load {
	out := make([]Load, 0, len(idx.loads))
	for _, load := range idx.loads {
		if matches(load, q) {
			out = append(out, load)
		}
	}
	return out
}

func matches(load Load, q Query) bool {
	if !fieldMatches(q.OriginCity, load.OriginCity) {
		return false
	}
	if !fieldMatches(q.OriginState, load.OriginState) {
		return false
	}
	if !fieldMatches(q.DestinationCity, load.DestinationCity) {
		return false
	}
	if !fieldMatches(q.DestinationState, load.DestinationState) {
		return false
	}
	if !fieldMatches(q.EquipmentType, load.EquipmentType) {
		return false
	}
	if q.PickupDate != "" && q.PickupDate != datePortion(load.PickupDatetime) {
		return false
	}
	return true
}

func fieldMatches(filter, value string) bool {
	if filter == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(filter), strings.TrimSpace(value))
}

// datePortion takes the calendar date as stored, with no timezone
// normalization.
func datePortion(datetime string) string {
	if len(datetime) < 10 {
		return ""
	}
	return datetime[:10]
}

// Catalog is the process-wide handle to the active index. Reads are
// lock-free; a reload swaps in a fully built replacement index atomically so
// no query ever observes a half-built one.
type Catalog struct {
	active atomic.Pointer[Index]
	source string
}

func NewCatalog(source string) (*Catalog, error) {
	idx, err := BuildFromSource(source)
	if err != nil {
		return nil, err
	}

	c := &Catalog{source: source}
	c.active.Store(idx)
	return c, nil
}

func (c *Catalog) Search(q Query) []Load {
	return c.active.Load().Search(q)
}

func (c *Catalog) Size() int {
	return c.active.Load().Size()
}

// Reload rebuilds the index from the configured source and swaps it in.
func (c *Catalog) Reload() error {
	idx, err := BuildFromSource(c.source)
	if err != nil {
		return err
	}
	c.active.Store(idx)
	return nil
}
