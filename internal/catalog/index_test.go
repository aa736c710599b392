package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoads() []Load {
	return []Load{
		{
			LoadID:           "L-1001",
			OriginCity:       "Chicago",
			OriginState:      "IL",
			DestinationCity:  "Dallas",
			DestinationState: "TX",
			PickupDatetime:   "2025-09-08T08:00:00-05:00",
			EquipmentType:    "Dry Van",
			LoadboardRate:    1450,
		},
		{
			LoadID:           "L-1002",
			OriginCity:       "Atlanta",
			OriginState:      "GA",
			DestinationCity:  "Orlando",
			DestinationState: "FL",
			PickupDatetime:   "2025-09-08T07:00:00-05:00",
			EquipmentType:    "Reefer",
			LoadboardRate:    900,
		},
		{
			LoadID:           "L-1003",
			OriginCity:       "Chicago",
			OriginState:      "IL",
			DestinationCity:  "Denver",
			DestinationState: "CO",
			PickupDatetime:   "2025-09-09T10:00:00-06:00",
			EquipmentType:    "Flatbed",
		},
	}
}

func TestSearchEmptyQueryReturnsEverything(t *testing.T) {
	idx := NewIndex(testLoads())

	results := idx.Search(Query{})

	require.Len(t, results, idx.Size())
	assert.Equal(t, "L-1001", results[0].LoadID)
	assert.Equal(t, "L-1002", results[1].LoadID)
	assert.Equal(t, "L-1003", results[2].LoadID)
}

func TestSearchEmptyCatalog(t *testing.T) {
	idx := NewIndex(nil)

	results := idx.Search(Query{OriginCity: "Chicago"})

	assert.Empty(t, results)
	assert.Equal(t, 0, idx.Size())
}

func TestSearchFilters(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		wantIDs []string
	}{
		{
			name:    "single filter matching one load",
			query:   Query{EquipmentType: "Reefer"},
			wantIDs: []string{"L-1002"},
		},
		{
			name:    "case-insensitive city match",
			query:   Query{OriginCity: "chicago"},
			wantIDs: []string{"L-1001", "L-1003"},
		},
		{
			name:    "mixed-case equipment match",
			query:   Query{EquipmentType: "dry van"},
			wantIDs: []string{"L-1001"},
		},
		{
			name:    "conjunctive filters",
			query:   Query{OriginCity: "Chicago", DestinationState: "co"},
			wantIDs: []string{"L-1003"},
		},
		{
			name:    "pickup date matches calendar date portion",
			query:   Query{PickupDate: "2025-09-08"},
			wantIDs: []string{"L-1001", "L-1002"},
		},
		{
			name:    "pickup date plus origin",
			query:   Query{PickupDate: "2025-09-09", OriginCity: "Chicago"},
			wantIDs: []string{"L-1003"},
		},
		{
			name:    "no match",
			query:   Query{OriginCity: "Boston"},
			wantIDs: []string{},
		},
		{
			name:    "exact match only, no substrings",
			query:   Query{OriginCity: "Chi"},
			wantIDs: []string{},
		},
	}

	idx := NewIndex(testLoads())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := idx.Search(tt.query)

			ids := make([]string, 0, len(results))
			for _, load := range results {
				ids = append(ids, load.LoadID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestSearchMissingFieldNeverMatches(t *testing.T) {
	loads := []Load{
		{LoadID: "L-2001", OriginCity: "Chicago"},
		{LoadID: "L-2002"},
	}
	idx := NewIndex(loads)

	results := idx.Search(Query{OriginCity: "Chicago"})

	require.Len(t, results, 1)
	assert.Equal(t, "L-2001", results[0].LoadID)

	// A load without an equipment type is excluded by an equipment filter.
	assert.Empty(t, idx.Search(Query{EquipmentType: "Dry Van"}))
}

func TestIndexSnapshotIsImmutable(t *testing.T) {
	loads := testLoads()
	idx := NewIndex(loads)

	loads[0].OriginCity = "Mutated"

	results := idx.Search(Query{OriginCity: "Chicago"})
	assert.Len(t, results, 2)
}

func TestCatalogReloadSwapsIndex(t *testing.T) {
	dir := t.TempDir()
	path := writeLoadsJSON(t, dir, `[{"load_id":"L-1","origin_city":"Chicago"}]`)

	cat, err := NewCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Size())

	writeLoadsJSON(t, dir, `[{"load_id":"L-1","origin_city":"Chicago"},{"load_id":"L-2","origin_city":"Dallas"}]`)

	require.NoError(t, cat.Reload())
	assert.Equal(t, 2, cat.Size())
}
