// Package resolver reconciles oracle hierarchy entries against the
// printed-page map into validated, non-overlapping physical page
// ranges.
package resolver

import (
	"strings"

	"github.com/docstruct/docstruct/internal/oracle"
	"github.com/docstruct/docstruct/internal/pagemap"
)

// probeOffsets is the bounded search applied when a printed page has no
// exact map entry. Order is priority: the page after first, since TOC
// start pages tend to round down past unnumbered section dividers.
var probeOffsets = []int{1, -1, 2, -2}

// Section is a resolved contiguous physical page range for one title.
type Section struct {
	Title string `json:"title"`
	Start int    `json:"start"` // physical page index, inclusive
	End   int    `json:"end"`   // physical page index, inclusive
}

// FullDocument is the synthetic section callers fall back to when
// resolution yields nothing; downstream consumers always receive at
// least one section.
func FullDocument(totalPages int) Section {
	return Section{Title: "Full Document", Start: 0, End: totalPages - 1}
}

// Resolve walks entries in ascending printed-page order (the order the
// oracle client emits), resolves each start through the map, computes
// each end as one less than the next resolvable start, and drops
// entries that cannot be resolved or that produce an inverted range.
// Dropping is per-entry: one bad entry never aborts the batch.
func Resolve(entries []oracle.TocEntry, m pagemap.Map, totalPages int) []Section {
	var sections []Section

	for i, entry := range entries {
		start, ok := resolveStart(m, entry.Page)
		if !ok {
			continue
		}

		end := totalPages - 1
		for j := i + 1; j < len(entries); j++ {
			next, ok := resolveStart(m, entries[j].Page)
			if !ok {
				continue
			}
			end = next - 1
			break
		}

		if start > end {
			continue
		}
		if start < 0 || end >= totalPages {
			continue
		}

		sections = append(sections, Section{
			Title: strings.TrimSpace(entry.Title),
			Start: start,
			End:   end,
		})
	}
	return sections
}

// resolveStart looks up a printed page, probing nearby printed numbers
// when the exact value is missing from the map.
func resolveStart(m pagemap.Map, printed int) (int, bool) {
	if idx, ok := m[printed]; ok {
		return idx, true
	}
	for _, off := range probeOffsets {
		if idx, ok := m[printed+off]; ok {
			return idx, true
		}
	}
	return 0, false
}
