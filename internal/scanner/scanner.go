// Package scanner locates the table-of-contents page(s) of a document
// and reconstructs their blocks into reading order.
package scanner

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/docstruct/docstruct/internal/document"
)

const (
	// DefaultMaxScanPages bounds the front-of-document window searched
	// for a TOC page.
	DefaultMaxScanPages = 15

	// columnGapThreshold is the horizontal distance (points) between a
	// block's left edge and the current column start beyond which the
	// block opens a new column.
	columnGapThreshold = 40.0

	// continuationMinBlocks is the block count above which the page
	// following a TOC page is treated as TOC spill-over.
	continuationMinBlocks = 6
)

// keywordGroup is one labeled set of patterns. A page matches the group
// only if every pattern matches its full text.
type keywordGroup struct {
	label    string
	patterns []*regexp.Regexp
}

func group(label string, exprs ...string) keywordGroup {
	g := keywordGroup{label: label}
	for _, e := range exprs {
		g.patterns = append(g.patterns, regexp.MustCompile(`(?i)`+e))
	}
	return g
}

// keywordGroups carries the TOC heading variants seen across annual
// reports. Order is the tie-break priority within a page; the specific
// multi-word headings come before the generic single-word ones so
// "Table of Contents" is reported under its own label.
var keywordGroups = []keywordGroup{
	group("Table of Contents", `table\s+of\s+contents`),
	group("Contents of Table", `contents\s+of\s+table`),
	group("Inside the Report", `inside\s+the\s+report`),
	group("Across the Pages", `across\s+the\s+pages`),
	group("What's Inside", `what.?s\s+inside`),
	group("Contents", `\bcontents\b`),
	group("Index", `\bindex\b`),
}

// Location is a found TOC: its blocks in reading order, the physical
// page it starts on, and the label of the keyword group that matched.
type Location struct {
	Blocks    []document.Block
	PageIndex int
	Label     string
}

// Locate scans pages 0..min(maxScanPages, pageCount) for a TOC page.
// The second return is false when no page in the window matches any
// keyword group; that is not an error, the caller is expected to fall
// back to whole-document handling.
func Locate(ctx context.Context, doc document.Document, maxScanPages int) (Location, bool, error) {
	if maxScanPages <= 0 {
		maxScanPages = DefaultMaxScanPages
	}
	limit := maxScanPages
	if pc := doc.PageCount(); pc < limit {
		limit = pc
	}

	for i := 0; i < limit; i++ {
		if err := ctx.Err(); err != nil {
			return Location{}, false, err
		}
		page, err := doc.Page(i)
		if err != nil {
			return Location{}, false, fmt.Errorf("scan page %d: %w", i, err)
		}
		label, ok := matchKeywords(page.Text)
		if !ok {
			continue
		}

		loc := Location{
			Blocks:    ReadingOrder(page.Blocks),
			PageIndex: i,
			Label:     label,
		}

		// A dense following page is almost always the TOC spilling onto
		// a second page; append it in the same reconstructed order.
		if i+1 < doc.PageCount() {
			next, err := doc.Page(i + 1)
			if err == nil && len(next.Blocks) > continuationMinBlocks {
				loc.Blocks = append(loc.Blocks, ReadingOrder(next.Blocks)...)
			}
		}
		return loc, true, nil
	}
	return Location{}, false, nil
}

func matchKeywords(text string) (string, bool) {
	for _, g := range keywordGroups {
		all := true
		for _, p := range g.patterns {
			if !p.MatchString(text) {
				all = false
				break
			}
		}
		if all {
			return g.label, true
		}
	}
	return "", false
}

// ReadingOrder approximates human reading order for 1-4 column layouts
// without a declared column count: distinct left edges are clustered
// into column starts, each block attaches to its nearest start, columns
// read top to bottom and concatenate left to right.
func ReadingOrder(blocks []document.Block) []document.Block {
	if len(blocks) <= 1 {
		return blocks
	}

	byX := make([]document.Block, len(blocks))
	copy(byX, blocks)
	sort.SliceStable(byX, func(a, b int) bool { return byX[a].Box.X0 < byX[b].Box.X0 })

	var starts []float64
	for _, b := range byX {
		if len(starts) == 0 || b.Box.X0-starts[len(starts)-1] > columnGapThreshold {
			starts = append(starts, b.Box.X0)
		}
	}

	columns := make([][]document.Block, len(starts))
	for _, b := range byX {
		col := nearestStart(starts, b.Box.X0)
		columns[col] = append(columns[col], b)
	}

	out := make([]document.Block, 0, len(blocks))
	for _, col := range columns {
		sort.SliceStable(col, func(a, b int) bool { return col[a].Box.Y0 < col[b].Box.Y0 })
		out = append(out, col...)
	}
	return out
}

func nearestStart(starts []float64, x float64) int {
	best := 0
	bestDist := dist(starts[0], x)
	for i := 1; i < len(starts); i++ {
		if d := dist(starts[i], x); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func dist(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
