// Package report renders a human-readable diagnostics report for one
// resolution result.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/docstruct/docstruct/internal/engine"
)

// Markdown builds the diagnostics report: which TOC heading matched,
// what the oracle claimed, which entries survived range resolution, and
// every fallback path taken.
func Markdown(res *engine.Result, filename string, totalPages int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Structure resolution: %s\n\n", filename)
	fmt.Fprintf(&sb, "- Physical pages: %d\n", totalPages)
	if res.TocPage >= 0 {
		fmt.Fprintf(&sb, "- TOC detected on physical page %d (%s)\n", res.TocPage, res.TocLabel)
	} else {
		sb.WriteString("- No TOC page detected in scan window\n")
	}
	fmt.Fprintf(&sb, "- Page map entries: %d\n", len(res.PageMap))
	fmt.Fprintf(&sb, "- Oracle entries: %d, resolved sections: %d, dropped: %d\n",
		len(res.RawEntries), len(res.Sections), res.Dropped)

	if len(res.Fallbacks) > 0 {
		sb.WriteString("\n## Fallbacks\n\n")
		for _, f := range res.Fallbacks {
			fmt.Fprintf(&sb, "- `%s`\n", f)
		}
	}

	if len(res.RawEntries) > 0 {
		sb.WriteString("\n## Raw hierarchy (sorted by printed page)\n\n")
		for _, e := range res.RawEntries {
			fmt.Fprintf(&sb, "- L%d %q — printed page %d\n", e.Level, strings.TrimSpace(e.Title), e.Page)
		}
	}

	sb.WriteString("\n## Resolved sections\n\n")
	for _, s := range res.Sections {
		fmt.Fprintf(&sb, "- %q: physical pages %d–%d\n", s.Title, s.Start, s.End)
	}

	if skipped := skippedTitles(res); len(skipped) > 0 {
		sb.WriteString("\n## Skipped entries\n\n")
		sb.WriteString("Start pages could not be located in the page map:\n\n")
		for _, t := range skipped {
			fmt.Fprintf(&sb, "- %s\n", t)
		}
	}

	return sb.String()
}

// HTML renders the markdown report to HTML.
func HTML(res *engine.Result, filename string, totalPages int) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(res, filename, totalPages)), &buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func skippedTitles(res *engine.Result) []string {
	resolved := make(map[string]bool, len(res.Sections))
	for _, s := range res.Sections {
		resolved[s.Title] = true
	}
	var skipped []string
	for _, e := range res.RawEntries {
		title := strings.TrimSpace(e.Title)
		if !resolved[title] {
			skipped = append(skipped, fmt.Sprintf("%s (printed page %d)", title, e.Page))
		}
	}
	return skipped
}
