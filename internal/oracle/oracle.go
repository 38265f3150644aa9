// Package oracle converts reconstructed TOC blocks into hierarchy
// candidates via an external text-understanding model. The model is
// untrusted: its output is parsed line by line and anything malformed
// is skipped rather than surfaced as an error.
package oracle

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/docstruct/docstruct/internal/document"
)

// TocEntry is one hierarchy candidate as claimed by the oracle.
type TocEntry struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	Page  int    `json:"page"`
}

// Hierarchy is the injectable oracle boundary. Extract submits the
// serialized blocks and returns the raw response text; parsing is the
// caller's job so tests can substitute canned responses.
type Hierarchy interface {
	Extract(ctx context.Context, blocks []document.Block) (string, error)
}

// blockPayload is the wire shape of one block in the oracle request.
type blockPayload struct {
	Box  [4]int `json:"box"`
	Text string `json:"text"`
}

// EncodeBlocks serializes blocks as a JSON array of rounded integer
// boxes plus normalized text, the payload format both oracle
// implementations send.
func EncodeBlocks(blocks []document.Block) ([]byte, error) {
	payload := make([]blockPayload, 0, len(blocks))
	for _, b := range blocks {
		payload = append(payload, blockPayload{
			Box: [4]int{
				int(math.Round(b.Box.X0)),
				int(math.Round(b.Box.Y0)),
				int(math.Round(b.Box.X1)),
				int(math.Round(b.Box.Y1)),
			},
			Text: strings.Join(strings.Fields(b.Text), " "),
		})
	}
	return json.Marshal(payload)
}

// ParseHierarchy extracts TocEntry values from a free-form oracle
// response. Each line is scanned for its first {...} substring and that
// substring alone is decoded; lines that fail to decode, or whose page
// is missing or non-positive, are skipped. A fully malformed response
// yields an empty slice, which callers treat as "hierarchy unavailable".
func ParseHierarchy(raw string) []TocEntry {
	var entries []TocEntry
	seen := make(map[string]bool)

	for _, line := range strings.Split(raw, "\n") {
		open := strings.Index(line, "{")
		if open < 0 {
			continue
		}
		end := strings.LastIndex(line, "}")
		if end < open {
			continue
		}

		var candidate struct {
			Level int     `json:"level"`
			Title string  `json:"title"`
			Page  float64 `json:"page"`
		}
		if err := json.Unmarshal([]byte(line[open:end+1]), &candidate); err != nil {
			continue
		}
		page := int(candidate.Page)
		if page <= 0 {
			continue
		}
		if strings.TrimSpace(candidate.Title) == "" {
			continue
		}
		level := candidate.Level
		if level < 1 {
			level = 1
		}

		key := strings.TrimSpace(candidate.Title) + "\x00" + strconv.Itoa(page)
		if seen[key] {
			continue
		}
		seen[key] = true

		entries = append(entries, TocEntry{
			Level: level,
			Title: candidate.Title,
			Page:  page,
		})
	}

	sort.SliceStable(entries, func(a, b int) bool { return entries[a].Page < entries[b].Page })
	return entries
}
