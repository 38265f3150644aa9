// Package pagemap builds the printed-page to physical-page-index map
// from the noisy numerals found in page header and footer bands.
package pagemap

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/docstruct/docstruct/internal/document"
)

const (
	// zoneFraction defines the header and footer bands: a word belongs
	// to a band when its vertical center lies in the top or bottom 12%
	// of the page.
	zoneFraction = 0.12

	// candidateSlack loosens the upper bound on accepted numerals so
	// numbering gaps and inserts do not reject legitimate pages.
	candidateSlack = 100

	stripChars = "()[]{}"
)

// Map maps printed page numbers to 0-based physical page indices.
// Every value is < the page count of the document it was built from.
type Map map[int]int

// Build scans physical pages from startPage to the end of the document
// and returns the inverted printed->physical map. An empty map is a
// normal outcome (documents with no detectable numbering); callers
// substitute Identity.
func Build(ctx context.Context, doc document.Document, startPage int) (Map, error) {
	if startPage < 0 {
		startPage = 0
	}
	total := doc.PageCount()
	m := make(Map)

	for i := startPage; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := doc.Page(i)
		if err != nil {
			return nil, fmt.Errorf("map page %d: %w", i, err)
		}
		printed, ok := printedNumber(page, total)
		if !ok {
			continue
		}
		// Earlier physical pages are the more reliable detection; a
		// recurring number later on is a repeated footer artifact.
		if _, exists := m[printed]; !exists {
			m[printed] = i
		}
	}
	return m, nil
}

// Identity returns the fallback map for documents where no numerals
// were detected: printed number n maps to physical index n-1.
func Identity(pageCount int) Map {
	m := make(Map, pageCount)
	for i := 0; i < pageCount; i++ {
		m[i+1] = i
	}
	return m
}

// printedNumber derives one printed page number for a page: collect
// every numeral candidate in the header/footer bands, then take the
// most frequent value, ties broken by first-seen order.
func printedNumber(page document.Page, totalPages int) (int, bool) {
	candidates := zoneCandidates(page, totalPages)
	if len(candidates) == 0 {
		return 0, false
	}

	counts := make(map[int]int, len(candidates))
	var order []int
	for _, c := range candidates {
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}

	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best, true
}

// zoneCandidates returns numeral values found in the header/footer
// bands, in document word order so results stay deterministic.
func zoneCandidates(page document.Page, totalPages int) []int {
	var out []int
	for _, w := range page.Words {
		center := (w.Box.Y0 + w.Box.Y1) / 2
		top := center < page.Height*zoneFraction
		bottom := center > page.Height*(1-zoneFraction)
		if !top && !bottom {
			continue
		}
		if n, ok := parseNumeral(w.Text, totalPages); ok {
			out = append(out, n)
		}
	}
	return out
}

// parseNumeral interprets a zone token as a page number: pure digits
// parse directly, otherwise the lenient roman grammar applies. The
// value must fall in (0, totalPages+candidateSlack).
func parseNumeral(token string, totalPages int) (int, bool) {
	token = strings.Trim(token, stripChars)
	if token == "" {
		return 0, false
	}

	var n int
	if isDigits(token) {
		v, err := strconv.Atoi(token)
		if err != nil {
			return 0, false
		}
		n = v
	} else if IsRoman(token) {
		n = RomanToInt(token)
	} else {
		return 0, false
	}

	if n <= 0 || n >= totalPages+candidateSlack {
		return 0, false
	}
	return n, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
