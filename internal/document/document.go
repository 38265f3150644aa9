// Package document defines the read-only page-layout handle the
// resolution engine consumes, plus a PDF-backed implementation.
//
// Coordinates use a top-left origin: Y0 is the top edge of a box, Y1
// the bottom edge, and Y grows downward. Backends that read formats
// with a bottom-left origin (PDF) convert on extraction.
package document

import (
	"errors"
	"fmt"
)

// ErrOpen wraps any failure to open or read a document. It is the only
// error class the engine propagates to callers as a hard failure.
var ErrOpen = errors.New("document open failed")

// Box is an axis-aligned bounding box.
type Box struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Word is a single word token with its bounding box.
type Word struct {
	Box  Box
	Text string
}

// Block is a run of text that reads as one unit: a line segment that is
// not interrupted by a column-scale horizontal gap.
type Block struct {
	Box  Box
	Text string
	Page int // physical page index, 0-based
}

// Page is the extracted layout of one physical page. Pages are built
// once and never mutated afterwards.
type Page struct {
	Height float64
	Text   string
	Words  []Word
	Blocks []Block
}

// Document is an opened, read-only document handle.
type Document interface {
	PageCount() int
	Page(i int) (Page, error)
}

// Static is an in-memory Document, used for synthetic documents and as
// the test fixture backend.
type Static struct {
	Pages []Page
}

func (s *Static) PageCount() int { return len(s.Pages) }

func (s *Static) Page(i int) (Page, error) {
	if i < 0 || i >= len(s.Pages) {
		return Page{}, fmt.Errorf("page %d out of range [0,%d)", i, len(s.Pages))
	}
	return s.Pages[i], nil
}
