package document

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	pdflib "github.com/ledongthuc/pdf"
)

const (
	// defaultPageHeight is used when a page carries no usable MediaBox
	// (US Letter in points).
	defaultPageHeight = 792.0

	// rowTolerance groups glyph runs whose baselines differ by no more
	// than this many points into the same text line.
	rowTolerance = 3.0

	// segmentGap splits a line into separate blocks when the horizontal
	// gap between adjacent words exceeds this many points. Gaps of this
	// scale are column gutters or leader-dot runs, not word spacing.
	segmentGap = 24.0
)

// PDF is a Document backed by a parsed PDF file. Page extraction is
// lazy and cached; the cache makes repeated scans over the same handle
// cheap and is safe for concurrent readers.
type PDF struct {
	reader *pdflib.Reader
	file   *os.File

	mu    sync.Mutex
	cache map[int]Page
}

// OpenPDF opens the file at path as a Document.
func OpenPDF(path string) (*PDF, error) {
	f, r, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	return &PDF{reader: r, file: f, cache: make(map[int]Page)}, nil
}

// FromBytes opens an in-memory PDF as a Document.
func FromBytes(data []byte) (*PDF, error) {
	r, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	return &PDF{reader: r, cache: make(map[int]Page)}, nil
}

// Close releases the underlying file, if any.
func (d *PDF) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

func (d *PDF) PageCount() int { return d.reader.NumPage() }

func (d *PDF) Page(i int) (Page, error) {
	if i < 0 || i >= d.reader.NumPage() {
		return Page{}, fmt.Errorf("page %d out of range [0,%d)", i, d.reader.NumPage())
	}

	d.mu.Lock()
	if p, ok := d.cache[i]; ok {
		d.mu.Unlock()
		return p, nil
	}
	d.mu.Unlock()

	p := d.extractPage(i)

	d.mu.Lock()
	d.cache[i] = p
	d.mu.Unlock()
	return p, nil
}

func (d *PDF) extractPage(i int) Page {
	src := d.reader.Page(i + 1) // ledongthuc pages are 1-based
	if src.V.IsNull() {
		return Page{Height: defaultPageHeight}
	}

	height := pageHeight(src)

	text, err := src.GetPlainText(nil)
	if err != nil {
		text = ""
	}

	words := groupWords(src.Content().Text, height)
	blocks := groupBlocks(words, i)

	return Page{
		Height: height,
		Text:   text,
		Words:  words,
		Blocks: blocks,
	}
}

func pageHeight(p pdflib.Page) float64 {
	mb := p.V.Key("MediaBox")
	if mb.IsNull() || mb.Len() < 4 {
		return defaultPageHeight
	}
	h := mb.Index(3).Float64() - mb.Index(1).Float64()
	if h <= 0 {
		return defaultPageHeight
	}
	return h
}

// groupWords reconstructs word tokens from raw glyph runs. Runs are
// bucketed into lines by baseline, merged while the horizontal gap
// stays below a fraction of the font size, then split back apart on
// embedded whitespace. Box Y coordinates are converted to top-origin.
func groupWords(texts []pdflib.Text, height float64) []Word {
	runs := make([]pdflib.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" && t.W == 0 {
			continue
		}
		runs = append(runs, t)
	}
	if len(runs) == 0 {
		return nil
	}

	// Top of page first, then left to right. PDF Y grows upward.
	sort.SliceStable(runs, func(a, b int) bool {
		if runs[a].Y != runs[b].Y {
			return runs[a].Y > runs[b].Y
		}
		return runs[a].X < runs[b].X
	})

	var words []Word
	flush := func(group []pdflib.Text) {
		if len(group) == 0 {
			return
		}
		first, last := group[0], group[len(group)-1]
		var sb strings.Builder
		fontSize := first.FontSize
		for _, t := range group {
			sb.WriteString(t.S)
			if t.FontSize > fontSize {
				fontSize = t.FontSize
			}
		}
		box := Box{
			X0: first.X,
			Y0: height - (first.Y + fontSize),
			X1: last.X + last.W,
			Y1: height - first.Y,
		}
		// A merged run may still contain interior spaces; every field
		// becomes its own token sharing the run's box. The vertical
		// placement is what downstream consumers key off.
		for _, field := range strings.Fields(sb.String()) {
			words = append(words, Word{Box: box, Text: field})
		}
	}

	var group []pdflib.Text
	for _, t := range runs {
		if len(group) == 0 {
			group = append(group, t)
			continue
		}
		prev := group[len(group)-1]
		sameLine := abs(t.Y-prev.Y) <= rowTolerance
		gap := t.X - (prev.X + prev.W)
		maxGap := 0.3 * prev.FontSize
		if maxGap < 1 {
			maxGap = 1
		}
		if sameLine && gap <= maxGap {
			group = append(group, t)
			continue
		}
		flush(group)
		group = []pdflib.Text{t}
	}
	flush(group)
	return words
}

// groupBlocks joins words into line segments, splitting where the gap
// between adjacent words is column-scale.
func groupBlocks(words []Word, pageIndex int) []Block {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(a, b int) bool {
		if abs(sorted[a].Box.Y0-sorted[b].Box.Y0) > rowTolerance {
			return sorted[a].Box.Y0 < sorted[b].Box.Y0
		}
		return sorted[a].Box.X0 < sorted[b].Box.X0
	})

	var blocks []Block
	flush := func(group []Word) {
		if len(group) == 0 {
			return
		}
		box := group[0].Box
		parts := make([]string, 0, len(group))
		for _, w := range group {
			parts = append(parts, w.Text)
			if w.Box.X1 > box.X1 {
				box.X1 = w.Box.X1
			}
			if w.Box.Y0 < box.Y0 {
				box.Y0 = w.Box.Y0
			}
			if w.Box.Y1 > box.Y1 {
				box.Y1 = w.Box.Y1
			}
		}
		blocks = append(blocks, Block{
			Box:  box,
			Text: strings.Join(parts, " "),
			Page: pageIndex,
		})
	}

	var group []Word
	for _, w := range sorted {
		if len(group) == 0 {
			group = append(group, w)
			continue
		}
		prev := group[len(group)-1]
		sameLine := abs(w.Box.Y0-prev.Box.Y0) <= rowTolerance
		if sameLine && w.Box.X0-prev.Box.X1 <= segmentGap {
			group = append(group, w)
			continue
		}
		flush(group)
		group = []Word{w}
	}
	flush(group)
	return blocks
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
