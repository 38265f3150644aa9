package engine

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/docstruct/docstruct/internal/document"
)

// fixtureOracle returns a canned response, optionally failing or
// blocking until its context is cancelled.
type fixtureOracle struct {
	response string
	err      error
	block    bool
}

func (f *fixtureOracle) Extract(ctx context.Context, blocks []document.Block) (string, error) {
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// reportDoc builds a synthetic annual report: a TOC on the given page
// and printed footer numbers offset so printed p sits on physical p-1.
func reportDoc(pages int, tocPage int) *document.Static {
	doc := &document.Static{}
	for i := 0; i < pages; i++ {
		p := document.Page{Height: 800, Text: "body text"}
		if i == tocPage {
			p.Text = "Table of Contents"
			p.Blocks = []document.Block{
				{Box: document.Box{X0: 72, Y0: 100, X1: 300, Y1: 112}, Text: "Table of Contents", Page: i},
				{Box: document.Box{X0: 72, Y0: 140, X1: 300, Y1: 152}, Text: "Overview ............ 6", Page: i},
				{Box: document.Box{X0: 72, Y0: 160, X1: 300, Y1: 172}, Text: "Financials .......... 40", Page: i},
			}
		}
		// Footer numeral: printed number is physical index + 1.
		p.Words = []document.Word{{
			Box:  document.Box{X0: 290, Y0: 760, X1: 310, Y1: 772},
			Text: strconv.Itoa(i + 1),
		}}
		doc.Pages = append(doc.Pages, p)
	}
	return doc
}

func TestResolve_FullPipeline(t *testing.T) {
	doc := reportDoc(120, 2)
	o := &fixtureOracle{response: `{"level": 1, "title": "Overview", "page": 6}
{"level": 1, "title": "Financials", "page": 40}`}

	eng := New(o, discardLogger(), Options{})
	res, err := eng.Resolve(context.Background(), doc)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if res.TocPage != 2 {
		t.Errorf("TocPage = %d, want 2", res.TocPage)
	}
	if res.TocLabel != "Table of Contents" {
		t.Errorf("TocLabel = %q", res.TocLabel)
	}
	if len(res.Fallbacks) != 0 {
		t.Errorf("unexpected fallbacks: %v", res.Fallbacks)
	}
	if len(res.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %+v", res.Sections)
	}
	if res.Sections[0].Title != "Overview" || res.Sections[0].Start != 5 || res.Sections[0].End != 38 {
		t.Errorf("section 0 = %+v", res.Sections[0])
	}
	if res.Sections[1].Start != 39 || res.Sections[1].End != 119 {
		t.Errorf("section 1 = %+v", res.Sections[1])
	}
	if res.Dropped != 0 {
		t.Errorf("Dropped = %d, want 0", res.Dropped)
	}
}

func TestResolve_NoTocFallsBack(t *testing.T) {
	doc := reportDoc(30, -1) // no TOC page
	eng := New(&fixtureOracle{}, discardLogger(), Options{})

	res, err := eng.Resolve(context.Background(), doc)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.TocPage != -1 {
		t.Errorf("TocPage = %d, want -1", res.TocPage)
	}
	if !hasFallback(res, FallbackTocNotFound) {
		t.Errorf("missing %s fallback: %v", FallbackTocNotFound, res.Fallbacks)
	}
	if !hasFallback(res, FallbackNoSections) {
		t.Errorf("missing %s fallback: %v", FallbackNoSections, res.Fallbacks)
	}
	if len(res.Sections) != 1 || res.Sections[0].Title != "Full Document" {
		t.Fatalf("expected the synthetic full-document section, got %+v", res.Sections)
	}
	if res.Sections[0].Start != 0 || res.Sections[0].End != 29 {
		t.Errorf("full-document range = %+v", res.Sections[0])
	}
}

func TestResolve_OracleFailureDegrades(t *testing.T) {
	doc := reportDoc(30, 2)
	eng := New(&fixtureOracle{err: errors.New("upstream 500")}, discardLogger(), Options{})

	res, err := eng.Resolve(context.Background(), doc)
	if err != nil {
		t.Fatalf("oracle failure must not fail the resolution: %v", err)
	}
	if !hasFallback(res, FallbackOracleFailed) {
		t.Errorf("missing %s fallback: %v", FallbackOracleFailed, res.Fallbacks)
	}
	if len(res.Sections) != 1 || res.Sections[0].Title != "Full Document" {
		t.Errorf("expected full-document fallback, got %+v", res.Sections)
	}
}

func TestResolve_OracleEmptyDegrades(t *testing.T) {
	doc := reportDoc(30, 2)
	eng := New(&fixtureOracle{response: "no table of contents found"}, discardLogger(), Options{})

	res, err := eng.Resolve(context.Background(), doc)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !hasFallback(res, FallbackOracleEmpty) {
		t.Errorf("missing %s fallback: %v", FallbackOracleEmpty, res.Fallbacks)
	}
}

func TestResolve_OracleTimeoutDegrades(t *testing.T) {
	doc := reportDoc(30, 2)
	eng := New(&fixtureOracle{block: true}, discardLogger(), Options{
		OracleTimeout: 20 * time.Millisecond,
	})

	start := time.Now()
	res, err := eng.Resolve(context.Background(), doc)
	if err != nil {
		t.Fatalf("timeout must degrade, not fail: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("resolution did not respect the oracle timeout (%v)", elapsed)
	}
	if !hasFallback(res, FallbackOracleFailed) {
		t.Errorf("missing %s fallback: %v", FallbackOracleFailed, res.Fallbacks)
	}
}

func TestResolve_EmptyPageMapUsesIdentity(t *testing.T) {
	// No footer numerals anywhere.
	doc := &document.Static{}
	for i := 0; i < 10; i++ {
		doc.Pages = append(doc.Pages, document.Page{Height: 800, Text: "body"})
	}

	eng := New(&fixtureOracle{}, discardLogger(), Options{})
	res, err := eng.Resolve(context.Background(), doc)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !hasFallback(res, FallbackMapEmpty) {
		t.Errorf("missing %s fallback: %v", FallbackMapEmpty, res.Fallbacks)
	}
	if len(res.PageMap) != 10 {
		t.Errorf("identity map size = %d, want 10", len(res.PageMap))
	}
	if res.PageMap[1] != 0 || res.PageMap[10] != 9 {
		t.Errorf("identity map wrong: %v", res.PageMap)
	}
}

func TestResolve_EmptyDocumentIsHardFailure(t *testing.T) {
	eng := New(&fixtureOracle{}, discardLogger(), Options{})
	_, err := eng.Resolve(context.Background(), &document.Static{})
	if !errors.Is(err, document.ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
}

func TestResolve_CancellationReturnsNoResult(t *testing.T) {
	doc := reportDoc(30, 2)
	eng := New(&fixtureOracle{}, discardLogger(), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := eng.Resolve(ctx, doc)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if res != nil {
		t.Errorf("no partial result on cancellation, got %+v", res)
	}
}

func hasFallback(res *Result, name string) bool {
	for _, f := range res.Fallbacks {
		if f == name {
			return true
		}
	}
	return false
}
