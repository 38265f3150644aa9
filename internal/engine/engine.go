// Package engine wires the scanner, oracle, page mapper, and resolver
// into the document structure resolution flow. Every degraded path
// lands on a documented fallback; the only hard failure is a document
// that cannot be read at all.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/docstruct/docstruct/internal/document"
	"github.com/docstruct/docstruct/internal/oracle"
	"github.com/docstruct/docstruct/internal/pagemap"
	"github.com/docstruct/docstruct/internal/resolver"
	"github.com/docstruct/docstruct/internal/scanner"
)

// Fallback names the degradation paths a resolution can take. Hosts
// log these for diagnosability; none of them blocks the request.
const (
	FallbackTocNotFound  = "toc_not_found"
	FallbackOracleFailed = "oracle_unavailable"
	FallbackOracleEmpty  = "oracle_empty"
	FallbackMapEmpty     = "page_map_empty"
	FallbackNoSections   = "no_sections"
)

// Options tunes a resolution run.
type Options struct {
	// MaxScanPages bounds the TOC search window. Zero means the
	// scanner default.
	MaxScanPages int

	// OracleTimeout caps the single oracle call. Zero means 90s.
	OracleTimeout time.Duration
}

// Result is the outcome of one document resolution.
type Result struct {
	Sections []resolver.Section `json:"sections"`

	// PageMap is exposed for diagnostics tooling.
	PageMap pagemap.Map `json:"page_map"`

	// TocPage is the physical index of the located TOC page, -1 when
	// none was found.
	TocPage  int    `json:"toc_page"`
	TocLabel string `json:"toc_label,omitempty"`

	// RawEntries is the deduplicated, page-sorted oracle output before
	// range resolution.
	RawEntries []oracle.TocEntry `json:"raw_entries"`

	// Dropped counts entries that failed start resolution or range
	// validation.
	Dropped int `json:"dropped"`

	// Fallbacks lists the degradation paths taken, in order.
	Fallbacks []string `json:"fallbacks,omitempty"`
}

// Engine resolves document structure. Safe for concurrent use as long
// as the injected oracle is.
type Engine struct {
	oracle oracle.Hierarchy
	log    *slog.Logger
	opts   Options
}

func New(h oracle.Hierarchy, log *slog.Logger, opts Options) *Engine {
	if opts.OracleTimeout <= 0 {
		opts.OracleTimeout = 90 * time.Second
	}
	return &Engine{oracle: h, log: log, opts: opts}
}

// Resolve runs the full pipeline over an opened document. The oracle
// call and the page-map build run concurrently: both only read the
// immutable document handle and their outputs are joined afterwards.
// On cancellation no partial result is returned.
func (e *Engine) Resolve(ctx context.Context, doc document.Document) (*Result, error) {
	totalPages := doc.PageCount()
	if totalPages == 0 {
		return nil, fmt.Errorf("%w: document has no pages", document.ErrOpen)
	}

	res := &Result{TocPage: -1}

	loc, found, err := scanner.Locate(ctx, doc, e.opts.MaxScanPages)
	if err != nil {
		return nil, err
	}

	type mapOut struct {
		m   pagemap.Map
		err error
	}
	mapCh := make(chan mapOut, 1)
	go func() {
		m, err := pagemap.Build(ctx, doc, 0)
		mapCh <- mapOut{m: m, err: err}
	}()

	if found {
		res.TocPage = loc.PageIndex
		res.TocLabel = loc.Label
		res.RawEntries = e.extractHierarchy(ctx, loc.Blocks, res)
	} else {
		e.log.Info("no TOC page in scan window", "max_scan_pages", e.opts.MaxScanPages)
		res.Fallbacks = append(res.Fallbacks, FallbackTocNotFound)
	}

	mo := <-mapCh
	if mo.err != nil {
		return nil, mo.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.PageMap = mo.m
	if len(res.PageMap) == 0 {
		e.log.Info("no page numerals detected, using identity map", "pages", totalPages)
		res.PageMap = pagemap.Identity(totalPages)
		res.Fallbacks = append(res.Fallbacks, FallbackMapEmpty)
	}

	res.Sections = resolver.Resolve(res.RawEntries, res.PageMap, totalPages)
	res.Dropped = len(res.RawEntries) - len(res.Sections)
	if res.Dropped > 0 {
		e.log.Info("dropped unresolvable entries", "dropped", res.Dropped, "kept", len(res.Sections))
	}

	if len(res.Sections) == 0 {
		res.Sections = []resolver.Section{resolver.FullDocument(totalPages)}
		res.Fallbacks = append(res.Fallbacks, FallbackNoSections)
	}
	return res, nil
}

// extractHierarchy performs the one external call of the pipeline. Any
// transport failure or timeout degrades to an empty hierarchy; the
// error never propagates past this point.
func (e *Engine) extractHierarchy(ctx context.Context, blocks []document.Block, res *Result) []oracle.TocEntry {
	callCtx, cancel := context.WithTimeout(ctx, e.opts.OracleTimeout)
	defer cancel()

	raw, err := e.oracle.Extract(callCtx, blocks)
	if err != nil {
		e.log.Warn("oracle call failed, continuing without hierarchy", "error", err)
		res.Fallbacks = append(res.Fallbacks, FallbackOracleFailed)
		return nil
	}

	entries := oracle.ParseHierarchy(raw)
	if len(entries) == 0 {
		e.log.Info("oracle returned no usable entries")
		res.Fallbacks = append(res.Fallbacks, FallbackOracleEmpty)
	}
	return entries
}
