// tocscan resolves the structure of a single document from the command
// line and prints a diagnostic summary: the located TOC page, the raw
// hierarchy entries, and the final section ranges.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/docstruct/docstruct/internal/config"
	"github.com/docstruct/docstruct/internal/document"
	"github.com/docstruct/docstruct/internal/engine"
	"github.com/docstruct/docstruct/internal/oracle"
)

func main() {
	var (
		configPath = flag.String("config", "", "optional YAML config file")
		scanPages  = flag.Int("scan-pages", 0, "override TOC scan window")
		timeout    = flag.Duration("timeout", 0, "override oracle timeout")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <document.pdf>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Load()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFile(*configPath, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	}
	if *scanPages > 0 {
		cfg.MaxScanPages = *scanPages
	}
	if *timeout > 0 {
		cfg.OracleTimeout = *timeout
	}

	doc, err := document.OpenPDF(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer doc.Close()

	eng := engine.New(buildOracle(cfg, log), log, engine.Options{
		MaxScanPages:  cfg.MaxScanPages,
		OracleTimeout: cfg.OracleTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	res, err := eng.Resolve(ctx, doc)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	printResult(res, path, doc.PageCount())
}

// buildOracle picks the provider from config. Without a key it returns
// a stub so the scanner and page-map diagnostics still run; the
// resolution then reports the oracle_unavailable fallback.
func buildOracle(cfg config.Config, log *slog.Logger) oracle.Hierarchy {
	switch cfg.OracleProvider {
	case "openai":
		if cfg.OpenAIAPIKey != "" {
			return oracle.NewOpenAIOracle(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, nil)
		}
	default:
		if cfg.AnthropicAPIKey != "" {
			return oracle.NewClaudeOracle(cfg.AnthropicAPIKey, cfg.AnthropicModel, nil)
		}
	}
	log.Warn("no oracle API key configured, hierarchy extraction disabled")
	return unavailableOracle{}
}

type unavailableOracle struct{}

func (unavailableOracle) Extract(ctx context.Context, blocks []document.Block) (string, error) {
	return "", fmt.Errorf("no oracle configured")
}

func printResult(res *engine.Result, path string, totalPages int) {
	fmt.Printf("%s: %d pages\n", path, totalPages)

	if res.TocPage >= 0 {
		fmt.Printf("TOC found on physical page %d (matched %q)\n", res.TocPage, res.TocLabel)
	} else {
		fmt.Println("TOC not found within scan window")
	}
	fmt.Printf("page map: %d printed numbers detected\n", len(res.PageMap))
	if len(res.Fallbacks) > 0 {
		fmt.Printf("fallbacks: %s\n", strings.Join(res.Fallbacks, ", "))
	}

	if len(res.RawEntries) > 0 {
		fmt.Printf("\nraw hierarchy (%d entries):\n", len(res.RawEntries))
		for _, e := range res.RawEntries {
			fmt.Printf("  %s%s  (printed page %d)\n", strings.Repeat("  ", e.Level-1), e.Title, e.Page)
		}
	}

	fmt.Printf("\nresolved sections (%d):\n", len(res.Sections))
	for _, s := range res.Sections {
		fmt.Printf("  %-50s  pages %d-%d\n", s.Title, s.Start, s.End)
	}

	if res.Dropped > 0 {
		fmt.Printf("\nskipped entries (%d):\n", res.Dropped)
		for _, t := range skippedTitles(res) {
			fmt.Printf("  %s\n", t)
		}
	}
}

func skippedTitles(res *engine.Result) []string {
	kept := make(map[string]bool, len(res.Sections))
	for _, s := range res.Sections {
		kept[strings.TrimSpace(s.Title)] = true
	}
	var out []string
	for _, e := range res.RawEntries {
		if !kept[strings.TrimSpace(e.Title)] {
			out = append(out, e.Title)
		}
	}
	return out
}
