package pagemap

import (
	"context"
	"strconv"
	"testing"

	"github.com/docstruct/docstruct/internal/document"
)

const testPageHeight = 800.0

// footerWord places a word inside the bottom 12% band.
func footerWord(text string) document.Word {
	return document.Word{
		Box:  document.Box{X0: 280, Y0: 760, X1: 320, Y1: 772},
		Text: text,
	}
}

// headerWord places a word inside the top 12% band.
func headerWord(text string) document.Word {
	return document.Word{
		Box:  document.Box{X0: 280, Y0: 30, X1: 320, Y1: 42},
		Text: text,
	}
}

// bodyWord places a word well outside both bands.
func bodyWord(text string) document.Word {
	return document.Word{
		Box:  document.Box{X0: 100, Y0: 400, X1: 160, Y1: 412},
		Text: text,
	}
}

func pageWith(words ...document.Word) document.Page {
	return document.Page{Height: testPageHeight, Words: words}
}

func TestBuild_OffsetRoundTrip(t *testing.T) {
	// Physical page p prints footer number p+5; the inverted map must
	// recover the physical index for every printed number.
	const pages = 20
	doc := &document.Static{}
	for i := 0; i < pages; i++ {
		doc.Pages = append(doc.Pages, pageWith(footerWord(strconv.Itoa(i+5))))
	}

	m, err := Build(context.Background(), doc, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(m) != pages {
		t.Fatalf("expected %d entries, got %d", pages, len(m))
	}
	for i := 0; i < pages; i++ {
		if got := m[i+5]; got != i {
			t.Errorf("m[%d] = %d, want %d", i+5, got, i)
		}
	}
}

func TestBuild_FirstSeenWinsOnRepeatedNumber(t *testing.T) {
	doc := &document.Static{Pages: []document.Page{
		pageWith(footerWord("7")),
		pageWith(footerWord("7")),
		pageWith(footerWord("8")),
	}}

	m, err := Build(context.Background(), doc, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m[7] != 0 {
		t.Errorf("m[7] = %d, want 0 (earlier page wins)", m[7])
	}
	if m[8] != 2 {
		t.Errorf("m[8] = %d, want 2", m[8])
	}
}

func TestBuild_RomanFrontMatter(t *testing.T) {
	doc := &document.Static{Pages: []document.Page{
		pageWith(footerWord("ii")),
		pageWith(footerWord("iii")),
		pageWith(footerWord("1")),
	}}

	m, err := Build(context.Background(), doc, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := Map{2: 0, 3: 1, 1: 2}
	for printed, idx := range want {
		if m[printed] != idx {
			t.Errorf("m[%d] = %d, want %d", printed, m[printed], idx)
		}
	}
}

func TestBuild_Cancellation(t *testing.T) {
	doc := &document.Static{Pages: []document.Page{pageWith(footerWord("1"))}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Build(ctx, doc, 0); err == nil {
		t.Fatal("expected context error, got nil")
	}
}

func TestPrintedNumber_ModeWithFirstSeenTieBreak(t *testing.T) {
	// "12" appears twice, "3" once: mode wins.
	page := pageWith(footerWord("3"), footerWord("12"), headerWord("12"))
	n, ok := printedNumber(page, 50)
	if !ok || n != 12 {
		t.Fatalf("printedNumber = %d, %v; want 12, true", n, ok)
	}

	// Tie between "3" and "12": first seen in word order wins.
	page = pageWith(footerWord("3"), footerWord("12"))
	n, ok = printedNumber(page, 50)
	if !ok || n != 3 {
		t.Fatalf("printedNumber = %d, %v; want 3, true", n, ok)
	}
}

func TestZoneCandidates_IgnoresBodyText(t *testing.T) {
	page := pageWith(bodyWord("42"), bodyWord("1999"), footerWord("7"))
	got := zoneCandidates(page, 50)
	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("zoneCandidates = %v, want [7]", got)
	}
}

func TestParseNumeral(t *testing.T) {
	cases := []struct {
		token string
		total int
		want  int
		ok    bool
	}{
		{"12", 100, 12, true},
		{"(12)", 100, 12, true},
		{"[iv]", 100, 4, true},
		{"xiv", 100, 14, true},
		{"0", 100, 0, false},
		{"250", 100, 0, false}, // beyond total+slack
		{"150", 100, 150, true}, // within slack
		{"page", 100, 0, false},
		{"", 100, 0, false},
		{"3.1", 100, 0, false},
	}
	for _, c := range cases {
		got, ok := parseNumeral(c.token, c.total)
		if got != c.want || ok != c.ok {
			t.Errorf("parseNumeral(%q, %d) = %d, %v; want %d, %v", c.token, c.total, got, ok, c.want, c.ok)
		}
	}
}

func TestIdentity(t *testing.T) {
	m := Identity(5)
	if len(m) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(m))
	}
	for printed := 1; printed <= 5; printed++ {
		if m[printed] != printed-1 {
			t.Errorf("m[%d] = %d, want %d", printed, m[printed], printed-1)
		}
	}
}
