package pagemap

import "testing"

func TestRomanToInt_StandardValues(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"I", 1},
		{"II", 2},
		{"III", 3},
		{"IV", 4},
		{"V", 5},
		{"VI", 6},
		{"VII", 7},
		{"VIII", 8},
		{"IX", 9},
		{"X", 10},
		{"XI", 11},
		{"XIV", 14},
		{"XIX", 19},
		{"XX", 20},
		{"XXIV", 24},
		{"XXIX", 29},
		{"XXX", 30},
		{"XXXIX", 39},
	}
	for _, c := range cases {
		if got := RomanToInt(c.in); got != c.want {
			t.Errorf("RomanToInt(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestRomanToInt_LowercaseAndMixedCase(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"iv", 4},
		{"xii", 12},
		{"Xiv", 14},
		{"iX", 9},
	}
	for _, c := range cases {
		if got := RomanToInt(c.in); got != c.want {
			t.Errorf("RomanToInt(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestRomanToInt_NonStandardSpellings(t *testing.T) {
	// The lenient grammar admits additive spellings; conversion reads
	// them by subtractive pairs.
	cases := []struct {
		in   string
		want int
	}{
		{"IIII", 4},
		{"VIIII", 9},
		{"XXXX", 40},
	}
	for _, c := range cases {
		if !IsRoman(c.in) {
			t.Errorf("IsRoman(%q) = false, want true", c.in)
		}
		if got := RomanToInt(c.in); got != c.want {
			t.Errorf("RomanToInt(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestRomanToInt_InvalidCharacterReturnsZero(t *testing.T) {
	for _, s := range []string{"IVL", "MX", "A", "X1"} {
		if got := RomanToInt(s); got != 0 {
			t.Errorf("RomanToInt(%q) = %d, want 0", s, got)
		}
	}
}

func TestIsRoman(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"IV", true},
		{"xxxix", true},
		{"IIII", true},
		{"", false},
		{"12", false},
		{"IVX2", false},
		{"M", false},  // outside the supported alphabet
		{"L", false},
		{"ivory", false},
	}
	for _, c := range cases {
		if got := IsRoman(c.in); got != c.want {
			t.Errorf("IsRoman(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
