package pagemap

import "regexp"

// romanPattern is the simplified grammar for front-matter numerals
// (I through XXXIX). It is applied as an unanchored search: a token
// qualifies when it contains any non-empty match and consists solely of
// roman letters. This deliberately admits non-standard spellings like
// "IIII", which the subtractive-pair conversion still reads as 4 —
// a compatibility quirk that downstream behavior depends on.
var romanPattern = regexp.MustCompile(`(?i)(X{0,3})(I[VX]|V?I{0,3})`)

var romanValues = map[byte]int{
	'I': 1,
	'V': 5,
	'X': 10,
}

// IsRoman reports whether s qualifies under the lenient roman grammar.
func IsRoman(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := upper(s[i])
		if _, ok := romanValues[c]; !ok {
			return false
		}
	}
	return romanPattern.FindString(s) != ""
}

// RomanToInt converts s using standard subtractive pairs. It returns 0
// for strings containing characters outside the grammar's alphabet.
func RomanToInt(s string) int {
	total := 0
	for i := 0; i < len(s); i++ {
		cur, ok := romanValues[upper(s[i])]
		if !ok {
			return 0
		}
		if i+1 < len(s) {
			if next, ok := romanValues[upper(s[i+1])]; ok && next > cur {
				total -= cur
				continue
			}
		}
		total += cur
	}
	return total
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
