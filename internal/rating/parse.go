package rating

import (
	"math"
	"strings"
	"unicode"
)

// isLeadingSpace matches the whitespace and line terminators skipped before a number in
// page text: the Zs category, tab, LF, VT, FF, CR, U+2028, U+2029 and the BOM. U+0085 is
// deliberately not in the set.
func isLeadingSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// ParseCounter reads a counter from the text of a review element.
//
// Parsing is lenient: leading whitespace is skipped, a sign and a 0x prefix are accepted and
// anything after the digits is ignored, so "12 reviews" reads as 12. Text without a leading
// digit yields NaN rather than 0.
func ParseCounter(text string) Number {
	s := strings.TrimLeftFunc(text, isLeadingSpace)

	sign := 1.0
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	base := 10.0
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	var (
		value  float64
		digits int
	)
	for _, r := range s {
		d, ok := digitValue(r)
		if !ok || d >= base {
			break
		}
		value = value*base + d
		digits++
	}
	if digits == 0 {
		return Number(math.NaN())
	}
	return Number(sign * value)
}

// ParseFeedbackCounts parses the three counter texts of one rating block.
func ParseFeedbackCounts(positive, neutral, negative string) FeedbackCounts {
	return FeedbackCounts{
		Positive: ParseCounter(positive),
		Neutral:  ParseCounter(neutral),
		Negative: ParseCounter(negative),
	}
}

func digitValue(r rune) (float64, bool) {
	switch {
	case r >= '0' && r <= '9':
		return float64(r - '0'), true
	case r >= 'a' && r <= 'f':
		return float64(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return float64(r-'A') + 10, true
	}
	return 0, false
}
