package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nooga/squash/pkg/ecmascript"
)

// formatNumber returns the shortest source text for v.
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "0/0"
	case math.IsInf(v, 1):
		return "1/0"
	case math.IsInf(v, -1):
		return "-1/0"
	case v == 0:
		if math.Signbit(v) {
			return "-0"
		}
		return "0"
	case v < 0:
		return "-" + formatNumber(-v)
	}

	s := ecmascript.NumberToString(v)
	best := strings.Replace(s, "e+", "e", 1)
	if strings.HasPrefix(best, "0.") {
		best = best[1:]
	}

	if v == math.Trunc(v) && !strings.Contains(s, "e") {
		trimmed := strings.TrimRight(s, "0")
		if zeros := len(s) - len(trimmed); zeros > 2 {
			if cand := trimmed + "e" + strconv.Itoa(zeros); len(cand) < len(best) {
				best = cand
			}
		}
	}

	if strings.HasPrefix(best, ".") && !strings.Contains(best, "e") {
		digits := strings.TrimLeft(best[1:], "0")
		lead := len(best) - 1 - len(digits)
		if cand := digits + "e-" + strconv.Itoa(lead+len(digits)); len(cand) < len(best) {
			best = cand
		}
	}
	return best
}

// quote returns s as a string literal, picking the quote character that
// needs fewer escapes.
func quote(s string) string {
	q := '"'
	if strings.Count(s, `"`) > strings.Count(s, "'") {
		q = '\''
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteRune(q)
	for i, r := range s {
		switch r {
		case q:
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		case 0:
			if i+1 < len(s) && '0' <= s[i+1] && s[i+1] <= '9' {
				b.WriteString(`\x00`)
			} else {
				b.WriteString(`\0`)
			}
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteRune(q)
	return b.String()
}
