package ecmascript

import (
	stderrors "errors"
	"math"
	"strconv"
	"strings"
)

// cleanExponentialFormat removes leading zeros from the exponent to match JS
// format, e.g. "1e-07" -> "1e-7".
func cleanExponentialFormat(s string) string {
	i := strings.IndexAny(s, "eE")
	if i < 0 || i+1 >= len(s) || (s[i+1] != '+' && s[i+1] != '-') {
		return s
	}
	j := i + 2
	for j < len(s)-1 && s[j] == '0' {
		j++
	}
	return s[:i+2] + s[j:]
}

// NumberToString implements Number::toString(10).
func NumberToString(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0" // also -0
	}
	abs := math.Abs(f)
	if abs < 1e-6 || abs >= 1e21 {
		return cleanExponentialFormat(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// StringToNumber implements the StringToNumber abstract operation.
func StringToNumber(s string) float64 {
	str := strings.TrimFunc(s, IsWhitespace)
	if str == "" {
		return 0
	}

	if len(str) > 2 && str[0] == '0' {
		base := 0
		switch str[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			v := 0.0
			for _, c := range strings.ToLower(str[2:]) {
				d := strings.IndexRune("0123456789abcdef", c)
				if d < 0 || d >= base {
					return math.NaN()
				}
				v = v*float64(base) + float64(d)
			}
			return v
		}
	}

	// "Infinity" is case-sensitive, unlike strconv.ParseFloat
	switch str {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	for _, c := range str {
		if !strings.ContainsRune("0123456789+-.eE", c) {
			return math.NaN()
		}
	}

	f, err := strconv.ParseFloat(str, 64)
	if err != nil && !stderrors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

// IsWhitespace reports whether r is WhiteSpace or a LineTerminator.
func IsWhitespace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}

// ToInt32 implements the ToInt32 abstract operation.
func ToInt32(f float64) int32 {
	return int32(ToUint32(f))
}

// ToUint32 implements the ToUint32 abstract operation.
func ToUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Trunc(f)
	f = math.Mod(f, 4294967296)
	if f < 0 {
		f += 4294967296
	}
	return uint32(f)
}

// IsIndexString reports whether s is the canonical form of a non-negative
// integer below 2^53, e.g. "0" or "42" but not "01" or "-1".
func IsIndexString(s string) bool {
	if s == "" || len(s) > 16 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return NumberToString(StringToNumber(s)) == s
}
