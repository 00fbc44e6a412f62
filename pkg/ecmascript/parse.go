package ecmascript

import (
	stderrors "errors"
	"math"
	"strconv"
	"strings"
)

// ParseInt implements the global parseInt. A radix of 0 means none was
// given.
func ParseInt(s string, radix int) float64 {
	s = strings.TrimLeftFunc(s, IsWhitespace)
	sign := 1.0
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	stripPrefix := true
	if radix != 0 {
		if radix < 2 || radix > 36 {
			return math.NaN()
		}
		stripPrefix = radix == 16
	} else {
		radix = 10
	}
	if stripPrefix && len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
		radix = 16
	}

	v, digits := 0.0, 0
	for _, c := range strings.ToLower(s) {
		d := strings.IndexRune("0123456789abcdefghijklmnopqrstuvwxyz", c)
		if d < 0 || d >= radix {
			break
		}
		v = v*float64(radix) + float64(d)
		digits++
	}
	if digits == 0 {
		return math.NaN()
	}
	if radix == 10 && digits > 15 {
		// Accumulating loses precision past 2^53; reparse the digits.
		if f, err := strconv.ParseFloat(strings.ToLower(s)[:digits], 64); err == nil {
			v = f
		}
	}
	return sign * v
}

// ParseFloat implements the global parseFloat: the longest prefix of s
// that is a decimal literal, after leading whitespace.
func ParseFloat(s string) float64 {
	s = strings.TrimLeftFunc(s, IsWhitespace)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	digits := func() int {
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		return i - start
	}
	n := digits()
	if i < len(s) && s[i] == '.' {
		i++
		n += digits()
	}
	if n == 0 {
		return math.NaN()
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if digits() > 0 {
			end = i
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil && !stderrors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}
