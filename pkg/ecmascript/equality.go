package ecmascript

import "math"

// StrictEquals implements IsStrictlyEqual (===) for primitives.
func StrictEquals(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Undefined, Null:
		return true
	case Boolean:
		return a.Bool == b.Bool
	case Number:
		return a.Num == b.Num
	}
	return a.Str == b.Str
}

// LooseEquals implements IsLooselyEqual (==) for primitives.
func LooseEquals(a, b Value) bool {
	if a.Kind == b.Kind {
		return StrictEquals(a, b)
	}
	if a.IsNullish() && b.IsNullish() {
		return true
	}
	if a.IsNullish() || b.IsNullish() {
		return false
	}
	// Remaining mixes of boolean, number and string compare numerically.
	return a.ToNumber() == b.ToNumber()
}

// Compare implements IsLessThan(a, b). The second result is false when the
// comparison is undefined (a NaN operand).
func Compare(a, b Value) (less bool, defined bool) {
	if a.Kind == String && b.Kind == String {
		x, y := UTF16(a.Str), UTF16(b.Str)
		for i := 0; i < len(x) && i < len(y); i++ {
			if x[i] != y[i] {
				return x[i] < y[i], true
			}
		}
		return len(x) < len(y), true
	}
	nx, ny := a.ToNumber(), b.ToNumber()
	if math.IsNaN(nx) || math.IsNaN(ny) {
		return false, false
	}
	return nx < ny, true
}
