package rating

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Number is a float64 that may legitimately hold NaN.
//
// encoding/json refuses NaN and ±Inf, so Number marshals those as null and reads null back
// as NaN.
type Number float64

// NaN returns a Number holding NaN.
func NaN() Number { return Number(math.NaN()) }

// IsNaN reports whether n is NaN.
func (n Number) IsNaN() bool { return math.IsNaN(float64(n)) }

// Valid reports whether n is a finite number.
func (n Number) Valid() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Float64 returns n as a plain float64.
func (n Number) Float64() float64 { return float64(n) }

// String formats n the way a browser would print it: shortest form, "NaN" for NaN.
func (n Number) String() string {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(n), 'f', -1, 64)), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = NaN()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// roundHalfUp rounds x to the given number of decimal places, halves going up.
// NaN and ±Inf pass through unchanged.
func roundHalfUp(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Floor(x*p+0.5) / p
}
