package analysis

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Number is a statistic that may be undefined. NaN and infinities travel as JSON null.
type Number float64

// Valid reports whether the number is finite
func (n Number) Valid() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Format2 renders the number with two decimals, or "nan" when it is undefined
func (n Number) Format2() string {
	if math.IsNaN(float64(n)) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", float64(n))
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(n), 'f', -1, 64), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*n = Number(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

func numbersOf(values []float64) []Number {
	out := make([]Number, len(values))
	for i, v := range values {
		out[i] = Number(v)
	}
	return out
}
