package netlist

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Metric is a SCOAP cost: a positive integer, or Unbounded when no finite
// assignment or propagation path has been found.
type Metric int64

// Unbounded marks a controllability or observability value that is still
// infinite. It compares greater than every finite metric, so ordinary
// comparison implements min with unbounded operands ignored.
const Unbounded Metric = math.MaxInt64

// unboundedJSON is the JSON and text spelling of Unbounded.
const unboundedJSON = "unbounded"

// Bounded reports whether m is finite.
func (m Metric) Bounded() bool { return m != Unbounded }

// String returns the decimal value or "unbounded".
func (m Metric) String() string {
	if m == Unbounded {
		return unboundedJSON
	}
	return strconv.FormatInt(int64(m), 10)
}

// MarshalJSON encodes finite metrics as numbers and Unbounded as a string.
func (m Metric) MarshalJSON() ([]byte, error) {
	if m == Unbounded {
		return []byte(`"` + unboundedJSON + `"`), nil
	}
	return []byte(strconv.FormatInt(int64(m), 10)), nil
}

// UnmarshalJSON accepts either form written by MarshalJSON.
func (m *Metric) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != unboundedJSON {
			return fmt.Errorf("netlist: invalid metric %q", s)
		}
		*m = Unbounded
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*m = Metric(n)
	return nil
}

// Add returns the sum of ms. Any unbounded operand, or an overflow,
// yields Unbounded.
func Add(ms ...Metric) Metric {
	var sum Metric
	for _, m := range ms {
		if m == Unbounded || sum > Unbounded-m {
			return Unbounded
		}
		sum += m
	}
	return sum
}

// Min returns the smallest of ms, or Unbounded when ms is empty or every
// operand is unbounded.
func Min(ms ...Metric) Metric {
	low := Unbounded
	for _, m := range ms {
		if m < low {
			low = m
		}
	}
	return low
}
