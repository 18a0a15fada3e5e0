package netlist

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
)

// MaxVectorWidth bounds the number of bits a single range may expand to.
const MaxVectorWidth = 1 << 16

var (
	rangeRe  = regexp.MustCompile(`^(.+)\[(\d+):(\d+)\]$`)
	selectRe = regexp.MustCompile(`^(.+)\[(\d+)\]$`)
)

// ExpandVector expands a bus range into scalar bit names.
//
// "bus[7:0]" yields bus[7], bus[6], … bus[0] and "bus[0:7]" yields the
// ascending list. A scalar name, including a single bit select such as
// "bus[3]", is returned unchanged. Any other bracket syntax is a format
// error.
func ExpandVector(name string) ([]string, error) {
	if m := rangeRe.FindStringSubmatch(name); m != nil {
		base := m[1]
		hi, err1 := strconv.Atoi(m[2])
		lo, err2 := strconv.Atoi(m[3])
		if err1 != nil || err2 != nil || strings.ContainsAny(base, "[]") {
			return nil, errors.New(errors.ErrCodeFormat, "unparseable vector range %q", name)
		}
		width := hi - lo
		if width < 0 {
			width = -width
		}
		if width+1 > MaxVectorWidth {
			return nil, errors.New(errors.ErrCodeFormat, "vector range %q exceeds %d bits", name, MaxVectorWidth)
		}
		step := 1
		if hi > lo {
			step = -1
		}
		bits := make([]string, 0, width+1)
		for i := hi; ; i += step {
			bits = append(bits, base+"["+strconv.Itoa(i)+"]")
			if i == lo {
				break
			}
		}
		return bits, nil
	}

	if m := selectRe.FindStringSubmatch(name); m != nil && !strings.ContainsAny(m[1], "[]") {
		return []string{name}, nil
	}

	if strings.ContainsAny(name, "[]") {
		return nil, errors.New(errors.ErrCodeFormat, "unparseable vector range %q", name)
	}
	return []string{name}, nil
}

// expandAll expands every name in order.
func expandAll(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, n := range names {
		bits, err := ExpandVector(n)
		if err != nil {
			return nil, err
		}
		out = append(out, bits...)
	}
	return out, nil
}
