package io

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
)

// maxLineLength bounds a single netlist line.
const maxLineLength = 1 << 20

// eachLine calls fn with the 1-based number and trimmed text of every
// non-blank line.
func eachLine(r io.Reader, fn func(n int, text string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fn(n, text)
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeFormat, err, "read line %d", n+1)
	}
	return nil
}

func lineSubject(n int) string { return fmt.Sprintf("line %d", n) }

func lineWarning(n int, err error) errors.Warning {
	return errors.Warn(errors.ErrCodeFormat, lineSubject(n), "%v", err)
}
