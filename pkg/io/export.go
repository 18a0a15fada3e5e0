package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/ranaumarnadeem/opentestability/pkg/dag"
	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/graph"
	"github.com/ranaumarnadeem/opentestability/pkg/netlist"
	"github.com/ranaumarnadeem/opentestability/pkg/report"
)

// WriteSCOAP writes the metrics of nl as three text sections, one line per
// net sorted by name:
//
//	--- SCOAP CONTROLLABILITY (CC0) ---
//	CC0_a: 1
//	...
//
//	--- SCOAP CONTROLLABILITY (CC1) ---
//	CC1_a: 1
//	...
//
//	--- SCOAP OBSERVABILITY (CO) ---
//	CO_a: 3
//
// Unbounded values print as "unbounded".
func WriteSCOAP(w io.Writer, nl *netlist.Netlist) error {
	nets := slices.Clone(nl.Nets)
	slices.SortFunc(nets, func(a, b netlist.Net) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})

	sections := []struct {
		title, prefix string
		value         func(netlist.Net) netlist.Metric
	}{
		{"SCOAP CONTROLLABILITY (CC0)", "CC0", func(n netlist.Net) netlist.Metric { return n.CC0 }},
		{"SCOAP CONTROLLABILITY (CC1)", "CC1", func(n netlist.Net) netlist.Metric { return n.CC1 }},
		{"SCOAP OBSERVABILITY (CO)", "CO", func(n netlist.Net) netlist.Metric { return n.CO }},
	}

	bw := bufio.NewWriter(w)
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprintf(bw, "--- %s ---\n", s.title)
		for _, n := range nets {
			fmt.Fprintf(bw, "%s_%s: %s\n", s.prefix, n.Name, s.value(n))
		}
	}
	return bw.Flush()
}

// WriteNetlistJSON encodes an Input in the format ReadNetlistJSON reads.
func WriteNetlistJSON(w io.Writer, in netlist.Input) error {
	return encode(w, in)
}

// WriteDAGJSON encodes g with its isolated nets.
func WriteDAGJSON(w io.Writer, g *dag.DAG, isolated []string) error {
	out := graph.FromDAG(g)
	out.Isolated = isolated
	return graph.Encode(out, w)
}

// WriteReportJSON encodes a report.
func WriteReportJSON(w io.Writer, r *report.Report) error {
	return encode(w, r)
}

// ReadReportJSON decodes a report written by WriteReportJSON.
func ReadReportJSON(r io.Reader) (*report.Report, error) {
	var rep report.Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFormat, err, "decode report")
	}
	return &rep, nil
}

// WriteFile creates path and calls write with it.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode")
	}
	return nil
}
