package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ranaumarnadeem/opentestability/pkg/dag"
	"github.com/ranaumarnadeem/opentestability/pkg/errors"
	"github.com/ranaumarnadeem/opentestability/pkg/graph"
	"github.com/ranaumarnadeem/opentestability/pkg/netlist"
)

// Format names a netlist file format.
type Format string

const (
	FormatGateList Format = "gatelist"
	FormatJSON     Format = "json"
	FormatBench    Format = "bench"
)

// DetectFormat picks a format from the file extension. Anything that is
// not .json or .bench is read as a gate list.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".bench":
		return FormatBench
	}
	return FormatGateList
}

// ReadNetlistJSON decodes a JSON netlist:
//
//	{
//	  "primary_inputs": ["a", "b"],
//	  "primary_outputs": ["y"],
//	  "gates": [{"type": "NAND2", "output": "y", "inputs": ["a", "b"]}],
//	  "wires": [],
//	  "fanout": {"a": ["y"]}
//	}
//
// Only "gates" is required in practice; the other keys may be omitted.
func ReadNetlistJSON(r io.Reader) (netlist.Input, error) {
	var in netlist.Input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return netlist.Input{}, errors.Wrap(errors.ErrCodeFormat, err, "decode netlist")
	}
	return in, nil
}

// ReadNetlist reads r in the given format.
func ReadNetlist(r io.Reader, format Format) (netlist.Input, []errors.Warning, error) {
	switch format {
	case FormatJSON:
		in, err := ReadNetlistJSON(r)
		return in, nil, err
	case FormatBench:
		return ReadBench(r)
	case FormatGateList, "":
		return ReadGateList(r)
	}
	return netlist.Input{}, nil, errors.New(errors.ErrCodeUnsupported, "unknown netlist format %q", format)
}

// ReadNetlistFile opens path and reads it in the format implied by its
// extension.
func ReadNetlistFile(path string) (netlist.Input, []errors.Warning, error) {
	f, err := open(path)
	if err != nil {
		return netlist.Input{}, nil, err
	}
	defer f.Close()
	return ReadNetlist(f, DetectFormat(path))
}

// ReadDAGJSON decodes a dependency graph written by WriteDAGJSON. Cycles
// are accepted; reconvergence detection breaks them.
func ReadDAGJSON(r io.Reader) (*dag.DAG, error) {
	g, err := graph.ReadGraph(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFormat, err, "read dependency graph")
	}
	return g, nil
}

// ReadDAGFile reads a dependency graph JSON file.
func ReadDAGFile(path string) (*dag.DAG, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDAGJSON(f)
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	return f, nil
}
