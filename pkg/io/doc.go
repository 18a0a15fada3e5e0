// Package io reads netlists and writes analysis results.
//
// # Netlist Formats
//
// Three input formats load into a [netlist.Input]:
//
//   - Gate list (.txt and anything unrecognized): one "TYPE out(...) in(...)"
//     line per gate plus INPUT, OUTPUT, WIRE and FANOUT lines. This is the
//     flat format HDL extractors emit. See [ReadGateList].
//   - JSON (.json): primary_inputs, primary_outputs, gates, wires and an
//     optional fanout table. See [ReadNetlistJSON].
//   - ISCAS bench (.bench): INPUT(x), OUTPUT(y) and "y = NAND(a, b)". See
//     [ReadBench].
//
// Use [ReadNetlistFile] to pick the reader from the file extension. The
// text readers are tolerant: a malformed line becomes a FORMAT_ERROR
// warning and the rest of the file still loads.
//
// # Output
//
// [WriteSCOAP] prints the CC0, CC1 and CO tables as plain text sections.
// [WriteReportJSON] and [ReadReportJSON] round-trip a [report.Report], and
// [WriteDAGJSON] and [ReadDAGJSON] round-trip the net dependency graph so
// reconvergence detection can start from a saved graph.
//
// [netlist.Input]: github.com/ranaumarnadeem/opentestability/pkg/netlist.Input
// [report.Report]: github.com/ranaumarnadeem/opentestability/pkg/report.Report
package io
