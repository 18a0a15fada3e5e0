// Package pkg provides the core libraries for opentestability.
//
// # Overview
//
// opentestability computes SCOAP testability metrics for gate-level
// netlists and finds reconvergent fan-out in their net dependency graphs.
// The pkg directory is organized into four main areas:
//
//  1. Domain logic ([netlist], [scoap], [netgraph], [reconv])
//  2. Graph structures and serialization ([dag], [graph])
//  3. Infrastructure ([cache], [store], [config], [observability])
//  4. Orchestration and output ([pipeline], [io], [report], [render])
//
// # Architecture
//
// The typical data flow:
//
//	Netlist file (gate list, bench, JSON)
//	         ↓
//	    [io] package (read and validate records)
//	         ↓
//	    [netlist] package (nets, gates, roles)
//	         ↓
//	    [scoap] package (CC0, CC1, CO)  +  [netgraph] → [reconv] (sites)
//	         ↓
//	    [report] package (summary, hardest nets)
//	         ↓
//	    text / JSON / Markdown / DOT / SVG / PNG
//
// # Quick Start
//
//	in, warnings, _ := io.ReadNetlistFile("c17.bench")
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Source{Input: in, Warnings: warnings}, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, n := range res.Report.Hardest(5, report.Observability) {
//	    fmt.Println(n.Name, n.CO)
//	}
//
// # Main Packages
//
// [scoap] - Controllability and observability engines. Both relax until a
// fixed point so feedback loops are handled without a topological order.
//
// [reconv] - Reconvergent fan-out detection over an acyclic copy of the
// dependency graph, reporting stem and pair records with disjoint paths.
//
// [pipeline] - The load, analyze, report sequence shared by the CLI and the
// HTTP API, with result caching keyed by input hash and options.
//
// [cache] - File, Redis and null cache backends plus key helpers.
//
// [store] - SQLite history of saved runs.
//
// [netlist]: https://pkg.go.dev/github.com/ranaumarnadeem/opentestability/pkg/netlist
// [scoap]: https://pkg.go.dev/github.com/ranaumarnadeem/opentestability/pkg/scoap
// [netgraph]: https://pkg.go.dev/github.com/ranaumarnadeem/opentestability/pkg/netgraph
// [reconv]: https://pkg.go.dev/github.com/ranaumarnadeem/opentestability/pkg/reconv
// [dag]: https://pkg.go.dev/github.com/ranaumarnadeem/opentestability/pkg/dag
// [graph]: https://pkg.go.dev/github.com/ranaumarnadeem/opentestability/pkg/graph
// [cache]: https://pkg.go.dev/github.com/ranaumarnadeem/opentestability/pkg/cache
// [store]: https://pkg.go.dev/github.com/ranaumarnadeem/opentestability/pkg/store
// [config]: https://pkg.go.dev/github.com/ranaumarnadeem/opentestability/pkg/config
// [observability]: https://pkg.go.dev/github.com/ranaumarnadeem/opentestability/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/ranaumarnadeem/opentestability/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/ranaumarnadeem/opentestability/pkg/io
// [report]: https://pkg.go.dev/github.com/ranaumarnadeem/opentestability/pkg/report
// [render]: https://pkg.go.dev/github.com/ranaumarnadeem/opentestability/pkg/render
package pkg
