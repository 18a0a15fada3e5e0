package netlist

import (
	"slices"
	"sort"
	"strings"

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
)

// PlaceholderPrefix marks a gate output left unconnected by synthesis.
// Placeholder outputs may repeat and never produce dependency edges.
const PlaceholderPrefix = "UNCONNECTED"

// IsPlaceholder reports whether name is an unconnected-output placeholder.
func IsPlaceholder(name string) bool {
	return strings.HasPrefix(name, PlaceholderPrefix)
}

// NetID indexes Netlist.Nets.
type NetID int

// Net is a named signal carrying its SCOAP metrics.
type Net struct {
	Name string
	Role Role
	CC0  Metric
	CC1  Metric
	CO   Metric
}

// Gate is a logic cell with one output net and ordered input nets.
type Gate struct {
	Type   string   // Cell type label as written in the source
	Kind   GateKind // Classified once at load time
	Inputs []NetID
	Output NetID
}

// GateRecord is a gate as read from a netlist source, before net names
// are resolved.
type GateRecord struct {
	Type   string   `json:"type"`
	Output string   `json:"output"`
	Inputs []string `json:"inputs"`
}

// Input is the raw description of a design consumed by Load.
type Input struct {
	Gates          []GateRecord `json:"gates"`
	PrimaryInputs  []string     `json:"primary_inputs"`
	PrimaryOutputs []string     `json:"primary_outputs"`

	// Wires declares nets that exist in the design even when no gate
	// uses them. Undriven wires are reported as isolated rather than
	// undefined.
	Wires []string `json:"wires,omitempty"`

	// Fanout optionally lists explicit destinations per net. When nil the
	// table is reconstructed from gate connectivity.
	Fanout map[string][]string `json:"fanout,omitempty"`
}

// Netlist is a loaded design with interned nets.
//
// Nets are stored in first-seen order: primary inputs, primary outputs,
// then gate inputs and outputs in gate order, then declared wires and
// explicit fan-out nets. The netlist owns the metric fields of its nets;
// the SCOAP engines write them.
type Netlist struct {
	Nets     []Net
	Gates    []Gate
	Inputs   []NetID
	Outputs  []NetID
	Wires    []NetID
	Warnings []errors.Warning

	index    map[string]NetID
	drivers  map[NetID]int
	fanout   map[NetID][]NetID
	explicit bool
}

// Load builds a Netlist from raw records.
//
// Bus ranges in the boundary lists, wires and gate inputs are expanded to
// scalar nets. Load fails with a FORMAT_ERROR when a range cannot be
// parsed, a gate has no output or no inputs, a gate output names more than
// one bit, or two gates drive the same non-placeholder net. A gate input
// that nothing declares or drives yields an UNDEFINED_NET warning instead
// and keeps unbounded metrics.
func Load(in Input) (*Netlist, error) {
	nl := &Netlist{
		index:   make(map[string]NetID),
		drivers: make(map[NetID]int),
	}

	pis, err := nl.internAll(in.PrimaryInputs, "primary input")
	if err != nil {
		return nil, err
	}
	for _, id := range pis {
		nl.Nets[id].Role |= RoleInput
	}
	nl.Inputs = dedupe(pis)

	pos, err := nl.internAll(in.PrimaryOutputs, "primary output")
	if err != nil {
		return nil, err
	}
	for _, id := range pos {
		nl.Nets[id].Role |= RoleOutput
	}
	nl.Outputs = dedupe(pos)

	nl.Gates = make([]Gate, 0, len(in.Gates))
	for i, rec := range in.Gates {
		g, err := nl.loadGate(i, rec)
		if err != nil {
			return nil, err
		}
		nl.Gates = append(nl.Gates, g)
	}

	wires, err := nl.internAll(in.Wires, "wire")
	if err != nil {
		return nil, err
	}
	nl.Wires = dedupe(wires)

	if in.Fanout != nil {
		if err := nl.loadFanout(in.Fanout); err != nil {
			return nil, err
		}
	} else {
		nl.fanout = nl.deriveFanout()
	}

	nl.checkUndefined()
	nl.ResetMetrics()
	return nl, nil
}

func (nl *Netlist) loadGate(i int, rec GateRecord) (Gate, error) {
	if err := errors.ValidateGateType(rec.Type); err != nil {
		return Gate{}, errors.Wrap(errors.ErrCodeFormat, err, "gate %d", i)
	}
	if rec.Output == "" {
		return Gate{}, errors.New(errors.ErrCodeFormat, "gate %d (%s) has no output", i, rec.Type)
	}
	if len(rec.Inputs) == 0 {
		return Gate{}, errors.New(errors.ErrCodeFormat, "gate %d (%s -> %s) has no inputs", i, rec.Type, rec.Output)
	}

	outs, err := nl.internAll([]string{rec.Output}, "gate output")
	if err != nil {
		return Gate{}, err
	}
	if len(outs) != 1 {
		return Gate{}, errors.New(errors.ErrCodeFormat, "gate %d (%s) output %q names %d bits", i, rec.Type, rec.Output, len(outs))
	}
	out := outs[0]

	ins, err := nl.internAll(rec.Inputs, "gate input")
	if err != nil {
		return Gate{}, err
	}

	if prev, ok := nl.drivers[out]; ok && !IsPlaceholder(rec.Output) {
		return Gate{}, errors.New(errors.ErrCodeFormat, "net %q is driven by gates %d and %d", rec.Output, prev, i)
	}
	nl.drivers[out] = i

	return Gate{
		Type:   rec.Type,
		Kind:   ClassifyGate(rec.Type),
		Inputs: ins,
		Output: out,
	}, nil
}

func (nl *Netlist) loadFanout(table map[string][]string) error {
	nl.explicit = true
	nl.fanout = make(map[NetID][]NetID, len(table))

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		srcs, err := nl.internAll([]string{k}, "fan-out net")
		if err != nil {
			return err
		}
		dests, err := nl.internAll(table[k], "fan-out destination")
		if err != nil {
			return err
		}
		for _, src := range srcs {
			nl.fanout[src] = appendUnique(nl.fanout[src], dests...)
		}
	}
	return nil
}

// deriveFanout maps every gate input to the outputs of the gates it feeds.
func (nl *Netlist) deriveFanout() map[NetID][]NetID {
	fo := make(map[NetID][]NetID)
	for _, g := range nl.Gates {
		for _, in := range g.Inputs {
			fo[in] = appendUnique(fo[in], g.Output)
		}
	}
	return fo
}

func (nl *Netlist) checkUndefined() {
	declared := make(map[NetID]bool, len(nl.Wires))
	for _, id := range nl.Wires {
		declared[id] = true
	}
	seen := make(map[NetID]bool)
	for _, g := range nl.Gates {
		for _, in := range g.Inputs {
			if seen[in] {
				continue
			}
			seen[in] = true
			if _, driven := nl.drivers[in]; driven || declared[in] || nl.Nets[in].Role.IsBoundary() {
				continue
			}
			name := nl.Nets[in].Name
			nl.Warnings = append(nl.Warnings,
				errors.Warn(errors.ErrCodeUndefinedNet, name, "net is neither a primary input nor driven by any gate"))
		}
	}
}

func (nl *Netlist) internAll(names []string, what string) ([]NetID, error) {
	bits, err := expandAll(names)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFormat, err, "invalid %s", what)
	}
	ids := make([]NetID, 0, len(bits))
	for _, b := range bits {
		if err := errors.ValidateNetName(b); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFormat, err, "invalid %s", what)
		}
		ids = append(ids, nl.intern(b))
	}
	return ids, nil
}

func (nl *Netlist) intern(name string) NetID {
	if id, ok := nl.index[name]; ok {
		return id
	}
	id := NetID(len(nl.Nets))
	nl.Nets = append(nl.Nets, Net{Name: name, CC0: Unbounded, CC1: Unbounded, CO: Unbounded})
	nl.index[name] = id
	return id
}

// ResetMetrics sets every CC0, CC1 and CO back to Unbounded.
func (nl *Netlist) ResetMetrics() {
	for i := range nl.Nets {
		nl.Nets[i].CC0 = Unbounded
		nl.Nets[i].CC1 = Unbounded
		nl.Nets[i].CO = Unbounded
	}
}

// Lookup returns the ID of the named net.
func (nl *Netlist) Lookup(name string) (NetID, bool) {
	id, ok := nl.index[name]
	return id, ok
}

// Net returns the named net, or nil if it does not exist.
func (nl *Netlist) Net(name string) *Net {
	if id, ok := nl.index[name]; ok {
		return &nl.Nets[id]
	}
	return nil
}

// Name returns the name of net id.
func (nl *Netlist) Name(id NetID) string { return nl.Nets[id].Name }

// Names resolves a list of IDs to names.
func (nl *Netlist) Names(ids []NetID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = nl.Nets[id].Name
	}
	return out
}

// Driver returns the index into Gates of the gate driving net id.
func (nl *Netlist) Driver(id NetID) (int, bool) {
	g, ok := nl.drivers[id]
	return g, ok
}

// AllNets returns every net name in first-seen order.
func (nl *Netlist) AllNets() []string {
	out := make([]string, len(nl.Nets))
	for i := range nl.Nets {
		out[i] = nl.Nets[i].Name
	}
	return out
}

// NetCount returns the number of interned nets.
func (nl *Netlist) NetCount() int { return len(nl.Nets) }

// Fanout returns the destination table keyed by net ID. The map and its
// slices are shared and must not be modified.
func (nl *Netlist) Fanout() map[NetID][]NetID { return nl.fanout }

// FanoutMap returns the destination table keyed by name: the explicit
// table when one was supplied, otherwise one entry per gate input listing
// the outputs of the gates it feeds.
func (nl *Netlist) FanoutMap() map[string][]string {
	out := make(map[string][]string, len(nl.fanout))
	for src, dests := range nl.fanout {
		out[nl.Nets[src].Name] = nl.Names(dests)
	}
	return out
}

// ExplicitFanout reports whether the fan-out table came from the input.
func (nl *Netlist) ExplicitFanout() bool { return nl.explicit }

func appendUnique(dst []NetID, ids ...NetID) []NetID {
	for _, id := range ids {
		if !slices.Contains(dst, id) {
			dst = append(dst, id)
		}
	}
	return dst
}

func dedupe(ids []NetID) []NetID {
	return appendUnique(make([]NetID, 0, len(ids)), ids...)
}
