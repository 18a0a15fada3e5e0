package scoap

import (
	"io"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ranaumarnadeem/opentestability/pkg/errors"
)

// IterationSlack is added to twice the net count to form the default
// sweep cap.
const IterationSlack = 8

// minParallelGates is the gate count below which sweeps run inline.
const minParallelGates = 256

// RuleSet selects the AND/NAND/OR/NOR controllability formulas.
type RuleSet int

const (
	// RulesStandard uses textbook SCOAP: a controlling value on any one
	// input is a min, a non-controlling value on every input is a sum.
	RulesStandard RuleSet = iota

	// RulesLegacy reproduces the formulas of the original SCOAP scripts
	// for numeric compatibility with reports they produced.
	RulesLegacy
)

// String returns "standard" or "legacy".
func (r RuleSet) String() string {
	if r == RulesLegacy {
		return "legacy"
	}
	return "standard"
}

// ParseRuleSet parses "standard" or "legacy". The empty string is standard.
func ParseRuleSet(s string) (RuleSet, error) {
	switch strings.ToLower(s) {
	case "", "standard":
		return RulesStandard, nil
	case "legacy":
		return RulesLegacy, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown rule set %q (want standard or legacy)", s)
}

// UnknownPolicy selects the controllability rule for gates whose type
// label matches no known function.
type UnknownPolicy int

const (
	UnknownBuffer UnknownPolicy = iota // CC0 = 1+c0, CC1 = 1+c1
	UnknownInvert                      // CC0 = 1+c1, CC1 = 1+c0
)

// String returns "buffer" or "invert".
func (p UnknownPolicy) String() string {
	if p == UnknownInvert {
		return "invert"
	}
	return "buffer"
}

// ParseUnknownPolicy parses "buffer" or "invert". The empty string is buffer.
func ParseUnknownPolicy(s string) (UnknownPolicy, error) {
	switch strings.ToLower(s) {
	case "", "buffer", "buf":
		return UnknownBuffer, nil
	case "invert", "inv", "not":
		return UnknownInvert, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown gate policy %q (want buffer or invert)", s)
}

// Options configures both relaxation engines.
type Options struct {
	Rules   RuleSet
	Unknown UnknownPolicy

	// ObserveAllInputs applies the backward observability rule to every
	// gate input. By default only the first two inputs are considered,
	// matching the classic formulation.
	ObserveAllInputs bool

	// MaxIterations caps the number of sweeps. Zero selects
	// 2*nets+IterationSlack.
	MaxIterations int

	// Workers bounds sweep parallelism. Zero selects GOMAXPROCS.
	Workers int

	Logger *log.Logger
}

func (o Options) iterationCap(nets int) int {
	if o.MaxIterations > 0 {
		return o.MaxIterations
	}
	return 2*nets + IterationSlack
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}
