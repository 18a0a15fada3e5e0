package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxNameLength bounds net and gate-type names.
const MaxNameLength = 512

// ValidateNetName validates a net name as it appears in a netlist.
//
// The rules are deliberately narrow so that names round-trip through
// every reader and writer:
//   - No empty names
//   - No whitespace or control characters
//   - No parentheses, commas or quotes (reserved by the text grammars)
//   - Maximum length of MaxNameLength characters
//
// Bracketed bit selects such as "bus[3]" and ranges such as "bus[7:0]"
// are accepted here; range syntax is checked by the vector expander.
func ValidateNetName(name string) error {
	if name == "" {
		return New(ErrCodeFormat, "net name cannot be empty")
	}

	if len(name) > MaxNameLength {
		return New(ErrCodeFormat, "net name too long (max %d characters)", MaxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeFormat, "net name %q contains whitespace or control characters", name)
		}
	}

	if strings.ContainsAny(name, "(),\"'") {
		return New(ErrCodeFormat, "net name %q contains reserved characters", name)
	}

	return nil
}

// gateTypeRegex matches cell type labels such as "NAND2_X1" or
// "sky130_fd_sc_hd__nor3_1".
var gateTypeRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$.]*$`)

// ValidateGateType validates a gate type label.
func ValidateGateType(typ string) error {
	if typ == "" {
		return New(ErrCodeFormat, "gate type cannot be empty")
	}

	if len(typ) > MaxNameLength {
		return New(ErrCodeFormat, "gate type too long (max %d characters)", MaxNameLength)
	}

	if !gateTypeRegex.MatchString(typ) {
		return New(ErrCodeFormat, "invalid gate type: %q", typ)
	}

	return nil
}
