package netlist

import "strings"

// Role tags a net as a primary boundary. A net may be both a primary
// input and a primary output; the zero value is an internal net.
type Role uint8

const (
	RoleInternal Role = 0
	RoleInput    Role = 1 << 0
	RoleOutput   Role = 1 << 1
)

// IsInput reports whether the net is a primary input.
func (r Role) IsInput() bool { return r&RoleInput != 0 }

// IsOutput reports whether the net is a primary output.
func (r Role) IsOutput() bool { return r&RoleOutput != 0 }

// IsBoundary reports whether the net is a primary input or output.
func (r Role) IsBoundary() bool { return r != RoleInternal }

// String returns "internal", "input", "output" or "input,output".
func (r Role) String() string {
	if r == RoleInternal {
		return "internal"
	}
	var parts []string
	if r.IsInput() {
		parts = append(parts, "input")
	}
	if r.IsOutput() {
		parts = append(parts, "output")
	}
	return strings.Join(parts, ",")
}

// ParseRole is the inverse of Role.String.
func ParseRole(s string) Role {
	var r Role
	for _, part := range strings.Split(s, ",") {
		switch strings.TrimSpace(part) {
		case "input":
			r |= RoleInput
		case "output":
			r |= RoleOutput
		}
	}
	return r
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	*r = ParseRole(string(text))
	return nil
}
