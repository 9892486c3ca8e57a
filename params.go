package hashroute

import "strings"

// SlotKind identifies what a capture slot of a pattern captures.
type SlotKind int

const (
	// SlotNamed captures a single path segment (':name').
	SlotNamed SlotKind = iota
	// SlotSplat captures any run of characters, including '/' ('*name').
	SlotSplat
	// SlotQuery captures the raw query string following a '?'. Every pattern
	// ends with exactly one query slot.
	SlotQuery
)

func (k SlotKind) String() string {
	switch k {
	case SlotNamed:
		return "named"
	case SlotSplat:
		return "splat"
	case SlotQuery:
		return "query"
	}
	return "unknown"
}

// Slot describes a single capture of a compiled pattern.
type Slot struct {
	Name string
	Kind SlotKind
}

// Param is a single captured value. Present is false when the slot matched no
// text, for example when an optional group was absent from the fragment.
type Param struct {
	Name    string
	Kind    SlotKind
	Value   string
	Present bool
}

// Params holds the values captured from a fragment, in the order the slots
// appear in the route template. The last entry is always the raw query string.
type Params []Param

// Get returns the value of a parameter by name. The lookup is case-insensitive
// (e.g., 'ID' and 'id' match the same parameter). Returns an empty string if the
// parameter doesn't exist or is absent.
func (p Params) Get(name string) string {
	value, _ := p.Lookup(name)
	return value
}

// Lookup is like Get but also reports whether the parameter was present.
func (p Params) Lookup(name string) (string, bool) {
	for _, param := range p {
		if param.Kind != SlotQuery && strings.EqualFold(param.Name, name) {
			return param.Value, param.Present
		}
	}
	return "", false
}

// Query returns the raw, undecoded query string and whether one was present.
func (p Params) Query() (string, bool) {
	if len(p) == 0 {
		return "", false
	}
	last := p[len(p)-1]
	return last.Value, last.Present
}

// Values returns the captured values in slot order with nil for absent slots.
func (p Params) Values() []*string {
	values := make([]*string, len(p))
	for i := range p {
		if p[i].Present {
			value := p[i].Value
			values[i] = &value
		}
	}
	return values
}
