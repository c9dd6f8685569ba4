package view

import "fmt"

// Mode is the direction semantics of a dependency view.
type Mode int

const (
	// ModeUpstream shows what the module consumes, transitively.
	ModeUpstream Mode = iota
	// ModeDownstream shows what consumes the module, transitively.
	ModeDownstream
	// ModeBoth walks edges either way and keeps cross-links between branches.
	ModeBoth
	// ModePaths is the union of upstream and downstream: strict ancestors and
	// descendants only, no siblings reached through a shared neighbour.
	ModePaths
)

var modeNames = [...]string{
	ModeUpstream:   "upstream",
	ModeDownstream: "downstream",
	ModeBoth:       "both",
	ModePaths:      "paths",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode maps the wire name of a mode to its value.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown dependency mode %q (want upstream, downstream, both or paths)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(modeNames) {
		return nil, fmt.Errorf("invalid mode %d", int(m))
	}
	return []byte(modeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
