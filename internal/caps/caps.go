// ABOUTME: Immutable media capability descriptors with intersection testing.
// ABOUTME: Parses "media/type, field={a,b}; other/type" strings into comparable values.

package caps

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidCaps indicates a capability string could not be parsed.
var ErrInvalidCaps = errors.New("invalid caps")

// Caps describes the set of media formats an output can produce or a consumer
// accepts. A Caps value is never mutated after construction; a nil *Caps is
// treated as empty.
type Caps struct {
	any        bool
	structures []structure
}

// structure is one media type with optional field constraints.
// Field values are kept sorted so equality is order-independent.
type structure struct {
	name   string
	fields map[string][]string
}

// Any returns caps that intersect with every non-empty caps.
func Any() *Caps {
	return &Caps{any: true}
}

// Empty returns caps that intersect with nothing.
func Empty() *Caps {
	return &Caps{}
}

// MustParse is like Parse but panics on error. Intended for package-level defaults.
func MustParse(s string) *Caps {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse reads a caps string. Structures are separated by ';', fields by ','.
// A field value may be a single token or a '{a,b}' list and may carry a
// '(type)' prefix which is ignored. "ANY" and "EMPTY" are recognised.
func Parse(s string) (*Caps, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "ANY":
		return Any(), nil
	case "", "EMPTY":
		return Empty(), nil
	}

	c := &Caps{}
	for _, raw := range splitTopLevel(s, ';') {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		st, err := parseStructure(raw)
		if err != nil {
			return nil, err
		}
		c.structures = append(c.structures, st)
	}
	return c, nil
}

func parseStructure(raw string) (structure, error) {
	parts := splitTopLevel(raw, ',')
	name := strings.TrimSpace(parts[0])
	if name == "" || strings.ContainsAny(name, "={}() ") {
		return structure{}, fmt.Errorf("%w: bad media type %q", ErrInvalidCaps, name)
	}

	st := structure{name: name, fields: make(map[string][]string)}
	for _, field := range parts[1:] {
		key, value, ok := strings.Cut(field, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return structure{}, fmt.Errorf("%w: bad field %q in %q", ErrInvalidCaps, strings.TrimSpace(field), name)
		}
		values, err := parseValues(value)
		if err != nil {
			return structure{}, fmt.Errorf("%w: field %q in %q", err, key, name)
		}
		st.fields[key] = values
	}
	return st, nil
}

func parseValues(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "(") {
		end := strings.Index(raw, ")")
		if end < 0 {
			return nil, fmt.Errorf("%w: unterminated type in %q", ErrInvalidCaps, raw)
		}
		raw = strings.TrimSpace(raw[end+1:])
	}

	var values []string
	if strings.HasPrefix(raw, "{") {
		if !strings.HasSuffix(raw, "}") {
			return nil, fmt.Errorf("%w: unterminated list %q", ErrInvalidCaps, raw)
		}
		for _, v := range strings.Split(raw[1:len(raw)-1], ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
	} else if raw != "" {
		values = []string{raw}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty value", ErrInvalidCaps)
	}
	slices.Sort(values)
	return slices.Compact(values), nil
}

// splitTopLevel splits s on sep, ignoring separators inside braces.
func splitTopLevel(s string, sep rune) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + len(string(sep))
			}
		}
	}
	return append(out, s[start:])
}

// IsAny reports whether c accepts every format.
func (c *Caps) IsAny() bool {
	return c != nil && c.any
}

// IsEmpty reports whether c accepts no format.
func (c *Caps) IsEmpty() bool {
	return c == nil || (!c.any && len(c.structures) == 0)
}

// CanIntersect reports whether at least one format is accepted by both c and other.
func (c *Caps) CanIntersect(other *Caps) bool {
	if c.IsEmpty() || other.IsEmpty() {
		return false
	}
	if c.any || other.any {
		return true
	}
	for _, a := range c.structures {
		for _, b := range other.structures {
			if a.intersects(b) {
				return true
			}
		}
	}
	return false
}

// intersects requires equal media types and overlapping values for every
// field both structures constrain. A field missing on one side is unconstrained.
func (s structure) intersects(o structure) bool {
	if s.name != o.name {
		return false
	}
	for key, values := range s.fields {
		other, ok := o.fields[key]
		if !ok {
			continue
		}
		if !overlaps(values, other) {
			return false
		}
	}
	return true
}

func overlaps(a, b []string) bool {
	for _, v := range a {
		if _, found := slices.BinarySearch(b, v); found {
			return true
		}
	}
	return false
}

// Copy returns an independent copy of c.
func (c *Caps) Copy() *Caps {
	if c == nil {
		return nil
	}
	out := &Caps{any: c.any, structures: make([]structure, len(c.structures))}
	for i, st := range c.structures {
		fields := make(map[string][]string, len(st.fields))
		for k, v := range st.fields {
			fields[k] = slices.Clone(v)
		}
		out.structures[i] = structure{name: st.name, fields: fields}
	}
	return out
}

// Equal reports whether c and other describe the same formats in the same order.
func (c *Caps) Equal(other *Caps) bool {
	return c.String() == other.String()
}

// String returns the canonical form of c, with fields sorted by key.
func (c *Caps) String() string {
	if c.IsEmpty() {
		return "EMPTY"
	}
	if c.any {
		return "ANY"
	}

	parts := make([]string, 0, len(c.structures))
	for _, st := range c.structures {
		parts = append(parts, st.String())
	}
	return strings.Join(parts, "; ")
}

func (s structure) String() string {
	keys := make([]string, 0, len(s.fields))
	for k := range s.fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	b.WriteString(s.name)
	for _, k := range keys {
		values := s.fields[k]
		b.WriteString(", ")
		b.WriteString(k)
		b.WriteString("=")
		if len(values) == 1 {
			b.WriteString(values[0])
			continue
		}
		b.WriteString("{")
		b.WriteString(strings.Join(values, ","))
		b.WriteString("}")
	}
	return b.String()
}
