package hal

import (
	"bytes"
	"encoding/json"
)

// Property is a single named payload value. A nil Value is an explicit null.
type Property struct {
	Name  string
	Value any
}

// Properties is a persistent, insertion-ordered property map.
// Values are scalars, nil, nested Properties or []any.
// The zero value is an empty map ready for use.
type Properties struct {
	entries []Property
}

// NewProperties builds a property map from pairs in order.
func NewProperties(props ...Property) Properties {
	var p Properties
	for _, prop := range props {
		p = p.With(prop.Name, prop.Value)
	}
	return p
}

// With returns a new map with name set to v. An existing name keeps its position.
func (p Properties) With(name string, v any) Properties {
	entries := make([]Property, len(p.entries), len(p.entries)+1)
	copy(entries, p.entries)
	for i := range entries {
		if entries[i].Name == name {
			entries[i].Value = v
			return Properties{entries: entries}
		}
	}
	return Properties{entries: append(entries, Property{Name: name, Value: v})}
}

// Get returns the value for name and whether it is present.
func (p Properties) Get(name string) (any, bool) {
	for _, e := range p.entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

// Has reports whether name is present, including explicit nulls.
func (p Properties) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Len returns the number of properties.
func (p Properties) Len() int { return len(p.entries) }

// Names returns property names in order.
func (p Properties) Names() []string {
	names := make([]string, len(p.entries))
	for i, e := range p.entries {
		names[i] = e.Name
	}
	return names
}

// All returns the properties in order.
func (p Properties) All() []Property {
	out := make([]Property, len(p.entries))
	copy(out, p.entries)
	return out
}

// HasNull reports whether any top-level property is an explicit null.
func (p Properties) HasNull() bool {
	for _, e := range p.entries {
		if e.Value == nil {
			return true
		}
	}
	return false
}

// MarshalJSON encodes the map as a JSON object preserving order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range p.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalJSON(e.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalJSON(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalJSON encodes v without HTML escaping so hrefs stay readable.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
