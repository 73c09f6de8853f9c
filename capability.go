package hal

import (
	"encoding/json"
	"fmt"
	"strings"
)

// HasProperties reports whether r carries every named property.
// Explicit nulls count as present.
func HasProperties(r Representation, names ...string) bool {
	props, err := r.Properties()
	if err != nil {
		return false
	}
	for _, name := range names {
		if !props.Has(name) {
			return false
		}
	}
	return true
}

// Contract returns the property names a struct type T requires, in field order.
// Non-struct types require nothing.
func Contract[T any]() []string {
	meta, ok := scan[T]()
	if !ok {
		return nil
	}
	names := make([]string, 0, len(meta.Fields))
	for _, field := range meta.Fields {
		if name, ok := propertyName(field); ok {
			names = append(names, name)
		}
	}
	return names
}

// Satisfies reports whether r exposes every property T requires.
func Satisfies[T any](r Representation) bool {
	return HasProperties(r, Contract[T]()...)
}

// As binds the properties of r into a new T. It fails with
// ErrContractUnsatisfied when r lacks a property T requires.
func As[T any](r Representation) (T, error) {
	var out T
	props, err := r.Properties()
	if err != nil {
		return out, err
	}
	for _, name := range Contract[T]() {
		if !props.Has(name) {
			return out, fmt.Errorf("%w: missing property %q", ErrContractUnsatisfied, name)
		}
	}
	data, err := renamed[T](props).MarshalJSON()
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrContractUnsatisfied, err)
	}
	return out, nil
}

// renamed maps hal tag names back to the names encoding/json expects for T.
func renamed[T any](props Properties) Properties {
	meta, ok := scan[T]()
	if !ok {
		return props
	}
	out := props
	for _, field := range meta.Fields {
		name, mapped := propertyName(field)
		if !mapped {
			continue
		}
		jsonName := field.Name
		if tag, ok := field.Tags["json"]; ok {
			if n, _, _ := strings.Cut(tag, ","); n != "" && n != "-" {
				jsonName = n
			}
		}
		if jsonName == name {
			continue
		}
		if v, ok := props.Get(name); ok {
			out = out.With(jsonName, v)
		}
	}
	return out
}
