package hal

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register the tags used to name mapped properties
	sentinel.Tag("hal")
	sentinel.Tag("json")
}

// PropertiesOf maps a host value into ordered properties.
//
// Supported inputs are Properties, map[string]T (keys sorted), structs and
// pointers to structs. Struct fields are named by their hal tag, then their
// json tag, then the Go field name; a tag of "-" skips the field. Nil
// pointers and nil interfaces become explicit nulls.
func PropertiesOf(v any) (Properties, error) {
	switch p := v.(type) {
	case nil:
		return Properties{}, nil
	case Properties:
		return p, nil
	case *Properties:
		if p == nil {
			return Properties{}, nil
		}
		return *p, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return Properties{}, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		return mapProperties(rv)
	case reflect.Struct:
		return structProperties(rv)
	default:
		return Properties{}, fmt.Errorf("cannot map %s to properties", rv.Type())
	}
}

func mapProperties(rv reflect.Value) (Properties, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return Properties{}, fmt.Errorf("cannot map %s to properties: keys must be strings", rv.Type())
	}
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	p := Properties{entries: make([]Property, 0, len(keys))}
	for _, k := range keys {
		val, err := normalize(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())
		if err != nil {
			return Properties{}, fmt.Errorf("property %s: %w", k, err)
		}
		p.entries = append(p.entries, Property{Name: k, Value: val})
	}
	return p, nil
}

func structProperties(rv reflect.Value) (Properties, error) {
	meta := metadataFor(rv.Type())
	p := Properties{entries: make([]Property, 0, len(meta.Fields))}
	for _, field := range meta.Fields {
		name, ok := propertyName(field)
		if !ok {
			continue
		}
		fv := rv.FieldByIndex(field.Index)
		val, err := normalize(fv.Interface())
		if err != nil {
			return Properties{}, fmt.Errorf("property %s: %w", name, err)
		}
		p = p.With(name, val)
	}
	return p, nil
}

// normalize converts a host value into the tree value set: nil, bool,
// string, numbers, Properties and []any.
func normalize(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, string, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return val, nil
	case Properties:
		out := Properties{entries: make([]Property, len(val.entries))}
		for i, e := range val.entries {
			n, err := normalize(e.Value)
			if err != nil {
				return nil, err
			}
			out.entries[i] = Property{Name: e.Name, Value: n}
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case encoding.TextMarshaler:
		text, err := val.MarshalText()
		if err != nil {
			return nil, err
		}
		return string(text), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return normalize(rv.Elem().Interface())
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			n, err := normalize(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case reflect.Map, reflect.Struct:
		if rv.Kind() == reflect.Map && rv.IsNil() {
			return nil, nil
		}
		return PropertiesOf(v)
	default:
		return nil, fmt.Errorf("unsupported property value %T", v)
	}
}

// metadataFor returns sentinel metadata for a struct type, building it by
// reflection when the type was never scanned.
func metadataFor(rt reflect.Type) sentinel.Metadata {
	if meta, ok := sentinel.Lookup(rt.String()); ok {
		return meta
	}

	meta := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tags := map[string]string{}
		for _, name := range []string{"hal", "json"} {
			if val, ok := sf.Tag.Lookup(name); ok {
				tags[name] = val
			}
		}
		meta.Fields = append(meta.Fields, sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        tags,
		})
	}
	return meta
}

// propertyName resolves the property name of a field and whether it is mapped.
func propertyName(field sentinel.FieldMetadata) (string, bool) {
	for _, tag := range []string{"hal", "json"} {
		val, ok := field.Tags[tag]
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(val, ",")
		if name == "-" {
			return "", false
		}
		if name != "" {
			return name, true
		}
	}
	return field.Name, true
}

// scan returns sentinel metadata for T when T is a struct.
func scan[T any]() (sentinel.Metadata, bool) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return sentinel.Metadata{}, false
	}
	return sentinel.Scan[T](), true
}
