package hal

import (
	"encoding/json"
	"reflect"
)

// Equal reports whether a and b render the same compact document.
//
// Links and embedded resources are compared per collated relation group, so
// declaration order across relations does not matter while order within a
// group does. Property order is ignored and numbers compare by value.
// Namespaces are compared on the root only, the way they appear on the wire.
// Raw content and typed payload types are not compared.
func Equal(a, b Representation) bool {
	ca, err := canonical(a)
	if err != nil {
		return false
	}
	cb, err := canonical(b)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(ca, cb)
}

// canonical renders r into generic JSON values with unordered objects.
func canonical(r Representation) (any, error) {
	tree, err := encodeTree(r, Options{}, false, r.ns)
	if err != nil {
		return nil, err
	}
	data, err := tree.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
