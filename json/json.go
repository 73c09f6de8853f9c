// Package json provides the application/hal+json codec.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/zoobzio/hal"
)

const format = "json"

// jsonCodec implements hal.Codec for HAL JSON.
type jsonCodec struct {
	opts hal.Options
}

// New returns a HAL JSON codec.
func New(opts ...hal.Option) hal.Codec {
	return &jsonCodec{opts: hal.ApplyOptions(opts...)}
}

// ContentType returns the MIME type for HAL JSON.
func (c *jsonCodec) ContentType() string {
	return hal.MediaTypeJSON
}

// Marshal encodes r as a compact HAL JSON document.
func (c *jsonCodec) Marshal(r hal.Representation) ([]byte, error) {
	tree, err := hal.EncodeTree(r, c.opts)
	if err != nil {
		return nil, err
	}
	data, err := tree.MarshalJSON()
	if err != nil {
		return nil, err
	}
	if !c.opts.Pretty {
		return data, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a HAL JSON document, keeping field order.
func (c *jsonCodec) Unmarshal(data []byte) (hal.Representation, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := decodeValue(dec)
	if err != nil {
		return hal.Representation{}, hal.Malformed(format, "", err)
	}
	doc, ok := root.(hal.Properties)
	if !ok {
		return hal.Representation{}, hal.Malformed(format, "", errors.New("document is not an object"))
	}
	if _, err := dec.Token(); err != io.EOF {
		return hal.Representation{}, hal.Malformed(format, "", errors.New("trailing data after document"))
	}

	r, err := hal.DecodeTree(format, doc)
	if err != nil {
		return hal.Representation{}, err
	}
	return r.WithContent(data), nil
}

// decodeValue reads one JSON value from dec. Objects become ordered
// hal.Properties, arrays []any and numbers int64 or float64 when they fit.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			var obj hal.Properties
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, errors.New("object key is not a string")
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj = obj.With(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		default:
			return nil, errors.New("unexpected delimiter " + v.String())
		}
	case json.Number:
		return number(v), nil
	default:
		return v, nil
	}
}

// number narrows n to int64 or float64, keeping the literal when neither fits.
func number(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n
}
