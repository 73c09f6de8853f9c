// Package msgpack provides the application/hal+msgpack codec.
//
// The MessagePack form mirrors HAL JSON: a map holding _links, the
// properties and _embedded, with map entries kept in document order.
package msgpack

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/hal"
)

const format = "msgpack"

// msgpackCodec implements hal.Codec for HAL MessagePack.
type msgpackCodec struct {
	opts hal.Options
}

// New returns a HAL MessagePack codec. WithPretty has no effect.
func New(opts ...hal.Option) hal.Codec {
	return &msgpackCodec{opts: hal.ApplyOptions(opts...)}
}

// ContentType returns the MIME type for HAL MessagePack.
func (c *msgpackCodec) ContentType() string {
	return hal.MediaTypeMsgpack
}

// Marshal encodes r as a HAL MessagePack document.
func (c *msgpackCodec) Marshal(r hal.Representation) ([]byte, error) {
	tree, err := hal.EncodeTree(r, c.opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encodeValue(enc, tree); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a HAL MessagePack document.
func (c *msgpackCodec) Unmarshal(data []byte) (hal.Representation, error) {
	rd := bytes.NewReader(data)
	dec := msgpack.NewDecoder(rd)
	dec.SetMapDecoder(decodeMap)

	v, err := dec.DecodeInterface()
	if err != nil {
		return hal.Representation{}, hal.Malformed(format, "", err)
	}
	doc, ok := v.(hal.Properties)
	if !ok {
		return hal.Representation{}, hal.Malformed(format, "", errors.New("document is not a map"))
	}
	if rd.Len() > 0 {
		return hal.Representation{}, hal.Malformed(format, "", errors.New("trailing data after document"))
	}

	r, err := hal.DecodeTree(format, normalize(doc).(hal.Properties))
	if err != nil {
		return hal.Representation{}, err
	}
	return r.WithContent(data), nil
}

// encodeValue writes a document tree value, keeping map order.
func encodeValue(enc *msgpack.Encoder, v any) error {
	switch val := v.(type) {
	case nil:
		return enc.EncodeNil()
	case hal.Properties:
		if err := enc.EncodeMapLen(val.Len()); err != nil {
			return err
		}
		for _, p := range val.All() {
			if err := enc.EncodeString(p.Name); err != nil {
				return err
			}
			if err := encodeValue(enc, p.Value); err != nil {
				return fmt.Errorf("%s: %w", p.Name, err)
			}
		}
		return nil
	case []any:
		if err := enc.EncodeArrayLen(len(val)); err != nil {
			return err
		}
		for _, item := range val {
			if err := encodeValue(enc, item); err != nil {
				return err
			}
		}
		return nil
	case string:
		return enc.EncodeString(val)
	case bool:
		return enc.EncodeBool(val)
	case int:
		return enc.EncodeInt(int64(val))
	case int64:
		return enc.EncodeInt(val)
	case uint64:
		return enc.EncodeUint(val)
	case float32:
		return enc.EncodeFloat32(val)
	case float64:
		return enc.EncodeFloat64(val)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return enc.EncodeInt(i)
		}
		f, err := val.Float64()
		if err != nil {
			return err
		}
		return enc.EncodeFloat64(f)
	default:
		return enc.Encode(val)
	}
}

// decodeMap reads a map into ordered properties. Keys must be strings.
func decodeMap(dec *msgpack.Decoder) (interface{}, error) {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return nil, nil
	}
	var p hal.Properties
	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		val, err := dec.DecodeInterface()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		p = p.With(key, val)
	}
	return p, nil
}

// normalize widens the sized integers and floats msgpack decodes into
// int64 and float64.
func normalize(v any) any {
	switch val := v.(type) {
	case hal.Properties:
		var out hal.Properties
		for _, p := range val.All() {
			out = out.With(p.Name, normalize(p.Value))
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		if val <= math.MaxInt64 {
			return int64(val)
		}
		return val
	case float32:
		return float64(val)
	default:
		return v
	}
}
