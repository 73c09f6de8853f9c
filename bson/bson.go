// Package bson provides the application/hal+bson codec.
//
// The BSON form mirrors HAL JSON: a document holding _links, the properties
// and _embedded, with fields kept in document order.
package bson

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zoobzio/hal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const format = "bson"

// bsonCodec implements hal.Codec for HAL BSON.
type bsonCodec struct {
	opts hal.Options
}

// New returns a HAL BSON codec. WithPretty has no effect.
func New(opts ...hal.Option) hal.Codec {
	return &bsonCodec{opts: hal.ApplyOptions(opts...)}
}

// ContentType returns the MIME type for HAL BSON.
func (c *bsonCodec) ContentType() string {
	return hal.MediaTypeBSON
}

// Marshal encodes r as a HAL BSON document.
func (c *bsonCodec) Marshal(r hal.Representation) ([]byte, error) {
	tree, err := hal.EncodeTree(r, c.opts)
	if err != nil {
		return nil, err
	}
	doc, err := toBSON(tree)
	if err != nil {
		return nil, err
	}
	return bson.Marshal(doc)
}

// Unmarshal decodes a HAL BSON document.
func (c *bsonCodec) Unmarshal(data []byte) (hal.Representation, error) {
	if err := bson.Raw(data).Validate(); err != nil {
		return hal.Representation{}, hal.Malformed(format, "", err)
	}
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return hal.Representation{}, hal.Malformed(format, "", err)
	}

	r, err := hal.DecodeTree(format, fromBSON(doc).(hal.Properties))
	if err != nil {
		return hal.Representation{}, err
	}
	return r.WithContent(data), nil
}

// toBSON converts a document tree value into ordered BSON values.
func toBSON(v any) (any, error) {
	switch val := v.(type) {
	case hal.Properties:
		doc := make(bson.D, 0, val.Len())
		for _, p := range val.All() {
			child, err := toBSON(p.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p.Name, err)
			}
			doc = append(doc, bson.E{Key: p.Name, Value: child})
		}
		return doc, nil
	case []any:
		arr := make(bson.A, 0, len(val))
		for _, item := range val {
			child, err := toBSON(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, child)
		}
		return arr, nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	case uint64:
		if val > 1<<63-1 {
			return nil, errors.New("integer overflows int64")
		}
		return int64(val), nil
	default:
		return val, nil
	}
}

// fromBSON converts decoded BSON values into document tree values.
// Integers become int64, dates RFC 3339 strings and object ids hex strings.
func fromBSON(v any) any {
	switch val := v.(type) {
	case primitive.D:
		var p hal.Properties
		for _, e := range val {
			p = p.With(e.Key, fromBSON(e.Value))
		}
		return p
	case primitive.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = fromBSON(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = fromBSON(item)
		}
		return out
	case int32:
		return int64(val)
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339Nano)
	case primitive.ObjectID:
		return val.Hex()
	case primitive.Null, primitive.Undefined:
		return nil
	default:
		return v
	}
}
