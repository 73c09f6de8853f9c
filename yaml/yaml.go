// Package yaml provides the application/hal+yaml codec.
//
// The YAML form mirrors HAL JSON: a mapping holding _links, the properties
// and _embedded. Without WithPretty the document is written in flow style.
package yaml

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/zoobzio/hal"
	"gopkg.in/yaml.v3"
)

const format = "yaml"

// YAML core schema tags.
const (
	tagStr   = "!!str"
	tagInt   = "!!int"
	tagFloat = "!!float"
	tagBool  = "!!bool"
	tagNull  = "!!null"
	tagMerge = "!!merge"
)

// yamlCodec implements hal.Codec for HAL YAML.
type yamlCodec struct {
	opts hal.Options
}

// New returns a HAL YAML codec.
func New(opts ...hal.Option) hal.Codec {
	return &yamlCodec{opts: hal.ApplyOptions(opts...)}
}

// ContentType returns the MIME type for HAL YAML.
func (c *yamlCodec) ContentType() string {
	return hal.MediaTypeYAML
}

// Marshal encodes r as a HAL YAML document.
func (c *yamlCodec) Marshal(r hal.Representation) ([]byte, error) {
	tree, err := hal.EncodeTree(r, c.opts)
	if err != nil {
		return nil, err
	}
	root, err := toNode(tree)
	if err != nil {
		return nil, err
	}
	if !c.opts.Pretty {
		root.Style = yaml.FlowStyle
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a HAL YAML document.
func (c *yamlCodec) Unmarshal(data []byte) (hal.Representation, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return hal.Representation{}, hal.Malformed(format, "", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return hal.Representation{}, hal.Malformed(format, "", errors.New("empty document"))
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return hal.Representation{}, hal.Malformed(format, "", errors.New("document is not a mapping"))
	}
	v, err := fromNode(root, "")
	if err != nil {
		return hal.Representation{}, err
	}

	r, err := hal.DecodeTree(format, v.(hal.Properties))
	if err != nil {
		return hal.Representation{}, err
	}
	return r.WithContent(data), nil
}

// toNode converts a document tree value into a YAML node.
func toNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil:
		return scalar(tagNull, "null"), nil
	case hal.Properties:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, p := range val.All() {
			child, err := toNode(p.Value)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, scalar(tagStr, p.Name), child)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			child, err := toNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case string:
		return scalar(tagStr, val), nil
	case bool:
		return scalar(tagBool, strconv.FormatBool(val)), nil
	case int:
		return scalar(tagInt, strconv.FormatInt(int64(val), 10)), nil
	case int8:
		return scalar(tagInt, strconv.FormatInt(int64(val), 10)), nil
	case int16:
		return scalar(tagInt, strconv.FormatInt(int64(val), 10)), nil
	case int32:
		return scalar(tagInt, strconv.FormatInt(int64(val), 10)), nil
	case int64:
		return scalar(tagInt, strconv.FormatInt(val, 10)), nil
	case uint:
		return scalar(tagInt, strconv.FormatUint(uint64(val), 10)), nil
	case uint8:
		return scalar(tagInt, strconv.FormatUint(uint64(val), 10)), nil
	case uint16:
		return scalar(tagInt, strconv.FormatUint(uint64(val), 10)), nil
	case uint32:
		return scalar(tagInt, strconv.FormatUint(uint64(val), 10)), nil
	case uint64:
		return scalar(tagInt, strconv.FormatUint(val, 10)), nil
	case float32:
		return scalar(tagFloat, formatFloat(float64(val), 32)), nil
	case float64:
		return scalar(tagFloat, formatFloat(val, 64)), nil
	case json.Number:
		if _, err := val.Int64(); err == nil {
			return scalar(tagInt, val.String()), nil
		}
		return scalar(tagFloat, val.String()), nil
	default:
		return nil, fmt.Errorf("yaml: unsupported value %T", v)
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

// fromNode converts a YAML node into a document tree value. Mappings keep
// key order, integers become int64.
func fromNode(n *yaml.Node, path string) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, hal.Malformed(format, path, errors.New("dangling alias"))
		}
		return fromNode(n.Alias, path)
	case yaml.MappingNode:
		var p hal.Properties
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode || key.Tag == tagMerge {
				return nil, hal.Malformed(format, path, fmt.Errorf("unsupported mapping key at line %d", key.Line))
			}
			v, err := fromNode(val, join(path, key.Value))
			if err != nil {
				return nil, err
			}
			p = p.With(key.Value, v)
		}
		return p, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for i, item := range n.Content {
			v, err := fromNode(item, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, hal.Malformed(format, path, err)
		}
		switch num := v.(type) {
		case int:
			return int64(num), nil
		case uint64:
			if num <= math.MaxInt64 {
				return int64(num), nil
			}
		}
		return v, nil
	default:
		return nil, hal.Malformed(format, path, fmt.Errorf("unexpected node kind %d", n.Kind))
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
