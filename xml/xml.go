// Package xml provides the application/hal+xml codec.
//
// Documents are rendered as nested resource elements:
//
//	<resource href="/orders/1" xmlns:acme="https://docs.acme.test/rels/{rel}">
//	  <link rel="acme:customer" href="/customers/7"/>
//	  <total>30.5</total>
//	  <resource rel="acme:item" href="/items/3">...</resource>
//	</resource>
//
// Property values are read back as strings, nested elements as ordered
// property maps and repeated elements as arrays. Arrays that repetition
// cannot express, one-member link groups and empty or single-element
// property arrays, carry an array attribute in HALNamespace.
package xml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/zoobzio/hal"
)

const format = "xml"

// XSINamespace is the schema-instance namespace used for nil markers.
const XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"

// HALNamespace qualifies the array marker attribute.
const HALNamespace = "urn:zoobzio:hal"

// Element and attribute names of the wire form.
const (
	elemResource = "resource"
	elemLink     = "link"
	attrRel      = "rel"
	attrNil      = "nil"
	attrArray    = "array"
	prefixXMLNS  = "xmlns"
	prefixXSI    = "xsi"
	prefixHAL    = "hal"
)

// Values of the array marker.
const (
	arrayMember = "true"
	arrayEmpty  = "empty"
)

// xmlCodec implements hal.Codec for HAL XML.
type xmlCodec struct {
	opts hal.Options
}

// New returns a HAL XML codec.
func New(opts ...hal.Option) hal.Codec {
	return &xmlCodec{opts: hal.ApplyOptions(opts...)}
}

// ContentType returns the MIME type for HAL XML.
func (c *xmlCodec) ContentType() string {
	return hal.MediaTypeXML
}

// Marshal encodes r as a HAL XML document.
func (c *xmlCodec) Marshal(r hal.Representation) ([]byte, error) {
	tree, err := hal.EncodeTree(r, c.opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if c.opts.Pretty {
		enc.Indent("", "  ")
	}
	w := &writer{enc: enc, prefix: markerPrefix(tree)}
	if err := w.resource(tree, "", true); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a HAL XML document.
func (c *xmlCodec) Unmarshal(data []byte) (hal.Representation, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	start, err := rootElement(dec)
	if err != nil {
		return hal.Representation{}, err
	}
	tree, err := readResource(dec, start, elemResource)
	if err != nil {
		return hal.Representation{}, err
	}
	if err := trailing(dec); err != nil {
		return hal.Representation{}, err
	}

	r, err := hal.DecodeTree(format, tree)
	if err != nil {
		return hal.Representation{}, err
	}
	return r.WithContent(data), nil
}

// writer renders a document tree as XML tokens.
type writer struct {
	enc    *xml.Encoder
	prefix string // bound to HALNamespace on the root
}

// markerPrefix picks a prefix for HALNamespace that no curie declares.
func markerPrefix(tree hal.Properties) string {
	links, _ := section(tree, hal.KeyLinks)
	taken := map[string]bool{}
	if curies, ok := links.Get(hal.RelCuries); ok {
		items, _ := asList(curies)
		for _, item := range items {
			obj, _ := item.(hal.Properties)
			if name, ok := obj.Get(hal.AttrName); ok {
				taken[fmt.Sprint(name)] = true
			}
		}
	}
	prefix := prefixHAL
	for i := 1; taken[prefix]; i++ {
		prefix = prefixHAL + strconv.Itoa(i)
	}
	return prefix
}

func (w *writer) arrayAttr(value string) xml.Attr {
	return attr(w.prefix+":"+attrArray, value)
}

func (w *writer) resource(tree hal.Properties, rel string, root bool, extra ...xml.Attr) error {
	start := xml.StartElement{Name: xml.Name{Local: elemResource}}
	if rel != "" {
		start.Attr = append(start.Attr, attr(attrRel, rel))
	}
	start.Attr = append(start.Attr, extra...)

	links, _ := section(tree, hal.KeyLinks)
	if self, ok := links.Get(hal.RelSelf); ok {
		items, _ := asList(self)
		if obj, ok := items[0].(hal.Properties); ok {
			attrs, err := linkAttrs(obj, hal.RelSelf)
			if err != nil {
				return err
			}
			start.Attr = append(start.Attr, attrs...)
		}
	}
	if root {
		if curies, ok := links.Get(hal.RelCuries); ok {
			items, _ := asList(curies)
			for _, item := range items {
				obj, _ := item.(hal.Properties)
				name, _ := obj.Get(hal.AttrName)
				href, _ := obj.Get(hal.KeyHref)
				start.Attr = append(start.Attr, attr(prefixXMLNS+":"+fmt.Sprint(name), fmt.Sprint(href)))
			}
		}
		if hasNull(tree) {
			start.Attr = append(start.Attr, attr(prefixXMLNS+":"+prefixXSI, XSINamespace))
		}
		if needsMarker(tree) {
			start.Attr = append(start.Attr, attr(prefixXMLNS+":"+w.prefix, HALNamespace))
		}
	}
	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}

	for _, group := range links.All() {
		if group.Name == hal.RelSelf || group.Name == hal.RelCuries {
			continue
		}
		items, isArray := asList(group.Value)
		var extra []xml.Attr
		if isArray && len(items) == 1 {
			extra = append(extra, w.arrayAttr(arrayMember))
		}
		for _, item := range items {
			obj, _ := item.(hal.Properties)
			if err := w.link(group.Name, obj, extra...); err != nil {
				return err
			}
		}
	}

	for _, p := range tree.All() {
		if p.Name == hal.KeyLinks || p.Name == hal.KeyEmbedded {
			continue
		}
		if err := checkPropertyName(p.Name); err != nil {
			return err
		}
		if err := w.property(p.Name, p.Value); err != nil {
			return err
		}
	}

	embedded, _ := section(tree, hal.KeyEmbedded)
	for _, group := range embedded.All() {
		items, isArray := asList(group.Value)
		var extra []xml.Attr
		if isArray && len(items) == 1 {
			extra = append(extra, w.arrayAttr(arrayMember))
		}
		for _, item := range items {
			child, _ := item.(hal.Properties)
			if err := w.resource(child, group.Name, false, extra...); err != nil {
				return err
			}
		}
	}

	return w.enc.EncodeToken(start.End())
}

func (w *writer) link(rel string, obj hal.Properties, extra ...xml.Attr) error {
	start := xml.StartElement{Name: xml.Name{Local: elemLink}}
	start.Attr = append(start.Attr, attr(attrRel, rel))
	attrs, err := linkAttrs(obj, rel)
	if err != nil {
		return err
	}
	start.Attr = append(start.Attr, attrs...)
	start.Attr = append(start.Attr, extra...)
	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}
	return w.enc.EncodeToken(start.End())
}

// linkAttrs renders a link object as attributes, href first.
func linkAttrs(obj hal.Properties, rel string) ([]xml.Attr, error) {
	attrs := make([]xml.Attr, 0, obj.Len())
	for _, a := range obj.All() {
		if a.Name == attrRel || !isName(a.Name) {
			return nil, hal.Malformed(format, hal.KeyLinks+"."+rel+"."+a.Name, errors.New("link attribute is not a valid attribute name"))
		}
		switch v := a.Value.(type) {
		case bool:
			attrs = append(attrs, attr(a.Name, strconv.FormatBool(v)))
		default:
			attrs = append(attrs, attr(a.Name, fmt.Sprint(v)))
		}
	}
	return attrs, nil
}

func (w *writer) property(name string, v any, extra ...xml.Attr) error {
	start := xml.StartElement{Name: xml.Name{Local: name}, Attr: extra}
	switch val := v.(type) {
	case nil:
		start.Attr = append(start.Attr, attr(prefixXSI+":"+attrNil, "true"))
		if err := w.enc.EncodeToken(start); err != nil {
			return err
		}
	case []any:
		if len(val) == 0 {
			start.Attr = append(start.Attr, w.arrayAttr(arrayEmpty))
			if err := w.enc.EncodeToken(start); err != nil {
				return err
			}
			return w.enc.EncodeToken(start.End())
		}
		var marker []xml.Attr
		if len(val) == 1 {
			marker = append(marker, w.arrayAttr(arrayMember))
		}
		for _, item := range val {
			if _, nested := item.([]any); nested {
				return hal.Malformed(format, name, errors.New("nested arrays have no element form"))
			}
			if err := w.property(name, item, marker...); err != nil {
				return err
			}
		}
		return nil
	case hal.Properties:
		if err := w.enc.EncodeToken(start); err != nil {
			return err
		}
		for _, p := range val.All() {
			if err := checkPropertyName(p.Name); err != nil {
				return err
			}
			if err := w.property(p.Name, p.Value); err != nil {
				return err
			}
		}
	default:
		if err := w.enc.EncodeToken(start); err != nil {
			return err
		}
		if err := w.enc.EncodeToken(xml.CharData(text(val))); err != nil {
			return err
		}
	}
	return w.enc.EncodeToken(start.End())
}

// attr builds an attribute whose name is written verbatim, prefix included.
func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func text(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprint(val)
	}
}

// checkPropertyName rejects names that cannot be written as a property element.
func checkPropertyName(name string) error {
	if name == elemLink || name == elemResource {
		return hal.Malformed(format, name, errors.New("property name collides with a reserved element"))
	}
	if !isName(name) {
		return hal.Malformed(format, name, errors.New("property name is not a valid element name"))
	}
	return nil
}

func isName(s string) bool {
	if s == "" || strings.HasPrefix(strings.ToLower(s), "xml") {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || unicode.IsLetter(c):
		case i > 0 && (c == '-' || c == '.' || unicode.IsDigit(c)):
		default:
			return false
		}
	}
	return true
}

// hasNull reports whether the node, its nested values or its embedded
// resources carry an explicit null.
func hasNull(tree hal.Properties) bool {
	for _, p := range tree.All() {
		switch p.Name {
		case hal.KeyLinks:
			continue
		case hal.KeyEmbedded:
			emb, _ := p.Value.(hal.Properties)
			for _, group := range emb.All() {
				items, _ := asList(group.Value)
				for _, item := range items {
					if child, ok := item.(hal.Properties); ok && hasNull(child) {
						return true
					}
				}
			}
		default:
			if valueHasNull(p.Value) {
				return true
			}
		}
	}
	return false
}

// needsMarker reports whether any array in the document would not survive
// as repeated elements and needs the array attribute.
func needsMarker(tree hal.Properties) bool {
	for _, p := range tree.All() {
		switch p.Name {
		case hal.KeyLinks:
			links, _ := p.Value.(hal.Properties)
			for _, group := range links.All() {
				if group.Name == hal.RelCuries {
					continue
				}
				if items, ok := group.Value.([]any); ok && len(items) == 1 {
					return true
				}
			}
		case hal.KeyEmbedded:
			emb, _ := p.Value.(hal.Properties)
			for _, group := range emb.All() {
				items, isArray := asList(group.Value)
				if isArray && len(items) == 1 {
					return true
				}
				for _, item := range items {
					if child, ok := item.(hal.Properties); ok && needsMarker(child) {
						return true
					}
				}
			}
		default:
			if valueNeedsMarker(p.Value) {
				return true
			}
		}
	}
	return false
}

func valueNeedsMarker(v any) bool {
	switch val := v.(type) {
	case hal.Properties:
		for _, p := range val.All() {
			if valueNeedsMarker(p.Value) {
				return true
			}
		}
	case []any:
		if len(val) <= 1 {
			return true
		}
		for _, item := range val {
			if valueNeedsMarker(item) {
				return true
			}
		}
	}
	return false
}

func valueHasNull(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case hal.Properties:
		for _, p := range val.All() {
			if valueHasNull(p.Value) {
				return true
			}
		}
	case []any:
		for _, item := range val {
			if valueHasNull(item) {
				return true
			}
		}
	}
	return false
}

func section(tree hal.Properties, key string) (hal.Properties, bool) {
	v, ok := tree.Get(key)
	if !ok {
		return hal.Properties{}, false
	}
	p, ok := v.(hal.Properties)
	return p, ok
}

func asList(v any) ([]any, bool) {
	if arr, ok := v.([]any); ok {
		return arr, true
	}
	return []any{v}, false
}

// rootElement skips the prolog and returns the resource start element.
func rootElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return xml.StartElement{}, hal.Malformed(format, "", errors.New("empty document"))
			}
			return xml.StartElement{}, hal.Malformed(format, "", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != elemResource {
				return xml.StartElement{}, hal.Malformed(format, t.Name.Local, errors.New("root element must be resource"))
			}
			return t, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return xml.StartElement{}, hal.Malformed(format, "", errors.New("text before root element"))
			}
		}
	}
}

// trailing fails when anything but whitespace, comments or processing
// instructions follows the root element.
func trailing(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return hal.Malformed(format, "", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return hal.Malformed(format, t.Name.Local, errors.New("trailing element after root"))
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return hal.Malformed(format, "", errors.New("trailing text after root"))
			}
		}
	}
}

// group collects repeated keys in first-seen order.
type group struct {
	order  []string
	values map[string][]any
	arrays map[string]bool
}

func (g *group) add(key string, v any) {
	g.seen(key)
	g.values[key] = append(g.values[key], v)
}

// markArray forces key to render as an array, even when empty.
func (g *group) markArray(key string) {
	g.seen(key)
	if g.arrays == nil {
		g.arrays = make(map[string]bool)
	}
	g.arrays[key] = true
}

func (g *group) seen(key string) {
	if g.values == nil {
		g.values = make(map[string][]any)
	}
	if _, ok := g.values[key]; !ok {
		g.order = append(g.order, key)
		g.values[key] = nil
	}
}

// properties renders the group with single members as plain values and
// repeated or marked members as arrays.
func (g *group) properties() hal.Properties {
	var p hal.Properties
	for _, key := range g.order {
		vals := g.values[key]
		if g.arrays[key] {
			p = p.With(key, append(make([]any, 0, len(vals)), vals...))
			continue
		}
		if len(vals) == 1 {
			p = p.With(key, vals[0])
			continue
		}
		p = p.With(key, vals)
	}
	return p
}

// readResource reads a resource element into a document tree.
func readResource(dec *xml.Decoder, start xml.StartElement, path string) (hal.Properties, error) {
	var links, props, embedded group
	var curies []any

	var self hal.Properties
	var href *string
	for _, a := range start.Attr {
		switch {
		case a.Name.Space == prefixXMLNS:
			if a.Name.Local == prefixXSI || a.Value == XSINamespace || a.Value == HALNamespace {
				continue
			}
			curies = append(curies, hal.NewProperties(
				hal.Property{Name: hal.AttrName, Value: a.Name.Local},
				hal.Property{Name: hal.KeyHref, Value: a.Value},
			))
		case a.Name.Space != "" || a.Name.Local == attrRel || a.Name.Local == prefixXMLNS:
		case a.Name.Local == hal.KeyHref:
			v := a.Value
			href = &v
		case a.Name.Local == hal.AttrTemplated:
			if a.Value == "true" {
				self = self.With(hal.AttrTemplated, true)
			}
		default:
			self = self.With(a.Name.Local, a.Value)
		}
	}
	if href == nil && self.Len() > 0 {
		return hal.Properties{}, hal.Malformed(format, path+"."+hal.KeyHref, errors.New("self attributes without href"))
	}
	if href != nil {
		links.add(hal.RelSelf, prepend(self, hal.KeyHref, *href))
	}

	var linkCount int
	for {
		tok, err := dec.Token()
		if err != nil {
			return hal.Properties{}, hal.Malformed(format, path, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case elemLink:
				field := path + "/" + elemLink + "[" + strconv.Itoa(linkCount) + "]"
				linkCount++
				rel, obj, err := readLink(t, field)
				if err != nil {
					return hal.Properties{}, err
				}
				if err := dec.Skip(); err != nil {
					return hal.Properties{}, hal.Malformed(format, field, err)
				}
				if arrayMarker(t) == arrayMember {
					links.markArray(rel)
				}
				links.add(rel, obj)
			case elemResource:
				rel, ok := attrValue(t, attrRel)
				if !ok || rel == "" {
					return hal.Properties{}, hal.Malformed(format, path+"/"+elemResource, errors.New("embedded resource without rel"))
				}
				child, err := readResource(dec, t, path+"/"+elemResource+"["+rel+"]")
				if err != nil {
					return hal.Properties{}, err
				}
				if arrayMarker(t) == arrayMember {
					embedded.markArray(rel)
				}
				embedded.add(rel, child)
			default:
				if err := readMember(dec, t, path+"/"+t.Name.Local, &props); err != nil {
					return hal.Properties{}, err
				}
			}
		case xml.EndElement:
			var tree hal.Properties
			linkTree := links.properties()
			if len(curies) > 0 {
				linkTree = prepend(linkTree, hal.RelCuries, curies)
			}
			if linkTree.Len() > 0 {
				tree = tree.With(hal.KeyLinks, linkTree)
			}
			for _, p := range props.properties().All() {
				tree = tree.With(p.Name, p.Value)
			}
			if len(embedded.order) > 0 {
				tree = tree.With(hal.KeyEmbedded, embedded.properties())
			}
			return tree, nil
		}
	}
}

// readLink converts a link element into its relation and link object.
func readLink(start xml.StartElement, field string) (string, hal.Properties, error) {
	var rel string
	var href *string
	var obj hal.Properties
	for _, a := range start.Attr {
		if a.Name.Space != "" {
			continue
		}
		switch a.Name.Local {
		case attrRel:
			rel = a.Value
		case hal.KeyHref:
			v := a.Value
			href = &v
		}
	}
	if rel == "" {
		return "", hal.Properties{}, hal.Malformed(format, field, errors.New("link without rel"))
	}
	if href == nil {
		return "", hal.Properties{}, hal.Malformed(format, field+"."+hal.KeyHref, nil)
	}
	obj = obj.With(hal.KeyHref, *href)
	for _, a := range start.Attr {
		if a.Name.Space != "" || a.Name.Local == attrRel || a.Name.Local == hal.KeyHref {
			continue
		}
		if a.Name.Local == hal.AttrTemplated {
			if a.Value == "true" {
				obj = obj.With(hal.AttrTemplated, true)
			}
			continue
		}
		obj = obj.With(a.Name.Local, a.Value)
	}
	return rel, obj, nil
}

// readProperty reads a property element: nil-marked elements become null,
// elements with children become property maps and the rest their text.
func readProperty(dec *xml.Decoder, start xml.StartElement, path string) (any, error) {
	if isNil(start) {
		if err := dec.Skip(); err != nil {
			return nil, hal.Malformed(format, path, err)
		}
		return nil, nil
	}

	var buf strings.Builder
	var children group
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, hal.Malformed(format, path, err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.StartElement:
			if err := readMember(dec, t, path+"/"+t.Name.Local, &children); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if len(children.order) > 0 {
				return children.properties(), nil
			}
			return buf.String(), nil
		}
	}
}

// readMember reads a property element into g, honoring the array marker.
func readMember(dec *xml.Decoder, start xml.StartElement, path string, g *group) error {
	name := start.Name.Local
	switch arrayMarker(start) {
	case arrayEmpty:
		if err := dec.Skip(); err != nil {
			return hal.Malformed(format, path, err)
		}
		g.markArray(name)
		return nil
	case arrayMember:
		g.markArray(name)
	}
	v, err := readProperty(dec, start, path)
	if err != nil {
		return err
	}
	g.add(name, v)
	return nil
}

// arrayMarker returns the value of the array attribute, or "".
func arrayMarker(start xml.StartElement) string {
	for _, a := range start.Attr {
		if a.Name.Space == HALNamespace && a.Name.Local == attrArray {
			return a.Value
		}
	}
	return ""
}

func isNil(start xml.StartElement) bool {
	for _, a := range start.Attr {
		if a.Name.Local == attrNil && (a.Name.Space == XSINamespace || a.Name.Space == prefixXSI) {
			return a.Value == "true" || a.Value == "1"
		}
	}
	return false
}

func attrValue(start xml.StartElement, name string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// prepend places key first in p.
func prepend(p hal.Properties, key string, v any) hal.Properties {
	out := hal.NewProperties(hal.Property{Name: key, Value: v})
	for _, e := range p.All() {
		out = out.With(e.Name, e.Value)
	}
	return out
}
