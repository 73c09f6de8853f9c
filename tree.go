package hal

import (
	"sort"
	"strconv"
	"strings"
)

// Reserved document keys.
const (
	KeyLinks    = "_links"
	KeyEmbedded = "_embedded"
	KeyHref     = "href"
)

// EncodeTree renders r into the compact document tree shared by the
// JSON-shaped formats: an ordered object holding _links, the properties and
// _embedded. The tree contains only nil, bool, string, numbers, Properties
// and []any values.
func EncodeTree(r Representation, opts Options) (Properties, error) {
	if err := r.Validate(); err != nil {
		return Properties{}, err
	}
	return encodeTree(r, opts, false, r.ns)
}

// encodeTree renders one node. wire holds the namespaces declared by the
// root curies; embedded nodes rewrite their own CURIE keys against it.
func encodeTree(r Representation, opts Options, embedded bool, wire Namespaces) (Properties, error) {
	var doc Properties

	groups := CollateLinks(r, opts.collate(embedded))
	if embedded {
		for i := range groups {
			groups[i].Rel = rekey(groups[i].Rel, r.ns, wire)
		}
		sort.SliceStable(groups, func(i, j int) bool {
			return relLess(groups[i].Rel, groups[j].Rel)
		})
	}
	if len(groups) > 0 {
		var links Properties
		for _, g := range groups {
			if g.Single {
				links.entries = append(links.entries, Property{Name: g.Rel, Value: linkTree(g.Links[0])})
				continue
			}
			arr := make([]any, len(g.Links))
			for i, l := range g.Links {
				arr[i] = linkTree(l)
			}
			links.entries = append(links.entries, Property{Name: g.Rel, Value: arr})
		}
		doc.entries = append(doc.entries, Property{Name: KeyLinks, Value: links})
	}

	props, err := r.Properties()
	if err != nil {
		return Properties{}, err
	}
	for _, p := range props.entries {
		if p.Name == KeyLinks || p.Name == KeyEmbedded {
			return Properties{}, Malformed("tree", p.Name, newRelationError(ErrInvalidRelation, p.Name))
		}
		v, err := normalize(p.Value)
		if err != nil {
			return Properties{}, err
		}
		doc.entries = append(doc.entries, Property{Name: p.Name, Value: v})
	}

	resources := CollateResources(r)
	if embedded {
		for i := range resources {
			resources[i].Rel = rekey(resources[i].Rel, r.ns, wire)
		}
		sort.SliceStable(resources, func(i, j int) bool {
			return relLess(resources[i].Rel, resources[j].Rel)
		})
	}
	if len(resources) > 0 {
		var emb Properties
		for _, g := range resources {
			if g.Single {
				child, err := encodeTree(g.Resources[0], opts, true, wire)
				if err != nil {
					return Properties{}, err
				}
				emb.entries = append(emb.entries, Property{Name: g.Rel, Value: child})
				continue
			}
			arr := make([]any, len(g.Resources))
			for i, res := range g.Resources {
				child, err := encodeTree(res, opts, true, wire)
				if err != nil {
					return Properties{}, err
				}
				arr[i] = child
			}
			emb.entries = append(emb.entries, Property{Name: g.Rel, Value: arr})
		}
		doc.entries = append(doc.entries, Property{Name: KeyEmbedded, Value: emb})
	}
	return doc, nil
}

// rekey rewrites the CURIE relations of key, compacted with own, so they
// resolve against wire. Relations wire cannot compact are written in full.
func rekey(key string, own, wire Namespaces) string {
	rels := SplitRelations(key)
	for i, rel := range rels {
		if !strings.Contains(rel, ":") || strings.Contains(rel, "://") {
			continue
		}
		full, err := own.Expand(rel)
		if err != nil {
			continue
		}
		rels[i] = wire.Compact(full)
	}
	return strings.Join(rels, " ")
}

// linkTree renders a link as href, its attributes, then templated when set.
func linkTree(l Link) Properties {
	p := Properties{entries: make([]Property, 0, len(l.attrs)+2)}
	p.entries = append(p.entries, Property{Name: KeyHref, Value: l.href})
	for _, a := range l.attrs {
		p.entries = append(p.entries, Property{Name: a.Name, Value: a.Value})
	}
	if l.IsTemplated() {
		p.entries = append(p.entries, Property{Name: AttrTemplated, Value: true})
	}
	return p
}

// DecodeTree rebuilds a representation from a document tree produced by a
// JSON-shaped reader. Structural violations fail with ErrMalformedDocument
// tagged with format.
func DecodeTree(format string, doc Properties) (Representation, error) {
	return decodeTree(format, doc, Namespaces{}, "")
}

func decodeTree(format string, doc Properties, inherited Namespaces, path string) (Representation, error) {
	r, err := New().WithNamespaces(inherited)
	if err != nil {
		return Representation{}, Malformed(format, path+KeyLinks, err)
	}

	if raw, ok := doc.Get(KeyLinks); ok {
		links, ok := raw.(Properties)
		if !ok {
			return Representation{}, Malformed(format, path+KeyLinks, nil)
		}
		if r, err = decodeCuries(format, r, links, path+KeyLinks+"."+RelCuries); err != nil {
			return Representation{}, err
		}
		for _, e := range links.entries {
			if e.Name == RelCuries {
				continue
			}
			field := path + KeyLinks + "." + e.Name
			if r, err = decodeLinks(format, r, e.Name, e.Value, field); err != nil {
				return Representation{}, err
			}
		}
	}

	for _, e := range doc.entries {
		if e.Name == KeyLinks || e.Name == KeyEmbedded {
			continue
		}
		r = r.WithProperty(e.Name, e.Value)
	}

	if raw, ok := doc.Get(KeyEmbedded); ok {
		emb, ok := raw.(Properties)
		if !ok {
			return Representation{}, Malformed(format, path+KeyEmbedded, nil)
		}
		for _, e := range emb.entries {
			field := path + KeyEmbedded + "." + e.Name
			items, isArray := asList(e.Value)
			if isArray {
				if r, err = declareCollection(r, e.Name); err != nil {
					return Representation{}, Malformed(format, field, err)
				}
			}
			for i, item := range items {
				childDoc, ok := item.(Properties)
				if !ok {
					return Representation{}, Malformed(format, itemPath(field, i, isArray), nil)
				}
				child, err := decodeTree(format, childDoc, r.ns, itemPath(field, i, isArray)+".")
				if err != nil {
					return Representation{}, err
				}
				if r, err = r.WithRepresentation(e.Name, child); err != nil {
					return Representation{}, Malformed(format, field, err)
				}
			}
		}
	}
	return r, nil
}

// decodeCuries declares namespaces from _links.curies. Prefixes already
// inherited from an enclosing document are accepted when identical.
func decodeCuries(format string, r Representation, links Properties, field string) (Representation, error) {
	raw, ok := links.Get(RelCuries)
	if !ok {
		return r, nil
	}
	items, _ := asList(raw)
	for i, item := range items {
		obj, ok := item.(Properties)
		if !ok {
			return r, Malformed(format, field, nil)
		}
		name, okName := stringField(obj, AttrName)
		href, okHref := stringField(obj, KeyHref)
		if !okName || !okHref {
			return r, Malformed(format, itemPath(field, i, true), nil)
		}
		if existing, ok := r.ns.Lookup(name); ok && existing == href {
			continue
		}
		var err error
		if r, err = r.WithNamespace(name, href); err != nil {
			return r, Malformed(format, itemPath(field, i, true), err)
		}
	}
	return r, nil
}

// decodeLinks adds the links of a single _links entry. A key holding several
// whitespace-separated relations yields one link per relation.
func decodeLinks(format string, r Representation, key string, raw any, field string) (Representation, error) {
	rels := SplitRelations(key)
	if len(rels) == 0 {
		return r, Malformed(format, field, newRelationError(ErrInvalidRelation, key))
	}
	items, isArray := asList(raw)
	if isArray {
		for _, rel := range rels {
			var err error
			if r, err = declareCollection(r, rel); err != nil {
				return r, Malformed(format, field, err)
			}
		}
	}
	for i, item := range items {
		obj, ok := item.(Properties)
		if !ok {
			return r, Malformed(format, itemPath(field, i, isArray), nil)
		}
		href, ok := stringField(obj, KeyHref)
		if !ok {
			return r, Malformed(format, itemPath(field, i, isArray)+"."+KeyHref, nil)
		}
		var attrs []Attr
		for _, a := range obj.entries {
			if a.Name == KeyHref || a.Name == AttrTemplated {
				continue
			}
			s, ok := a.Value.(string)
			if !ok {
				return r, Malformed(format, itemPath(field, i, isArray)+"."+a.Name, nil)
			}
			attrs = append(attrs, Attr{Name: a.Name, Value: s})
		}
		for _, rel := range rels {
			var err error
			if r, err = r.WithLink(rel, href, attrs...); err != nil {
				return r, Malformed(format, field, err)
			}
		}
	}
	return r, nil
}

// declareCollection registers rel as a collection unless it is already known,
// so a one-element array renders as an array again.
func declareCollection(r Representation, rel string) (Representation, error) {
	if _, ok := r.Rel(rel); ok {
		return r, nil
	}
	return r.WithRel(Collection(rel))
}

// asList returns v as a slice and whether it was an array.
func asList(v any) ([]any, bool) {
	if arr, ok := v.([]any); ok {
		return arr, true
	}
	return []any{v}, false
}

func stringField(p Properties, name string) (string, bool) {
	v, ok := p.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func itemPath(field string, i int, isArray bool) string {
	if !isArray {
		return field
	}
	return field + "[" + strconv.Itoa(i) + "]"
}
