package hal

import (
	"regexp"
	"strings"
	"unicode"
)

// Well-known link attribute names.
const (
	AttrName      = "name"
	AttrTitle     = "title"
	AttrHreflang  = "hreflang"
	AttrProfile   = "profile"
	AttrTemplated = "templated"
)

// Reserved relations.
const (
	RelSelf   = "self"
	RelCuries = "curies"
)

// templatePattern matches an RFC 6570 expression such as {id} or {?page,size}.
var templatePattern = regexp.MustCompile(`\{[^{}]+\}`)

// Attr is a single named link attribute.
type Attr struct {
	Name  string
	Value string
}

// Link is an immutable typed pointer from a representation to a target.
type Link struct {
	rel   string
	href  string
	attrs []Attr
}

// NewLink creates a link after validating the relation token.
// Attributes keep the order given; a later attribute with the same name
// replaces the earlier value in place. The templated attribute is derived
// from the target and is ignored if supplied.
func NewLink(rel, href string, attrs ...Attr) (Link, error) {
	if err := validateRelation(rel); err != nil {
		return Link{}, err
	}
	l := Link{rel: rel, href: href}
	for _, a := range attrs {
		if a.Name == "" || a.Name == AttrTemplated {
			continue
		}
		l.attrs = setAttr(l.attrs, a)
	}
	return l, nil
}

func setAttr(attrs []Attr, a Attr) []Attr {
	for i := range attrs {
		if attrs[i].Name == a.Name {
			out := make([]Attr, len(attrs))
			copy(out, attrs)
			out[i] = a
			return out
		}
	}
	return append(attrs[:len(attrs):len(attrs)], a)
}

// Rel returns the link relation.
func (l Link) Rel() string { return l.rel }

// Href returns the link target.
func (l Link) Href() string { return l.href }

// Attrs returns a copy of the link attributes in declaration order.
func (l Link) Attrs() []Attr {
	out := make([]Attr, len(l.attrs))
	copy(out, l.attrs)
	return out
}

// Attr returns the named attribute.
func (l Link) Attr(name string) (string, bool) {
	for _, a := range l.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Name returns the name attribute, or "".
func (l Link) Name() string {
	v, _ := l.Attr(AttrName)
	return v
}

// Title returns the title attribute, or "".
func (l Link) Title() string {
	v, _ := l.Attr(AttrTitle)
	return v
}

// Hreflang returns the hreflang attribute, or "".
func (l Link) Hreflang() string {
	v, _ := l.Attr(AttrHreflang)
	return v
}

// Profile returns the profile attribute, or "".
func (l Link) Profile() string {
	v, _ := l.Attr(AttrProfile)
	return v
}

// IsTemplated reports whether the target contains a URI template expression.
func (l Link) IsTemplated() bool {
	return templatePattern.MatchString(l.href)
}

// Equal reports whether two links have the same relation, target and attributes.
func (l Link) Equal(o Link) bool {
	if l.rel != o.rel || l.href != o.href || len(l.attrs) != len(o.attrs) {
		return false
	}
	for i := range l.attrs {
		if l.attrs[i] != o.attrs[i] {
			return false
		}
	}
	return true
}

// withRel returns a copy of the link under another relation.
func (l Link) withRel(rel string) Link {
	l.rel = rel
	return l
}

// sameTarget reports whether two links point at the same target with identical attributes.
func (l Link) sameTarget(o Link) bool {
	return l.withRel(o.rel).Equal(o)
}

func (l Link) String() string {
	return l.rel + " -> " + l.href
}

// SplitRelations splits a whitespace-separated multi-relation declaration
// into individual relation tokens.
func SplitRelations(rels string) []string {
	return strings.Fields(rels)
}

// validateRelation checks a relation is a single non-empty token.
func validateRelation(rel string) error {
	if rel == "" || strings.IndexFunc(rel, unicode.IsSpace) >= 0 {
		return newRelationError(ErrInvalidRelation, rel)
	}
	return nil
}
