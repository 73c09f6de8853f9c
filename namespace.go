package hal

import "strings"

// RelPlaceholder is the token every namespace template must contain.
const RelPlaceholder = "{rel}"

// Namespace is a declared CURIE prefix and its URI template.
type Namespace struct {
	Prefix   string
	Template string
}

// split returns the literal text before and after the placeholder.
func (n Namespace) split() (string, string) {
	i := strings.Index(n.Template, RelPlaceholder)
	return n.Template[:i], n.Template[i+len(RelPlaceholder):]
}

// Namespaces is a persistent, ordered set of CURIE declarations.
// The zero value is an empty manager ready for use.
type Namespaces struct {
	entries []Namespace
}

// With returns a new manager that also declares prefix.
func (n Namespaces) With(prefix, template string) (Namespaces, error) {
	if _, ok := n.Lookup(prefix); ok {
		return n, newNamespaceError(ErrDuplicateNamespace, prefix, "")
	}
	if !strings.Contains(template, RelPlaceholder) {
		return n, newNamespaceError(ErrInvalidTemplate, prefix, "")
	}
	entries := make([]Namespace, len(n.entries), len(n.entries)+1)
	copy(entries, n.entries)
	return Namespaces{entries: append(entries, Namespace{Prefix: prefix, Template: template})}, nil
}

// Lookup returns the template declared for prefix.
func (n Namespaces) Lookup(prefix string) (string, bool) {
	for _, ns := range n.entries {
		if ns.Prefix == prefix {
			return ns.Template, true
		}
	}
	return "", false
}

// Len returns the number of declarations.
func (n Namespaces) Len() int { return len(n.entries) }

// All returns the declarations in declaration order.
func (n Namespaces) All() []Namespace {
	out := make([]Namespace, len(n.entries))
	copy(out, n.entries)
	return out
}

// Compact shortens href to prefix:segment using the first declared template
// whose literal text brackets it. Unmatched input is returned unchanged.
func (n Namespaces) Compact(href string) string {
	for _, ns := range n.entries {
		before, after := ns.split()
		if len(href) <= len(before)+len(after) {
			continue
		}
		if strings.HasPrefix(href, before) && strings.HasSuffix(href, after) {
			return ns.Prefix + ":" + href[len(before):len(href)-len(after)]
		}
	}
	return href
}

// Expand resolves a prefix:segment relation into its full URI.
func (n Namespaces) Expand(curie string) (string, error) {
	prefix, segment, ok := strings.Cut(curie, ":")
	if !ok {
		return "", newNamespaceError(ErrNotNamespaced, "", curie)
	}
	template, found := n.Lookup(prefix)
	if !found {
		return "", newNamespaceError(ErrUnknownPrefix, prefix, curie)
	}
	return strings.Replace(template, RelPlaceholder, segment, 1), nil
}

// ValidateRelation fails when rel uses a CURIE prefix that was not declared.
// Absolute URIs (containing "://") and plain tokens are always valid.
func (n Namespaces) ValidateRelation(rel string) error {
	if !strings.Contains(rel, ":") || strings.Contains(rel, "://") {
		return nil
	}
	prefix, _, _ := strings.Cut(rel, ":")
	if _, ok := n.Lookup(prefix); !ok {
		return newNamespaceError(ErrUndeclaredNamespace, prefix, rel)
	}
	return nil
}

// Equal reports whether both managers declare the same prefixes in the same order.
func (n Namespaces) Equal(o Namespaces) bool {
	if len(n.entries) != len(o.entries) {
		return false
	}
	for i := range n.entries {
		if n.entries[i] != o.entries[i] {
			return false
		}
	}
	return true
}

// curieLinks materialises the declarations as curies links.
func (n Namespaces) curieLinks() []Link {
	links := make([]Link, 0, len(n.entries))
	for _, ns := range n.entries {
		links = append(links, Link{
			rel:   RelCuries,
			href:  ns.Template,
			attrs: []Attr{{Name: AttrName, Value: ns.Prefix}},
		})
	}
	return links
}
