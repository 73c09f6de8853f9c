package hal

// Embedded is a child resource together with the relation it is embedded under.
type Embedded struct {
	Rel      string
	Resource Representation
}

// Representation is a persistent hypermedia document node.
//
// Every With* method returns a new Representation and leaves the receiver
// untouched, so values can be shared freely between goroutines.
type Representation struct {
	content  []byte
	value    any
	props    Properties
	links    []Link
	rels     relTable
	ns       Namespaces
	children []Embedded
	nullDesc bool // some embedded descendant has an explicit null property
}

// New returns an empty representation with the self relation declared as a singleton.
func New() Representation {
	return Representation{rels: defaultRels()}
}

// Empty returns an empty representation whose self link targets href.
// An empty href yields a representation without a self link.
func Empty(href string) Representation {
	r := New()
	if href == "" {
		return r
	}
	r.links = []Link{{rel: RelSelf, href: href}}
	return r
}

// Create returns a representation with a self link and a typed payload.
func Create(href string, value any) Representation {
	return Empty(href).WithValue(value)
}

// WithLink appends a link. It fails with ErrInvalidRelation for a malformed
// relation and ErrSingletonConflict when a singleton relation is already used.
func (r Representation) WithLink(rel, href string, attrs ...Attr) (Representation, error) {
	l, err := NewLink(rel, href, attrs...)
	if err != nil {
		return r, err
	}
	return r.WithLinks(l)
}

// WithLinks appends already constructed links in order.
func (r Representation) WithLinks(links ...Link) (Representation, error) {
	out := r
	for _, l := range links {
		if err := validateRelation(l.rel); err != nil {
			return r, err
		}
		if err := out.checkSingleton(l.rel); err != nil {
			return r, err
		}
		out.links = append(out.links[:len(out.links):len(out.links)], l)
		out.rels = out.register(l.rel)
		out.content = nil
	}
	return out, nil
}

// WithNamespace declares a CURIE prefix. The curies relation is registered as
// a collection so declarations always render as an array.
func (r Representation) WithNamespace(prefix, template string) (Representation, error) {
	ns, err := r.ns.With(prefix, template)
	if err != nil {
		return r, err
	}
	out := r
	out.ns = ns
	if _, ok := out.rels[RelCuries]; !ok {
		out.rels = out.rels.with(Collection(RelCuries))
	}
	out.content = nil
	return out, nil
}

// WithNamespaces declares every namespace of ns in order.
func (r Representation) WithNamespaces(ns Namespaces) (Representation, error) {
	out := r
	for _, n := range ns.entries {
		var err error
		if out, err = out.WithNamespace(n.Prefix, n.Template); err != nil {
			return r, err
		}
	}
	return out, nil
}

// WithRepresentation embeds child under rel, after the same relation checks as WithLink.
func (r Representation) WithRepresentation(rel string, child Representation) (Representation, error) {
	if err := validateRelation(rel); err != nil {
		return r, err
	}
	if err := r.checkSingleton(rel); err != nil {
		return r, err
	}
	out := r
	out.children = append(out.children[:len(out.children):len(out.children)], Embedded{Rel: rel, Resource: child})
	out.rels = out.register(rel)
	out.nullDesc = r.nullDesc || child.HasNullProperties()
	out.content = nil
	return out, nil
}

// WithRel declares the semantics of a relation before it is used.
// Declaring a relation that is already registered fails with ErrDuplicateRel.
func (r Representation) WithRel(rel Rel) (Representation, error) {
	if err := validateRelation(rel.name); err != nil {
		return r, err
	}
	if _, ok := r.rels[rel.name]; ok {
		return r, newRelationError(ErrDuplicateRel, rel.name)
	}
	out := r
	out.rels = r.rels.with(rel)
	return out, nil
}

// WithValue replaces the payload with v and drops any raw content.
// A Properties value becomes the property map; anything else is kept as a
// typed payload and mapped to properties with PropertiesOf when rendered.
func (r Representation) WithValue(v any) Representation {
	out := r
	out.content = nil
	switch p := v.(type) {
	case Properties:
		out.value, out.props = nil, p
	case *Properties:
		out.value, out.props = nil, Properties{}
		if p != nil {
			out.props = *p
		}
	default:
		out.value, out.props = v, Properties{}
	}
	return out
}

// WithProperty sets a single property. Explicit properties take precedence
// over those derived from a typed payload.
func (r Representation) WithProperty(name string, v any) Representation {
	out := r
	out.props = r.props.With(name, v)
	out.content = nil
	return out
}

// WithProperties sets every property of p in order.
func (r Representation) WithProperties(p Properties) Representation {
	out := r
	for _, e := range p.entries {
		out.props = out.props.With(e.Name, e.Value)
	}
	out.content = nil
	return out
}

// WithContent attaches the raw bytes this representation was read from.
func (r Representation) WithContent(data []byte) Representation {
	out := r
	out.content = append([]byte(nil), data...)
	return out
}

// Content returns the raw source bytes, or nil when the node was constructed
// or modified after parsing.
func (r Representation) Content() []byte {
	if r.content == nil {
		return nil
	}
	return append([]byte(nil), r.content...)
}

// Value returns the typed payload, or nil for property-only representations.
func (r Representation) Value() any { return r.value }

// Properties returns the payload as ordered properties: the mapped typed
// payload first, overlaid with explicitly set properties.
func (r Representation) Properties() (Properties, error) {
	if r.value == nil {
		return r.props, nil
	}
	base, err := PropertiesOf(r.value)
	if err != nil {
		return Properties{}, err
	}
	for _, e := range r.props.entries {
		base = base.With(e.Name, e.Value)
	}
	return base, nil
}

// Property returns a single payload value.
func (r Representation) Property(name string) (any, bool) {
	p, err := r.Properties()
	if err != nil {
		return r.props.Get(name)
	}
	return p.Get(name)
}

// HasNullProperties reports whether this node or any embedded descendant
// carries an explicit null property.
func (r Representation) HasNullProperties() bool {
	if r.nullDesc || r.props.HasNull() {
		return true
	}
	if r.value == nil {
		return false
	}
	p, err := PropertiesOf(r.value)
	return err == nil && p.HasNull()
}

// Links returns every link in declaration order.
func (r Representation) Links() []Link {
	out := make([]Link, len(r.links))
	copy(out, r.links)
	return out
}

// LinksByRel returns the links for rel. A full relation URI and its CURIE
// form address the same links.
func (r Representation) LinksByRel(rel string) []Link {
	var out []Link
	for _, l := range r.links {
		if r.sameRel(l.rel, rel) {
			out = append(out, l)
		}
	}
	return out
}

// LinkByRel returns the first link for rel.
func (r Representation) LinkByRel(rel string) (Link, bool) {
	links := r.LinksByRel(rel)
	if len(links) == 0 {
		return Link{}, false
	}
	return links[0], true
}

// SelfLink returns the self link.
func (r Representation) SelfLink() (Link, bool) {
	return r.LinkByRel(RelSelf)
}

// Children returns every embedded resource in insertion order.
func (r Representation) Children() []Embedded {
	out := make([]Embedded, len(r.children))
	copy(out, r.children)
	return out
}

// ResourcesByRel returns the resources embedded under rel in insertion order.
func (r Representation) ResourcesByRel(rel string) []Representation {
	var out []Representation
	for _, c := range r.children {
		if r.sameRel(c.Rel, rel) {
			out = append(out, c.Resource)
		}
	}
	return out
}

// ResourceByRel returns the first resource embedded under rel.
func (r Representation) ResourceByRel(rel string) (Representation, bool) {
	res := r.ResourcesByRel(rel)
	if len(res) == 0 {
		return Representation{}, false
	}
	return res[0], true
}

// Namespaces returns the namespace declarations of this node.
func (r Representation) Namespaces() Namespaces { return r.ns }

// Rel returns the semantics registered for name.
func (r Representation) Rel(name string) (Rel, bool) {
	rel, ok := r.rels[name]
	if !ok && r.rels == nil && name == RelSelf {
		return Singleton(RelSelf), true
	}
	return rel, ok
}

// Rels returns every registered relation ordered by name.
func (r Representation) Rels() []Rel {
	if r.rels == nil {
		return defaultRels().sorted()
	}
	return r.rels.sorted()
}

// Validate checks that every relation used by this node and its descendants
// is satisfied by the owning node's namespace declarations.
func (r Representation) Validate() error {
	for _, l := range r.links {
		if err := r.ns.ValidateRelation(l.rel); err != nil {
			return err
		}
	}
	for _, c := range r.children {
		if err := r.ns.ValidateRelation(c.Rel); err != nil {
			return err
		}
		if err := c.Resource.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// relFor returns the registered semantics for rel, defaulting to Natural.
func (r Representation) relFor(rel string) Rel {
	if got, ok := r.Rel(rel); ok {
		return got
	}
	return Natural(rel)
}

// register auto-registers rel as Natural when it is unknown.
func (r Representation) register(rel string) relTable {
	rels := r.rels
	if rels == nil {
		rels = defaultRels()
	}
	if _, ok := rels[rel]; ok {
		return rels
	}
	return rels.with(Natural(rel))
}

// checkSingleton fails when rel is a singleton that already has a member.
func (r Representation) checkSingleton(rel string) error {
	if !r.relFor(rel).IsSingleton() {
		return nil
	}
	for _, l := range r.links {
		if r.sameRel(l.rel, rel) {
			return newRelationError(ErrSingletonConflict, rel)
		}
	}
	for _, c := range r.children {
		if r.sameRel(c.Rel, rel) {
			return newRelationError(ErrSingletonConflict, rel)
		}
	}
	return nil
}

// sameRel compares relations after CURIE compaction.
func (r Representation) sameRel(a, b string) bool {
	return a == b || r.ns.Compact(a) == r.ns.Compact(b)
}
