// Package hal builds, validates and serializes hypermedia representations.
//
// A Representation is a persistent document node made of properties, typed
// links, CURIE namespace declarations and embedded child representations.
// Every With* method returns a new value, so representations can be shared
// between goroutines without locking.
//
// # Building
//
//	r, err := hal.Empty("/orders/1").
//	    WithNamespace("acme", "https://docs.acme.test/rels/{rel}")
//	if err != nil { ... }
//	r, err = r.WithLink("acme:customer", "/customers/7")
//	r = r.WithProperty("total", 30.5).WithProperty("coupon", nil)
//
// # Relation Semantics
//
// Relations default to Natural: one member renders as an object, several as
// an array. Declare other semantics with WithRel before first use:
//
//   - Singleton(name): at most one link or embedded resource
//   - Collection(name): always an array
//   - Sorted(name, id, cmp): always an array ordered by cmp
//
// # Codec Providers
//
// Codecs implement the Codec interface and live in subpackages:
//
//   - json - application/hal+json
//   - xml - application/hal+xml
//   - yaml - application/hal+yaml
//   - msgpack - application/hal+msgpack
//   - bson - application/hal+bson
//
// A Registry selects a codec by media type, and a Processor wraps a codec
// with validation and signal emission. The codecs package builds a registry
// holding every provider from a Config.
package hal

// Codec provides content-type aware marshaling of representations.
type Codec interface {
	// ContentType returns the media type for this codec (e.g., "application/hal+json").
	ContentType() string

	// Marshal encodes r into bytes.
	Marshal(r Representation) ([]byte, error)

	// Unmarshal decodes data into a representation.
	Unmarshal(data []byte) (Representation, error)
}

// Options configures codec output.
type Options struct {
	// Pretty indents text formats.
	Pretty bool

	// Coalesce renders links that share a target under one space-joined relation.
	Coalesce bool
}

// Option mutates Options.
type Option func(*Options)

// WithPretty enables indented output.
func WithPretty() Option {
	return func(o *Options) { o.Pretty = true }
}

// WithCoalescedLinks enables link coalescing.
func WithCoalescedLinks() Option {
	return func(o *Options) { o.Coalesce = true }
}

// ApplyOptions folds opts over the zero Options.
func ApplyOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// collate returns the collation settings for a node.
func (o Options) collate(embedded bool) CollateOptions {
	return CollateOptions{Embedded: embedded, Coalesce: o.Coalesce}
}
