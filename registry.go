package hal

import (
	"context"
	"strings"
	"sync"
)

// Registry selects codecs by media type.
//
// Lookups strip media type parameters, resolve aliases, match structured
// syntax suffixes ("application/json" finds "application/hal+json") and
// accept "type/*" and "*/*" wildcards. Registries are safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	codecs     map[string]Codec
	order      []string
	aliases    map[string]string
	fallback   string
	processors map[string]*Processor
}

// NewRegistry returns a registry holding codecs in order.
// The first codec becomes the default for wildcard lookups.
func NewRegistry(codecs ...Codec) *Registry {
	r := &Registry{
		codecs:     make(map[string]Codec),
		aliases:    make(map[string]string),
		processors: make(map[string]*Processor),
	}
	for _, c := range codecs {
		r.Register(c)
	}
	return r
}

// Register adds or replaces the codec for its content type.
func (r *Registry) Register(c Codec) {
	ct := normalizeMediaType(c.ContentType())

	r.mu.Lock()
	if _, ok := r.codecs[ct]; !ok {
		r.order = append(r.order, ct)
	}
	r.codecs[ct] = c
	delete(r.processors, ct)
	if r.fallback == "" {
		r.fallback = ct
	}
	r.mu.Unlock()

	emitCodecRegistered(context.Background(), ct)
}

// Alias routes lookups for alias to the codec registered for mediaType.
func (r *Registry) Alias(alias, mediaType string) error {
	target := normalizeMediaType(mediaType)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.codecs[target]; !ok {
		return newCodecError(ErrUnsupportedContentType, mediaType, nil)
	}
	r.aliases[normalizeMediaType(alias)] = target
	return nil
}

// SetDefault selects the codec answering "*/*" and empty lookups.
func (r *Registry) SetDefault(mediaType string) error {
	ct := normalizeMediaType(mediaType)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.codecs[ct]; !ok {
		return newCodecError(ErrUnsupportedContentType, mediaType, nil)
	}
	r.fallback = ct
	return nil
}

// ContentTypes returns the registered media types in registration order.
func (r *Registry) ContentTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Lookup returns the codec serving mediaType.
// It fails with ErrUnsupportedContentType when nothing matches.
func (r *Registry) Lookup(mediaType string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ct, ok := r.resolve(normalizeMediaType(mediaType))
	if !ok {
		return nil, newCodecError(ErrUnsupportedContentType, mediaType, nil)
	}
	return r.codecs[ct], nil
}

// Processor returns a cached processor for the codec serving mediaType.
func (r *Registry) Processor(mediaType string) (*Processor, error) {
	want := normalizeMediaType(mediaType)

	// Fast path: read-lock cache check
	r.mu.RLock()
	ct, ok := r.resolve(want)
	if !ok {
		r.mu.RUnlock()
		return nil, newCodecError(ErrUnsupportedContentType, mediaType, nil)
	}
	if cached, ok := r.processors[ct]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	// Slow path: build and cache with write-lock
	r.mu.Lock()
	defer r.mu.Unlock()

	ct, ok = r.resolve(want)
	if !ok {
		return nil, newCodecError(ErrUnsupportedContentType, mediaType, nil)
	}
	// Double-check pattern
	if cached, ok := r.processors[ct]; ok {
		return cached, nil
	}

	p := NewProcessor(r.codecs[ct])
	r.processors[ct] = p
	return p, nil
}

// resolve maps a normalized media type to a registered content type.
// Callers hold r.mu.
func (r *Registry) resolve(mt string) (string, bool) {
	if mt == "" || mt == "*/*" {
		return r.fallback, r.fallback != ""
	}
	if _, ok := r.codecs[mt]; ok {
		return mt, true
	}
	if target, ok := r.aliases[mt]; ok {
		return target, true
	}

	typ, sub, ok := strings.Cut(mt, "/")
	if !ok {
		return "", false
	}
	if sub == "*" {
		if ft, _, _ := strings.Cut(r.fallback, "/"); ft == typ {
			return r.fallback, true
		}
		for _, ct := range r.order {
			if t, _, _ := strings.Cut(ct, "/"); t == typ {
				return ct, true
			}
		}
		return "", false
	}

	suffix := structuredSuffix(sub)
	for _, ct := range r.order {
		t, s, _ := strings.Cut(ct, "/")
		if t == typ && structuredSuffix(s) == suffix {
			return ct, true
		}
	}
	return "", false
}

// structuredSuffix returns the syntax a subtype is expressed in:
// "hal+json" and "json" both yield "json".
func structuredSuffix(sub string) string {
	if i := strings.LastIndexByte(sub, '+'); i >= 0 {
		return sub[i+1:]
	}
	return sub
}

// normalizeMediaType strips parameters, surrounding space and case.
func normalizeMediaType(mt string) string {
	mt, _, _ = strings.Cut(mt, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
