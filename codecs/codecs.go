// Package codecs assembles a registry holding every bundled HAL codec.
package codecs

import (
	"fmt"
	"strings"

	"github.com/zoobzio/hal"
	"github.com/zoobzio/hal/bson"
	"github.com/zoobzio/hal/json"
	"github.com/zoobzio/hal/msgpack"
	"github.com/zoobzio/hal/xml"
	"github.com/zoobzio/hal/yaml"
)

// constructors maps each bundled media type to its codec constructor.
var constructors = map[string]func(...hal.Option) hal.Codec{
	hal.MediaTypeJSON:    json.New,
	hal.MediaTypeXML:     xml.New,
	hal.MediaTypeYAML:    yaml.New,
	hal.MediaTypeMsgpack: msgpack.New,
	hal.MediaTypeBSON:    bson.New,
}

// New builds a registry from cfg. A nil cfg uses hal.DefaultConfig.
// Codecs are registered in the order cfg.ContentTypes lists them.
func New(cfg *hal.Config) (*hal.Registry, error) {
	if cfg == nil {
		cfg = hal.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := cfg.Options()
	reg := hal.NewRegistry()
	for _, ct := range cfg.ContentTypes {
		build, ok := constructors[strings.ToLower(strings.TrimSpace(ct))]
		if !ok {
			return nil, fmt.Errorf("%w: no bundled codec for %q", hal.ErrUnsupportedContentType, ct)
		}
		reg.Register(build(opts...))
	}
	if cfg.DefaultContentType != "" {
		if err := reg.SetDefault(cfg.DefaultContentType); err != nil {
			return nil, err
		}
	}
	for alias, target := range cfg.Aliases {
		if err := reg.Alias(alias, target); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Default returns a registry built from hal.DefaultConfig. The default
// configuration only names bundled codecs, so a build failure is a
// programming error and Default panics. Use New to handle errors from a
// custom configuration.
func Default() *hal.Registry {
	reg, err := New(hal.DefaultConfig())
	if err != nil {
		panic(err)
	}
	return reg
}
