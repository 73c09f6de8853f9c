package hal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Media types served by the bundled codecs.
const (
	MediaTypeJSON    = "application/hal+json"
	MediaTypeXML     = "application/hal+xml"
	MediaTypeYAML    = "application/hal+yaml"
	MediaTypeMsgpack = "application/hal+msgpack"
	MediaTypeBSON    = "application/hal+bson"
)

// Config configures codec output and registry contents.
type Config struct {
	// Pretty indents text formats (JSON, XML, YAML)
	Pretty bool `yaml:"pretty"`
	// CoalesceLinks renders links sharing a target under one space-joined relation
	CoalesceLinks bool `yaml:"coalesce_links"`
	// DefaultContentType answers "*/*" and empty lookups
	DefaultContentType string `yaml:"default_content_type"`
	// ContentTypes lists the enabled media types (empty = all bundled codecs)
	ContentTypes []string `yaml:"content_types"`
	// Aliases routes extra media types to an enabled one
	Aliases map[string]string `yaml:"aliases"`
}

// DefaultConfig returns a Config enabling every bundled codec with JSON as default.
func DefaultConfig() *Config {
	return &Config{
		DefaultContentType: MediaTypeJSON,
		ContentTypes: []string{
			MediaTypeJSON,
			MediaTypeXML,
			MediaTypeYAML,
			MediaTypeMsgpack,
			MediaTypeBSON,
		},
		Aliases: map[string]string{
			"text/xml": MediaTypeXML,
		},
	}
}

// Options returns the codec options selected by c.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Pretty {
		opts = append(opts, WithPretty())
	}
	if c.CoalesceLinks {
		opts = append(opts, WithCoalescedLinks())
	}
	return opts
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	enabled := make(map[string]bool, len(c.ContentTypes))
	for _, ct := range c.ContentTypes {
		mt := normalizeMediaType(ct)
		if mt == "" {
			return fmt.Errorf("%w: content_types contains an empty media type", ErrInvalidConfig)
		}
		enabled[mt] = true
	}
	if len(enabled) == 0 {
		return fmt.Errorf("%w: content_types is required", ErrInvalidConfig)
	}
	if dct := normalizeMediaType(c.DefaultContentType); dct != "" && !enabled[dct] {
		return fmt.Errorf("%w: default_content_type %q is not enabled", ErrInvalidConfig, c.DefaultContentType)
	}
	for alias, target := range c.Aliases {
		if normalizeMediaType(alias) == "" {
			return fmt.Errorf("%w: empty alias for %q", ErrInvalidConfig, target)
		}
		if !enabled[normalizeMediaType(target)] {
			return fmt.Errorf("%w: alias %q targets %q which is not enabled", ErrInvalidConfig, alias, target)
		}
	}
	return nil
}

// ParseConfig decodes YAML over DefaultConfig.
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	config := DefaultConfig()
	if err := yaml.NewDecoder(f).Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Pretty {
		c.Pretty = true
	}
	if other.CoalesceLinks {
		c.CoalesceLinks = true
	}
	if other.DefaultContentType != "" {
		c.DefaultContentType = other.DefaultContentType
	}
	if len(other.ContentTypes) > 0 {
		c.ContentTypes = other.ContentTypes
	}
	if len(other.Aliases) > 0 {
		merged := make(map[string]string, len(c.Aliases)+len(other.Aliases))
		for k, v := range c.Aliases {
			merged[k] = v
		}
		for k, v := range other.Aliases {
			merged[k] = v
		}
		c.Aliases = merged
	}
}
