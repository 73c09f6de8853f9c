package hal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error: %v", err)
	}
	if cfg.DefaultContentType != MediaTypeJSON {
		t.Errorf("DefaultContentType = %q, want %q", cfg.DefaultContentType, MediaTypeJSON)
	}
	if len(cfg.ContentTypes) != 5 {
		t.Errorf("ContentTypes = %v, want all bundled codecs", cfg.ContentTypes)
	}
	if len(cfg.Options()) != 0 {
		t.Error("DefaultConfig().Options() should be empty")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no content types", Config{}},
		{"empty media type", Config{ContentTypes: []string{" "}}},
		{"default not enabled", Config{ContentTypes: []string{MediaTypeJSON}, DefaultContentType: MediaTypeXML}},
		{"alias target not enabled", Config{ContentTypes: []string{MediaTypeJSON}, Aliases: map[string]string{"text/xml": MediaTypeXML}}},
		{"empty alias", Config{ContentTypes: []string{MediaTypeJSON}, Aliases: map[string]string{"": MediaTypeJSON}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}

	ok := Config{ContentTypes: []string{"Application/HAL+JSON; charset=utf-8"}, DefaultContentType: MediaTypeJSON}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() should normalize media types, got %v", err)
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
pretty: true
coalesce_links: true
default_content_type: application/hal+xml
content_types: [application/hal+json, application/hal+xml]
`))
	if err != nil {
		t.Fatalf("ParseConfig() error: %v", err)
	}
	if !cfg.Pretty || !cfg.CoalesceLinks {
		t.Errorf("ParseConfig() flags = %+v", cfg)
	}
	if cfg.DefaultContentType != MediaTypeXML || len(cfg.ContentTypes) != 2 {
		t.Errorf("ParseConfig() = %+v", cfg)
	}
	if cfg.Aliases["text/xml"] != MediaTypeXML {
		t.Error("ParseConfig() should keep default aliases")
	}
	if got := len(cfg.Options()); got != 2 {
		t.Errorf("Options() = %d options, want 2", got)
	}

	if _, err := ParseConfig([]byte("pretty: [")); err == nil {
		t.Error("ParseConfig() should fail on invalid YAML")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hal.yaml")
	if err := os.WriteFile(path, []byte("default_content_type: application/hal+yaml\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.DefaultContentType != MediaTypeYAML {
		t.Errorf("DefaultContentType = %q, want %q", cfg.DefaultContentType, MediaTypeYAML)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() should fail for a missing file")
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(nil)
	cfg.Merge(&Config{
		Pretty:       true,
		ContentTypes: []string{MediaTypeJSON},
		Aliases:      map[string]string{"application/vnd.acme+json": MediaTypeJSON},
	})

	if !cfg.Pretty {
		t.Error("Merge() should set Pretty")
	}
	if cfg.DefaultContentType != MediaTypeJSON {
		t.Error("Merge() should keep DefaultContentType when other is empty")
	}
	if len(cfg.ContentTypes) != 1 {
		t.Errorf("ContentTypes = %v, want override", cfg.ContentTypes)
	}
	if len(cfg.Aliases) != 2 {
		t.Errorf("Aliases = %v, want merged", cfg.Aliases)
	}
}
