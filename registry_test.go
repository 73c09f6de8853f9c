package hal_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/zoobzio/hal"
)

func newTestRegistry() *hal.Registry {
	return hal.NewRegistry(
		&testCodec{contentType: hal.MediaTypeJSON},
		&testCodec{contentType: hal.MediaTypeXML},
		&testCodec{contentType: "text/plain"},
	)
}

func TestRegistry_Lookup(t *testing.T) {
	reg := newTestRegistry()

	tests := []struct {
		mediaType string
		want      string
	}{
		{hal.MediaTypeJSON, hal.MediaTypeJSON},
		{"Application/HAL+XML", hal.MediaTypeXML},
		{"application/hal+json; charset=utf-8", hal.MediaTypeJSON},
		{"application/json", hal.MediaTypeJSON},
		{"application/xml", hal.MediaTypeXML},
		{"application/*", hal.MediaTypeJSON},
		{"text/*", "text/plain"},
		{"*/*", hal.MediaTypeJSON},
		{"", hal.MediaTypeJSON},
	}
	for _, tt := range tests {
		t.Run(tt.mediaType, func(t *testing.T) {
			c, err := reg.Lookup(tt.mediaType)
			if err != nil {
				t.Fatalf("Lookup(%q) error: %v", tt.mediaType, err)
			}
			if c.ContentType() != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.mediaType, c.ContentType(), tt.want)
			}
		})
	}
}

func TestRegistry_Unsupported(t *testing.T) {
	reg := newTestRegistry()
	for _, mt := range []string{"application/hal+yaml", "image/*", "nonsense"} {
		_, err := reg.Lookup(mt)
		if !errors.Is(err, hal.ErrUnsupportedContentType) {
			t.Errorf("Lookup(%q) error = %v, want ErrUnsupportedContentType", mt, err)
		}
		if _, err := reg.Processor(mt); !errors.Is(err, hal.ErrUnsupportedContentType) {
			t.Errorf("Processor(%q) error = %v, want ErrUnsupportedContentType", mt, err)
		}
	}

	empty := hal.NewRegistry()
	if _, err := empty.Lookup("*/*"); !errors.Is(err, hal.ErrUnsupportedContentType) {
		t.Errorf("empty Lookup(*/*) error = %v", err)
	}
}

func TestRegistry_AliasAndDefault(t *testing.T) {
	reg := newTestRegistry()

	if err := reg.Alias("application/vnd.acme", hal.MediaTypeXML); err != nil {
		t.Fatalf("Alias() error: %v", err)
	}
	if c, _ := reg.Lookup("application/vnd.acme"); c == nil || c.ContentType() != hal.MediaTypeXML {
		t.Error("alias should resolve to the XML codec")
	}
	if err := reg.Alias("x/y", hal.MediaTypeYAML); !errors.Is(err, hal.ErrUnsupportedContentType) {
		t.Errorf("Alias() to unregistered type error = %v", err)
	}

	if err := reg.SetDefault(hal.MediaTypeXML); err != nil {
		t.Fatalf("SetDefault() error: %v", err)
	}
	for _, mt := range []string{"*/*", "", "application/*"} {
		if c, _ := reg.Lookup(mt); c.ContentType() != hal.MediaTypeXML {
			t.Errorf("Lookup(%q) = %q after SetDefault, want XML", mt, c.ContentType())
		}
	}
	if err := reg.SetDefault(hal.MediaTypeYAML); !errors.Is(err, hal.ErrUnsupportedContentType) {
		t.Errorf("SetDefault() unregistered error = %v", err)
	}
}

func TestRegistry_ContentTypes(t *testing.T) {
	reg := newTestRegistry()
	reg.Register(&testCodec{contentType: hal.MediaTypeJSON})

	got := reg.ContentTypes()
	want := []string{hal.MediaTypeJSON, hal.MediaTypeXML, "text/plain"}
	if len(got) != len(want) {
		t.Fatalf("ContentTypes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ContentTypes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistry_ProcessorCache(t *testing.T) {
	reg := newTestRegistry()

	p1, err := reg.Processor("application/json")
	if err != nil {
		t.Fatalf("Processor() error: %v", err)
	}
	p2, _ := reg.Processor(hal.MediaTypeJSON)
	if p1 != p2 {
		t.Error("Processor() should return the cached instance")
	}

	reg.Register(&testCodec{contentType: hal.MediaTypeJSON})
	p3, _ := reg.Processor(hal.MediaTypeJSON)
	if p3 == p1 {
		t.Error("Register() should invalidate the cached processor")
	}
}

func TestRegistry_ConcurrentProcessor(t *testing.T) {
	reg := newTestRegistry()

	var wg sync.WaitGroup
	procs := make([]*hal.Processor, 50)
	for i := range procs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			procs[i], _ = reg.Processor(hal.MediaTypeXML)
		}(i)
	}
	wg.Wait()

	for i, p := range procs {
		if p != procs[0] {
			t.Fatalf("Processor() #%d returned a different instance", i)
		}
	}
}
