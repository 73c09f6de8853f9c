package msgpack

import (
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/hal"
	haltest "github.com/zoobzio/hal/testing"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/hal+msgpack" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/hal+msgpack")
	}
}

func TestMarshal_Order(t *testing.T) {
	r := hal.Empty("/a").WithProperty("z", 1).WithProperty("a", 2)
	data, err := New().Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	restored, err := New().Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	props, _ := restored.Properties()
	names := props.Names()
	if len(names) != 2 || names[0] != "z" || names[1] != "a" {
		t.Errorf("Names() = %v, want [z a]", names)
	}
}

func TestUnmarshal_Numbers(t *testing.T) {
	r := hal.New().
		WithProperty("small", 3).
		WithProperty("neg", -70000).
		WithProperty("f", float32(1.5)).
		WithProperty("d", 2.25)
	restored := haltest.RoundTrip(t, New(), r)

	for name, want := range map[string]any{
		"small": int64(3),
		"neg":   int64(-70000),
		"f":     1.5,
		"d":     2.25,
	} {
		if v, _ := restored.Property(name); v != want {
			t.Errorf("%s = %v (%T), want %v (%T)", name, v, v, want, want)
		}
	}
}

func TestUnmarshal_Malformed(t *testing.T) {
	array, _ := msgpack.Marshal([]int{1, 2})
	intKeys, _ := msgpack.Marshal(map[int]string{1: "a"})
	doc, _ := New().Marshal(hal.Empty("/a"))
	noHref, _ := msgpack.Marshal(map[string]any{"_links": map[string]any{"next": map[string]any{"title": "x"}}})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"array root", array},
		{"non-string keys", intKeys},
		{"trailing data", append(append([]byte{}, doc...), doc...)},
		{"truncated", doc[:len(doc)-1]},
		{"link without href", noHref},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Unmarshal(tt.data)
			if !errors.Is(err, hal.ErrMalformedDocument) {
				t.Errorf("Unmarshal() error = %v, want ErrMalformedDocument", err)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	original := haltest.OrderFixture(t)
	restored := haltest.RoundTrip(t, New(), original)
	if !hal.Equal(original, restored) {
		t.Error("round-trip changed the document")
	}
}
