package integration

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/zoobzio/hal"
	"github.com/zoobzio/hal/bson"
	"github.com/zoobzio/hal/codecs"
	"github.com/zoobzio/hal/json"
	"github.com/zoobzio/hal/msgpack"
	"github.com/zoobzio/hal/xml"
	"github.com/zoobzio/hal/yaml"
	haltest "github.com/zoobzio/hal/testing"
)

// typedCodecs carry numbers, booleans and nested values unchanged.
func typedCodecs() []hal.Codec {
	return []hal.Codec{
		json.New(),
		json.New(hal.WithPretty()),
		yaml.New(),
		yaml.New(hal.WithPretty()),
		msgpack.New(),
		bson.New(),
	}
}

func allCodecs() []hal.Codec {
	return append(typedCodecs(), xml.New(), xml.New(hal.WithPretty()))
}

func TestRoundTrip_OrderFixture(t *testing.T) {
	original := haltest.OrderFixture(t)
	for _, c := range typedCodecs() {
		t.Run(c.ContentType(), func(t *testing.T) {
			restored := haltest.RoundTrip(t, c, original)
			if !hal.Equal(original, restored) {
				a, _ := json.New().Marshal(original)
				b, _ := json.New().Marshal(restored)
				t.Errorf("round-trip mismatch:\n got %s\nwant %s", b, a)
			}
			if !restored.HasNullProperties() {
				t.Error("HasNullProperties() = false after round-trip, want true")
			}
			if got := len(restored.ResourcesByRel("https://docs.acme.test/rels/item")); got != 2 {
				t.Errorf("ResourcesByRel(full URI) = %d resources, want 2", got)
			}
		})
	}
}

func TestRoundTrip_StringFixture(t *testing.T) {
	original := haltest.StringFixture(t)
	for _, c := range allCodecs() {
		t.Run(c.ContentType(), func(t *testing.T) {
			restored := haltest.RoundTrip(t, c, original)
			if !hal.Equal(original, restored) {
				t.Errorf("round-trip mismatch for %s", c.ContentType())
			}
			v, ok := restored.Property("nickname")
			if !ok || v != nil {
				t.Errorf("Property(nickname) = %v, %v; want explicit null", v, ok)
			}
		})
	}
}

func TestRoundTrip_NamespaceResolution(t *testing.T) {
	r, err := hal.Empty("/foo").WithNamespace("ns", "http://x/{rel}")
	if err != nil {
		t.Fatalf("WithNamespace() error: %v", err)
	}
	r, err = r.WithLink("ns:bar", "http://x/bar")
	if err != nil {
		t.Fatalf("WithLink() error: %v", err)
	}

	for _, c := range allCodecs() {
		t.Run(c.ContentType(), func(t *testing.T) {
			restored := haltest.RoundTrip(t, c, r)
			byCurie := restored.LinksByRel("ns:bar")
			byURI := restored.LinksByRel("http://x/bar")
			if len(byCurie) != 1 || len(byURI) != 1 {
				t.Fatalf("LinksByRel() = %d/%d links, want 1/1", len(byCurie), len(byURI))
			}
			if !byCurie[0].Equal(byURI[0]) {
				t.Errorf("LinksByRel(ns:bar) = %v, LinksByRel(http://x/bar) = %v", byCurie[0], byURI[0])
			}
			if tmpl, ok := restored.Namespaces().Lookup("ns"); !ok || tmpl != "http://x/{rel}" {
				t.Errorf("Namespaces().Lookup(ns) = %q, %v", tmpl, ok)
			}
		})
	}
}

func TestRoundTrip_CoalescedLinks(t *testing.T) {
	r := haltest.Must(t)(hal.Empty("/a").WithLink("foo", "/b"))
	r = haltest.Must(t)(r.WithLink("bar", "/b"))

	for _, c := range []hal.Codec{
		json.New(hal.WithCoalescedLinks()),
		xml.New(hal.WithCoalescedLinks()),
		yaml.New(hal.WithCoalescedLinks()),
	} {
		t.Run(c.ContentType(), func(t *testing.T) {
			restored := haltest.RoundTrip(t, c, r)
			for _, rel := range []string{"foo", "bar"} {
				l, ok := restored.LinkByRel(rel)
				if !ok || l.Href() != "/b" {
					t.Errorf("LinkByRel(%s) = %v, %v; want /b", rel, l, ok)
				}
			}
		})
	}
}

func TestCrossCodec_JSONToXML(t *testing.T) {
	original := haltest.StringFixture(t)

	fromJSON := haltest.RoundTrip(t, json.New(), original)
	fromXML := haltest.RoundTrip(t, xml.New(), fromJSON)

	if !hal.Equal(original, fromXML) {
		t.Error("JSON -> XML round-trip changed the document")
	}
}

func TestMalformed_MissingHref(t *testing.T) {
	docs := map[hal.Codec][]byte{
		json.New(): []byte(`{"_links":{"next":{"title":"x"}}}`),
		xml.New():  []byte(`<resource href="/a"><link rel="next" title="x"/></resource>`),
		yaml.New(): []byte("_links:\n  next:\n    title: x\n"),
	}
	for c, data := range docs {
		t.Run(c.ContentType(), func(t *testing.T) {
			_, err := c.Unmarshal(data)
			if !errors.Is(err, hal.ErrMalformedDocument) {
				t.Errorf("Unmarshal() error = %v, want ErrMalformedDocument", err)
			}
		})
	}
}

func TestRegistry_ProcessorRoundTrip(t *testing.T) {
	reg := codecs.Default()
	original := haltest.StringFixture(t)
	ctx := context.Background()

	for _, ct := range reg.ContentTypes() {
		t.Run(ct, func(t *testing.T) {
			proc, err := reg.Processor(ct)
			if err != nil {
				t.Fatalf("Processor(%q) error: %v", ct, err)
			}

			var buf bytes.Buffer
			if err := proc.Encode(ctx, &buf, original); err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			restored, err := proc.Decode(ctx, &buf)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if !hal.Equal(original, restored) {
				t.Errorf("processor round-trip mismatch for %s", ct)
			}
			if len(restored.Content()) == 0 {
				t.Error("Content() is empty after Decode()")
			}
		})
	}
}

func TestRegistry_FingerprintStableAcrossCodecs(t *testing.T) {
	reg := codecs.Default()
	original := haltest.OrderFixture(t)

	want, err := hal.Fingerprint(original, hal.BLAKE2b())
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	for _, ct := range []string{hal.MediaTypeJSON, hal.MediaTypeYAML, hal.MediaTypeMsgpack, hal.MediaTypeBSON} {
		proc, err := reg.Processor(ct)
		if err != nil {
			t.Fatalf("Processor(%q) error: %v", ct, err)
		}
		data, err := proc.Render(context.Background(), original)
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		restored, err := proc.Parse(context.Background(), data)
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		got, err := proc.Fingerprint(restored, hal.HashBLAKE2b)
		if err != nil {
			t.Fatalf("Fingerprint() error: %v", err)
		}
		if got != want {
			t.Errorf("%s fingerprint = %s, want %s", ct, got, want)
		}
	}
}
