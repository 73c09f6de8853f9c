package benchmarks

import (
	"context"
	"testing"

	"github.com/zoobzio/hal"
	"github.com/zoobzio/hal/bson"
	"github.com/zoobzio/hal/json"
	"github.com/zoobzio/hal/msgpack"
	"github.com/zoobzio/hal/xml"
	"github.com/zoobzio/hal/yaml"
	haltest "github.com/zoobzio/hal/testing"
)

func benchmarkMarshal(b *testing.B, c hal.Codec) {
	r := haltest.OrderFixture(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Marshal(r)
	}
}

func benchmarkUnmarshal(b *testing.B, c hal.Codec) {
	data, err := c.Marshal(haltest.OrderFixture(b))
	if err != nil {
		b.Fatalf("Marshal() error: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Unmarshal(data)
	}
}

func BenchmarkMarshal_JSON(b *testing.B)    { benchmarkMarshal(b, json.New()) }
func BenchmarkMarshal_XML(b *testing.B)     { benchmarkMarshal(b, xml.New()) }
func BenchmarkMarshal_YAML(b *testing.B)    { benchmarkMarshal(b, yaml.New()) }
func BenchmarkMarshal_Msgpack(b *testing.B) { benchmarkMarshal(b, msgpack.New()) }
func BenchmarkMarshal_BSON(b *testing.B)    { benchmarkMarshal(b, bson.New()) }

func BenchmarkUnmarshal_JSON(b *testing.B)    { benchmarkUnmarshal(b, json.New()) }
func BenchmarkUnmarshal_XML(b *testing.B)     { benchmarkUnmarshal(b, xml.New()) }
func BenchmarkUnmarshal_YAML(b *testing.B)    { benchmarkUnmarshal(b, yaml.New()) }
func BenchmarkUnmarshal_Msgpack(b *testing.B) { benchmarkUnmarshal(b, msgpack.New()) }
func BenchmarkUnmarshal_BSON(b *testing.B)    { benchmarkUnmarshal(b, bson.New()) }

func BenchmarkProcessor_Render(b *testing.B) {
	proc := hal.NewProcessor(json.New())
	r := haltest.OrderFixture(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = proc.Render(ctx, r)
	}
}

func BenchmarkCollateLinks(b *testing.B) {
	r := haltest.OrderFixture(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = hal.CollateLinks(r, hal.CollateOptions{})
	}
}

func BenchmarkFingerprint_SHA256(b *testing.B) {
	h := hal.SHA256()
	r := haltest.OrderFixture(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = hal.Fingerprint(r, h)
	}
}

func BenchmarkFingerprint_BLAKE2b(b *testing.B) {
	h := hal.BLAKE2b()
	r := haltest.OrderFixture(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = hal.Fingerprint(r, h)
	}
}
