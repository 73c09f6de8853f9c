// Package testing provides test utilities for hal.
package testing

import (
	"testing"

	"github.com/zoobzio/hal"
)

// Namespace prefix and template used by the fixtures.
const (
	NamespacePrefix   = "acme"
	NamespaceTemplate = "https://docs.acme.test/rels/{rel}"
)

// Order is a typed payload with hal and json tags.
type Order struct {
	ID       string   `json:"id"`
	Total    float64  `json:"total"`
	Currency string   `hal:"currency" json:"ccy"`
	Coupon   *string  `json:"coupon"`
	Internal string   `json:"-"`
	Tags     []string `json:"tags,omitempty"`
}

// Item is a typed payload for embedded line items.
type Item struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// Must returns a function unwrapping a builder result, failing tb on error.
//
//	r = haltest.Must(t)(r.WithLink("next", "/orders/2"))
func Must(tb testing.TB) func(hal.Representation, error) hal.Representation {
	tb.Helper()
	return func(r hal.Representation, err error) hal.Representation {
		tb.Helper()
		if err != nil {
			tb.Fatalf("build representation: %v", err)
		}
		return r
	}
}

// ItemFixture returns an embedded line item with a self link.
func ItemFixture(tb testing.TB, n int, sku string) hal.Representation {
	tb.Helper()
	return hal.Empty("/items/"+sku).
		WithProperty("sku", sku).
		WithProperty("quantity", n)
}

// OrderFixture returns a root document exercising namespaces, singleton and
// collection relations, null properties and embedded resources.
func OrderFixture(tb testing.TB) hal.Representation {
	tb.Helper()
	r := Must(tb)(hal.Empty("/orders/1").WithNamespace(NamespacePrefix, NamespaceTemplate))
	r = Must(tb)(r.WithRel(hal.Singleton("acme:customer")))
	r = Must(tb)(r.WithRel(hal.Collection("acme:item")))
	r = Must(tb)(r.WithLink("acme:customer", "/customers/7", hal.Attr{Name: hal.AttrTitle, Value: "Customer"}))
	r = Must(tb)(r.WithLink("search", "/orders{?q}"))
	r = Must(tb)(r.WithLink("next", "/orders/2"))
	r = r.WithProperty("id", "1").
		WithProperty("status", "shipped").
		WithProperty("coupon", nil)
	r = Must(tb)(r.WithRepresentation("acme:item", ItemFixture(tb, 2, "A-1")))
	r = Must(tb)(r.WithRepresentation("acme:item", ItemFixture(tb, 1, "B-2")))
	return r
}

// StringFixture returns a document whose properties are all strings or
// nulls, so it survives formats that only carry text.
func StringFixture(tb testing.TB) hal.Representation {
	tb.Helper()
	r := Must(tb)(hal.Empty("/people/ada").WithNamespace(NamespacePrefix, NamespaceTemplate))
	r = Must(tb)(r.WithLink("acme:employer", "/companies/9"))
	r = Must(tb)(r.WithLink("friend", "/people/grace"))
	r = Must(tb)(r.WithLink("friend", "/people/alan"))
	r = r.WithProperty("name", "Ada").
		WithProperty("born", "1815").
		WithProperty("nickname", nil)
	child := hal.Empty("/companies/9").WithProperty("name", "Analytical")
	return Must(tb)(r.WithRepresentation("acme:employer", child))
}

// RoundTrip marshals r with codec and parses the result.
func RoundTrip(tb testing.TB, codec hal.Codec, r hal.Representation) hal.Representation {
	tb.Helper()
	data, err := codec.Marshal(r)
	if err != nil {
		tb.Fatalf("%s Marshal() error: %v", codec.ContentType(), err)
	}
	out, err := codec.Unmarshal(data)
	if err != nil {
		tb.Fatalf("%s Unmarshal() error: %v\n%s", codec.ContentType(), err, data)
	}
	return out
}
