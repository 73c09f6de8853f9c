package hal

import (
	"strings"
	"testing"
)

func groupRels(groups []LinkGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Rel
	}
	return out
}

func TestCollateLinks_Order(t *testing.T) {
	r := mustRep(t)(Empty("/a").WithNamespace("ns", "http://x/{rel}"))
	r = mustRep(t)(r.WithLink("zeta", "/z"))
	r = mustRep(t)(r.WithLink("http://x/bar", "/bar"))
	r = mustRep(t)(r.WithLink("alpha", "/a1"))
	r = mustRep(t)(r.WithLink("alpha", "/a2"))

	groups := CollateLinks(r, CollateOptions{})
	got := strings.Join(groupRels(groups), ",")
	want := "self,alpha,curies,ns:bar,zeta"
	if got != want {
		t.Errorf("CollateLinks() rels = %s, want %s", got, want)
	}

	for _, g := range groups {
		switch g.Rel {
		case RelSelf:
			if !g.Single {
				t.Error("self should render as an object")
			}
		case "alpha":
			if g.Single || len(g.Links) != 2 || g.Links[0].Href() != "/a1" {
				t.Errorf("alpha group = %+v, want two links in insertion order", g)
			}
		case RelCuries:
			if g.Single {
				t.Error("curies should render as an array")
			}
			if name, _ := g.Links[0].Attr(AttrName); name != "ns" {
				t.Errorf("curie name = %q, want ns", name)
			}
		case "zeta", "ns:bar":
			if !g.Single {
				t.Errorf("%s with one natural link should render as an object", g.Rel)
			}
		}
	}
}

func TestCollateLinks_EmbeddedSkipsCuries(t *testing.T) {
	r := mustRep(t)(Empty("/a").WithNamespace("ns", "http://x/{rel}"))
	for _, g := range CollateLinks(r, CollateOptions{Embedded: true}) {
		if g.Rel == RelCuries {
			t.Error("embedded nodes should not emit curies")
		}
	}
}

func TestCollateLinks_CollectionSingleMember(t *testing.T) {
	r := mustRep(t)(Empty("/a").WithRel(Collection("items")))
	r = mustRep(t)(r.WithLink("items", "/i/1"))
	for _, g := range CollateLinks(r, CollateOptions{}) {
		if g.Rel == "items" && g.Single {
			t.Error("collection with one member should still render as an array")
		}
	}
}

func TestCollateLinks_Coalesce(t *testing.T) {
	r := mustRep(t)(Empty("/a").WithLink("foo", "/b"))
	r = mustRep(t)(r.WithLink("bar", "/b"))
	r = mustRep(t)(r.WithLink("baz", "/c"))

	plain := strings.Join(groupRels(CollateLinks(r, CollateOptions{})), ",")
	if plain != "self,bar,baz,foo" {
		t.Errorf("uncoalesced rels = %s", plain)
	}

	groups := CollateLinks(r, CollateOptions{Coalesce: true})
	got := strings.Join(groupRels(groups), ",")
	if got != "self,bar foo,baz" {
		t.Errorf("coalesced rels = %s, want self,bar foo,baz", got)
	}
	for _, g := range groups {
		if g.Rel == "bar foo" && (len(g.Links) != 1 || g.Links[0].Href() != "/b" || !g.Single) {
			t.Errorf("coalesced group = %+v", g)
		}
	}
}

func TestCollateResources_Sorted(t *testing.T) {
	bySKU := func(a, b Representation) int {
		x, _ := a.Property("sku")
		y, _ := b.Property("sku")
		return strings.Compare(x.(string), y.(string))
	}
	r := mustRep(t)(Empty("/o").WithRel(Sorted("items", "sku", bySKU)))
	for _, sku := range []string{"c", "a", "b"} {
		r = mustRep(t)(r.WithRepresentation("items", New().WithProperty("sku", sku)))
	}
	r = mustRep(t)(r.WithRepresentation("author", Empty("/p/1")))

	groups := CollateResources(r)
	if len(groups) != 2 || groups[0].Rel != "author" || groups[1].Rel != "items" {
		t.Fatalf("CollateResources() = %+v", groups)
	}
	if !groups[0].Single {
		t.Error("single natural resource should render as an object")
	}
	var skus []string
	for _, res := range groups[1].Resources {
		v, _ := res.Property("sku")
		skus = append(skus, v.(string))
	}
	if strings.Join(skus, "") != "abc" {
		t.Errorf("sorted resources = %v, want a b c", skus)
	}
	if groups[1].Single {
		t.Error("sorted relation should render as an array")
	}

	first, _ := r.ResourceByRel("items")
	if v, _ := first.Property("sku"); v != "c" {
		t.Error("collation must not reorder the stored children")
	}
}

func TestCollateResources_CompactsRelations(t *testing.T) {
	r := mustRep(t)(New().WithNamespace("ns", "http://x/{rel}"))
	r = mustRep(t)(r.WithRepresentation("http://x/item", Empty("/1")))
	r = mustRep(t)(r.WithRepresentation("ns:item", Empty("/2")))

	groups := CollateResources(r)
	if len(groups) != 1 || groups[0].Rel != "ns:item" || len(groups[0].Resources) != 2 {
		t.Errorf("CollateResources() = %+v, want one ns:item group of two", groups)
	}
}
