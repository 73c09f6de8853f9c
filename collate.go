package hal

import (
	"sort"
	"strings"
)

// LinkGroup is a set of links rendered under one relation key.
type LinkGroup struct {
	Rel    string // Compacted relation key, space-joined when links were coalesced
	Links  []Link
	Single bool // Render as a single object rather than an array
}

// ResourceGroup is a set of embedded resources rendered under one relation key.
type ResourceGroup struct {
	Rel       string
	Resources []Representation
	Single    bool
}

// CollateOptions tunes link collation.
type CollateOptions struct {
	// Embedded suppresses the synthetic curies links of a root document.
	Embedded bool

	// Coalesce renders links sharing a target under a single space-joined key.
	Coalesce bool
}

// CollateLinks groups the links of r by compacted relation. The self group
// comes first, the rest follow in ascending relation order. Root documents
// also carry their namespaces as a curies group.
func CollateLinks(r Representation, opts CollateOptions) []LinkGroup {
	all := r.links
	if !opts.Embedded && r.ns.Len() > 0 {
		all = append(r.ns.curieLinks(), r.links...)
	}

	var coalesced []LinkGroup
	if opts.Coalesce {
		coalesced, all = coalesceLinks(r, all)
	}

	var order []string
	byRel := map[string][]Link{}
	sem := map[string]Rel{}
	for _, l := range all {
		key := r.ns.Compact(l.rel)
		if _, ok := byRel[key]; !ok {
			order = append(order, key)
			sem[key] = r.relFor(l.rel)
		}
		byRel[key] = append(byRel[key], l)
	}

	groups := make([]LinkGroup, 0, len(order)+len(coalesced))
	for _, key := range order {
		links := byRel[key]
		groups = append(groups, LinkGroup{
			Rel:    key,
			Links:  links,
			Single: renderSingle(sem[key], len(links)),
		})
	}
	groups = append(groups, coalesced...)
	sort.SliceStable(groups, func(i, j int) bool {
		return relLess(groups[i].Rel, groups[j].Rel)
	})
	return groups
}

// coalesceLinks pulls out links whose target is shared by several relations.
// It returns one group per shared target and the links left to collate normally.
func coalesceLinks(r Representation, links []Link) ([]LinkGroup, []Link) {
	type target struct {
		link Link
		rels []string
		idx  []int
	}
	var targets []*target
	for i, l := range links {
		if l.rel == RelSelf || l.rel == RelCuries {
			continue
		}
		key := r.ns.Compact(l.rel)
		var found *target
		for _, t := range targets {
			if t.link.sameTarget(l) {
				found = t
				break
			}
		}
		if found == nil {
			found = &target{link: l}
			targets = append(targets, found)
		}
		if !containsString(found.rels, key) {
			found.rels = append(found.rels, key)
		}
		found.idx = append(found.idx, i)
	}

	used := map[int]bool{}
	var groups []LinkGroup
	for _, t := range targets {
		if len(t.rels) < 2 {
			continue
		}
		sort.Strings(t.rels)
		single := true
		for _, rel := range t.rels {
			if r.relFor(rel).IsCollectionLike() {
				single = false
			}
		}
		key := strings.Join(t.rels, " ")
		groups = append(groups, LinkGroup{
			Rel:    key,
			Links:  []Link{t.link.withRel(key)},
			Single: single,
		})
		for _, i := range t.idx {
			used[i] = true
		}
	}
	if len(used) == 0 {
		return nil, links
	}
	rest := make([]Link, 0, len(links)-len(used))
	for i, l := range links {
		if !used[i] {
			rest = append(rest, l)
		}
	}
	return groups, rest
}

// CollateResources groups embedded resources by compacted relation, ordering
// sorted relations with their comparator.
func CollateResources(r Representation) []ResourceGroup {
	var order []string
	byRel := map[string][]Representation{}
	sem := map[string]Rel{}
	for _, c := range r.children {
		key := r.ns.Compact(c.Rel)
		if _, ok := byRel[key]; !ok {
			order = append(order, key)
			sem[key] = r.relFor(c.Rel)
		}
		byRel[key] = append(byRel[key], c.Resource)
	}

	groups := make([]ResourceGroup, 0, len(order))
	for _, key := range order {
		res := byRel[key]
		if cmp, ok := sem[key].Ordering(); ok {
			sorted := make([]Representation, len(res))
			copy(sorted, res)
			sort.SliceStable(sorted, func(i, j int) bool { return cmp(sorted[i], sorted[j]) < 0 })
			res = sorted
		}
		groups = append(groups, ResourceGroup{
			Rel:       key,
			Resources: res,
			Single:    renderSingle(sem[key], len(res)),
		})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return relLess(groups[i].Rel, groups[j].Rel)
	})
	return groups
}

// renderSingle decides between object and array form for a group.
func renderSingle(rel Rel, n int) bool {
	return FoldRel(rel,
		func(string) bool { return true },
		func(string) bool { return n == 1 },
		func(string) bool { return false },
		func(string, string, Comparator) bool { return false },
	)
}

// relLess orders self before every other relation, the rest lexically.
func relLess(a, b string) bool {
	if a == b {
		return false
	}
	if a == RelSelf {
		return true
	}
	if b == RelSelf {
		return false
	}
	return a < b
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
