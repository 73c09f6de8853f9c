package hal

import "sort"

// RelKind identifies the variant of a Rel.
type RelKind int

// The zero RelKind is not a valid variant, so a zero Rel renders as natural.
const (
	// KindSingleton permits at most one link or resource.
	KindSingleton RelKind = iota + 1
	// KindNatural renders one member as an object and several as an array.
	KindNatural
	// KindCollection always renders as an array.
	KindCollection
	// KindSorted always renders as an array ordered by a comparator.
	KindSorted
)

func (k RelKind) String() string {
	switch k {
	case KindSingleton:
		return "singleton"
	case KindNatural:
		return "natural"
	case KindCollection:
		return "collection"
	case KindSorted:
		return "sorted"
	default:
		return "unknown"
	}
}

// Comparator orders embedded resources for a sorted relation.
// It returns a negative number when a sorts before b, zero when equal.
type Comparator func(a, b Representation) int

// Rel declares how a relation is rendered and how many members it admits.
// Rel values are created with Singleton, Natural, Collection or Sorted.
type Rel struct {
	kind   RelKind
	name   string
	sortID string
	cmp    Comparator
}

// Singleton declares a relation holding at most one link or resource.
func Singleton(name string) Rel {
	return Rel{kind: KindSingleton, name: name}
}

// Natural declares a relation rendered as an object when it has one member.
func Natural(name string) Rel {
	return Rel{kind: KindNatural, name: name}
}

// Collection declares a relation always rendered as an array.
func Collection(name string) Rel {
	return Rel{kind: KindCollection, name: name}
}

// Sorted declares a collection relation ordered by cmp. The id names the
// ordering so two declarations can be compared without comparing functions.
func Sorted(name, id string, cmp Comparator) Rel {
	return Rel{kind: KindSorted, name: name, sortID: id, cmp: cmp}
}

// Name returns the relation name.
func (r Rel) Name() string { return r.name }

// Kind returns the variant tag.
func (r Rel) Kind() RelKind { return r.kind }

// SortID returns the ordering id of a sorted relation, or "".
func (r Rel) SortID() string { return r.sortID }

// IsSingleton reports whether r admits a single member.
func (r Rel) IsSingleton() bool {
	return FoldRel(r,
		func(string) bool { return true },
		func(string) bool { return false },
		func(string) bool { return false },
		func(string, string, Comparator) bool { return false },
	)
}

// IsCollectionLike reports whether r always renders as an array.
func (r Rel) IsCollectionLike() bool {
	return FoldRel(r,
		func(string) bool { return false },
		func(string) bool { return false },
		func(string) bool { return true },
		func(string, string, Comparator) bool { return true },
	)
}

// Ordering returns the comparator of a sorted relation.
func (r Rel) Ordering() (Comparator, bool) {
	cmp := FoldRel(r,
		func(string) Comparator { return nil },
		func(string) Comparator { return nil },
		func(string) Comparator { return nil },
		func(_, _ string, c Comparator) Comparator { return c },
	)
	return cmp, cmp != nil
}

// Equal compares kind, name and sort id.
func (r Rel) Equal(o Rel) bool {
	return r.kind == o.kind && r.name == o.name && r.sortID == o.sortID
}

func (r Rel) String() string {
	if r.kind == KindSorted {
		return r.kind.String() + "(" + r.name + ", " + r.sortID + ")"
	}
	return r.kind.String() + "(" + r.name + ")"
}

// FoldRel dispatches on the variant of r. Every case must be supplied, so a
// new variant cannot be added without updating each call site.
func FoldRel[T any](
	r Rel,
	singleton func(name string) T,
	natural func(name string) T,
	collection func(name string) T,
	sorted func(name, id string, cmp Comparator) T,
) T {
	switch r.kind {
	case KindSingleton:
		return singleton(r.name)
	case KindCollection:
		return collection(r.name)
	case KindSorted:
		return sorted(r.name, r.sortID, r.cmp)
	default:
		return natural(r.name)
	}
}

// relTable is a copy-on-write map from relation name to Rel.
type relTable map[string]Rel

func defaultRels() relTable {
	return relTable{RelSelf: Singleton(RelSelf)}
}

func (t relTable) with(r Rel) relTable {
	out := make(relTable, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	out[r.name] = r
	return out
}

// sorted returns the table entries ordered by name.
func (t relTable) sorted() []Rel {
	out := make([]Rel, 0, len(t))
	for _, r := range t {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
