// Package patients holds the set of patient identifiers a run is restricted
// to, and loads it from a delimited patient list.
package patients

import (
	"sort"
	"strings"
)

// Set is a set of patient IDs.
type Set map[string]struct{}

// NewSet builds a set from ids, trimming surrounding whitespace and dropping
// empty values.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id after trimming; empty ids are ignored.
func (s Set) Add(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	s[id] = struct{}{}
}

// Contains reports whether id is in the set.
func (s Set) Contains(id string) bool {
	_, ok := s[strings.TrimSpace(id)]
	return ok
}

// Len returns the number of ids.
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the ids in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Minus returns the ids of s that are not in other.
func (s Set) Minus(other Set) Set {
	out := make(Set)
	for id := range s {
		if !other.Contains(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// SymmetricDifference returns the ids present in exactly one of a and b.
func SymmetricDifference(a, b Set) Set {
	out := a.Minus(b)
	for id := range b.Minus(a) {
		out[id] = struct{}{}
	}
	return out
}

// String renders the set as {a, b, c} in sorted order.
func (s Set) String() string {
	return "{" + strings.Join(s.Sorted(), ", ") + "}"
}
