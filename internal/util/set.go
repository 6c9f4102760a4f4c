// Package util contains small generic data structures used by the
// automaton package.
package util

import (
	"sort"
	"strings"
)

// StringSet is an insertion-independent set of strings with a stable,
// sorted string representation. The automaton package uses it to name
// subset-construction states by their sorted member list.
type StringSet map[string]struct{}

// NewStringSet creates a StringSet containing the given elements.
func NewStringSet(elements ...string) StringSet {
	s := StringSet{}
	for _, e := range elements {
		s[e] = struct{}{}
	}
	return s
}

// Add adds element to the set. If it is already present, no effect occurs.
func (s StringSet) Add(element string) {
	s[element] = struct{}{}
}

// Has returns whether element is in the set.
func (s StringSet) Has(element string) bool {
	_, ok := s[element]
	return ok
}

// Len returns the number of elements in the set.
func (s StringSet) Len() int {
	return len(s)
}

// Elements returns the elements of the set in sorted order.
func (s StringSet) Elements() []string {
	elems := make([]string, 0, len(s))
	for e := range s {
		elems = append(elems, e)
	}
	sort.Strings(elems)
	return elems
}

// StringOrdered returns a comma-joined, sorted list of the set's members.
// Two sets with identical membership always produce the same string,
// which is used as a canonical state name during subset construction.
func (s StringSet) StringOrdered() string {
	return strings.Join(s.Elements(), ",")
}

// Union returns a new StringSet containing every element of s and o.
func (s StringSet) Union(o StringSet) StringSet {
	out := NewStringSet()
	for e := range s {
		out.Add(e)
	}
	for e := range o {
		out.Add(e)
	}
	return out
}

// Empty returns whether the set has no elements.
func (s StringSet) Empty() bool {
	return len(s) == 0
}
