// Package catalog defines the fixed set of catalogs a post can be filed
// into. Catalogs are static configuration, not persisted state: the mapping
// of small integer id to display name is compiled in and shared process-wide.
package catalog

import "sort"

// names is the canonical id -> display name mapping. IDs are stored on post
// rows as plain integers, so entries must never be renumbered -- only
// appended.
var names = map[int]string{
	1: "Rock",
	2: "Country",
	3: "Pop",
}

// Catalog is one entry of the fixed enumeration.
type Catalog struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Valid reports whether id refers to a known catalog.
func Valid(id int) bool {
	_, ok := names[id]
	return ok
}

// Name returns the display name for a catalog id, or "" if unknown.
func Name(id int) string {
	return names[id]
}

// All returns every catalog in ascending id order. The slice is freshly
// allocated on each call so callers may not corrupt the enumeration.
func All() []Catalog {
	out := make([]Catalog, 0, len(names))
	for id, name := range names {
		out = append(out, Catalog{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
