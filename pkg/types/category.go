// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for paper-shelf.
package types

// Category identifies one browsable working set: a subject area, the
// search results, or the favorites list.
type Category string

const (
	CategoryLatest   Category = "latest"
	CategoryCS       Category = "cs"
	CategoryMath     Category = "math"
	CategoryPhysics  Category = "physics"
	CategoryQBio     Category = "q-bio"
	CategoryQFin     Category = "q-fin"
	CategoryStat     Category = "stat"
	CategoryEESS     Category = "eess"
	CategoryEcon     Category = "econ"
	CategorySearch   Category = "search"
	CategoryFavorite Category = "favorites"
)

// categoryQueries maps each fetchable category to its arXiv search
// expression. Load, refresh, and display logic all consume this single
// table rather than carrying their own switch statements.
var categoryQueries = map[Category]string{
	CategoryLatest:  "cat:cs.* OR cat:math.* OR cat:physics.* OR cat:q-bio.* OR cat:q-fin.* OR cat:stat.* OR cat:eess.* OR cat:econ.*",
	CategoryCS:      "cat:cs.*",
	CategoryMath:    "cat:math.*",
	CategoryPhysics: "cat:physics.*",
	CategoryQBio:    "cat:q-bio.*",
	CategoryQFin:    "cat:q-fin.*",
	CategoryStat:    "cat:stat.*",
	CategoryEESS:    "cat:eess.*",
	CategoryEcon:    "cat:econ.*",
}

// FetchableCategories lists the categories that map to a remote query, in
// display order.
var FetchableCategories = []Category{
	CategoryLatest, CategoryCS, CategoryMath, CategoryPhysics,
	CategoryQBio, CategoryQFin, CategoryStat, CategoryEESS, CategoryEcon,
}

// Query returns the arXiv search expression for the category and whether
// the category is fetchable at all (search and favorites are not).
func (c Category) Query() (string, bool) {
	q, ok := categoryQueries[c]
	return q, ok
}

// Valid reports whether c names a known working set.
func (c Category) Valid() bool {
	if c == CategorySearch || c == CategoryFavorite {
		return true
	}
	_, ok := categoryQueries[c]
	return ok
}
