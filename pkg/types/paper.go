// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// Paper holds the metadata for a single publication as returned by the
// remote literature API, plus its local favorite state.
type Paper struct {
	// ID is the stable, globally unique identifier (e.g. a versioned
	// arXiv ID such as "2301.07041v2"). Primary key across every store.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Summary is the paper abstract.
	Summary string `json:"summary" yaml:"summary"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Published is the publication or preprint date.
	Published time.Time `json:"published" yaml:"published"`

	// Updated is the last revision date. Zero when the source reported none.
	Updated time.Time `json:"updated,omitempty" yaml:"updated,omitempty"`

	// PDFURL is the remote location of the PDF payload. May be empty.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// LinkURL is the abstract page URL. May be empty.
	LinkURL string `json:"link_url" yaml:"link_url"`

	// Categories lists the subject tags the source assigned to the paper.
	// Canonicalized at ingestion; see SplitCategories.
	Categories []string `json:"categories" yaml:"categories"`

	// CitationCount is a mock value derived from the ID, not authoritative.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// IsFavorite reports whether the paper is in the favorites index.
	IsFavorite bool `json:"is_favorite" yaml:"is_favorite"`

	// FavoritedDate is when the paper was favorited. Set exactly when
	// IsFavorite transitions to true, zero otherwise.
	FavoritedDate time.Time `json:"favorited_date,omitempty" yaml:"favorited_date,omitempty"`
}

// Favorite marks the paper favorited at the given time, maintaining the
// rule that FavoritedDate is set iff IsFavorite is true.
func (p *Paper) Favorite(at time.Time) {
	p.IsFavorite = true
	p.FavoritedDate = at
}

// Unfavorite clears the favorite flag and its date together.
func (p *Paper) Unfavorite() {
	p.IsFavorite = false
	p.FavoritedDate = time.Time{}
}

// SplitCategories parses a delimiter-separated category string into a
// canonical slice. Upstream producers disagree on the delimiter (some emit
// "cs.AI cs.LG", others "cs.AI,cs.LG"), so both are accepted here and
// nowhere else.
func SplitCategories(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ','
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
