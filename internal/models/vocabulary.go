package models

import (
	"fmt"
	"strings"
	"time"
)

// WordType discriminates the language variant of a vocabulary entry
type WordType string

const (
	// WordTypeEnglish entries carry a definition and an example sentence
	WordTypeEnglish WordType = "english"
	// WordTypeForeign entries carry a reading (pronunciation) for non-Latin scripts
	WordTypeForeign WordType = "foreign"
)

// ParseWordType validates a word type coming from a request
func ParseWordType(s string) (WordType, error) {
	t := WordType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown word type %q", s)
	}
	return t, nil
}

// Valid reports whether t is a known word type
func (t WordType) Valid() bool {
	return t == WordTypeEnglish || t == WordTypeForeign
}

// VocabularyEntry is a single word in the learner's collection
type VocabularyEntry struct {
	ID          string    `json:"id"`
	Type        WordType  `json:"word_type"`
	Term        string    `json:"term"`
	Translation string    `json:"translation"`
	Definition  string    `json:"definition,omitempty"`
	Reading     string    `json:"reading,omitempty"`
	Example     string    `json:"example,omitempty"`
	Memorized   bool      `json:"memorized"`
	Favorite    bool      `json:"favorite"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VocabularyPatch holds the fields of an in-place update. Nil fields are left untouched.
type VocabularyPatch struct {
	Term        *string `json:"term,omitempty"`
	Translation *string `json:"translation,omitempty"`
	Definition  *string `json:"definition,omitempty"`
	Reading     *string `json:"reading,omitempty"`
	Example     *string `json:"example,omitempty"`
	Memorized   *bool   `json:"memorized,omitempty"`
	Favorite    *bool   `json:"favorite,omitempty"`
}

// Apply returns a copy of e with the patch applied
func (p VocabularyPatch) Apply(e VocabularyEntry) VocabularyEntry {
	if p.Term != nil {
		e.Term = strings.TrimSpace(*p.Term)
	}
	if p.Translation != nil {
		e.Translation = strings.TrimSpace(*p.Translation)
	}
	if p.Definition != nil {
		e.Definition = strings.TrimSpace(*p.Definition)
	}
	if p.Reading != nil {
		e.Reading = strings.TrimSpace(*p.Reading)
	}
	if p.Example != nil {
		e.Example = strings.TrimSpace(*p.Example)
	}
	if p.Memorized != nil {
		e.Memorized = *p.Memorized
	}
	if p.Favorite != nil {
		e.Favorite = *p.Favorite
	}
	return e
}

// SortOrder controls the ordering of a vocabulary listing
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
	SortAlpha  SortOrder = "alpha"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// VocabularyFilter selects and orders entries of one word type
type VocabularyFilter struct {
	Type      WordType
	Query     string
	Memorized *bool
	Favorite  *bool
	Sort      SortOrder
	Page      int
	PageSize  int
}

// Normalize fills defaults and clamps paging values
func (f VocabularyFilter) Normalize() VocabularyFilter {
	f.Query = strings.TrimSpace(f.Query)
	switch f.Sort {
	case SortNewest, SortOldest, SortAlpha:
	default:
		f.Sort = SortNewest
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

// Matches reports whether e passes the filter's predicates (paging is not considered)
func (f VocabularyFilter) Matches(e VocabularyEntry) bool {
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Memorized != nil && e.Memorized != *f.Memorized {
		return false
	}
	if f.Favorite != nil && e.Favorite != *f.Favorite {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(e.Term), q) && !strings.Contains(strings.ToLower(e.Translation), q) {
			return false
		}
	}
	return true
}

// VocabularyPage is one page of a filtered listing
type VocabularyPage struct {
	Entries    []VocabularyEntry `json:"entries"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}
