package models

import (
	"testing"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestParseWordType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    WordType
		wantErr bool
	}{
		{name: "english", input: "english", want: WordTypeEnglish},
		{name: "foreign mixed case", input: " Foreign ", want: WordTypeForeign},
		{name: "empty", input: "", wantErr: true},
		{name: "unknown", input: "klingon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWordType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWordType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseWordType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestVocabularyFilterNormalize(t *testing.T) {
	tests := []struct {
		name         string
		filter       VocabularyFilter
		wantSort     SortOrder
		wantPage     int
		wantPageSize int
	}{
		{
			name:         "zero value gets defaults",
			filter:       VocabularyFilter{},
			wantSort:     SortNewest,
			wantPage:     1,
			wantPageSize: DefaultPageSize,
		},
		{
			name:         "page size clamped",
			filter:       VocabularyFilter{Sort: SortAlpha, Page: 3, PageSize: 1000},
			wantSort:     SortAlpha,
			wantPage:     3,
			wantPageSize: MaxPageSize,
		},
		{
			name:         "unknown sort falls back",
			filter:       VocabularyFilter{Sort: "random", Page: -2, PageSize: 5},
			wantSort:     SortNewest,
			wantPage:     1,
			wantPageSize: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Normalize()
			if got.Sort != tt.wantSort || got.Page != tt.wantPage || got.PageSize != tt.wantPageSize {
				t.Errorf("Normalize() = sort %v page %d size %d, want %v %d %d",
					got.Sort, got.Page, got.PageSize, tt.wantSort, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestVocabularyFilterMatches(t *testing.T) {
	entry := VocabularyEntry{
		ID:          "1",
		Type:        WordTypeEnglish,
		Term:        "Cat",
		Translation: "муур",
		Memorized:   true,
	}

	tests := []struct {
		name   string
		filter VocabularyFilter
		want   bool
	}{
		{name: "empty filter", filter: VocabularyFilter{}, want: true},
		{name: "type mismatch", filter: VocabularyFilter{Type: WordTypeForeign}, want: false},
		{name: "query on term is case-insensitive", filter: VocabularyFilter{Query: "cA"}, want: true},
		{name: "query on translation", filter: VocabularyFilter{Query: "МУУ"}, want: true},
		{name: "query miss", filter: VocabularyFilter{Query: "dog"}, want: false},
		{name: "memorized only", filter: VocabularyFilter{Memorized: boolPtr(true)}, want: true},
		{name: "not memorized only", filter: VocabularyFilter{Memorized: boolPtr(false)}, want: false},
		{name: "favorites only", filter: VocabularyFilter{Favorite: boolPtr(true)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(entry); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVocabularyPatchApply(t *testing.T) {
	original := VocabularyEntry{ID: "1", Term: "go", Translation: "явах", Favorite: true}

	patched := VocabularyPatch{
		Translation: strPtr("  очих "),
		Memorized:   boolPtr(true),
	}.Apply(original)

	if patched.Translation != "очих" {
		t.Errorf("Translation = %q, want trimmed value", patched.Translation)
	}
	if !patched.Memorized {
		t.Error("Memorized should be set")
	}
	if !patched.Favorite || patched.Term != "go" {
		t.Error("untouched fields must be preserved")
	}
	if original.Translation != "явах" {
		t.Error("Apply must not mutate the original entry")
	}
}
