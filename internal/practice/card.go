package practice

import (
	"strings"

	"lingofolio/internal/models"
)

// Card is the single shape every session works with, whatever the word type of the entry
// it was built from.
type Card struct {
	ID          string `json:"id"`
	Term        string `json:"term"`
	Translation string `json:"translation"`
	Hint        string `json:"hint,omitempty"`
	Memorized   bool   `json:"memorized"`
}

// CardFromEntry normalizes a vocabulary entry. English entries use their definition as the
// hint, foreign entries their reading.
func CardFromEntry(e models.VocabularyEntry) Card {
	c := Card{
		ID:          e.ID,
		Term:        strings.TrimSpace(e.Term),
		Translation: strings.TrimSpace(e.Translation),
		Memorized:   e.Memorized,
	}
	switch e.Type {
	case models.WordTypeForeign:
		c.Hint = strings.TrimSpace(e.Reading)
	default:
		c.Hint = strings.TrimSpace(e.Definition)
	}
	return c
}

// CardsFromEntries normalizes a word pool, dropping entries that were never saved and
// duplicate IDs.
func CardsFromEntries(entries []models.VocabularyEntry) []Card {
	cards := make([]Card, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		cards = append(cards, CardFromEntry(e))
	}
	return cards
}

func uniqueCards(cards []Card) []Card {
	out := make([]Card, 0, len(cards))
	seen := make(map[string]struct{}, len(cards))
	for _, c := range cards {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
