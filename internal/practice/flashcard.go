package practice

import (
	"context"
	"math/rand"
	"sync"
)

// FlashcardState is one of FlashcardEmpty, FlashcardActive or FlashcardFinished
type FlashcardState interface {
	isFlashcardState()
}

// FlashcardEmpty is the state of a session started without words. The only way out is Exit.
type FlashcardEmpty struct{}

// FlashcardActive shows the card at Index of the current deck
type FlashcardActive struct {
	Index   int
	Flipped bool
}

// FlashcardFinished is reached after the last card of the deck is classified
type FlashcardFinished struct{}

func (FlashcardEmpty) isFlashcardState()    {}
func (FlashcardActive) isFlashcardState()   {}
func (FlashcardFinished) isFlashcardState() {}

// FlashcardStats summarizes the current pass through the deck
type FlashcardStats struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Remaining int `json:"remaining"`
	Known     int `json:"known"`
	Missed    int `json:"missed"`
}

// Flashcard cycles a shuffled deck one card at a time
type Flashcard struct {
	mu     sync.Mutex
	rng    *rand.Rand
	hooks  Hooks
	cards  []Card
	deck   []Card
	state  FlashcardState
	closed bool

	// completing is set while the OnComplete hook runs
	completing bool

	correct   int
	incorrect int

	// knownIDs survives restarts so Complete reports every word learned in the session
	knownIDs []string
	known    map[string]struct{}

	unknown    []Card
	unknownIDs map[string]struct{}
}

// NewFlashcard starts a flashcard session over cards
func NewFlashcard(cards []Card, rng *rand.Rand, hooks Hooks) *Flashcard {
	f := &Flashcard{
		rng:   rng,
		hooks: hooks,
		cards: uniqueCards(cards),
		known: make(map[string]struct{}),
	}
	if len(f.cards) == 0 {
		f.state = FlashcardEmpty{}
		return f
	}
	f.deal(f.cards)
	return f
}

func (f *Flashcard) Mode() Mode { return ModeFlashcard }

// deal starts a new pass over cards
func (f *Flashcard) deal(cards []Card) {
	f.deck = shuffled(f.rng, cards)
	f.correct = 0
	f.incorrect = 0
	f.unknown = nil
	f.unknownIDs = make(map[string]struct{})
	f.state = FlashcardActive{}
}

// State returns the current state
func (f *Flashcard) State() FlashcardState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Current returns the card on display
func (f *Flashcard) Current() (Card, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	active, ok := f.state.(FlashcardActive)
	if !ok {
		return Card{}, false
	}
	return f.deck[active.Index], true
}

// Deck returns the current pass in display order
func (f *Flashcard) Deck() []Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Card, len(f.deck))
	copy(out, f.deck)
	return out
}

func (f *Flashcard) Stats() FlashcardStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statsLocked()
}

func (f *Flashcard) statsLocked() FlashcardStats {
	s := FlashcardStats{
		Correct:   f.correct,
		Incorrect: f.incorrect,
		Known:     len(f.knownIDs),
		Missed:    len(f.unknown),
	}
	if active, ok := f.state.(FlashcardActive); ok {
		s.Remaining = len(f.deck) - active.Index
	}
	return s
}

// KnownIDs returns the IDs marked known so far, in the order they were marked
func (f *Flashcard) KnownIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.knownIDs))
	copy(out, f.knownIDs)
	return out
}

// Missed returns the cards marked unknown during the current pass
func (f *Flashcard) Missed() []Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Card, len(f.unknown))
	copy(out, f.unknown)
	return out
}

// Flip turns the current card over. Flipping again shows the question side.
func (f *Flashcard) Flip() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrSessionClosed
	}
	active, ok := f.state.(FlashcardActive)
	if !ok {
		return ErrNotActive
	}
	active.Flipped = !active.Flipped
	f.state = active
	return nil
}

// Classify records whether the learner knew the revealed card and moves to the next one
func (f *Flashcard) Classify(known bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrSessionClosed
	}
	active, ok := f.state.(FlashcardActive)
	if !ok {
		return ErrNotActive
	}
	if !active.Flipped {
		return ErrCardNotRevealed
	}

	card := f.deck[active.Index]
	if known {
		f.correct++
		if _, seen := f.known[card.ID]; !seen && !card.Memorized {
			f.known[card.ID] = struct{}{}
			f.knownIDs = append(f.knownIDs, card.ID)
		}
	} else {
		f.incorrect++
		if _, seen := f.unknownIDs[card.ID]; !seen {
			f.unknownIDs[card.ID] = struct{}{}
			f.unknown = append(f.unknown, card)
		}
	}

	if active.Index+1 >= len(f.deck) {
		f.state = FlashcardFinished{}
		return nil
	}
	f.state = FlashcardActive{Index: active.Index + 1}
	return nil
}

// RestartFull reshuffles every card of the session into a new deck
func (f *Flashcard) RestartFull() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrSessionClosed
	}
	if _, ok := f.state.(FlashcardFinished); !ok || f.completing {
		return ErrNotFinished
	}
	f.deal(f.cards)
	return nil
}

// RestartMissed deals a new deck made of the cards missed in the last pass
func (f *Flashcard) RestartMissed() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrSessionClosed
	}
	if _, ok := f.state.(FlashcardFinished); !ok || f.completing {
		return ErrNotFinished
	}
	if len(f.unknown) == 0 {
		return ErrNothingMissed
	}
	f.deal(f.unknown)
	return nil
}

// Complete hands the known IDs to the OnComplete hook and ends the session. If the hook fails
// the session stays Finished so the learner can retry or restart.
func (f *Flashcard) Complete(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrSessionClosed
	}
	switch f.state.(type) {
	case FlashcardEmpty:
		f.mu.Unlock()
		return nil, ErrEmptyDeck
	case FlashcardFinished:
		if f.completing {
			f.mu.Unlock()
			return nil, ErrNotFinished
		}
	default:
		f.mu.Unlock()
		return nil, ErrNotFinished
	}
	f.completing = true
	ids := make([]string, len(f.knownIDs))
	copy(ids, f.knownIDs)
	f.mu.Unlock()

	// The hook may write to the store; don't hold the lock across it.
	var err error
	if f.hooks.OnComplete != nil {
		err = f.hooks.OnComplete(ctx, ids)
	}

	f.mu.Lock()
	f.completing = false
	if err == nil {
		f.closed = true
	}
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (f *Flashcard) Exit() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.mu.Unlock()
	f.hooks.exit()
}

func (f *Flashcard) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// FlashcardView is what the learner sees. The translation stays hidden until the card is flipped.
type FlashcardView struct {
	State   string         `json:"state"`
	Index   int            `json:"index"`
	Total   int            `json:"total"`
	Flipped bool           `json:"flipped"`
	Card    *Card          `json:"card,omitempty"`
	Stats   FlashcardStats `json:"stats"`
}

func (f *Flashcard) View() FlashcardView {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := FlashcardView{Total: len(f.deck), Stats: f.statsLocked()}
	switch s := f.state.(type) {
	case FlashcardEmpty:
		v.State = "empty"
	case FlashcardFinished:
		v.State = "finished"
		v.Index = len(f.deck)
	case FlashcardActive:
		v.State = "active"
		v.Index = s.Index
		v.Flipped = s.Flipped
		card := f.deck[s.Index]
		if !s.Flipped {
			card.Translation = ""
			card.Hint = ""
		}
		v.Card = &card
	}
	return v
}
