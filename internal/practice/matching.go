package practice

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Side is the column a match item sits in
type Side string

const (
	SideSource Side = "source"
	SideTarget Side = "target"
)

// MatchItem is one clickable word. MatchKey is the ID of the card it came from, so a source
// and a target item belong together when their keys are equal.
type MatchItem struct {
	ID       string
	Text     string
	Side     Side
	MatchKey string
	Matched  bool
}

// Selection is one of Unselected, SourceSelected or Incorrect
type Selection interface {
	isSelection()
}

type Unselected struct{}

type SourceSelected struct {
	ItemID string
}

// Incorrect is the brief state after a mismatched target click
type Incorrect struct {
	SourceID string
	TargetID string
}

func (Unselected) isSelection()     {}
func (SourceSelected) isSelection() {}
func (Incorrect) isSelection()      {}

// MatchingState is one of MatchingUnavailable, MatchingActive or MatchingFinished
type MatchingState interface {
	isMatchingState()
}

type MatchingUnavailable struct{}

type MatchingActive struct {
	Selection Selection
	Matched   int
}

type MatchingFinished struct{}

func (MatchingUnavailable) isMatchingState() {}
func (MatchingActive) isMatchingState()      {}
func (MatchingFinished) isMatchingState()    {}

// Matching is the pairwise matching game. Mismatches only flash; they are not counted.
type Matching struct {
	mu     sync.Mutex
	rng    *rand.Rand
	sched  Scheduler
	flash  time.Duration
	hooks  Hooks
	cards  []Card
	closed bool

	state   MatchingState
	round   int
	sources []MatchItem
	targets []MatchItem
	reset   pending
}

// NewMatching creates a matching game and deals its first round. feedbackDelay is how long a
// mismatch stays highlighted.
func NewMatching(cards []Card, rng *rand.Rand, sched Scheduler, feedbackDelay time.Duration, hooks Hooks) *Matching {
	m := &Matching{
		rng:   rng,
		sched: sched,
		flash: feedbackDelay,
		hooks: hooks,
		cards: uniqueCards(cards),
	}
	if len(m.cards) < MatchRoundSize {
		m.state = MatchingUnavailable{}
		return m
	}
	m.deal()
	return m
}

func (m *Matching) Mode() Mode { return ModeMatching }

func (m *Matching) deal() {
	picked := sample(m.rng, m.cards, MatchRoundSize)
	sources := make([]MatchItem, 0, len(picked))
	targets := make([]MatchItem, 0, len(picked))
	for _, c := range picked {
		sources = append(sources, MatchItem{ID: uuid.NewString(), Text: c.Term, Side: SideSource, MatchKey: c.ID})
		targets = append(targets, MatchItem{ID: uuid.NewString(), Text: c.Translation, Side: SideTarget, MatchKey: c.ID})
	}
	m.sources = shuffled(m.rng, sources)
	m.targets = shuffled(m.rng, targets)
	m.round++
	m.state = MatchingActive{Selection: Unselected{}}
}

func (m *Matching) State() MatchingState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Round is the 1-based number of the current round, 0 when no round could be dealt
func (m *Matching) Round() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.round
}

// Items returns both columns in display order
func (m *Matching) Items() (sources, targets []MatchItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MatchItem(nil), m.sources...), append([]MatchItem(nil), m.targets...)
}

func findItem(items []MatchItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// SelectSource selects a source item, replacing any previous selection. A pending mismatch
// flash is cut short.
func (m *Matching) SelectSource(itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrSessionClosed
	}
	active, ok := m.state.(MatchingActive)
	if !ok {
		return ErrNotActive
	}
	i := findItem(m.sources, itemID)
	if i < 0 {
		return ErrUnknownItem
	}
	if m.sources[i].Matched {
		return ErrItemAlreadyMatched
	}
	m.reset.cancel()
	active.Selection = SourceSelected{ItemID: itemID}
	m.state = active
	return nil
}

// SelectTarget tries to pair the selected source with a target item and reports whether they
// matched.
func (m *Matching) SelectTarget(itemID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, ErrSessionClosed
	}
	active, ok := m.state.(MatchingActive)
	if !ok {
		return false, ErrNotActive
	}
	j := findItem(m.targets, itemID)
	if j < 0 {
		return false, ErrUnknownItem
	}
	if m.targets[j].Matched {
		return false, ErrItemAlreadyMatched
	}
	sel, ok := active.Selection.(SourceSelected)
	if !ok {
		return false, ErrNoSourceSelected
	}
	i := findItem(m.sources, sel.ItemID)

	if m.sources[i].MatchKey != m.targets[j].MatchKey {
		active.Selection = Incorrect{SourceID: sel.ItemID, TargetID: itemID}
		m.state = active
		m.reset.schedule(m.sched, m.flash, m.clearIncorrect)
		return false, nil
	}

	m.sources[i].Matched = true
	m.targets[j].Matched = true
	active.Matched++
	active.Selection = Unselected{}
	if active.Matched == len(m.sources) {
		m.state = MatchingFinished{}
		return true, nil
	}
	m.state = active
	return true, nil
}

func (m *Matching) clearIncorrect(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || !m.reset.current(gen) {
		return
	}
	m.reset.timer = nil
	active, ok := m.state.(MatchingActive)
	if !ok {
		return
	}
	if _, flashing := active.Selection.(Incorrect); flashing {
		active.Selection = Unselected{}
		m.state = active
	}
}

// NewRound samples fresh words and reshuffles both columns
func (m *Matching) NewRound() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrSessionClosed
	}
	if _, ok := m.state.(MatchingFinished); !ok {
		return ErrNotFinished
	}
	m.reset.cancel()
	m.deal()
	return nil
}

func (m *Matching) Exit() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.reset.cancel()
	m.mu.Unlock()
	m.hooks.exit()
}

func (m *Matching) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MatchItemView never carries the match key
type MatchItemView struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Matched bool   `json:"matched"`
}

type MatchingView struct {
	State     string          `json:"state"`
	Round     int             `json:"round"`
	Matched   int             `json:"matched"`
	RoundSize int             `json:"round_size"`
	Sources   []MatchItemView `json:"sources,omitempty"`
	Targets   []MatchItemView `json:"targets,omitempty"`
	Selected  string          `json:"selected,omitempty"`
	Incorrect []string        `json:"incorrect,omitempty"`
}

func (m *Matching) View() MatchingView {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := MatchingView{Round: m.round, RoundSize: MatchRoundSize}
	switch s := m.state.(type) {
	case MatchingUnavailable:
		v.State = "unavailable"
		return v
	case MatchingFinished:
		v.State = "finished"
		v.Matched = len(m.sources)
	case MatchingActive:
		v.State = "active"
		v.Matched = s.Matched
		switch sel := s.Selection.(type) {
		case SourceSelected:
			v.Selected = sel.ItemID
		case Incorrect:
			v.Incorrect = []string{sel.SourceID, sel.TargetID}
		}
	}
	v.Sources = itemViews(m.sources)
	v.Targets = itemViews(m.targets)
	return v
}

func itemViews(items []MatchItem) []MatchItemView {
	out := make([]MatchItemView, len(items))
	for i, it := range items {
		out[i] = MatchItemView{ID: it.ID, Text: it.Text, Matched: it.Matched}
	}
	return out
}
