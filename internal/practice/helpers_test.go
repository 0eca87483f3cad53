package practice

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// manualScheduler only runs callbacks when the test fires them
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	s       *manualScheduler
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, delay: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// pending counts timers that are neither stopped nor fired
func (s *manualScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// fireAll runs every pending callback
func (s *manualScheduler) fireAll() {
	s.mu.Lock()
	var due []*manualTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

// last returns the most recently scheduled timer
func (s *manualScheduler) last() *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		return nil
	}
	return s.timers[len(s.timers)-1]
}

func testRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func testCards(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = Card{
			ID:          fmt.Sprintf("card-%d", i+1),
			Term:        fmt.Sprintf("term%d", i+1),
			Translation: fmt.Sprintf("translation%d", i+1),
		}
	}
	return cards
}

func cardIDs(cards []Card) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}
