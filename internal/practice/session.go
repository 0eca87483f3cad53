package practice

import (
	"context"
	"fmt"
	"strings"
)

// Mode is the game the caller has open
type Mode string

const (
	ModeNone      Mode = "none"
	ModeFlashcard Mode = "flashcard"
	ModeQuiz      Mode = "quiz"
	ModeMatching  Mode = "matching"
)

const (
	// MinQuizEntries is the smallest pool that yields three distractors per question
	MinQuizEntries = 4
	// MatchRoundSize is the number of pairs in a matching round
	MatchRoundSize = 5
)

// ParseMode validates a game mode coming from a request
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeFlashcard, ModeQuiz, ModeMatching:
		return m, nil
	default:
		return "", fmt.Errorf("unknown game mode %q", s)
	}
}

// Hooks connect a session to its caller
type Hooks struct {
	// OnComplete receives the IDs the learner marked known. Only flashcard sessions call it.
	OnComplete func(ctx context.Context, knownIDs []string) error
	// OnExit is called once when the learner leaves the session
	OnExit func()
}

func (h Hooks) exit() {
	if h.OnExit != nil {
		h.OnExit()
	}
}

// Session is the part every game has in common
type Session interface {
	Mode() Mode
	// Exit discards the session and cancels anything it has scheduled. It is safe to call more
	// than once.
	Exit()
	Closed() bool
}
