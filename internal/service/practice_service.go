package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"lingofolio/internal/models"
	"lingofolio/internal/practice"
)

var (
	ErrSessionNotFound = errors.New("practice session not found")
	ErrWrongMode       = errors.New("operation does not apply to this game mode")
	ErrNotEnoughWords  = errors.New("not enough words for this game")
)

// WordPool is what the practice service needs from the vocabulary manager
type WordPool interface {
	Pool(ctx context.Context, filter models.VocabularyFilter) ([]models.VocabularyEntry, error)
	MarkMemorized(ctx context.Context, wordType models.WordType, ids []string) (int, error)
}

// PracticeOptions tunes session timing. Zero values fall back to defaults.
type PracticeOptions struct {
	Scheduler          practice.Scheduler
	QuizAdvanceDelay   time.Duration
	MatchFeedbackDelay time.Duration
	IdleTTL            time.Duration
	Rand               func() *rand.Rand
}

// StartRequest selects a game and the words it is played with
type StartRequest struct {
	Mode      practice.Mode
	Filter    models.VocabularyFilter
	Direction practice.Direction
}

// SessionView is the client-safe snapshot of a session. Exactly one of the game views is set.
type SessionView struct {
	ID        string                  `json:"id"`
	Mode      practice.Mode           `json:"mode"`
	WordType  models.WordType         `json:"word_type"`
	Flashcard *practice.FlashcardView `json:"flashcard,omitempty"`
	Quiz      *practice.QuizView      `json:"quiz,omitempty"`
	Matching  *practice.MatchingView  `json:"matching,omitempty"`
}

type registered struct {
	id       string
	session  practice.Session
	wordType models.WordType
	lastUsed time.Time
}

// PracticeService keeps the open practice sessions and routes learner actions to them
type PracticeService struct {
	words  WordPool
	opts   PracticeOptions
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*registered
}

// NewPracticeService creates a new practice service
func NewPracticeService(words WordPool, opts PracticeOptions, logger *zap.Logger) *PracticeService {
	if opts.Scheduler == nil {
		opts.Scheduler = practice.RealScheduler{}
	}
	if opts.QuizAdvanceDelay <= 0 {
		opts.QuizAdvanceDelay = 1500 * time.Millisecond
	}
	if opts.MatchFeedbackDelay <= 0 {
		opts.MatchFeedbackDelay = 800 * time.Millisecond
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 30 * time.Minute
	}
	if opts.Rand == nil {
		opts.Rand = practice.NewRand
	}
	return &PracticeService{
		words:    words,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*registered),
	}
}

// Start builds a session over the words selected by req.Filter
func (s *PracticeService) Start(ctx context.Context, req StartRequest) (SessionView, error) {
	if !req.Filter.Type.Valid() {
		return SessionView{}, ErrInvalidWordType
	}
	if req.Direction != "" && req.Mode != practice.ModeQuiz {
		return SessionView{}, ErrWrongMode
	}
	entries, err := s.words.Pool(ctx, req.Filter)
	if err != nil {
		return SessionView{}, fmt.Errorf("failed to load word pool: %w", err)
	}
	cards := practice.CardsFromEntries(entries)

	reg := &registered{
		id:       uuid.NewString(),
		wordType: req.Filter.Type,
		lastUsed: s.now(),
	}
	hooks := practice.Hooks{
		OnExit: func() { s.remove(reg.id) },
	}

	switch req.Mode {
	case practice.ModeFlashcard:
		wordType := reg.wordType
		hooks.OnComplete = func(ctx context.Context, knownIDs []string) error {
			if len(knownIDs) == 0 {
				return nil
			}
			_, err := s.words.MarkMemorized(ctx, wordType, knownIDs)
			return err
		}
		reg.session = practice.NewFlashcard(cards, s.opts.Rand(), hooks)

	case practice.ModeQuiz:
		quiz := practice.NewQuiz(cards, s.opts.Rand(), s.opts.Scheduler, s.opts.QuizAdvanceDelay, hooks)
		if _, ok := quiz.State().(practice.QuizUnavailable); ok {
			return SessionView{}, ErrNotEnoughWords
		}
		if req.Direction != "" {
			if err := quiz.SelectDirection(req.Direction); err != nil {
				return SessionView{}, err
			}
		}
		reg.session = quiz

	case practice.ModeMatching:
		matching := practice.NewMatching(cards, s.opts.Rand(), s.opts.Scheduler, s.opts.MatchFeedbackDelay, hooks)
		if _, ok := matching.State().(practice.MatchingUnavailable); ok {
			return SessionView{}, ErrNotEnoughWords
		}
		reg.session = matching

	default:
		return SessionView{}, ErrWrongMode
	}

	s.mu.Lock()
	s.sessions[reg.id] = reg
	s.mu.Unlock()

	s.logger.Info("Practice session started",
		zap.String("session_id", reg.id),
		zap.String("mode", string(req.Mode)),
		zap.String("word_type", string(reg.wordType)),
		zap.Int("words", len(cards)),
	)
	return s.view(reg), nil
}

func (s *PracticeService) remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *PracticeService) lookup(id string) (*registered, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if reg.session.Closed() {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	reg.lastUsed = s.now()
	return reg, nil
}

func (s *PracticeService) view(reg *registered) SessionView {
	v := SessionView{ID: reg.id, Mode: reg.session.Mode(), WordType: reg.wordType}
	switch sess := reg.session.(type) {
	case *practice.Flashcard:
		fv := sess.View()
		v.Flashcard = &fv
	case *practice.Quiz:
		qv := sess.View()
		v.Quiz = &qv
	case *practice.Matching:
		mv := sess.View()
		v.Matching = &mv
	}
	return v
}

// Get returns the current view of a session
func (s *PracticeService) Get(id string) (SessionView, error) {
	reg, err := s.lookup(id)
	if err != nil {
		return SessionView{}, err
	}
	return s.view(reg), nil
}

// Count is the number of open sessions
func (s *PracticeService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *PracticeService) flashcard(id string) (*registered, *practice.Flashcard, error) {
	reg, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	f, ok := reg.session.(*practice.Flashcard)
	if !ok {
		return nil, nil, ErrWrongMode
	}
	return reg, f, nil
}

func (s *PracticeService) quiz(id string) (*registered, *practice.Quiz, error) {
	reg, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	q, ok := reg.session.(*practice.Quiz)
	if !ok {
		return nil, nil, ErrWrongMode
	}
	return reg, q, nil
}

func (s *PracticeService) matching(id string) (*registered, *practice.Matching, error) {
	reg, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	m, ok := reg.session.(*practice.Matching)
	if !ok {
		return nil, nil, ErrWrongMode
	}
	return reg, m, nil
}

// Flip turns the current flashcard over
func (s *PracticeService) Flip(id string) (SessionView, error) {
	reg, f, err := s.flashcard(id)
	if err != nil {
		return SessionView{}, err
	}
	if err := f.Flip(); err != nil {
		return SessionView{}, err
	}
	return s.view(reg), nil
}

// Classify records whether the learner knew the current flashcard
func (s *PracticeService) Classify(id string, known bool) (SessionView, error) {
	reg, f, err := s.flashcard(id)
	if err != nil {
		return SessionView{}, err
	}
	if err := f.Classify(known); err != nil {
		return SessionView{}, err
	}
	return s.view(reg), nil
}

// RestartFlashcard deals a new deck, either every card or only the missed ones
func (s *PracticeService) RestartFlashcard(id string, missedOnly bool) (SessionView, error) {
	reg, f, err := s.flashcard(id)
	if err != nil {
		return SessionView{}, err
	}
	if missedOnly {
		err = f.RestartMissed()
	} else {
		err = f.RestartFull()
	}
	if err != nil {
		return SessionView{}, err
	}
	return s.view(reg), nil
}

// Complete marks the known words memorized and closes the session. If the write fails the
// session stays open and finished.
func (s *PracticeService) Complete(ctx context.Context, id string) ([]string, error) {
	reg, f, err := s.flashcard(id)
	if err != nil {
		return nil, err
	}
	known, err := f.Complete(ctx)
	if err != nil {
		if !errors.Is(err, practice.ErrNotFinished) && !errors.Is(err, practice.ErrEmptyDeck) {
			s.logger.Error("Failed to complete flashcard session", zap.String("session_id", id), zap.Error(err))
		}
		return nil, err
	}
	s.remove(id)
	s.logger.Info("Flashcard session completed",
		zap.String("session_id", id),
		zap.String("word_type", string(reg.wordType)),
		zap.Int("known", len(known)),
	)
	return known, nil
}

// SelectDirection picks the quiz direction and generates its questions
func (s *PracticeService) SelectDirection(id string, d practice.Direction) (SessionView, error) {
	reg, q, err := s.quiz(id)
	if err != nil {
		return SessionView{}, err
	}
	if err := q.SelectDirection(d); err != nil {
		return SessionView{}, err
	}
	return s.view(reg), nil
}

// Answer selects an option for the current quiz question
func (s *PracticeService) Answer(id, option string) (practice.AnswerResult, SessionView, error) {
	reg, q, err := s.quiz(id)
	if err != nil {
		return practice.AnswerResult{}, SessionView{}, err
	}
	result, err := q.Answer(option)
	if err != nil {
		return practice.AnswerResult{}, SessionView{}, err
	}
	return result, s.view(reg), nil
}

// RestartQuiz returns a finished quiz to direction selection
func (s *PracticeService) RestartQuiz(id string) (SessionView, error) {
	reg, q, err := s.quiz(id)
	if err != nil {
		return SessionView{}, err
	}
	if err := q.Restart(); err != nil {
		return SessionView{}, err
	}
	return s.view(reg), nil
}

// SelectSource selects a word in the source column
func (s *PracticeService) SelectSource(id, itemID string) (SessionView, error) {
	reg, m, err := s.matching(id)
	if err != nil {
		return SessionView{}, err
	}
	if err := m.SelectSource(itemID); err != nil {
		return SessionView{}, err
	}
	return s.view(reg), nil
}

// SelectTarget tries to pair the selected source with a target word
func (s *PracticeService) SelectTarget(id, itemID string) (bool, SessionView, error) {
	reg, m, err := s.matching(id)
	if err != nil {
		return false, SessionView{}, err
	}
	matched, err := m.SelectTarget(itemID)
	if err != nil {
		return false, SessionView{}, err
	}
	return matched, s.view(reg), nil
}

// NewRound deals a fresh matching round
func (s *PracticeService) NewRound(id string) (SessionView, error) {
	reg, m, err := s.matching(id)
	if err != nil {
		return SessionView{}, err
	}
	if err := m.NewRound(); err != nil {
		return SessionView{}, err
	}
	return s.view(reg), nil
}

// Exit discards a session of any mode
func (s *PracticeService) Exit(id string) error {
	reg, err := s.lookup(id)
	if err != nil {
		return err
	}
	// Exit runs the OnExit hook, which takes s.mu.
	reg.session.Exit()
	s.logger.Debug("Practice session exited", zap.String("session_id", id))
	return nil
}

// Sweep exits every session idle for longer than the configured TTL and returns how many
func (s *PracticeService) Sweep() int {
	cutoff := s.now().Add(-s.opts.IdleTTL)

	s.mu.Lock()
	var stale []practice.Session
	for id, reg := range s.sessions {
		if reg.lastUsed.Before(cutoff) || reg.session.Closed() {
			stale = append(stale, reg.session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.Exit()
	}
	if len(stale) > 0 {
		s.logger.Info("Evicted idle practice sessions", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// ScheduleSweep registers Sweep on c
func (s *PracticeService) ScheduleSweep(c *cron.Cron, schedule string) (cron.EntryID, error) {
	return c.AddFunc(schedule, func() { s.Sweep() })
}

// Shutdown exits every open session, cancelling their timers
func (s *PracticeService) Shutdown() {
	s.mu.Lock()
	open := make([]practice.Session, 0, len(s.sessions))
	for id, reg := range s.sessions {
		open = append(open, reg.session)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, sess := range open {
		sess.Exit()
	}
}
