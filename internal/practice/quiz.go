package practice

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Direction selects which side of a card is the prompt
type Direction string

const (
	SourceToTarget Direction = "source_to_target"
	TargetToSource Direction = "target_to_source"
)

// ParseDirection validates a direction coming from a request
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case SourceToTarget, TargetToSource:
		return d, nil
	default:
		return "", ErrInvalidDirection
	}
}

func (d Direction) prompt(c Card) string {
	if d == TargetToSource {
		return c.Translation
	}
	return c.Term
}

func (d Direction) answer(c Card) string {
	if d == TargetToSource {
		return c.Term
	}
	return c.Translation
}

// Question is one multiple-choice item. ID is the ID of the card it was built from.
type Question struct {
	ID            string   `json:"id"`
	QuestionText  string   `json:"question_text"`
	CorrectAnswer string   `json:"correct_answer"`
	Options       []string `json:"options"`
}

// QuizState is one of QuizUnavailable, QuizDirectionUnset, QuizActive or QuizFinished
type QuizState interface {
	isQuizState()
}

// QuizUnavailable means the pool cannot produce three distractors for every question
type QuizUnavailable struct{}

// QuizDirectionUnset waits for the learner to pick a direction
type QuizDirectionUnset struct{}

// QuizActive shows question Index. Once Answered, input is locked until the auto-advance fires.
type QuizActive struct {
	Index    int
	Answered bool
	Selected string
}

type QuizFinished struct{}

func (QuizUnavailable) isQuizState()    {}
func (QuizDirectionUnset) isQuizState() {}
func (QuizActive) isQuizState()         {}
func (QuizFinished) isQuizState()       {}

// AnswerResult reports the outcome of a selection
type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Selected      string `json:"selected"`
	Score         int    `json:"score"`
}

// Quiz asks one multiple-choice question per card and advances on its own after each answer
type Quiz struct {
	mu     sync.Mutex
	rng    *rand.Rand
	sched  Scheduler
	delay  time.Duration
	hooks  Hooks
	cards  []Card
	closed bool

	state     QuizState
	direction Direction
	questions []Question
	score     int
	advance   pending
}

// NewQuiz creates a quiz over cards. advanceDelay is how long the answer highlight stays up.
func NewQuiz(cards []Card, rng *rand.Rand, sched Scheduler, advanceDelay time.Duration, hooks Hooks) *Quiz {
	q := &Quiz{
		rng:   rng,
		sched: sched,
		delay: advanceDelay,
		hooks: hooks,
		cards: uniqueCards(cards),
	}
	if !quizPossible(q.cards) {
		q.state = QuizUnavailable{}
		return q
	}
	q.state = QuizDirectionUnset{}
	return q
}

// quizPossible reports whether both directions have at least four distinct answers, which
// guarantees three distractors for every question.
func quizPossible(cards []Card) bool {
	if len(cards) < MinQuizEntries {
		return false
	}
	return distinctCount(cards, SourceToTarget) >= MinQuizEntries &&
		distinctCount(cards, TargetToSource) >= MinQuizEntries
}

func distinctCount(cards []Card, d Direction) int {
	seen := make(map[string]struct{}, len(cards))
	for _, c := range cards {
		seen[d.answer(c)] = struct{}{}
	}
	return len(seen)
}

func (q *Quiz) Mode() Mode { return ModeQuiz }

func (q *Quiz) State() QuizState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

func (q *Quiz) Score() (score, total int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.score, len(q.questions)
}

// Questions returns the generated questions, answers included
func (q *Quiz) Questions() []Question {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Question, len(q.questions))
	copy(out, q.questions)
	return out
}

// SelectDirection generates the questions and shows the first one
func (q *Quiz) SelectDirection(d Direction) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrSessionClosed
	}
	switch q.state.(type) {
	case QuizUnavailable:
		return ErrInsufficientEntries
	case QuizDirectionUnset:
	default:
		return ErrDirectionAlreadySet
	}
	if d != SourceToTarget && d != TargetToSource {
		return ErrInvalidDirection
	}

	q.direction = d
	q.questions = buildQuestions(q.rng, q.cards, d)
	q.score = 0
	q.state = QuizActive{}
	return nil
}

// buildQuestions creates one question per card in shuffled order. Distractors are distinct
// answer values, none equal to the correct one, so each comes from a different card.
func buildQuestions(r *rand.Rand, cards []Card, d Direction) []Question {
	values := make([]string, 0, len(cards))
	seen := make(map[string]struct{}, len(cards))
	for _, c := range cards {
		v := d.answer(c)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	order := shuffled(r, cards)
	questions := make([]Question, 0, len(order))
	for _, c := range order {
		correct := d.answer(c)
		others := make([]string, 0, len(values)-1)
		for _, v := range values {
			if v != correct {
				others = append(others, v)
			}
		}
		options := append(sample(r, others, MinQuizEntries-1), correct)
		questions = append(questions, Question{
			ID:            c.ID,
			QuestionText:  d.prompt(c),
			CorrectAnswer: correct,
			Options:       shuffled(r, options),
		})
	}
	return questions
}

// Answer selects an option for the current question. Once a question is answered further
// selections return the recorded result without changing the score.
func (q *Quiz) Answer(option string) (AnswerResult, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return AnswerResult{}, ErrSessionClosed
	}
	active, ok := q.state.(QuizActive)
	if !ok {
		return AnswerResult{}, ErrNotActive
	}
	question := q.questions[active.Index]
	if active.Answered {
		return AnswerResult{
			Correct:       active.Selected == question.CorrectAnswer,
			CorrectAnswer: question.CorrectAnswer,
			Selected:      active.Selected,
			Score:         q.score,
		}, nil
	}
	if !containsString(question.Options, option) {
		return AnswerResult{}, ErrUnknownOption
	}

	correct := option == question.CorrectAnswer
	if correct {
		q.score++
	}
	q.state = QuizActive{Index: active.Index, Answered: true, Selected: option}
	q.advance.schedule(q.sched, q.delay, q.advanceFrom)

	return AnswerResult{
		Correct:       correct,
		CorrectAnswer: question.CorrectAnswer,
		Selected:      option,
		Score:         q.score,
	}, nil
}

func (q *Quiz) advanceFrom(gen uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || !q.advance.current(gen) {
		return
	}
	q.advance.timer = nil
	active, ok := q.state.(QuizActive)
	if !ok || !active.Answered {
		return
	}
	if active.Index+1 >= len(q.questions) {
		q.state = QuizFinished{}
		return
	}
	q.state = QuizActive{Index: active.Index + 1}
}

// Restart goes back to direction selection; questions are regenerated when one is picked
func (q *Quiz) Restart() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrSessionClosed
	}
	if _, ok := q.state.(QuizFinished); !ok {
		return ErrNotFinished
	}
	q.advance.cancel()
	q.questions = nil
	q.score = 0
	q.direction = ""
	q.state = QuizDirectionUnset{}
	return nil
}

func (q *Quiz) Exit() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.advance.cancel()
	q.mu.Unlock()
	q.hooks.exit()
}

func (q *Quiz) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// QuizView hides the correct answer until the question is answered
type QuizView struct {
	State         string    `json:"state"`
	Direction     Direction `json:"direction,omitempty"`
	Index         int       `json:"index"`
	Total         int       `json:"total"`
	Score         int       `json:"score"`
	Question      string    `json:"question,omitempty"`
	Options       []string  `json:"options,omitempty"`
	Answered      bool      `json:"answered"`
	Selected      string    `json:"selected,omitempty"`
	CorrectAnswer string    `json:"correct_answer,omitempty"`
}

func (q *Quiz) View() QuizView {
	q.mu.Lock()
	defer q.mu.Unlock()

	v := QuizView{Direction: q.direction, Total: len(q.questions), Score: q.score}
	switch s := q.state.(type) {
	case QuizUnavailable:
		v.State = "unavailable"
	case QuizDirectionUnset:
		v.State = "direction_unset"
	case QuizFinished:
		v.State = "finished"
		v.Index = len(q.questions)
	case QuizActive:
		question := q.questions[s.Index]
		v.State = "active"
		v.Index = s.Index
		v.Question = question.QuestionText
		v.Options = append([]string(nil), question.Options...)
		v.Answered = s.Answered
		if s.Answered {
			v.Selected = s.Selected
			v.CorrectAnswer = question.CorrectAnswer
		}
	}
	return v
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
