package practice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdvanceDelay = 1500 * time.Millisecond

func newTestQuiz(t *testing.T, cards []Card, seed int64) (*Quiz, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	return NewQuiz(cards, testRand(seed), sched, testAdvanceDelay, Hooks{}), sched
}

func currentQuestion(t *testing.T, q *Quiz) Question {
	t.Helper()
	active, ok := q.State().(QuizActive)
	require.True(t, ok, "quiz is not active")
	return q.Questions()[active.Index]
}

func TestQuizUnavailableBelowFourEntries(t *testing.T) {
	q, _ := newTestQuiz(t, testCards(3), 1)

	assert.Equal(t, QuizUnavailable{}, q.State())
	assert.Equal(t, "unavailable", q.View().State)
	assert.ErrorIs(t, q.SelectDirection(SourceToTarget), ErrInsufficientEntries)

	_, err := q.Answer("anything")
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestQuizUnavailableWithRepeatedAnswers(t *testing.T) {
	cards := testCards(4)
	cards[3].Translation = cards[0].Translation

	q, _ := newTestQuiz(t, cards, 1)

	assert.Equal(t, QuizUnavailable{}, q.State())
}

func TestQuizOptionIntegrity(t *testing.T) {
	for _, dir := range []Direction{SourceToTarget, TargetToSource} {
		for seed := int64(0); seed < 30; seed++ {
			cards := testCards(4 + int(seed%5))
			q, _ := newTestQuiz(t, cards, seed)
			require.NoError(t, q.SelectDirection(dir))

			byID := map[string]Card{}
			for _, c := range cards {
				byID[c.ID] = c
			}

			questions := q.Questions()
			require.Len(t, questions, len(cards))
			for _, question := range questions {
				source := byID[question.ID]
				assert.Equal(t, dir.prompt(source), question.QuestionText)
				assert.Equal(t, dir.answer(source), question.CorrectAnswer)
				require.Len(t, question.Options, 4)

				correct := 0
				distractorCards := map[string]bool{}
				for _, opt := range question.Options {
					if opt == question.CorrectAnswer {
						correct++
						continue
					}
					var from string
					for _, c := range cards {
						if dir.answer(c) == opt {
							from = c.ID
						}
					}
					require.NotEmpty(t, from, "distractor %q must come from the pool", opt)
					assert.NotEqual(t, question.ID, from)
					assert.False(t, distractorCards[from], "distractors must come from distinct entries")
					distractorCards[from] = true
				}
				assert.Equal(t, 1, correct, "correct answer must appear exactly once")
			}
		}
	}
}

func TestQuizCorrectAnswerScoresAndAdvances(t *testing.T) {
	cards := []Card{
		{ID: "1", Term: "cat", Translation: "муур"},
		{ID: "2", Term: "dog", Translation: "нохой"},
		{ID: "3", Term: "horse", Translation: "морь"},
		{ID: "4", Term: "cow", Translation: "үхэр"},
		{ID: "5", Term: "sheep", Translation: "хонь"},
	}
	q, sched := newTestQuiz(t, cards, 11)
	require.NoError(t, q.SelectDirection(SourceToTarget))

	// Answer wrongly until the cat question comes up
	for currentQuestion(t, q).ID != "1" {
		question := currentQuestion(t, q)
		for _, opt := range question.Options {
			if opt != question.CorrectAnswer {
				_, err := q.Answer(opt)
				require.NoError(t, err)
				break
			}
		}
		sched.fireAll()
	}

	question := currentQuestion(t, q)
	assert.Equal(t, "cat", question.QuestionText)
	assert.Len(t, question.Options, 4)
	assert.Contains(t, question.Options, "муур")

	before, _ := q.Score()
	result, err := q.Answer("муур")
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, before+1, result.Score)

	active := q.State().(QuizActive)
	assert.True(t, active.Answered)
	assert.Equal(t, 1, sched.pending())
	assert.Equal(t, testAdvanceDelay, sched.last().delay)

	sched.fireAll()

	next := q.State()
	if active.Index == len(cards)-1 {
		assert.Equal(t, QuizFinished{}, next)
	} else {
		assert.Equal(t, QuizActive{Index: active.Index + 1}, next)
	}
}

func TestQuizWrongAnswerKeepsScore(t *testing.T) {
	q, _ := newTestQuiz(t, testCards(5), 2)
	require.NoError(t, q.SelectDirection(TargetToSource))
	question := currentQuestion(t, q)

	var wrong string
	for _, opt := range question.Options {
		if opt != question.CorrectAnswer {
			wrong = opt
			break
		}
	}
	result, err := q.Answer(wrong)

	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, question.CorrectAnswer, result.CorrectAnswer)
	score, _ := q.Score()
	assert.Zero(t, score)
}

func TestQuizAnswerIsLocked(t *testing.T) {
	q, sched := newTestQuiz(t, testCards(5), 3)
	require.NoError(t, q.SelectDirection(SourceToTarget))
	question := currentQuestion(t, q)

	var wrong string
	for _, opt := range question.Options {
		if opt != question.CorrectAnswer {
			wrong = opt
		}
	}
	_, err := q.Answer(wrong)
	require.NoError(t, err)
	state := q.State()

	for i := 0; i < 3; i++ {
		result, err := q.Answer(question.CorrectAnswer)
		require.NoError(t, err)
		assert.False(t, result.Correct)
		assert.Equal(t, wrong, result.Selected)
	}

	score, _ := q.Score()
	assert.Zero(t, score)
	assert.Equal(t, state, q.State())
	assert.Equal(t, 1, sched.pending(), "repeated clicks must not schedule another advance")
}

func TestQuizRejectsUnknownOption(t *testing.T) {
	q, sched := newTestQuiz(t, testCards(4), 4)
	require.NoError(t, q.SelectDirection(SourceToTarget))

	_, err := q.Answer("not an option")

	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.Equal(t, QuizActive{Index: 0}, q.State())
	assert.Zero(t, sched.pending())
}

func TestQuizFullRunAndRestart(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		cards := testCards(6)
		q, sched := newTestQuiz(t, cards, seed)
		require.NoError(t, q.SelectDirection(SourceToTarget))
		assert.ErrorIs(t, q.SelectDirection(TargetToSource), ErrDirectionAlreadySet)
		assert.ErrorIs(t, q.Restart(), ErrNotFinished)

		choices := testRand(seed + 99)
		wantScore := 0
		for i := 0; i < len(cards); i++ {
			question := currentQuestion(t, q)
			opt := question.Options[choices.Intn(len(question.Options))]
			if opt == question.CorrectAnswer {
				wantScore++
			}
			_, err := q.Answer(opt)
			require.NoError(t, err)
			sched.fireAll()
		}

		require.Equal(t, QuizFinished{}, q.State())
		score, total := q.Score()
		assert.Equal(t, wantScore, score)
		assert.Equal(t, len(cards), total)
		assert.LessOrEqual(t, score, total)

		view := q.View()
		assert.Equal(t, "finished", view.State)
		assert.Equal(t, score, view.Score)

		require.NoError(t, q.Restart())
		assert.Equal(t, QuizDirectionUnset{}, q.State())
		assert.Empty(t, q.Questions())

		require.NoError(t, q.SelectDirection(TargetToSource))
		assert.Len(t, q.Questions(), len(cards))
		score, _ = q.Score()
		assert.Zero(t, score)
	}
}

func TestQuizExitCancelsPendingAdvance(t *testing.T) {
	exited := 0
	sched := &manualScheduler{}
	q := NewQuiz(testCards(4), testRand(5), sched, testAdvanceDelay, Hooks{OnExit: func() { exited++ }})
	require.NoError(t, q.SelectDirection(SourceToTarget))
	question := currentQuestion(t, q)
	_, err := q.Answer(question.CorrectAnswer)
	require.NoError(t, err)
	timer := sched.last()

	q.Exit()

	assert.True(t, timer.stopped)
	assert.Zero(t, sched.pending())

	// A callback that already left the timer must not move the session
	timer.f()
	assert.Equal(t, QuizActive{Index: 0, Answered: true, Selected: question.CorrectAnswer}, q.State())
	assert.Equal(t, 1, exited)

	_, err = q.Answer(question.CorrectAnswer)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestQuizStaleAdvanceIgnoredAfterRestart(t *testing.T) {
	q, sched := newTestQuiz(t, testCards(4), 6)
	require.NoError(t, q.SelectDirection(SourceToTarget))

	var last *manualTimer
	for i := 0; i < 4; i++ {
		_, err := q.Answer(currentQuestion(t, q).CorrectAnswer)
		require.NoError(t, err)
		last = sched.last()
		sched.fireAll()
	}
	require.NoError(t, q.Restart())
	require.NoError(t, q.SelectDirection(SourceToTarget))

	last.f()

	assert.Equal(t, QuizActive{Index: 0}, q.State())
}

func TestQuizViewHidesAnswerUntilAnswered(t *testing.T) {
	q, _ := newTestQuiz(t, testCards(4), 8)
	assert.Equal(t, "direction_unset", q.View().State)
	require.NoError(t, q.SelectDirection(SourceToTarget))

	view := q.View()
	assert.Equal(t, "active", view.State)
	assert.Empty(t, view.CorrectAnswer)
	assert.Len(t, view.Options, 4)

	question := currentQuestion(t, q)
	_, err := q.Answer(question.Options[0])
	require.NoError(t, err)

	view = q.View()
	assert.True(t, view.Answered)
	assert.Equal(t, question.CorrectAnswer, view.CorrectAnswer)
	assert.Equal(t, question.Options[0], view.Selected)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("TARGET_TO_SOURCE")
	require.NoError(t, err)
	assert.Equal(t, TargetToSource, d)

	_, err = ParseDirection("sideways")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}
