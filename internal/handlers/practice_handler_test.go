package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingofolio/internal/models"
	"lingofolio/internal/practice"
	"lingofolio/internal/service"
)

func seedWords(t *testing.T, srv *testServer, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		createWord(t, srv, "english", fmt.Sprintf("word%d", i), fmt.Sprintf("mot%d", i))
	}
}

func startSession(t *testing.T, srv *testServer, body map[string]interface{}) service.SessionView {
	t.Helper()
	var view service.SessionView
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/api/practice/sessions", body, &view))
	require.NotEmpty(t, view.ID)
	return view
}

func TestPracticeFlashcardFlow(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	seedWords(t, srv, 3)

	view := startSession(t, srv, map[string]interface{}{"mode": "flashcard", "word_type": "english"})
	base := "/api/practice/sessions/" + view.ID
	require.NotNil(t, view.Flashcard)
	assert.Equal(t, "active", view.Flashcard.State)
	assert.Empty(t, view.Flashcard.Card.Translation, "translation stays hidden until flipped")

	assert.Equal(t, http.StatusConflict, srv.do(t, http.MethodPost, base+"/classify", map[string]bool{"known": true}, nil))
	assert.Equal(t, http.StatusConflict, srv.do(t, http.MethodPost, base+"/complete", nil, nil))

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, base+"/flip", nil, &view))
		assert.NotEmpty(t, view.Flashcard.Card.Translation)
		require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, base+"/classify", map[string]bool{"known": i != 1}, &view))
	}
	assert.Equal(t, "finished", view.Flashcard.State)
	assert.Equal(t, 2, view.Flashcard.Stats.Known)

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, base+"/restart", map[string]bool{"missed_only": true}, &view))
	assert.Equal(t, 1, view.Flashcard.Total)
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, base+"/flip", nil, &view))
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, base+"/classify", map[string]bool{"known": true}, &view))

	var completed struct {
		Memorized []string `json:"memorized"`
	}
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, base+"/complete", nil, &completed))
	assert.Len(t, completed.Memorized, 3)
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, base, nil, nil))

	var page models.VocabularyPage
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/words/english?memorized=true", nil, &page))
	assert.Equal(t, 3, page.Total)
}

func TestPracticeStartErrors(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	seedWords(t, srv, 3)

	tests := []struct {
		name string
		body map[string]interface{}
		want int
	}{
		{"unknown mode", map[string]interface{}{"mode": "hangman", "word_type": "english"}, http.StatusBadRequest},
		{"unknown word type", map[string]interface{}{"mode": "quiz", "word_type": "latin"}, http.StatusBadRequest},
		{"bad direction", map[string]interface{}{"mode": "quiz", "word_type": "english", "direction": "sideways"}, http.StatusBadRequest},
		{"direction outside quiz", map[string]interface{}{"mode": "flashcard", "word_type": "english", "direction": "source_to_target"}, http.StatusBadRequest},
		{"quiz needs four words", map[string]interface{}{"mode": "quiz", "word_type": "english"}, http.StatusConflict},
		{"matching needs five words", map[string]interface{}{"mode": "matching", "word_type": "english"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, srv.do(t, http.MethodPost, "/api/practice/sessions", tt.body, nil))
		})
	}

	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodPost, "/api/practice/sessions/nope/flip", nil, nil))
}

func TestPracticeQuizFlow(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	seedWords(t, srv, 4)

	view := startSession(t, srv, map[string]interface{}{"mode": "quiz", "word_type": "english"})
	base := "/api/practice/sessions/" + view.ID
	require.NotNil(t, view.Quiz)
	assert.Equal(t, "direction_unset", view.Quiz.State)

	assert.Equal(t, http.StatusConflict, srv.do(t, http.MethodPost, base+"/answer", map[string]string{"option": "mot1"}, nil))
	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPost, base+"/flip", nil, nil), "flashcard actions do not apply")

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, base+"/direction", map[string]string{"direction": "source_to_target"}, &view))
	assert.Equal(t, "active", view.Quiz.State)
	require.Len(t, view.Quiz.Options, 4)

	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPost, base+"/answer", map[string]string{"option": "not offered"}, nil))

	var answered answerResponse
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, base+"/answer", map[string]string{"option": view.Quiz.Options[0]}, &answered))
	assert.Equal(t, view.Quiz.Options[0], answered.Result.Selected)
	assert.True(t, answered.Session.Quiz.Answered)
	assert.NotEmpty(t, answered.Result.CorrectAnswer)

	assert.Equal(t, http.StatusConflict, srv.do(t, http.MethodPost, base+"/restart", nil, nil), "restart needs a finished quiz")

	assert.Equal(t, http.StatusNoContent, srv.do(t, http.MethodDelete, base, nil, nil))
	assert.Equal(t, 0, srv.practice.Count())
}

func TestPracticeMatchingFlow(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	seedWords(t, srv, 5)

	view := startSession(t, srv, map[string]interface{}{"mode": "matching", "word_type": "english"})
	base := "/api/practice/sessions/" + view.ID
	require.NotNil(t, view.Matching)
	require.Len(t, view.Matching.Sources, practice.MatchRoundSize)

	assert.Equal(t, http.StatusConflict, srv.do(t, http.MethodPost, base+"/target", map[string]string{"item_id": view.Matching.Targets[0].ID}, nil))
	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPost, base+"/source", map[string]string{"item_id": "bogus"}, nil))

	// Pair each source with the target carrying its translation.
	targetByText := make(map[string]string)
	for _, target := range view.Matching.Targets {
		targetByText[target.Text] = target.ID
	}
	for _, source := range view.Matching.Sources {
		var want string
		fmt.Sscanf(source.Text, "word%s", &want)
		require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, base+"/source", map[string]string{"item_id": source.ID}, nil))

		var matched targetResponse
		require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, base+"/target", map[string]string{"item_id": targetByText["mot"+want]}, &matched))
		assert.True(t, matched.Matched)
	}

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, base, nil, &view))
	assert.Equal(t, "finished", view.Matching.State)

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, base+"/round", nil, &view))
	assert.Equal(t, "active", view.Matching.State)
	assert.Equal(t, 2, view.Matching.Round)
}
