package handlers

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingofolio/internal/models"
)

func TestVerbRoutes(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	var verb models.IrregularVerb
	status := srv.do(t, http.MethodPost, "/api/verbs", map[string]string{
		"base_form": "Go", "past_simple": "went", "past_participle": "gone", "translation": "aller",
	}, &verb)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "go", verb.BaseForm)
	path := "/api/verbs/" + strconv.FormatInt(verb.ID, 10)

	verb.Translation = "partir"
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPut, path, verb, &verb))
	assert.Equal(t, "partir", verb.Translation)

	var verbs []models.IrregularVerb
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/verbs", nil, &verbs))
	assert.Len(t, verbs, 1)

	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodGet, "/api/verbs/abc", nil, nil))
	assert.Equal(t, http.StatusNoContent, srv.do(t, http.MethodDelete, path, nil, nil))
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, path, nil, nil))
}

func TestGrammarRoutesFilterByLevel(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	for _, level := range []string{"a2", "B1", "b1"} {
		status := srv.do(t, http.MethodPost, "/api/grammar", map[string]string{
			"title": "Topic " + level, "level": level, "body": "notes",
		}, nil)
		require.Equal(t, http.StatusCreated, status)
	}

	var topics []models.GrammarTopic
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/grammar?level=B1", nil, &topics))
	assert.Len(t, topics, 2)

	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/grammar", nil, &topics))
	assert.Len(t, topics, 3)

	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodPost, "/api/grammar", map[string]string{"level": "B1"}, nil))
}

func TestNotebookRoutes(t *testing.T) {
	srv := newTestServer(t, serverOptions{})

	var entry models.NotebookEntry
	status := srv.do(t, http.MethodPost, "/api/notebook", map[string]string{
		"language": "Go", "title": "defer", "code": "defer f.Close()\n", "notes": "runs on return",
	}, &entry)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "go", entry.Language)

	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/api/notebook", map[string]string{
		"language": "sql", "title": "upsert", "code": "INSERT ... ON CONFLICT",
	}, nil))

	var languages []string
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/notebook/languages", nil, &languages))
	assert.Equal(t, []string{"go", "sql"}, languages)

	var entries []models.NotebookEntry
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodGet, "/api/notebook?language=go", nil, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "defer", entries[0].Title)
}
