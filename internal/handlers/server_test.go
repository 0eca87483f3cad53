package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lingofolio/internal/database"
	"lingofolio/internal/extract"
	"lingofolio/internal/repository"
	"lingofolio/internal/security"
	"lingofolio/internal/service"
	"lingofolio/internal/storage"
)

// setReady swaps the startup status for the duration of a test
func setReady(t *testing.T, ready bool) {
	t.Helper()
	previous := startupStatus
	startupStatus = newStartupStatus()
	if ready {
		CompleteStep(StepDatabase)
		CompleteStep(StepMigrations)
		CompleteStep(StepServices)
		MarkReady()
	}
	t.Cleanup(func() { startupStatus = previous })
}

type stubExtractor struct {
	words []extract.Word
	err   error
	got   extract.Source
}

func (e *stubExtractor) Extract(ctx context.Context, src extract.Source) ([]extract.Word, error) {
	e.got = src
	return e.words, e.err
}

type testServer struct {
	*httptest.Server
	db        *database.DB
	extractor *stubExtractor
	practice  *service.PracticeService
}

type serverOptions struct {
	objects      storage.ObjectStore
	contactLimit int
}

// newTestServer wires the full router over a migrated SQLite database
func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping SQLite handler test in short mode")
	}
	setReady(t, true)

	db, err := database.Initialize(filepath.Join(t.TempDir(), "handlers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations(context.Background(), "../../migrations", zap.NewNop()))

	logger := zap.NewNop()
	vocabulary := service.NewVocabularyService(repository.NewVocabularyRepository(db), logger)
	practiceService := service.NewPracticeService(vocabulary, service.PracticeOptions{
		QuizAdvanceDelay:   time.Hour,
		MatchFeedbackDelay: time.Hour,
		Rand:               func() *rand.Rand { return rand.New(rand.NewSource(7)) },
	}, logger)
	t.Cleanup(practiceService.Shutdown)
	reference := service.NewReferenceService(
		repository.NewVerbRepository(db),
		repository.NewGrammarRepository(db),
		repository.NewNotebookRepository(db),
		logger,
	)
	contact := service.NewContactService(repository.NewContactRepository(db), logger)
	uploads := service.NewUploadService(opts.objects, 1024, []string{"image/png"}, logger)

	var limiter *security.RateLimiter
	if opts.contactLimit > 0 {
		limiter = security.NewRateLimiter(opts.contactLimit, time.Minute)
	}

	extractor := &stubExtractor{}
	router := Router{
		Health:         NewHealthHandler(db),
		Words:          NewWordsHandler(vocabulary, extractor, logger),
		Practice:       NewPracticeHandler(practiceService, logger),
		Reference:      NewReferenceHandler(reference, logger),
		Contact:        NewContactHandler(contact, logger),
		Uploads:        NewUploadHandler(uploads, logger),
		ContactLimiter: limiter,
		Logger:         logger,
	}

	srv := httptest.NewServer(router.Handler())
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, db: db, extractor: extractor, practice: practiceService}
}

// do sends body as JSON (when non-nil) and decodes the response into out (when non-nil)
func (s *testServer) do(t *testing.T, method, path string, body, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out), "%s %s", method, path)
	}
	return resp.StatusCode
}
