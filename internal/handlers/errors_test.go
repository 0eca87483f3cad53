package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"lingofolio/internal/practice"
	"lingofolio/internal/service"
	"lingofolio/internal/validation"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, zap.NewNop(), 418, "Teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}

	body := strings.TrimSpace(recorder.Body.String())
	if body != `{"error":"Teapot"}` {
		t.Fatalf("expected JSON error body, got %q", body)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %q", ct)
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	recorder := httptest.NewRecorder()
	err := errors.New("boom")

	respondWithError(recorder, logger, 500, "Internal server error", "", err)

	entries := logs.FilterMessage("Internal server error").All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry with the user message, got %d", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("expected error level for 5xx, got %s", entries[0].Level)
	}
	if got := entries[0].ContextMap()["error"]; got != "boom" {
		t.Fatalf("expected log to include error, got %v", got)
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{validation.ValidationError{Field: "term", Message: "term is required"}, http.StatusBadRequest},
		{fmt.Errorf("lookup: %w", service.ErrEntryNotFound), http.StatusNotFound},
		{service.ErrSessionNotFound, http.StatusNotFound},
		{service.ErrInvalidWordType, http.StatusBadRequest},
		{practice.ErrUnknownOption, http.StatusBadRequest},
		{practice.ErrCardNotRevealed, http.StatusConflict},
		{service.ErrNotEnoughWords, http.StatusConflict},
		{service.ErrUploadsDisabled, http.StatusServiceUnavailable},
		{service.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{fmt.Errorf("%w: text/plain", service.ErrUnsupportedType), http.StatusUnsupportedMediaType},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got, msg := errorStatus(tt.err)
			if got != tt.want {
				t.Fatalf("errorStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
			if got == http.StatusInternalServerError && msg != "internal server error" {
				t.Fatalf("internal error leaked to client: %q", msg)
			}
		})
	}
}
