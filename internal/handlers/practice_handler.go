package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"lingofolio/internal/models"
	"lingofolio/internal/practice"
	"lingofolio/internal/service"
)

// PracticeHandler handles practice game requests
type PracticeHandler struct {
	practice *service.PracticeService
	logger   *zap.Logger
}

// NewPracticeHandler creates a new practice handler
func NewPracticeHandler(practice *service.PracticeService, logger *zap.Logger) *PracticeHandler {
	return &PracticeHandler{
		practice: practice,
		logger:   logger,
	}
}

// Routes mounts under /api/practice
func (h *PracticeHandler) Routes(r chi.Router) {
	r.Post("/sessions", h.Start)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Exit)

		r.Post("/restart", h.Restart)

		r.Post("/flip", h.Flip)
		r.Post("/classify", h.Classify)
		r.Post("/complete", h.Complete)

		r.Post("/direction", h.SelectDirection)
		r.Post("/answer", h.Answer)

		r.Post("/source", h.SelectSource)
		r.Post("/target", h.SelectTarget)
		r.Post("/round", h.NewRound)
	})
}

type startSessionRequest struct {
	Mode      string `json:"mode"`
	WordType  string `json:"word_type"`
	Query     string `json:"query"`
	Memorized *bool  `json:"memorized"`
	Favorite  *bool  `json:"favorite"`
	Direction string `json:"direction"`
}

// Start opens a flashcard, quiz or matching session over the selected words
func (h *PracticeHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	mode, err := practice.ParseMode(req.Mode)
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err.Error(), "", err)
		return
	}
	wt, err := models.ParseWordType(req.WordType)
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err.Error(), "", err)
		return
	}
	var direction practice.Direction
	if req.Direction != "" {
		if direction, err = practice.ParseDirection(req.Direction); err != nil {
			respondWithServiceError(w, h.logger, "", err)
			return
		}
	}

	view, err := h.practice.Start(r.Context(), service.StartRequest{
		Mode: mode,
		Filter: models.VocabularyFilter{
			Type:      wt,
			Query:     req.Query,
			Memorized: req.Memorized,
			Favorite:  req.Favorite,
		},
		Direction: direction,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, "Error starting practice session", err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

func (h *PracticeHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.practice.Get(chi.URLParam(r, "id"))
	h.respondView(w, view, err)
}

// Exit discards the session and any pending timers
func (h *PracticeHandler) Exit(w http.ResponseWriter, r *http.Request) {
	if err := h.practice.Exit(chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, h.logger, "", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PracticeHandler) respondView(w http.ResponseWriter, view service.SessionView, err error) {
	if err != nil {
		respondWithServiceError(w, h.logger, "Practice action failed", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// decodeOptional decodes a body that clients may leave empty
func decodeOptional(w http.ResponseWriter, r *http.Request, v interface{}) error {
	err := decodeJSON(w, r, v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *PracticeHandler) Flip(w http.ResponseWriter, r *http.Request) {
	view, err := h.practice.Flip(chi.URLParam(r, "id"))
	h.respondView(w, view, err)
}

type classifyRequest struct {
	Known *bool `json:"known"`
}

func (h *PracticeHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Known == nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "known is required", "", err)
		return
	}
	view, err := h.practice.Classify(chi.URLParam(r, "id"), *req.Known)
	h.respondView(w, view, err)
}

type restartRequest struct {
	MissedOnly bool `json:"missed_only"`
}

// Restart replays a finished flashcard deck or quiz
func (h *PracticeHandler) Restart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req restartRequest
	if err := decodeOptional(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	current, err := h.practice.Get(id)
	if err != nil {
		respondWithServiceError(w, h.logger, "", err)
		return
	}

	var view service.SessionView
	switch current.Mode {
	case practice.ModeFlashcard:
		view, err = h.practice.RestartFlashcard(id, req.MissedOnly)
	case practice.ModeQuiz:
		view, err = h.practice.RestartQuiz(id)
	default:
		err = service.ErrWrongMode
	}
	h.respondView(w, view, err)
}

// Complete records the known words of a finished flashcard deck and closes the session
func (h *PracticeHandler) Complete(w http.ResponseWriter, r *http.Request) {
	known, err := h.practice.Complete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.logger, "Error completing practice session", err)
		return
	}
	if known == nil {
		known = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"memorized": known})
}

type directionRequest struct {
	Direction string `json:"direction"`
}

func (h *PracticeHandler) SelectDirection(w http.ResponseWriter, r *http.Request) {
	var req directionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	direction, err := practice.ParseDirection(req.Direction)
	if err != nil {
		respondWithServiceError(w, h.logger, "", err)
		return
	}
	view, err := h.practice.SelectDirection(chi.URLParam(r, "id"), direction)
	h.respondView(w, view, err)
}

type answerRequest struct {
	Option string `json:"option"`
}

type answerResponse struct {
	Result  practice.AnswerResult `json:"result"`
	Session service.SessionView   `json:"session"`
}

func (h *PracticeHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	result, view, err := h.practice.Answer(chi.URLParam(r, "id"), req.Option)
	if err != nil {
		respondWithServiceError(w, h.logger, "Error answering question", err)
		return
	}
	respondJSON(w, http.StatusOK, answerResponse{Result: result, Session: view})
}

type itemRequest struct {
	ItemID string `json:"item_id"`
}

func (h *PracticeHandler) SelectSource(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	view, err := h.practice.SelectSource(chi.URLParam(r, "id"), req.ItemID)
	h.respondView(w, view, err)
}

type targetResponse struct {
	Matched bool                `json:"matched"`
	Session service.SessionView `json:"session"`
}

func (h *PracticeHandler) SelectTarget(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	matched, view, err := h.practice.SelectTarget(chi.URLParam(r, "id"), req.ItemID)
	if err != nil {
		respondWithServiceError(w, h.logger, "Error matching item", err)
		return
	}
	respondJSON(w, http.StatusOK, targetResponse{Matched: matched, Session: view})
}

func (h *PracticeHandler) NewRound(w http.ResponseWriter, r *http.Request) {
	view, err := h.practice.NewRound(chi.URLParam(r, "id"))
	h.respondView(w, view, err)
}
