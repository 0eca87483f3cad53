package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"lingofolio/internal/models"
	"lingofolio/internal/service"
)

// ReferenceHandler serves the irregular verbs, grammar notes and notebook
type ReferenceHandler struct {
	reference *service.ReferenceService
	logger    *zap.Logger
}

// NewReferenceHandler creates a new reference handler
func NewReferenceHandler(reference *service.ReferenceService, logger *zap.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		reference: reference,
		logger:    logger,
	}
}

// VerbRoutes mounts under /api/verbs
func (h *ReferenceHandler) VerbRoutes(r chi.Router) {
	r.Get("/", h.ListVerbs)
	r.Post("/", h.CreateVerb)
	r.Get("/{id}", h.GetVerb)
	r.Put("/{id}", h.UpdateVerb)
	r.Delete("/{id}", h.DeleteVerb)
}

// GrammarRoutes mounts under /api/grammar
func (h *ReferenceHandler) GrammarRoutes(r chi.Router) {
	r.Get("/", h.ListGrammar)
	r.Post("/", h.CreateGrammar)
	r.Get("/{id}", h.GetGrammar)
	r.Put("/{id}", h.UpdateGrammar)
	r.Delete("/{id}", h.DeleteGrammar)
}

// NotebookRoutes mounts under /api/notebook
func (h *ReferenceHandler) NotebookRoutes(r chi.Router) {
	r.Get("/", h.ListNotebook)
	r.Post("/", h.CreateNotebookEntry)
	r.Get("/languages", h.NotebookLanguages)
	r.Get("/{id}", h.GetNotebookEntry)
	r.Put("/{id}", h.UpdateNotebookEntry)
	r.Delete("/{id}", h.DeleteNotebookEntry)
}

func (h *ReferenceHandler) id(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid ID", "", err)
		return 0, false
	}
	return id, true
}

func (h *ReferenceHandler) respond(w http.ResponseWriter, status int, v interface{}, err error) {
	if err != nil {
		respondWithServiceError(w, h.logger, "Reference request failed", err)
		return
	}
	respondJSON(w, status, v)
}

func (h *ReferenceHandler) deleted(w http.ResponseWriter, err error) {
	if err != nil {
		respondWithServiceError(w, h.logger, "Error deleting reference item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Verbs

func (h *ReferenceHandler) ListVerbs(w http.ResponseWriter, r *http.Request) {
	verbs, err := h.reference.ListVerbs(r.Context())
	if verbs == nil {
		verbs = []models.IrregularVerb{}
	}
	h.respond(w, http.StatusOK, verbs, err)
}

func (h *ReferenceHandler) GetVerb(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	verb, err := h.reference.GetVerb(r.Context(), id)
	h.respond(w, http.StatusOK, verb, err)
}

func (h *ReferenceHandler) CreateVerb(w http.ResponseWriter, r *http.Request) {
	var v models.IrregularVerb
	if err := decodeJSON(w, r, &v); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	verb, err := h.reference.CreateVerb(r.Context(), v)
	h.respond(w, http.StatusCreated, verb, err)
}

func (h *ReferenceHandler) UpdateVerb(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var v models.IrregularVerb
	if err := decodeJSON(w, r, &v); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	v.ID = id
	verb, err := h.reference.UpdateVerb(r.Context(), v)
	h.respond(w, http.StatusOK, verb, err)
}

func (h *ReferenceHandler) DeleteVerb(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	h.deleted(w, h.reference.DeleteVerb(r.Context(), id))
}

// Grammar

// ListGrammar accepts an optional level filter such as ?level=B1
func (h *ReferenceHandler) ListGrammar(w http.ResponseWriter, r *http.Request) {
	topics, err := h.reference.ListGrammar(r.Context(), r.URL.Query().Get("level"))
	if topics == nil {
		topics = []models.GrammarTopic{}
	}
	h.respond(w, http.StatusOK, topics, err)
}

func (h *ReferenceHandler) GetGrammar(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	topic, err := h.reference.GetGrammar(r.Context(), id)
	h.respond(w, http.StatusOK, topic, err)
}

func (h *ReferenceHandler) CreateGrammar(w http.ResponseWriter, r *http.Request) {
	var g models.GrammarTopic
	if err := decodeJSON(w, r, &g); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	topic, err := h.reference.CreateGrammar(r.Context(), g)
	h.respond(w, http.StatusCreated, topic, err)
}

func (h *ReferenceHandler) UpdateGrammar(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var g models.GrammarTopic
	if err := decodeJSON(w, r, &g); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	g.ID = id
	topic, err := h.reference.UpdateGrammar(r.Context(), g)
	h.respond(w, http.StatusOK, topic, err)
}

func (h *ReferenceHandler) DeleteGrammar(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	h.deleted(w, h.reference.DeleteGrammar(r.Context(), id))
}

// Notebook

// ListNotebook accepts an optional ?language= filter
func (h *ReferenceHandler) ListNotebook(w http.ResponseWriter, r *http.Request) {
	entries, err := h.reference.ListNotebook(r.Context(), r.URL.Query().Get("language"))
	if entries == nil {
		entries = []models.NotebookEntry{}
	}
	h.respond(w, http.StatusOK, entries, err)
}

func (h *ReferenceHandler) NotebookLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.reference.NotebookLanguages(r.Context())
	if languages == nil {
		languages = []string{}
	}
	h.respond(w, http.StatusOK, languages, err)
}

func (h *ReferenceHandler) GetNotebookEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	entry, err := h.reference.GetNotebookEntry(r.Context(), id)
	h.respond(w, http.StatusOK, entry, err)
}

func (h *ReferenceHandler) CreateNotebookEntry(w http.ResponseWriter, r *http.Request) {
	var n models.NotebookEntry
	if err := decodeJSON(w, r, &n); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	entry, err := h.reference.CreateNotebookEntry(r.Context(), n)
	h.respond(w, http.StatusCreated, entry, err)
}

func (h *ReferenceHandler) UpdateNotebookEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var n models.NotebookEntry
	if err := decodeJSON(w, r, &n); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	n.ID = id
	entry, err := h.reference.UpdateNotebookEntry(r.Context(), n)
	h.respond(w, http.StatusOK, entry, err)
}

func (h *ReferenceHandler) DeleteNotebookEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	h.deleted(w, h.reference.DeleteNotebookEntry(r.Context(), id))
}
