package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"lingofolio/internal/extract"
	"lingofolio/internal/models"
	"lingofolio/internal/service"
)

// WordExtractor pulls candidate vocabulary out of text or an article
type WordExtractor interface {
	Extract(ctx context.Context, src extract.Source) ([]extract.Word, error)
}

// WordsHandler handles vocabulary HTTP requests
type WordsHandler struct {
	vocabulary *service.VocabularyService
	extractor  WordExtractor
	logger     *zap.Logger
}

// NewWordsHandler creates a new words handler
func NewWordsHandler(vocabulary *service.VocabularyService, extractor WordExtractor, logger *zap.Logger) *WordsHandler {
	return &WordsHandler{
		vocabulary: vocabulary,
		extractor:  extractor,
		logger:     logger,
	}
}

// Routes mounts under /api/words
func (h *WordsHandler) Routes(r chi.Router) {
	r.Post("/extract", h.Extract)
	r.Route("/{wordType}", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Post("/memorized", h.MarkMemorized)
		r.Post("/import", h.Import)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/favorite", h.ToggleFavorite)
		r.Post("/{id}/memorized", h.ToggleMemorized)
	})
}

func (h *WordsHandler) wordType(w http.ResponseWriter, r *http.Request) (models.WordType, bool) {
	wt, err := models.ParseWordType(chi.URLParam(r, "wordType"))
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, err.Error(), "", err)
		return "", false
	}
	return wt, true
}

func parseOptionalBool(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// filterFromQuery reads q, memorized, favorite, sort, page and page_size
func filterFromQuery(r *http.Request, wt models.WordType) (models.VocabularyFilter, error) {
	q := r.URL.Query()
	filter := models.VocabularyFilter{
		Type:  wt,
		Query: q.Get("q"),
		Sort:  models.SortOrder(q.Get("sort")),
	}

	var err error
	if filter.Memorized, err = parseOptionalBool(q.Get("memorized")); err != nil {
		return filter, err
	}
	if filter.Favorite, err = parseOptionalBool(q.Get("favorite")); err != nil {
		return filter, err
	}
	if v := q.Get("page"); v != "" {
		if filter.Page, err = strconv.Atoi(v); err != nil {
			return filter, err
		}
	}
	if v := q.Get("page_size"); v != "" {
		if filter.PageSize, err = strconv.Atoi(v); err != nil {
			return filter, err
		}
	}
	return filter, nil
}

// List returns one page of the filtered collection
func (h *WordsHandler) List(w http.ResponseWriter, r *http.Request) {
	wt, ok := h.wordType(w, r)
	if !ok {
		return
	}
	filter, err := filterFromQuery(r, wt)
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid query parameters", "", err)
		return
	}

	page, err := h.vocabulary.List(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, h.logger, "Error listing vocabulary", err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// Get returns a single entry
func (h *WordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	wt, ok := h.wordType(w, r)
	if !ok {
		return
	}
	entry, err := h.vocabulary.Get(r.Context(), wt, chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.logger, "Error getting vocabulary entry", err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

type createWordRequest struct {
	Term        string `json:"term"`
	Translation string `json:"translation"`
	Definition  string `json:"definition"`
	Reading     string `json:"reading"`
	Example     string `json:"example"`
	Favorite    bool   `json:"favorite"`
}

// Create adds an entry
func (h *WordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	wt, ok := h.wordType(w, r)
	if !ok {
		return
	}
	var req createWordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	entry, err := h.vocabulary.Create(r.Context(), models.VocabularyEntry{
		Type:        wt,
		Term:        req.Term,
		Translation: req.Translation,
		Definition:  req.Definition,
		Reading:     req.Reading,
		Example:     req.Example,
		Favorite:    req.Favorite,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, "Error creating vocabulary entry", err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// Update applies a partial update
func (h *WordsHandler) Update(w http.ResponseWriter, r *http.Request) {
	wt, ok := h.wordType(w, r)
	if !ok {
		return
	}
	var patch models.VocabularyPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	entry, err := h.vocabulary.Update(r.Context(), wt, chi.URLParam(r, "id"), patch)
	if err != nil {
		respondWithServiceError(w, h.logger, "Error updating vocabulary entry", err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (h *WordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	wt, ok := h.wordType(w, r)
	if !ok {
		return
	}
	if err := h.vocabulary.Delete(r.Context(), wt, chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, h.logger, "Error deleting vocabulary entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WordsHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	wt, ok := h.wordType(w, r)
	if !ok {
		return
	}
	entry, err := h.vocabulary.ToggleFavorite(r.Context(), wt, chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.logger, "Error toggling favorite", err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (h *WordsHandler) ToggleMemorized(w http.ResponseWriter, r *http.Request) {
	wt, ok := h.wordType(w, r)
	if !ok {
		return
	}
	entry, err := h.vocabulary.ToggleMemorized(r.Context(), wt, chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.logger, "Error toggling memorized", err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

type markMemorizedRequest struct {
	IDs []string `json:"ids"`
}

// MarkMemorized flags a batch of entries as memorized
func (h *WordsHandler) MarkMemorized(w http.ResponseWriter, r *http.Request) {
	wt, ok := h.wordType(w, r)
	if !ok {
		return
	}
	var req markMemorizedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	updated, err := h.vocabulary.MarkMemorized(r.Context(), wt, req.IDs)
	if err != nil {
		respondWithServiceError(w, h.logger, "Error marking words memorized", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

type importRequest struct {
	Text string `json:"text"`
}

// Import adds entries from pasted "term<sep>translation" lines
func (h *WordsHandler) Import(w http.ResponseWriter, r *http.Request) {
	wt, ok := h.wordType(w, r)
	if !ok {
		return
	}
	var req importRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	result, err := h.vocabulary.Import(r.Context(), wt, req.Text)
	if err != nil {
		respondWithServiceError(w, h.logger, "Error importing words", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Extract suggests words from text or an article URL. Nothing is stored.
func (h *WordsHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var src extract.Source
	if err := decodeJSON(w, r, &src); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	words, err := h.extractor.Extract(r.Context(), src)
	if err != nil {
		respondWithServiceError(w, h.logger, "Error extracting words", err)
		return
	}
	if words == nil {
		words = []extract.Word{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"words": words})
}
