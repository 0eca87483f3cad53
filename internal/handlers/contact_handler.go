package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"lingofolio/internal/models"
	"lingofolio/internal/security"
	"lingofolio/internal/service"
)

// ContactHandler handles the portfolio contact form
type ContactHandler struct {
	contact *service.ContactService
	logger  *zap.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contact *service.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contact: contact,
		logger:  logger,
	}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Submit stores a message and forwards it to the configured channels
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	msg, err := h.contact.Submit(r.Context(), models.ContactMessage{
		Name:       req.Name,
		Email:      req.Email,
		Message:    req.Message,
		RemoteAddr: security.GetClientIP(r),
	})
	if err != nil {
		respondWithServiceError(w, h.logger, "Error saving contact message", err)
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

// TooManyRequests is the rate limiter's rejection response
func TooManyRequests(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	respondJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests, please try again later"})
}
