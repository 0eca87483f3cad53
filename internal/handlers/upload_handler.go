package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"lingofolio/internal/service"
)

// multipartOverhead is the allowance for form boundaries and headers on top of the file
const multipartOverhead = 64 << 10

// UploadHandler accepts portfolio file uploads
type UploadHandler struct {
	uploads *service.UploadService
	logger  *zap.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploads *service.UploadService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uploads: uploads,
		logger:  logger,
	}
}

// Upload stores the multipart "file" field
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.uploads.Enabled() {
		respondWithServiceError(w, h.logger, "", service.ErrUploadsDisabled)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxSize()+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithServiceError(w, h.logger, "", service.ErrFileTooLarge)
			return
		}
		respondWithError(w, h.logger, http.StatusBadRequest, "file is required", "", err)
		return
	}
	defer file.Close()

	upload, err := h.uploads.Store(r.Context(), header.Filename, file)
	if err != nil {
		respondWithServiceError(w, h.logger, "Error storing upload", err)
		return
	}
	respondJSON(w, http.StatusCreated, upload)
}
