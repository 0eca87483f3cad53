package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"lingofolio/internal/extract"
	"lingofolio/internal/practice"
	"lingofolio/internal/service"
	"lingofolio/internal/validation"
)

// maxJSONBody bounds request bodies decoded by decodeJSON
const maxJSONBody = 1 << 20

var (
	notFoundErrors = []error{
		service.ErrEntryNotFound,
		service.ErrSessionNotFound,
		service.ErrReferenceNotFound,
	}
	badRequestErrors = []error{
		service.ErrInvalidWordType,
		service.ErrWrongMode,
		service.ErrNothingToImport,
		practice.ErrInvalidDirection,
		practice.ErrUnknownOption,
		practice.ErrUnknownItem,
		extract.ErrEmptySource,
		extract.ErrInvalidURL,
		extract.ErrForbiddenAddress,
	}
	conflictErrors = []error{
		service.ErrNotEnoughWords,
		practice.ErrSessionClosed,
		practice.ErrNotActive,
		practice.ErrNotFinished,
		practice.ErrEmptyDeck,
		practice.ErrCardNotRevealed,
		practice.ErrNothingMissed,
		practice.ErrInsufficientEntries,
		practice.ErrDirectionAlreadySet,
		practice.ErrItemAlreadyMatched,
		practice.ErrNoSourceSelected,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// errorStatus maps a service error to the status and message the client sees
func errorStatus(err error) (int, string) {
	switch {
	case validation.IsValidationError(err):
		return http.StatusBadRequest, err.Error()
	case isAny(err, notFoundErrors):
		return http.StatusNotFound, err.Error()
	case isAny(err, badRequestErrors):
		return http.StatusBadRequest, err.Error()
	case isAny(err, conflictErrors):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrUploadsDisabled):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, service.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func respondWithError(w http.ResponseWriter, logger *zap.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		if status >= http.StatusInternalServerError {
			logger.Error(logMsg, zap.Error(err))
		} else {
			logger.Debug(logMsg, zap.Error(err))
		}
	}

	respondJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithServiceError translates err with errorStatus
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, logMsg string, err error) {
	status, msg := errorStatus(err)
	respondWithError(w, logger, status, msg, logMsg, err)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
