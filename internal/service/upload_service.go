package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lingofolio/internal/storage"
)

var (
	ErrUploadsDisabled = errors.New("uploads are not configured")
	ErrFileTooLarge    = errors.New("file is too large")
	ErrUnsupportedType = errors.New("file type is not allowed")
)

var extensionsByType = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
}

// Upload is a stored file
type Upload struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// UploadService checks portfolio uploads and puts them into object storage
type UploadService struct {
	store        storage.ObjectStore
	maxSize      int64
	allowedTypes map[string]bool
	logger       *zap.Logger
}

// NewUploadService creates an upload service. A nil store disables uploads.
func NewUploadService(store storage.ObjectStore, maxSize int64, allowedTypes []string, logger *zap.Logger) *UploadService {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[strings.ToLower(strings.TrimSpace(t))] = true
	}
	return &UploadService{
		store:        store,
		maxSize:      maxSize,
		allowedTypes: allowed,
		logger:       logger,
	}
}

// Enabled reports whether an object store is configured
func (s *UploadService) Enabled() bool {
	return s.store != nil
}

// MaxSize is the largest accepted file in bytes
func (s *UploadService) MaxSize() int64 {
	return s.maxSize
}

// Store sniffs the content type of r, checks it against the allow list and uploads it.
// The declared file name only contributes its extension when the sniffed type has none.
func (s *UploadService) Store(ctx context.Context, filename string, r io.Reader) (*Upload, error) {
	if !s.Enabled() {
		return nil, ErrUploadsDisabled
	}

	// Read one byte past the limit to detect oversized files without trusting headers.
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, ErrFileTooLarge
	}

	contentType := http.DetectContentType(data)
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	if !s.allowedTypes[contentType] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	ext, ok := extensionsByType[contentType]
	if !ok {
		ext = strings.ToLower(filepath.Ext(filename))
	}
	key := "uploads/" + uuid.NewString() + ext

	url, err := s.store.Put(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	s.logger.Info("File uploaded",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int("size", len(data)),
	)
	return &Upload{Key: key, URL: url, ContentType: contentType, Size: int64(len(data))}, nil
}
