package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"lingofolio/internal/models"
	"lingofolio/internal/notify"
	"lingofolio/internal/validation"
)

// notifyTimeout bounds how long a contact request waits for the notifiers
const notifyTimeout = 10 * time.Second

type ContactStore interface {
	Create(ctx context.Context, m *models.ContactMessage) error
	Recent(ctx context.Context, limit int) ([]models.ContactMessage, error)
}

// ContactService stores portfolio contact messages and forwards them to the owner
type ContactService struct {
	store     ContactStore
	notifiers []notify.Notifier
	logger    *zap.Logger
}

// NewContactService creates a new contact service. Disabled notifiers are dropped.
func NewContactService(store ContactStore, logger *zap.Logger, notifiers ...notify.Notifier) *ContactService {
	enabled := make([]notify.Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil && n.Enabled() {
			enabled = append(enabled, n)
		}
	}
	return &ContactService{store: store, notifiers: enabled, logger: logger}
}

// Submit validates and stores msg, then notifies every channel in parallel. Once the message is
// stored a notifier failure is only logged.
func (s *ContactService) Submit(ctx context.Context, msg models.ContactMessage) (*models.ContactMessage, error) {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)
	if err := validation.ValidateContactMessage(msg); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, &msg); err != nil {
		return nil, err
	}
	s.logger.Info("Contact message received",
		zap.Int64("id", msg.ID),
		zap.String("email", msg.Email),
		zap.String("remote_addr", msg.RemoteAddr),
	)

	// The request context may be cancelled as soon as the response is written.
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, n := range s.notifiers {
		wg.Add(1)
		go func(n notify.Notifier) {
			defer wg.Done()
			if err := n.NotifyContact(notifyCtx, msg); err != nil {
				s.logger.Error("Failed to forward contact message",
					zap.String("notifier", n.Name()),
					zap.Int64("id", msg.ID),
					zap.Error(err),
				)
			}
		}(n)
	}
	wg.Wait()

	return &msg, nil
}

// Recent returns the newest stored messages
func (s *ContactService) Recent(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.Recent(ctx, limit)
}
