// Package notify forwards portfolio contact messages to the owner.
package notify

import (
	"context"

	"lingofolio/internal/models"
)

// Notifier delivers a contact message somewhere the owner will see it
type Notifier interface {
	Name() string
	Enabled() bool
	NotifyContact(ctx context.Context, msg models.ContactMessage) error
}
