package notifier

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/marketplace/internal/domain/notification"
	"github.com/example/marketplace/internal/domain/user"
	"github.com/example/marketplace/internal/infrastructure/store"
)

// Sender is the email side of the notifier. The SMTP service
// satisfies this.
type Sender interface {
	SendNotification(to string, n *notification.Notification) error
}

// Handler watches the change feed for new notification rows and mails
// the recipient. It runs out-of-band, so a slow or failing mail server
// never delays an order transition.
type Handler struct {
	sender Sender
	users  user.Store
}

// NewHandler creates a new notifier handler
func NewHandler(sender Sender, users user.Store) *Handler {
	return &Handler{sender: sender, users: users}
}

// HandleMessage processes one change feed message from Kafka. Only
// notification inserts are acted on; everything else is skipped.
func (h *Handler) HandleMessage(ctx context.Context, key, value []byte) error {
	var event store.ChangeEvent
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] failed to unmarshal change event: %v", err)
		return err
	}

	if event.Table != store.TableNotifications || event.Op != store.OpInsert {
		return nil
	}

	var n notification.Notification
	if err := json.Unmarshal(event.Row, &n); err != nil {
		log.Printf("[Notifier] failed to unmarshal notification row: %v", err)
		return err
	}

	u, err := h.users.GetByID(ctx, n.UserID)
	if err != nil {
		// The user row may not have replicated yet; skip rather than
		// poison the consumer group.
		log.Printf("[Notifier] failed to load user %s: %v", n.UserID, err)
		return nil
	}

	if err := h.sender.SendNotification(u.Email, &n); err != nil {
		log.Printf("[Notifier] failed to send email to %s: %v", u.Email, err)
		return err
	}

	log.Printf("[Notifier] notification email sent to %s (type=%s)", u.Email, n.Type)
	return nil
}
