package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/marketplace/internal/domain/notification"
	"github.com/example/marketplace/internal/domain/user"
	"github.com/example/marketplace/internal/infrastructure/store"
	"github.com/example/marketplace/internal/infrastructure/store/mocks"
)

type fakeSender struct {
	sent    []sentMail
	sendErr error
}

type sentMail struct {
	to           string
	notification *notification.Notification
}

func (f *fakeSender) SendNotification(to string, n *notification.Notification) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{to: to, notification: n})
	return nil
}

func feedMessage(t *testing.T, table string, op store.Op, row any) []byte {
	t.Helper()
	event, err := store.NewChangeEvent(table, op, row)
	require.NoError(t, err)
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return payload
}

func TestHandler_SendsEmailForNotificationInsert(t *testing.T) {
	sender := &fakeSender{}
	users := mocks.NewMockUserStore()
	handler := NewHandler(sender, users)
	ctx := context.Background()

	require.NoError(t, users.Insert(ctx, &user.User{ID: "u1", Email: "jane@example.com", Name: "Jane"}))

	n := &notification.Notification{
		ID:      "n1",
		UserID:  "u1",
		Type:    notification.TypeOrderAccepted,
		Title:   "Order accepted",
		Message: "Your order of $20.00 has been accepted by the seller.",
		OrderID: "o1",
	}

	err := handler.HandleMessage(ctx, []byte("u1"), feedMessage(t, store.TableNotifications, store.OpInsert, n))

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "jane@example.com", sender.sent[0].to)
	assert.Equal(t, notification.TypeOrderAccepted, sender.sent[0].notification.Type)
	assert.Equal(t, "o1", sender.sent[0].notification.OrderID)
}

func TestHandler_SkipsOtherTables(t *testing.T) {
	sender := &fakeSender{}
	handler := NewHandler(sender, mocks.NewMockUserStore())

	err := handler.HandleMessage(context.Background(), []byte("o1"),
		feedMessage(t, store.TableOrders, store.OpInsert, map[string]any{"id": "o1"}))

	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestHandler_SkipsNotificationUpdates(t *testing.T) {
	sender := &fakeSender{}
	handler := NewHandler(sender, mocks.NewMockUserStore())

	// Mark-read updates must not resend the email.
	n := &notification.Notification{ID: "n1", UserID: "u1", Read: true}
	err := handler.HandleMessage(context.Background(), []byte("u1"),
		feedMessage(t, store.TableNotifications, store.OpUpdate, n))

	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestHandler_UnknownUserIsSkippedNotRetried(t *testing.T) {
	sender := &fakeSender{}
	handler := NewHandler(sender, mocks.NewMockUserStore())

	n := &notification.Notification{ID: "n1", UserID: "ghost"}
	err := handler.HandleMessage(context.Background(), []byte("ghost"),
		feedMessage(t, store.TableNotifications, store.OpInsert, n))

	// A nil error keeps the consumer group moving.
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestHandler_SendFailureIsReturned(t *testing.T) {
	sender := &fakeSender{sendErr: errors.New("smtp down")}
	users := mocks.NewMockUserStore()
	handler := NewHandler(sender, users)
	ctx := context.Background()

	require.NoError(t, users.Insert(ctx, &user.User{ID: "u1", Email: "jane@example.com"}))

	n := &notification.Notification{ID: "n1", UserID: "u1"}
	err := handler.HandleMessage(ctx, []byte("u1"), feedMessage(t, store.TableNotifications, store.OpInsert, n))

	assert.Error(t, err)
}

func TestHandler_BadPayloadIsAnError(t *testing.T) {
	handler := NewHandler(&fakeSender{}, mocks.NewMockUserStore())

	err := handler.HandleMessage(context.Background(), []byte("k"), []byte("not json"))

	assert.Error(t, err)
}
