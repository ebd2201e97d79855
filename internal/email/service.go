package email

import (
	"fmt"
	"net/smtp"

	"github.com/example/marketplace/internal/domain/notification"
)

// Service handles email sending via SMTP
type Service struct {
	host string
	port string
	from string
}

// NewService creates a new email service
func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
	}
}

// SendNotification renders and sends the email counterpart of an
// in-app notification.
func (s *Service) SendNotification(to string, n *notification.Notification) error {
	subject := subjectFor(n)
	body := BuildNotificationBody(n)
	return s.send(to, subject, body)
}

func subjectFor(n *notification.Notification) string {
	shortID := n.OrderID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	switch n.Type {
	case notification.TypeNewOrder:
		return fmt.Sprintf("New order received (#%s)", shortID)
	case notification.TypeOrderAccepted:
		return fmt.Sprintf("Your order was accepted (#%s)", shortID)
	case notification.TypeOrderRejected:
		return fmt.Sprintf("Your order was rejected (#%s)", shortID)
	case notification.TypeOrderShipped:
		return fmt.Sprintf("Your order has shipped (#%s)", shortID)
	case notification.TypeOrderDelivered:
		return fmt.Sprintf("Your order was delivered (#%s)", shortID)
	default:
		return n.Title
	}
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
