package message

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"photomarket/internal/domain"
)

const previewLen = 80

type Service struct {
	repo     Repository
	bookings BookingDirectory
	users    UserDirectory
	notifier NotificationSender
	hub      *Hub
}

func NewService(repo Repository, bookings BookingDirectory, users UserDirectory, notifier NotificationSender, hub *Hub) *Service {
	return &Service{repo: repo, bookings: bookings, users: users, notifier: notifier, hub: hub}
}

// Send posts a message into the booking's thread. The thread opens once a
// photographer is assigned; admins may write into any thread.
func (s *Service) Send(ctx context.Context, senderID int64, senderRole domain.UserRole, bookingID int64, req SendMessageRequest) (*domain.Message, error) {
	conv, other, err := s.conversationFor(ctx, bookingID, senderID, senderRole)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        req.Content,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err == nil {
		msg.Sender = sender
	}

	env := WSEnvelope{Type: "message", Data: msg}
	s.hub.SendToUser(senderID, env)
	delivered := s.hub.SendToUser(other, env)

	// A recipient without an open socket still learns about the message
	// through the notification stream.
	if !delivered && sender != nil {
		_ = s.notifier.NotifyNewMessage(ctx, other, senderID, bookingID, sender.Name, preview(req.Content))
	}
	return msg, nil
}

// List returns the thread oldest-first and marks the caller's unread
// messages as read. A booking without a thread yet yields an empty list.
func (s *Service) List(ctx context.Context, userID int64, role domain.UserRole, bookingID int64, limit int) ([]domain.Message, error) {
	if _, _, err := s.conversationAccess(ctx, bookingID, userID, role); err != nil {
		return nil, err
	}

	conv, err := s.repo.GetConversationByBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []domain.Message{}, nil
		}
		return nil, err
	}

	msgs, err := s.repo.ListMessages(ctx, conv.ID, limit)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkRead(ctx, conv.ID, userID); err != nil {
		return nil, err
	}
	return msgs, nil
}

// conversationFor resolves the thread for sending, creating it on first
// message. Returns the counterparty to push to.
func (s *Service) conversationFor(ctx context.Context, bookingID, senderID int64, role domain.UserRole) (*domain.Conversation, int64, error) {
	b, other, err := s.conversationAccess(ctx, bookingID, senderID, role)
	if err != nil {
		return nil, 0, err
	}

	conv, err := s.repo.GetOrCreateConversation(ctx, bookingID, b.ClientID, *b.PhotographerID)
	if err != nil {
		return nil, 0, err
	}
	return conv, other, nil
}

func (s *Service) conversationAccess(ctx context.Context, bookingID, userID int64, role domain.UserRole) (*domain.Booking, int64, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	if b.PhotographerID == nil {
		return nil, 0, ErrNoPhotographer
	}

	switch {
	case userID == b.ClientID:
		return b, *b.PhotographerID, nil
	case userID == *b.PhotographerID:
		return b, b.ClientID, nil
	case role == domain.RoleAdmin:
		return b, b.ClientID, nil
	default:
		return nil, 0, ErrForbidden
	}
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLen {
		return content
	}
	return string(runes[:previewLen]) + "…"
}
