package message

import (
	"context"

	"photomarket/internal/domain"
)

type Repository interface {
	GetOrCreateConversation(ctx context.Context, bookingID, clientID, photographerID int64) (*domain.Conversation, error)
	GetConversationByBooking(ctx context.Context, bookingID int64) (*domain.Conversation, error)
	CreateMessage(ctx context.Context, m *domain.Message) error
	ListMessages(ctx context.Context, conversationID int64, limit int) ([]domain.Message, error)
	MarkRead(ctx context.Context, conversationID, userID int64) error
}

type BookingDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type NotificationSender interface {
	NotifyNewMessage(ctx context.Context, recipientID, senderID, bookingID int64, senderName, preview string) error
}
