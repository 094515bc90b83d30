package notification

import (
	"context"

	"photomarket/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id, recipientID int64) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, recipientID int64, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, recipientID int64) (int64, error)
	CountTotal(ctx context.Context, recipientID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, recipientID int64) error
	MarkAllAsRead(ctx context.Context, recipientID int64) error
	Delete(ctx context.Context, id, recipientID int64) error
}
