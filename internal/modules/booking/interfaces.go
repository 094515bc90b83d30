package booking

import (
	"context"

	"photomarket/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking, actorID int64) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListForClient(ctx context.Context, clientID int64, limit, offset int) ([]domain.Booking, error)
	ListForPhotographer(ctx context.Context, photographerID int64, limit, offset int) ([]domain.Booking, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID, actorID int64, status domain.BookingStatus, notes string) error
	AssignPhotographer(ctx context.Context, bookingID, photographerID, actorID int64) error
	ClearAssignment(ctx context.Context, bookingID int64) error
	SetAccepted(ctx context.Context, bookingID int64, accepted bool) error
	GetStatusHistory(ctx context.Context, bookingID int64) ([]domain.StatusHistoryEntry, error)
	GetLastBookingID(ctx context.Context, clientID int64) (int64, error)
}

type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

// NotificationSender is implemented by the notification service. Failures
// to notify never fail the booking operation itself.
type NotificationSender interface {
	NotifyBookingCreated(ctx context.Context, recipientID, bookingID int64, address string) error
	NotifyPhotographerAssigned(ctx context.Context, recipientID, bookingID int64, photographerName string) error
	NotifyPhotographerAccepted(ctx context.Context, recipientID, bookingID int64) error
	NotifyPhotographerRejected(ctx context.Context, recipientID, bookingID int64, reason string) error
	NotifyStatusChange(ctx context.Context, recipientID, bookingID int64, status string) error
	NotifyWorkCompleted(ctx context.Context, recipientID, bookingID int64) error
	NotifyBookingCancelled(ctx context.Context, recipientID, bookingID int64, reason string) error
}
