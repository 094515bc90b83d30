package payment

import (
	"context"

	"photomarket/internal/domain"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	SetPaymentStatus(ctx context.Context, bookingID int64, status domain.PaymentStatus) error
}

type UserDirectory interface {
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

type NotificationSender interface {
	NotifyPayment(ctx context.Context, recipientID, bookingID int64, message string) error
}
