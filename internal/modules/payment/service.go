package payment

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"photomarket/internal/domain"
)

// Service is a mock capture flow. No gateway is involved: paying a booking
// flips its payment status and notifies the other parties.
type Service struct {
	bookings BookingRepository
	users    UserDirectory
	notifier NotificationSender
}

func NewService(bookings BookingRepository, users UserDirectory, notifier NotificationSender) *Service {
	return &Service{bookings: bookings, users: users, notifier: notifier}
}

// Pay marks the booking as paid. Paying twice is a no-op success.
func (s *Service) Pay(ctx context.Context, clientID, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.ClientID != clientID {
		return nil, ErrForbidden
	}
	if b.Status == domain.StatusCancelled {
		return nil, ErrNotPayable
	}
	if b.PaymentStatus == domain.PaymentPaid {
		return b, nil
	}

	if err := s.bookings.SetPaymentStatus(ctx, bookingID, domain.PaymentPaid); err != nil {
		return nil, err
	}
	b.PaymentStatus = domain.PaymentPaid

	msg := fmt.Sprintf("Payment received for booking #%d", bookingID)
	if b.PhotographerID != nil {
		_ = s.notifier.NotifyPayment(ctx, *b.PhotographerID, bookingID, msg)
	}
	if admins, err := s.users.ListByRole(ctx, domain.RoleAdmin); err == nil {
		for _, a := range admins {
			_ = s.notifier.NotifyPayment(ctx, a.ID, bookingID, msg)
		}
	}
	return b, nil
}
