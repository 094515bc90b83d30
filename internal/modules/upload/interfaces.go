package upload

import (
	"context"

	"photomarket/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, d *domain.Deliverable) error
	GetByID(ctx context.Context, id string) (*domain.Deliverable, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.Deliverable, error)
	Delete(ctx context.Context, id string) error
}

type BookingDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}
