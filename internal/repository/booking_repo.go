package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"photomarket/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		entry := &domain.StatusHistoryEntry{
			BookingID: b.ID,
			UserID:    actorID,
			Status:    b.Status,
			Notes:     b.Notes,
		}
		return tx.Create(entry).Error
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Photographer").
		First(&b, id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) ListForClient(ctx context.Context, clientID int64, limit, offset int) ([]domain.Booking, error) {
	return r.list(ctx, r.db.Where("client_id = ?", clientID), limit, offset)
}

func (r *BookingRepository) ListForPhotographer(ctx context.Context, photographerID int64, limit, offset int) ([]domain.Booking, error) {
	return r.list(ctx, r.db.Where("photographer_id = ?", photographerID), limit, offset)
}

func (r *BookingRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Booking, error) {
	return r.list(ctx, r.db, limit, offset)
}

func (r *BookingRepository) list(ctx context.Context, q *gorm.DB, limit, offset int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := q.WithContext(ctx).
		Preload("Client").
		Preload("Photographer").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	return out, err
}

// UpdateStatus moves a booking into a new status and appends the matching
// history entry in one transaction. The history log is append-only.
func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID, actorID int64, status domain.BookingStatus, notes string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"status": status}
		if status == domain.StatusCancelled {
			now := time.Now()
			updates["cancelled_at"] = &now
			updates["cancellation_reason"] = notes
		}
		if err := tx.Model(&domain.Booking{}).Where("id = ?", bookingID).Updates(updates).Error; err != nil {
			return err
		}
		entry := &domain.StatusHistoryEntry{
			BookingID: bookingID,
			UserID:    actorID,
			Status:    status,
			Notes:     notes,
		}
		return tx.Create(entry).Error
	})
}

func (r *BookingRepository) AssignPhotographer(ctx context.Context, bookingID, photographerID, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&domain.Booking{}).Where("id = ?", bookingID).Updates(map[string]any{
			"photographer_id":       photographerID,
			"photographer_accepted": false,
			"status":                domain.StatusPhotographerAssigned,
		}).Error
		if err != nil {
			return err
		}
		entry := &domain.StatusHistoryEntry{
			BookingID: bookingID,
			UserID:    actorID,
			Status:    domain.StatusPhotographerAssigned,
		}
		return tx.Create(entry).Error
	})
}

func (r *BookingRepository) ClearAssignment(ctx context.Context, bookingID int64) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", bookingID).Updates(map[string]any{
		"photographer_id":       nil,
		"photographer_accepted": false,
	}).Error
}

func (r *BookingRepository) SetAccepted(ctx context.Context, bookingID int64, accepted bool) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", bookingID).
		Update("photographer_accepted", accepted).Error
}

func (r *BookingRepository) SetPaymentStatus(ctx context.Context, bookingID int64, status domain.PaymentStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", bookingID).
		Update("payment_status", status).Error
}

// GetStatusHistory returns all entries for one booking, newest first, with
// the denormalized actor preloaded.
func (r *BookingRepository) GetStatusHistory(ctx context.Context, bookingID int64) ([]domain.StatusHistoryEntry, error) {
	var entries []domain.StatusHistoryEntry
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// GetLastBookingID returns the most recently created booking for a client.
func (r *BookingRepository) GetLastBookingID(ctx context.Context, clientID int64) (int64, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Select("id").
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		First(&b).Error
	if err != nil {
		return 0, err
	}
	return b.ID, nil
}
