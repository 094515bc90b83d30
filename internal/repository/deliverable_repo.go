package repository

import (
	"context"

	"gorm.io/gorm"

	"photomarket/internal/domain"
)

type DeliverableRepository struct {
	db *gorm.DB
}

func NewDeliverableRepository(db *gorm.DB) *DeliverableRepository {
	return &DeliverableRepository{db: db}
}

func (r *DeliverableRepository) Create(ctx context.Context, d *domain.Deliverable) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DeliverableRepository) GetByID(ctx context.Context, id string) (*domain.Deliverable, error) {
	var d domain.Deliverable
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DeliverableRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Deliverable, error) {
	var out []domain.Deliverable
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *DeliverableRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Deliverable{}).Error
}
