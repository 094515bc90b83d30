package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"photomarket/internal/domain"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// GetOrCreateConversation returns the booking's conversation, creating it on
// first use.
func (r *MessageRepository) GetOrCreateConversation(ctx context.Context, bookingID, clientID, photographerID int64) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	conv = domain.Conversation{
		BookingID:     bookingID,
		ParticipantA:  clientID,
		ParticipantB:  photographerID,
		LastMessageAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *MessageRepository) GetConversationByBooking(ctx context.Context, bookingID int64) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *MessageRepository) CreateMessage(ctx context.Context, m *domain.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Conversation{}).
			Where("id = ?", m.ConversationID).
			Update("last_message_at", time.Now()).Error
	})
}

func (r *MessageRepository) ListMessages(ctx context.Context, conversationID int64, limit int) ([]domain.Message, error) {
	var out []domain.Message
	q := r.db.WithContext(ctx).
		Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// MarkRead marks every message addressed to userID in the conversation as read.
func (r *MessageRepository) MarkRead(ctx context.Context, conversationID, userID int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, userID, false).
		Updates(map[string]any{"is_read": true, "read_at": &now}).Error
}
