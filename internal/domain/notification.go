package domain

import "time"

type NotificationType string

const (
	NotifBookingCreated       NotificationType = "BOOKING_CREATED"
	NotifPhotographerAssigned NotificationType = "PHOTOGRAPHER_ASSIGNED"
	NotifPhotographerAccepted NotificationType = "PHOTOGRAPHER_ACCEPTED"
	NotifPhotographerRejected NotificationType = "PHOTOGRAPHER_REJECTED"
	NotifStatusChange         NotificationType = "STATUS_CHANGE"
	NotifMessage              NotificationType = "MESSAGE"
	NotifPayment              NotificationType = "PAYMENT"
	NotifBookingCancelled     NotificationType = "BOOKING_CANCELLED"
	NotifWorkCompleted        NotificationType = "WORK_COMPLETED"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "LOW"
	PriorityMedium NotificationPriority = "MEDIUM"
	PriorityHigh   NotificationPriority = "HIGH"
	PriorityUrgent NotificationPriority = "URGENT"
)

type Notification struct {
	ID          int64                `json:"id" gorm:"primaryKey"`
	RecipientID int64                `json:"recipient_id" gorm:"not null;index:idx_notifications_recipient_unread"`
	Type        NotificationType     `json:"type" gorm:"not null"`
	Title       string               `json:"title" gorm:"not null"`
	Message     string               `json:"message,omitempty"`
	Priority    NotificationPriority `json:"priority" gorm:"default:'MEDIUM'"`
	IsRead      bool                 `json:"is_read" gorm:"index:idx_notifications_recipient_unread"`
	BookingID   *int64               `json:"booking_id,omitempty"`
	SenderID    *int64               `json:"sender_id,omitempty"`
	ActionURL   string               `json:"action_url,omitempty"`
	Metadata    map[string]any       `json:"metadata,omitempty" gorm:"serializer:json"`
	CreatedAt   time.Time            `json:"created_at"`
	ReadAt      *time.Time           `json:"read_at,omitempty"`
}

func (Notification) TableName() string { return "notifications" }
