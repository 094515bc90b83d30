package domain

import "time"

// Conversation is the message thread for one booking. Participant A is
// always the client, participant B the photographer.
type Conversation struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	BookingID     int64     `json:"booking_id" gorm:"not null;uniqueIndex"`
	ParticipantA  int64     `json:"participant_a" gorm:"not null"`
	ParticipantB  int64     `json:"participant_b" gorm:"not null"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Conversation) TableName() string { return "conversations" }

type Message struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	ConversationID int64      `json:"conversation_id" gorm:"not null;index"`
	SenderID       int64      `json:"sender_id" gorm:"not null"`
	Content        string     `json:"content" gorm:"not null"`
	IsRead         bool       `json:"is_read"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`

	Sender *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}

func (Message) TableName() string { return "messages" }
