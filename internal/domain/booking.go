package domain

import "time"

type BookingStatus string

const (
	StatusBookingCreated      BookingStatus = "BOOKING_CREATED"
	StatusPhotographerAssigned BookingStatus = "PHOTOGRAPHER_ASSIGNED"
	StatusShooting            BookingStatus = "SHOOTING"
	StatusEditing             BookingStatus = "EDITING"
	StatusCompleted           BookingStatus = "COMPLETED"

	// Terminal, reachable from any non-terminal status. Not part of the
	// ordered progression.
	StatusCancelled BookingStatus = "CANCELLED"
)

// AllStatuses is the fixed ordered progression a booking moves through.
// CANCELLED is handled separately as a terminal display state.
var AllStatuses = []BookingStatus{
	StatusBookingCreated,
	StatusPhotographerAssigned,
	StatusShooting,
	StatusEditing,
	StatusCompleted,
}

// StatusIndex returns the position of s in the ordered progression,
// or -1 for CANCELLED and unrecognized values.
func StatusIndex(s BookingStatus) int {
	for i, v := range AllStatuses {
		if v == s {
			return i
		}
	}
	return -1
}

type ShootType string

const (
	ShootPhoto ShootType = "PHOTO"
	ShootVideo ShootType = "VIDEO"
	ShootBoth  ShootType = "BOTH"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "UNPAID"
	PaymentPaid   PaymentStatus = "PAID"
)

type Booking struct {
	ID                   int64         `json:"id" gorm:"primaryKey"`
	ClientID             int64         `json:"client_id" gorm:"not null;index"`
	PhotographerID       *int64        `json:"photographer_id,omitempty" gorm:"index"`
	PropertyAddress      string        `json:"property_address" gorm:"not null"`
	ShootType            ShootType     `json:"shoot_type" gorm:"not null"`
	Package              string        `json:"package,omitempty"`
	ScheduledAt          time.Time     `json:"scheduled_at" gorm:"not null"`
	Notes                string        `json:"notes,omitempty" gorm:"type:text"`
	Status               BookingStatus `json:"status" gorm:"not null;index"`
	PhotographerAccepted bool          `json:"photographer_accepted"`
	PaymentStatus        PaymentStatus `json:"payment_status"`
	CancellationReason   string        `json:"cancellation_reason,omitempty" gorm:"type:text"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
	CancelledAt          *time.Time    `json:"cancelled_at,omitempty"`

	Client       *User `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Photographer *User `json:"photographer,omitempty" gorm:"foreignKey:PhotographerID"`
}

func (Booking) TableName() string { return "bookings" }

// StatusHistoryEntry is one immutable record of a booking transitioning into
// a status. Written in the same transaction as the status change, never
// mutated or deleted afterwards.
type StatusHistoryEntry struct {
	ID        int64         `json:"id" gorm:"primaryKey"`
	BookingID int64         `json:"booking_id" gorm:"not null;index"`
	UserID    int64         `json:"user_id" gorm:"not null"`
	Status    BookingStatus `json:"status" gorm:"not null"`
	Notes     string        `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt time.Time     `json:"created_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (StatusHistoryEntry) TableName() string { return "status_history_entries" }
