package booking

import "time"

type CreateBookingRequest struct {
	PropertyAddress string    `json:"property_address" binding:"required"`
	ShootType       string    `json:"shoot_type" binding:"required,oneof=PHOTO VIDEO BOTH"`
	Package         string    `json:"package"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	Notes           string    `json:"notes"`
}

type AssignRequest struct {
	PhotographerID int64 `json:"photographer_id" binding:"required"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type AdvanceStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}
