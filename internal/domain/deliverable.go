package domain

import "time"

// Deliverable is a shoot result file uploaded by the assigned photographer,
// stored on the local filesystem.
type Deliverable struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	BookingID    int64     `json:"booking_id" gorm:"not null;index"`
	UploaderID   int64     `json:"uploader_id" gorm:"not null"`
	OriginalName string    `json:"original_name"`
	FilePath     string    `json:"-"`
	FileURL      string    `json:"url"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Deliverable) TableName() string { return "deliverables" }
