package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photomarket/internal/domain"
)

const maxFileSize = 25 * 1024 * 1024

var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".heic": true,
	".mp4":  true,
	".mov":  true,
	".zip":  true,
}

type Service struct {
	repo       Repository
	bookings   BookingDirectory
	baseDir    string
	staticBase string
}

func NewService(repo Repository, bookings BookingDirectory, baseDir, staticBase string) *Service {
	return &Service{repo: repo, bookings: bookings, baseDir: baseDir, staticBase: staticBase}
}

// Store saves a deliverable for the booking. Only the assigned photographer
// who has accepted the job may upload.
func (s *Service) Store(ctx context.Context, uploaderID, bookingID int64, fh *multipart.FileHeader) (*domain.Deliverable, error) {
	b, err := s.booking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.PhotographerID == nil || *b.PhotographerID != uploaderID || !b.PhotographerAccepted {
		return nil, ErrNotUploader
	}

	if fh.Size > maxFileSize {
		return nil, ErrTooLarge
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExts[ext] {
		return nil, ErrInvalidFormat
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := sniffMime(src)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(s.baseDir, "bookings", fmt.Sprint(bookingID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	filename := id + ext
	path := filepath.Join(dir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return nil, err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	d := &domain.Deliverable{
		ID:           id,
		BookingID:    bookingID,
		UploaderID:   uploaderID,
		OriginalName: fh.Filename,
		FilePath:     path,
		FileURL:      fmt.Sprintf("%s/bookings/%d/%s", s.staticBase, bookingID, filename),
		MimeType:     mimeType,
		Size:         fh.Size,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return d, nil
}

// List returns the booking's deliverables to its participants and admins.
func (s *Service) List(ctx context.Context, userID int64, role domain.UserRole, bookingID int64) ([]domain.Deliverable, error) {
	b, err := s.booking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	allowed := role == domain.RoleAdmin ||
		userID == b.ClientID ||
		(b.PhotographerID != nil && userID == *b.PhotographerID)
	if !allowed {
		return nil, ErrForbidden
	}

	return s.repo.ListByBooking(ctx, bookingID)
}

// Remove deletes a deliverable record and its file. Uploader or admin only.
func (s *Service) Remove(ctx context.Context, userID int64, role domain.UserRole, id string) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if d.UploaderID != userID && role != domain.RoleAdmin {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = os.Remove(d.FilePath)
	return nil
}

func (s *Service) booking(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// sniffMime reads the leading bytes for content detection and rewinds.
func sniffMime(src multipart.File) (string, error) {
	buf := make([]byte, 512)
	n, err := src.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
