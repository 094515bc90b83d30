package booking

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"photomarket/internal/domain"
)

type Service struct {
	bookings BookingRepository
	users    UserDirectory
	notifs   NotificationSender
}

func NewService(bookings BookingRepository, users UserDirectory, notifs NotificationSender) *Service {
	return &Service{bookings: bookings, users: users, notifs: notifs}
}

func (s *Service) Create(ctx context.Context, clientID int64, req CreateBookingRequest) (*domain.Booking, error) {
	if req.ScheduledAt.Before(time.Now()) {
		return nil, ErrValidation
	}

	b := &domain.Booking{
		ClientID:        clientID,
		PropertyAddress: req.PropertyAddress,
		ShootType:       domain.ShootType(req.ShootType),
		Package:         req.Package,
		ScheduledAt:     req.ScheduledAt,
		Notes:           req.Notes,
		Status:          domain.StatusBookingCreated,
		PaymentStatus:   domain.PaymentUnpaid,
	}

	if err := s.bookings.Create(ctx, b, clientID); err != nil {
		return nil, err
	}

	// New bookings land on the admin dashboard for assignment.
	if s.notifs != nil {
		admins, err := s.users.ListByRole(ctx, domain.RoleAdmin)
		if err == nil {
			for _, a := range admins {
				_ = s.notifs.NotifyBookingCreated(ctx, a.ID, b.ID, b.PropertyAddress)
			}
		}
	}

	return b, nil
}

func (s *Service) List(ctx context.Context, userID int64, role domain.UserRole, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	switch role {
	case domain.RoleClient:
		return s.bookings.ListForClient(ctx, userID, limit, offset)
	case domain.RolePhotographer:
		return s.bookings.ListForPhotographer(ctx, userID, limit, offset)
	case domain.RoleAdmin:
		return s.bookings.ListAll(ctx, limit, offset)
	default:
		return nil, ErrForbidden
	}
}

func (s *Service) Get(ctx context.Context, userID int64, role domain.UserRole, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !canView(b, userID, role) {
		return nil, ErrForbidden
	}
	return b, nil
}

// Assign puts a photographer on a booking. Allowed on a fresh booking and
// after a rejection (assignment cleared, status already advanced).
func (s *Service) Assign(ctx context.Context, adminID, bookingID, photographerID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	reassignAfterReject := b.Status == domain.StatusPhotographerAssigned && b.PhotographerID == nil
	if !CanTransition(b.Status, domain.StatusPhotographerAssigned) && !reassignAfterReject {
		return nil, ErrInvalidStatusTransition
	}
	if b.PhotographerID != nil && b.PhotographerAccepted {
		return nil, ErrAlreadyAssigned
	}

	p, err := s.users.GetByID(ctx, photographerID)
	if err != nil || p.Role != domain.RolePhotographer {
		return nil, ErrNotPhotographer
	}

	if err := s.bookings.AssignPhotographer(ctx, bookingID, photographerID, adminID); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyPhotographerAssigned(ctx, photographerID, bookingID, p.Name)
		_ = s.notifs.NotifyPhotographerAssigned(ctx, b.ClientID, bookingID, p.Name)
	}

	return s.bookings.GetByID(ctx, bookingID)
}

func (s *Service) Accept(ctx context.Context, photographerID, bookingID int64) (*domain.Booking, error) {
	b, err := s.assignedBooking(ctx, photographerID, bookingID)
	if err != nil {
		return nil, err
	}

	if !b.PhotographerAccepted {
		if err := s.bookings.SetAccepted(ctx, bookingID, true); err != nil {
			return nil, err
		}
		if s.notifs != nil {
			_ = s.notifs.NotifyPhotographerAccepted(ctx, b.ClientID, bookingID)
		}
	}

	return s.bookings.GetByID(ctx, bookingID)
}

// Reject releases the photographer from the booking. No status history row
// is written: the enum has no backward state and the log stays monotonic.
// Admins see a notification and re-assign.
func (s *Service) Reject(ctx context.Context, photographerID, bookingID int64, reason string) error {
	b, err := s.assignedBooking(ctx, photographerID, bookingID)
	if err != nil {
		return err
	}

	if err := s.bookings.ClearAssignment(ctx, bookingID); err != nil {
		return err
	}

	if s.notifs != nil {
		admins, err := s.users.ListByRole(ctx, domain.RoleAdmin)
		if err == nil {
			for _, a := range admins {
				_ = s.notifs.NotifyPhotographerRejected(ctx, a.ID, b.ID, reason)
			}
		}
	}

	return nil
}

// AdvanceStatus moves a booking one step forward in the ordered
// progression. Only the assigned (accepted) photographer or an admin may
// advance.
func (s *Service) AdvanceStatus(ctx context.Context, actorID int64, role domain.UserRole, bookingID int64, status domain.BookingStatus, notes string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	switch role {
	case domain.RoleAdmin:
	case domain.RolePhotographer:
		if b.PhotographerID == nil || *b.PhotographerID != actorID || !b.PhotographerAccepted {
			return nil, ErrNotAssigned
		}
	default:
		return nil, ErrForbidden
	}

	if status == domain.StatusCancelled || !CanTransition(b.Status, status) {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, actorID, status, notes); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		if status == domain.StatusCompleted {
			_ = s.notifs.NotifyWorkCompleted(ctx, b.ClientID, bookingID)
		} else {
			_ = s.notifs.NotifyStatusChange(ctx, b.ClientID, bookingID, string(status))
		}
	}

	return s.bookings.GetByID(ctx, bookingID)
}

// Cancel is reachable from any non-terminal status, by the owning client or
// an admin. A reason is required.
func (s *Service) Cancel(ctx context.Context, actorID int64, role domain.UserRole, bookingID int64, reason string) (*domain.Booking, error) {
	if reason == "" {
		return nil, ErrValidation
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if role != domain.RoleAdmin && !(role == domain.RoleClient && b.ClientID == actorID) {
		return nil, ErrForbidden
	}
	if !CanTransition(b.Status, domain.StatusCancelled) {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, actorID, domain.StatusCancelled, reason); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		if actorID != b.ClientID {
			_ = s.notifs.NotifyBookingCancelled(ctx, b.ClientID, bookingID, reason)
		}
		if b.PhotographerID != nil {
			_ = s.notifs.NotifyBookingCancelled(ctx, *b.PhotographerID, bookingID, reason)
		}
	}

	return s.bookings.GetByID(ctx, bookingID)
}

func (s *Service) StatusHistory(ctx context.Context, userID int64, role domain.UserRole, bookingID int64) ([]domain.StatusHistoryEntry, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !canView(b, userID, role) {
		return nil, ErrForbidden
	}
	return s.bookings.GetStatusHistory(ctx, bookingID)
}

// LastStatusHistory returns the history of the caller's most recent booking.
func (s *Service) LastStatusHistory(ctx context.Context, clientID int64) (int64, []domain.StatusHistoryEntry, error) {
	id, err := s.bookings.GetLastBookingID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, ErrNotFound
		}
		return 0, nil, err
	}
	entries, err := s.bookings.GetStatusHistory(ctx, id)
	if err != nil {
		return 0, nil, err
	}
	return id, entries, nil
}

// Timeline derives the display progression for a booking. A nil timeline
// means the booking has no history yet; the handler renders an empty state.
func (s *Service) Timeline(ctx context.Context, userID int64, role domain.UserRole, bookingID int64) (*StatusTimeline, *ProgressStats, error) {
	entries, err := s.StatusHistory(ctx, userID, role, bookingID)
	if err != nil {
		return nil, nil, err
	}

	tl := DeriveTimeline(bookingID, entries)
	if tl == nil {
		return nil, nil, nil
	}
	stats := Progress(tl.Steps)
	return tl, &stats, nil
}

func (s *Service) assignedBooking(ctx context.Context, photographerID, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.PhotographerID == nil || *b.PhotographerID != photographerID {
		return nil, ErrNotAssigned
	}
	return b, nil
}

func canView(b *domain.Booking, userID int64, role domain.UserRole) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleClient:
		return b.ClientID == userID
	case domain.RolePhotographer:
		return b.PhotographerID != nil && *b.PhotographerID == userID
	default:
		return false
	}
}
