package notification

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"photomarket/internal/domain"
)

type Service struct {
	repo Repository
	hub  *Hub
}

func NewService(repo Repository, hub *Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

// Create persists a notification and pushes it to the recipient's open
// streams along with the new authoritative unread count.
func (s *Service) Create(ctx context.Context, n *domain.Notification) error {
	if n.Priority == "" {
		n.Priority = domain.PriorityMedium
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.hub.Publish(n.RecipientID, EventNotification, n)
	s.publishUnreadCount(ctx, n.RecipientID)
	return nil
}

func (s *Service) List(ctx context.Context, recipientID int64, limit int) ([]domain.Notification, int64, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	list, err := s.repo.ListByRecipient(ctx, recipientID, limit)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, 0, 0, err
	}
	total, err := s.repo.CountTotal(ctx, recipientID)
	if err != nil {
		return nil, 0, 0, err
	}
	return list, unread, total, nil
}

// MarkAsRead is idempotent: re-marking an already-read notification is a
// no-op success. Other open sessions of the same user learn about the
// change through a notification-update push.
func (s *Service) MarkAsRead(ctx context.Context, id, recipientID int64) error {
	n, err := s.repo.GetByID(ctx, id, recipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if n.IsRead {
		return nil
	}

	if err := s.repo.MarkAsRead(ctx, id, recipientID); err != nil {
		return err
	}

	n.IsRead = true
	s.hub.Publish(recipientID, EventNotificationUpdate, n)
	s.publishUnreadCount(ctx, recipientID)
	return nil
}

func (s *Service) MarkAllAsRead(ctx context.Context, recipientID int64) error {
	if err := s.repo.MarkAllAsRead(ctx, recipientID); err != nil {
		return err
	}
	s.publishUnreadCount(ctx, recipientID)
	return nil
}

// Delete is idempotent: deleting an unknown id succeeds, so the client's
// bulk clear never trips over concurrent deletions.
func (s *Service) Delete(ctx context.Context, id, recipientID int64) error {
	if err := s.repo.Delete(ctx, id, recipientID); err != nil {
		return err
	}

	s.hub.Publish(recipientID, EventNotificationDelete, map[string]int64{"id": id})
	s.publishUnreadCount(ctx, recipientID)
	return nil
}

func (s *Service) publishUnreadCount(ctx context.Context, recipientID int64) {
	count, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return
	}
	s.hub.Publish(recipientID, EventUnreadCount, map[string]int64{"unread_count": count})
}

// Typed helpers below implement the NotificationSender interfaces of the
// booking, message and payment modules.

func (s *Service) NotifyBookingCreated(ctx context.Context, recipientID, bookingID int64, address string) error {
	return s.Create(ctx, &domain.Notification{
		RecipientID: recipientID,
		Type:        domain.NotifBookingCreated,
		Title:       "New booking request",
		Message:     fmt.Sprintf("A shoot was requested at %s", address),
		Priority:    domain.PriorityHigh,
		BookingID:   &bookingID,
		ActionURL:   fmt.Sprintf("/bookings/%d", bookingID),
	})
}

func (s *Service) NotifyPhotographerAssigned(ctx context.Context, recipientID, bookingID int64, photographerName string) error {
	return s.Create(ctx, &domain.Notification{
		RecipientID: recipientID,
		Type:        domain.NotifPhotographerAssigned,
		Title:       "Photographer assigned",
		Message:     fmt.Sprintf("%s was assigned to the booking", photographerName),
		Priority:    domain.PriorityHigh,
		BookingID:   &bookingID,
		ActionURL:   fmt.Sprintf("/bookings/%d", bookingID),
	})
}

func (s *Service) NotifyPhotographerAccepted(ctx context.Context, recipientID, bookingID int64) error {
	return s.Create(ctx, &domain.Notification{
		RecipientID: recipientID,
		Type:        domain.NotifPhotographerAccepted,
		Title:       "Photographer accepted",
		Message:     "Your photographer confirmed the shoot",
		BookingID:   &bookingID,
		ActionURL:   fmt.Sprintf("/bookings/%d", bookingID),
	})
}

func (s *Service) NotifyPhotographerRejected(ctx context.Context, recipientID, bookingID int64, reason string) error {
	msg := "The assigned photographer declined the booking"
	if reason != "" {
		msg += ": " + reason
	}
	return s.Create(ctx, &domain.Notification{
		RecipientID: recipientID,
		Type:        domain.NotifPhotographerRejected,
		Title:       "Photographer declined",
		Message:     msg,
		Priority:    domain.PriorityUrgent,
		BookingID:   &bookingID,
		ActionURL:   fmt.Sprintf("/bookings/%d", bookingID),
	})
}

func (s *Service) NotifyStatusChange(ctx context.Context, recipientID, bookingID int64, status string) error {
	return s.Create(ctx, &domain.Notification{
		RecipientID: recipientID,
		Type:        domain.NotifStatusChange,
		Title:       "Booking status updated",
		Message:     fmt.Sprintf("Your booking moved to %s", status),
		BookingID:   &bookingID,
		ActionURL:   fmt.Sprintf("/bookings/%d", bookingID),
		Metadata:    map[string]any{"status": status},
	})
}

func (s *Service) NotifyWorkCompleted(ctx context.Context, recipientID, bookingID int64) error {
	return s.Create(ctx, &domain.Notification{
		RecipientID: recipientID,
		Type:        domain.NotifWorkCompleted,
		Title:       "Your shoot is ready",
		Message:     "All deliverables have been uploaded",
		Priority:    domain.PriorityHigh,
		BookingID:   &bookingID,
		ActionURL:   fmt.Sprintf("/bookings/%d", bookingID),
	})
}

func (s *Service) NotifyBookingCancelled(ctx context.Context, recipientID, bookingID int64, reason string) error {
	msg := "The booking was cancelled"
	if reason != "" {
		msg += ": " + reason
	}
	return s.Create(ctx, &domain.Notification{
		RecipientID: recipientID,
		Type:        domain.NotifBookingCancelled,
		Title:       "Booking cancelled",
		Message:     msg,
		Priority:    domain.PriorityUrgent,
		BookingID:   &bookingID,
		ActionURL:   fmt.Sprintf("/bookings/%d", bookingID),
	})
}

func (s *Service) NotifyNewMessage(ctx context.Context, recipientID, senderID, bookingID int64, senderName, preview string) error {
	return s.Create(ctx, &domain.Notification{
		RecipientID: recipientID,
		Type:        domain.NotifMessage,
		Title:       fmt.Sprintf("New message from %s", senderName),
		Message:     preview,
		Priority:    domain.PriorityLow,
		BookingID:   &bookingID,
		SenderID:    &senderID,
		ActionURL:   fmt.Sprintf("/bookings/%d/messages", bookingID),
	})
}

func (s *Service) NotifyPayment(ctx context.Context, recipientID, bookingID int64, message string) error {
	return s.Create(ctx, &domain.Notification{
		RecipientID: recipientID,
		Type:        domain.NotifPayment,
		Title:       "Payment received",
		Message:     message,
		BookingID:   &bookingID,
		ActionURL:   fmt.Sprintf("/bookings/%d", bookingID),
	})
}
