package message

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"photomarket/internal/domain"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetOrCreateConversation(ctx context.Context, bookingID, clientID, photographerID int64) (*domain.Conversation, error) {
	args := m.Called(ctx, bookingID, clientID, photographerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockRepository) GetConversationByBooking(ctx context.Context, bookingID int64) (*domain.Conversation, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockRepository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	if msg != nil {
		msg.ID = 77
	}
	return args.Error(0)
}

func (m *MockRepository) ListMessages(ctx context.Context, conversationID int64, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, conversationID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockRepository) MarkRead(ctx context.Context, conversationID, userID int64) error {
	args := m.Called(ctx, conversationID, userID)
	return args.Error(0)
}

type MockBookingDirectory struct {
	mock.Mock
}

func (m *MockBookingDirectory) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) NotifyNewMessage(ctx context.Context, recipientID, senderID, bookingID int64, senderName, preview string) error {
	args := m.Called(ctx, recipientID, senderID, bookingID, senderName, preview)
	return args.Error(0)
}

func assignedBooking() *domain.Booking {
	pid := int64(20)
	return &domain.Booking{
		ID:             5,
		ClientID:       1,
		PhotographerID: &pid,
		Status:         domain.StatusPhotographerAssigned,
	}
}

func TestSend_OfflineRecipientGetsNotification(t *testing.T) {
	repo := new(MockRepository)
	bookings := new(MockBookingDirectory)
	users := new(MockUserDirectory)
	notifs := new(MockNotificationSender)
	hub := NewHub() // nobody connected
	svc := NewService(repo, bookings, users, notifs, hub)

	bookings.On("GetByID", mock.Anything, int64(5)).Return(assignedBooking(), nil)
	repo.On("GetOrCreateConversation", mock.Anything, int64(5), int64(1), int64(20)).
		Return(&domain.Conversation{ID: 9, BookingID: 5}, nil)
	repo.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)
	users.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.User{ID: 1, Name: "Maria"}, nil)
	notifs.On("NotifyNewMessage", mock.Anything, int64(20), int64(1), int64(5), "Maria", "hello there").Return(nil)

	msg, err := svc.Send(context.Background(), 1, domain.RoleClient, 5, SendMessageRequest{Content: "hello there"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), msg.ConversationID)
	notifs.AssertExpectations(t)
}

func TestSend_StrangerForbidden(t *testing.T) {
	bookings := new(MockBookingDirectory)
	svc := NewService(new(MockRepository), bookings, new(MockUserDirectory), new(MockNotificationSender), NewHub())

	bookings.On("GetByID", mock.Anything, int64(5)).Return(assignedBooking(), nil)

	_, err := svc.Send(context.Background(), 99, domain.RoleClient, 5, SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSend_NoPhotographerYet(t *testing.T) {
	bookings := new(MockBookingDirectory)
	svc := NewService(new(MockRepository), bookings, new(MockUserDirectory), new(MockNotificationSender), NewHub())

	bookings.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Booking{ID: 5, ClientID: 1, Status: domain.StatusBookingCreated}, nil)

	_, err := svc.Send(context.Background(), 1, domain.RoleClient, 5, SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrNoPhotographer)
}

func TestSend_UnknownBooking(t *testing.T) {
	bookings := new(MockBookingDirectory)
	svc := NewService(new(MockRepository), bookings, new(MockUserDirectory), new(MockNotificationSender), NewHub())

	bookings.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Send(context.Background(), 1, domain.RoleClient, 404, SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_MarksCallerMessagesRead(t *testing.T) {
	repo := new(MockRepository)
	bookings := new(MockBookingDirectory)
	svc := NewService(repo, bookings, new(MockUserDirectory), new(MockNotificationSender), NewHub())

	bookings.On("GetByID", mock.Anything, int64(5)).Return(assignedBooking(), nil)
	repo.On("GetConversationByBooking", mock.Anything, int64(5)).
		Return(&domain.Conversation{ID: 9}, nil)
	repo.On("ListMessages", mock.Anything, int64(9), 100).
		Return([]domain.Message{{ID: 1, ConversationID: 9}}, nil)
	repo.On("MarkRead", mock.Anything, int64(9), int64(20)).Return(nil)

	msgs, err := svc.List(context.Background(), 20, domain.RolePhotographer, 5, 100)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
	repo.AssertExpectations(t)
}

func TestList_NoThreadYetIsEmptyNotError(t *testing.T) {
	repo := new(MockRepository)
	bookings := new(MockBookingDirectory)
	svc := NewService(repo, bookings, new(MockUserDirectory), new(MockNotificationSender), NewHub())

	bookings.On("GetByID", mock.Anything, int64(5)).Return(assignedBooking(), nil)
	repo.On("GetConversationByBooking", mock.Anything, int64(5)).
		Return(nil, gorm.ErrRecordNotFound)

	msgs, err := svc.List(context.Background(), 1, domain.RoleClient, 5, 100)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestPreview_TruncatesLongContent(t *testing.T) {
	long := strings.Repeat("x", 200)
	p := preview(long)
	assert.Equal(t, previewLen+1, len([]rune(p)))
	assert.True(t, strings.HasSuffix(p, "…"))

	assert.Equal(t, "short", preview("short"))
}
