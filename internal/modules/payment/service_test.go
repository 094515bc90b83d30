package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"photomarket/internal/domain"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) SetPaymentStatus(ctx context.Context, bookingID int64, status domain.PaymentStatus) error {
	args := m.Called(ctx, bookingID, status)
	return args.Error(0)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) NotifyPayment(ctx context.Context, recipientID, bookingID int64, message string) error {
	args := m.Called(ctx, recipientID, bookingID, message)
	return args.Error(0)
}

func TestPay_MarksPaidAndNotifies(t *testing.T) {
	bookings := new(MockBookingRepository)
	users := new(MockUserDirectory)
	notifs := new(MockNotificationSender)
	svc := NewService(bookings, users, notifs)

	pid := int64(20)
	bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID:             5,
		ClientID:       1,
		PhotographerID: &pid,
		Status:         domain.StatusShooting,
		PaymentStatus:  domain.PaymentUnpaid,
	}, nil)
	bookings.On("SetPaymentStatus", mock.Anything, int64(5), domain.PaymentPaid).Return(nil)
	users.On("ListByRole", mock.Anything, domain.RoleAdmin).Return([]domain.User{{ID: 10}}, nil)
	notifs.On("NotifyPayment", mock.Anything, int64(20), int64(5), mock.Anything).Return(nil)
	notifs.On("NotifyPayment", mock.Anything, int64(10), int64(5), mock.Anything).Return(nil)

	b, err := svc.Pay(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, b.PaymentStatus)
	notifs.AssertExpectations(t)
}

func TestPay_Idempotent(t *testing.T) {
	bookings := new(MockBookingRepository)
	svc := NewService(bookings, new(MockUserDirectory), new(MockNotificationSender))

	bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID:            5,
		ClientID:      1,
		Status:        domain.StatusShooting,
		PaymentStatus: domain.PaymentPaid,
	}, nil)

	b, err := svc.Pay(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, b.PaymentStatus)
	bookings.AssertNotCalled(t, "SetPaymentStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestPay_OnlyOwningClient(t *testing.T) {
	bookings := new(MockBookingRepository)
	svc := NewService(bookings, new(MockUserDirectory), new(MockNotificationSender))

	bookings.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Booking{ID: 5, ClientID: 1, Status: domain.StatusShooting}, nil)

	_, err := svc.Pay(context.Background(), 2, 5)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPay_CancelledNotPayable(t *testing.T) {
	bookings := new(MockBookingRepository)
	svc := NewService(bookings, new(MockUserDirectory), new(MockNotificationSender))

	bookings.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Booking{ID: 5, ClientID: 1, Status: domain.StatusCancelled}, nil)

	_, err := svc.Pay(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrNotPayable)
}

func TestPay_UnknownBooking(t *testing.T) {
	bookings := new(MockBookingRepository)
	svc := NewService(bookings, new(MockUserDirectory), new(MockNotificationSender))

	bookings.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Pay(context.Background(), 1, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
