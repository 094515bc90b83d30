package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"photomarket/internal/domain"
	"photomarket/internal/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if u != nil {
		u.ID = 42
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type stubJWT struct{}

func (stubJWT) GenerateToken(userID int64, role string) (string, error) {
	return "token", nil
}

func TestRegister_NormalizesEmailAndHashesPassword(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, stubJWT{})

	var created *domain.User
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.User)
	}).Return(nil)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "  Maria@Example.COM ",
		Password: "hunter22",
		Name:     "Maria",
		Role:     "CLIENT",
	})
	require.NoError(t, err)
	assert.Equal(t, "token", resp.Token)

	assert.Equal(t, "maria@example.com", created.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hunter22")))
}

func TestRegister_AdminRoleRefused(t *testing.T) {
	svc := NewService(new(MockUserRepository), stubJWT{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "x@example.com",
		Password: "hunter22",
		Name:     "X",
		Role:     "ADMIN",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, stubJWT{})

	repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrEmailTaken)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "taken@example.com",
		Password: "hunter22",
		Name:     "X",
		Role:     "PHOTOGRAPHER",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, stubJWT{})

	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	repo.On("GetByEmail", mock.Anything, "maria@example.com").
		Return(&domain.User{ID: 1, Email: "maria@example.com", PasswordHash: string(hash)}, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "maria@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, stubJWT{})

	repo.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_Success(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, stubJWT{})

	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	repo.On("GetByEmail", mock.Anything, "maria@example.com").
		Return(&domain.User{ID: 1, Email: "maria@example.com", PasswordHash: string(hash), Role: domain.RoleClient}, nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: " Maria@example.com ", Password: "right"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.User.ID)
	assert.Equal(t, "token", resp.Token)
}
