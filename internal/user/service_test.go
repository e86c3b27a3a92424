package user

import (
	"context"
	"testing"

	"github.com/propellur/moca-patient-portal/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) UpsertPatient(ctx context.Context, email string) (Patient, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(Patient), args.Error(1)
}

func (m *MockRepository) FindPatientByEmail(ctx context.Context, email string) (*Patient, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Patient), args.Error(1)
}

func (m *MockRepository) FindAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Admin), args.Error(1)
}

func (m *MockRepository) UpsertAdmin(ctx context.Context, email, passwordHash string) error {
	args := m.Called(ctx, email, passwordHash)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{OneTimeCode: "739184"}
}

func TestService_RequestCode(t *testing.T) {
	t.Run("Registers patient and returns code", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, testConfig())

		repo.On("UpsertPatient", mock.Anything, "pat@moca.test").
			Return(Patient{ID: uuid.New(), Email: "pat@moca.test"}, nil)

		code, err := svc.RequestCode(context.Background(), "pat@moca.test")
		require.NoError(t, err)
		assert.Equal(t, "739184", code)
	})

	t.Run("Empty email rejected", func(t *testing.T) {
		svc := NewService(new(MockRepository), testConfig())

		_, err := svc.RequestCode(context.Background(), "")
		assert.ErrorIs(t, err, ErrEmailRequired)
	})
}

func TestService_VerifyCode(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("Correct code yields session token", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, testConfig())

		repo.On("FindPatientByEmail", mock.Anything, "pat@moca.test").
			Return(&Patient{ID: uuid.New(), Email: "pat@moca.test"}, nil)

		token, p, err := svc.VerifyCode(context.Background(), "pat@moca.test", "739184")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "pat@moca.test", p.Email)

		claims, err := ParseJWT(token)
		require.NoError(t, err)
		assert.Equal(t, string(RolePatient), claims.Role)
	})

	t.Run("Wrong code rejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, testConfig())

		_, _, err := svc.VerifyCode(context.Background(), "pat@moca.test", "000000")
		assert.ErrorIs(t, err, ErrInvalidCode)
		repo.AssertNotCalled(t, "FindPatientByEmail", mock.Anything, mock.Anything)
	})

	t.Run("Unknown patient registered on the fly", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, testConfig())

		repo.On("FindPatientByEmail", mock.Anything, "new@moca.test").Return(nil, nil)
		repo.On("UpsertPatient", mock.Anything, "new@moca.test").
			Return(Patient{ID: uuid.New(), Email: "new@moca.test"}, nil)

		token, p, err := svc.VerifyCode(context.Background(), "new@moca.test", "739184")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "new@moca.test", p.Email)
	})
}

func TestService_AdminLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	t.Run("Valid credentials", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, testConfig())

		repo.On("FindAdminByEmail", mock.Anything, "admin@moca.test").
			Return(&Admin{Email: "admin@moca.test", PasswordHash: hash}, nil)

		token, a, err := svc.AdminLogin(context.Background(), "admin@moca.test", "hunter2")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "admin@moca.test", a.Email)

		claims, err := ParseJWT(token)
		require.NoError(t, err)
		assert.Equal(t, string(RoleAdmin), claims.Role)
	})

	t.Run("Wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, testConfig())

		repo.On("FindAdminByEmail", mock.Anything, "admin@moca.test").
			Return(&Admin{Email: "admin@moca.test", PasswordHash: hash}, nil)

		_, _, err := svc.AdminLogin(context.Background(), "admin@moca.test", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown admin", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, testConfig())

		repo.On("FindAdminByEmail", mock.Anything, "ghost@moca.test").Return(nil, nil)

		_, _, err := svc.AdminLogin(context.Background(), "ghost@moca.test", "hunter2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_EnsureAdmin(t *testing.T) {
	t.Run("Seeds hashed credentials", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, testConfig())

		repo.On("UpsertAdmin", mock.Anything, "admin@moca.test", mock.MatchedBy(func(hash string) bool {
			return CheckPasswordHash("hunter2", hash)
		})).Return(nil)

		err := svc.EnsureAdmin(context.Background(), "admin@moca.test", "hunter2")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("No-op without bootstrap credentials", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, testConfig())

		err := svc.EnsureAdmin(context.Background(), "", "")
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "UpsertAdmin", mock.Anything, mock.Anything, mock.Anything)
	})
}
