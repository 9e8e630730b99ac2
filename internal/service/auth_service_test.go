package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduapp/classroom-api/internal/dto"
	"github.com/eduapp/classroom-api/internal/models"
	"github.com/eduapp/classroom-api/internal/repository"
)

func setupAuthService(t *testing.T, name string) (AuthService, repository.UserRepository) {
	t.Helper()

	db := setupSubmissionDB(t, name)
	users := repository.NewUserRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())

	svc := NewAuthService(users, validate, TokenConfig{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	}, bcrypt.MinCost, zerolog.Nop())

	return svc, users
}

func TestAuthServiceRegisterCreatesStudent(t *testing.T) {
	svc, users := setupAuthService(t, "auth_register")

	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Arif",
		Email:    "Arif@Example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleStudent, user.Role)
	require.Equal(t, models.UserStatusActive, user.Status)
	require.Equal(t, "arif@example.com", user.Email)

	stored, err := users.GetByEmail(context.Background(), "arif@example.com")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", stored.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
}

func TestAuthServiceRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := setupAuthService(t, "auth_duplicate")

	payload := dto.RegisterRequest{Name: "Arif", Email: "arif@example.com", Password: "secret123"}
	_, err := svc.Register(context.Background(), payload)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), payload)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthServiceLoginIssuesTokenPair(t *testing.T) {
	svc, _ := setupAuthService(t, "auth_login")

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Name: "Arif", Email: "arif@example.com", Password: "secret123"})
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), dto.LoginRequest{Email: "arif@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	require.Equal(t, models.RoleStudent, tokens.User.Role)

	parsed, err := jwt.Parse(tokens.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, models.RoleStudent, claims["role"])
}

func TestAuthServiceLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := setupAuthService(t, "auth_wrongpass")

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Name: "Arif", Email: "arif@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "arif@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginRejectsSuspendedAccount(t *testing.T) {
	svc, users := setupAuthService(t, "auth_suspended")

	registered, err := svc.Register(context.Background(), dto.RegisterRequest{Name: "Arif", Email: "arif@example.com", Password: "secret123"})
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), registered.ID)
	require.NoError(t, err)
	stored.Status = models.UserStatusSuspended
	require.NoError(t, users.Update(context.Background(), &stored))

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "arif@example.com", Password: "secret123"})
	require.ErrorIs(t, err, ErrAccountSuspended)
}
