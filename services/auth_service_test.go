package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/voglerhub/club-system/models"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegister(t *testing.T) {
	t.Run("new accounts get the trainer role", func(t *testing.T) {
		userRepo := &fakeUserRepo{users: make(map[int]*models.User)}
		svc := NewAuthService(userRepo)

		user, err := svc.Register(context.Background(), RegisterInput{
			Name:     "Neuer Trainer",
			Email:    "neu@example.com",
			Password: "langes-passwort",
		})

		require.NoError(t, err)
		assert.Equal(t, models.RoleTrainer, user.Role)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		svc := NewAuthService(&fakeUserRepo{users: make(map[int]*models.User)})

		_, err := svc.Register(context.Background(), RegisterInput{
			Name:     "Neuer Trainer",
			Email:    "neu@example.com",
			Password: "kurz",
		})

		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("missing name or email is rejected", func(t *testing.T) {
		svc := NewAuthService(&fakeUserRepo{users: make(map[int]*models.User)})

		_, err := svc.Register(context.Background(), RegisterInput{Password: "langes-passwort"})

		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestLogin(t *testing.T) {
	userRepo := &fakeUserRepo{users: map[int]*models.User{
		1: {
			ID:           1,
			Email:        "trainer@example.com",
			PasswordHash: hashPassword(t, "richtiges-passwort"),
			Role:         models.RoleTrainer,
		},
		2: {
			ID:           2,
			Email:        "gesperrt@example.com",
			PasswordHash: hashPassword(t, "richtiges-passwort"),
			Role:         models.RoleTrainer,
			Banned:       true,
		},
	}}
	svc := NewAuthService(userRepo)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(context.Background(), LoginInput{
			Email:    "trainer@example.com",
			Password: "richtiges-passwort",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, user.ID)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "trainer@example.com",
			Password: "falsches-passwort",
		})

		assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "niemand@example.com",
			Password: "richtiges-passwort",
		})

		assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
	})

	t.Run("banned account is refused after password check", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "gesperrt@example.com",
			Password: "richtiges-passwort",
		})

		assert.ErrorIs(t, err, ErrAuthUserBanned)
	})
}
