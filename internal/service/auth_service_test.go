package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/projectreach/reach_go_server/config"
	"github.com/projectreach/reach_go_server/internal/model/dto"
	"github.com/projectreach/reach_go_server/internal/pkg/jwt"
)

func newAuthService(t *testing.T, password string) *AuthService {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return NewAuthService(&config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpireHours: 24},
		Admin: config.AdminConfig{
			Username:     "admin",
			PasswordHash: string(hash),
		},
	})
}

func TestAuthService_Login(t *testing.T) {
	svc := newAuthService(t, "correct horse")

	resp, err := svc.Login(&dto.AdminLoginRequest{
		Username: "admin",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 24*3600, resp.ExpiresIn)

	claims, err := jwt.ParseToken(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := newAuthService(t, "correct horse")

	_, err := svc.Login(&dto.AdminLoginRequest{
		Username: "admin",
		Password: "battery staple",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_WrongUsername(t *testing.T) {
	svc := newAuthService(t, "correct horse")

	_, err := svc.Login(&dto.AdminLoginRequest{
		Username: "root",
		Password: "correct horse",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
