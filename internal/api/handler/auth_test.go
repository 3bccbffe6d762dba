package handler

import (
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/projectreach/reach_go_server/config"
	"github.com/projectreach/reach_go_server/internal/pkg/response"
	"github.com/projectreach/reach_go_server/internal/service"
)

func setupAuthHandler(t *testing.T) *AuthHandler {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpireHours: 24},
		Admin: config.AdminConfig{
			Username:     "admin",
			PasswordHash: string(hash),
		},
	}
	return NewAuthHandler(service.NewAuthService(cfg))
}

func authRouter(h *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/login", h.Login)
	return r
}

func TestAuthHandler_Login(t *testing.T) {
	handler := setupAuthHandler(t)

	body, _ := json.Marshal(map[string]string{
		"username": "admin",
		"password": "admin-pass",
	})

	w := postJSON(authRouter(handler), "/auth/login", body)

	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, float64(24*3600), data["expires_in"])
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	handler := setupAuthHandler(t)

	body, _ := json.Marshal(map[string]string{
		"username": "admin",
		"password": "guessing",
	})

	w := postJSON(authRouter(handler), "/auth/login", body)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestAuthHandler_LoginMissingFields(t *testing.T) {
	handler := setupAuthHandler(t)

	w := postJSON(authRouter(handler), "/auth/login", []byte(`{"username":"admin"}`))

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}
