package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/projectreach/reach_go_server/config"
	"github.com/projectreach/reach_go_server/internal/model/dto"
	"github.com/projectreach/reach_go_server/internal/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
)

// AuthService 管理端登录。平台只有一个管理账号，凭据来自配置
type AuthService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

func (s *AuthService) Login(req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if req.Username != s.cfg.Admin.Username {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(
		[]byte(s.cfg.Admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(1, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.AdminLoginResponse{
		Token:     token,
		ExpiresIn: s.cfg.JWT.ExpireHours * 3600,
	}, nil
}
