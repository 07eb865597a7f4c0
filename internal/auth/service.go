package auth

import (
	"context"
	"errors"
	"time"

	"gateway.example/filter-gateway/internal/models"
	"gateway.example/filter-gateway/internal/repository"
	"gateway.example/filter-gateway/pkg/jwt"
	"gateway.example/filter-gateway/pkg/util"
)

// Service 负责用户注册与登录的业务逻辑
type Service struct {
	userRepo    repository.UserRepository
	jwtSecret   []byte
	jwtDuration time.Duration
	jwtIssuer   string
}

// NewService 构造函数，依赖通过参数注入
func NewService(userRepo repository.UserRepository, jwtSecret string, jwtDurationMinutes int, jwtIssuer string) *Service {
	return &Service{
		userRepo:    userRepo,
		jwtSecret:   []byte(jwtSecret),
		jwtDuration: time.Duration(jwtDurationMinutes) * time.Minute,
		jwtIssuer:   jwtIssuer,
	}
}

// Register 创建新用户，用户名冲突时返回 ErrUserExists
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	// 哈希密码
	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hashedPassword,
	}

	// 唯一性由仓库层保证，避免先查后插的竞态
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return user, nil
}

// Login 校验用户名密码并签发 JWT
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	// 验证密码
	if err := util.VerifyPassword(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	// 生成 JWT Token
	token, err := jwt.GenerateToken(int64(user.ID), user.Username, s.jwtSecret, s.jwtDuration, s.jwtIssuer)
	if err != nil {
		return "", err
	}

	return token, nil
}
