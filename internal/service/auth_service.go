package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nerufirm/appneruf/internal/domain"
	"github.com/nerufirm/appneruf/internal/repository"
	"github.com/nerufirm/appneruf/internal/store"
)

// ErrUnauthorized 未登录或会话已失效
var ErrUnauthorized = errors.New("unauthorized")

// AuthService 共用终端的职员登录（选择姓名即登录，无密码）
type AuthService interface {
	ListStaff(ctx context.Context) ([]domain.Staff, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentStaff(ctx context.Context, sessionID string) (*domain.StaffSession, error)
}

// LoginRequest 登录请求
type LoginRequest struct {
	StaffID string `json:"staff_id"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	SessionID string              `json:"-"`
	Staff     domain.StaffSession `json:"staff"`
}

type authService struct {
	staffRepo repository.StaffRepository
	sessions  *store.SessionStore
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(staffRepo repository.StaffRepository, sessions *store.SessionStore, logger *zap.Logger) AuthService {
	return &authService{
		staffRepo: staffRepo,
		sessions:  sessions,
		logger:    logger,
	}
}

func (s *authService) ListStaff(ctx context.Context) ([]domain.Staff, error) {
	staff, err := s.staffRepo.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		staff = []domain.Staff{}
	}
	return staff, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	staffID := strings.TrimSpace(req.StaffID)
	if staffID == "" {
		return nil, fmt.Errorf("staff_id is required: %w", ErrUnauthorized)
	}

	staff, err := s.staffRepo.GetStaff(ctx, staffID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("unknown staff %s: %w", staffID, ErrUnauthorized)
		}
		return nil, err
	}

	sess := domain.StaffSession{ID: staff.ID, Name: staff.Name}
	id, err := s.sessions.Create(ctx, sess)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Staff logged in", zap.String("staff_id", staff.ID))
	return &LoginResponse{SessionID: id, Staff: sess}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

func (s *authService) CurrentStaff(ctx context.Context, sessionID string) (*domain.StaffSession, error) {
	if sessionID == "" {
		return nil, ErrUnauthorized
	}
	staff, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return staff, nil
}
