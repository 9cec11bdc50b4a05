package repository

import (
	"context"

	"github.com/nerufirm/appneruf/internal/domain"
)

// StaffRepository 职员Repository接口
type StaffRepository interface {
	ListStaff(ctx context.Context) ([]domain.Staff, error)
	GetStaff(ctx context.Context, staffID string) (*domain.Staff, error)
}
