package repository

import (
	"context"

	"github.com/nerufirm/appneruf/internal/domain"
)

// ResidentsRepository 入居者Repository接口
// 入居者名册由外部管理流程维护，这里只读
type ResidentsRepository interface {
	// ========== residents 表 ==========
	// ListRoster 读取完整名册 (id, name)，用于名寄せ映射
	ListRoster(ctx context.Context) ([]domain.ResidentName, error)
	ListResidents(ctx context.Context, filters ResidentFilters) ([]domain.ResidentSummary, error)
	GetResident(ctx context.Context, residentID string) (*domain.Resident, error)

	// ========== medical_histories / medications 表 ==========
	ListMedicalHistories(ctx context.Context, residentID string) ([]domain.MedicalHistory, error)
	ListMedications(ctx context.Context, residentID string) ([]domain.Medication, error)
}

// ResidentFilters 入居者查询过滤器
type ResidentFilters struct {
	Search string // 模糊搜索：name 或 building_room
}
