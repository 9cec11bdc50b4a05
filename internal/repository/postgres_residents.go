package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nerufirm/appneruf/internal/domain"
)

// PostgresResidentsRepository 入居者Repository实现
type PostgresResidentsRepository struct {
	db *sqlx.DB
}

// NewPostgresResidentsRepository 创建入居者Repository
func NewPostgresResidentsRepository(db *sqlx.DB) *PostgresResidentsRepository {
	return &PostgresResidentsRepository{db: db}
}

// 确保实现了接口
var _ ResidentsRepository = (*PostgresResidentsRepository)(nil)

// ListRoster 读取名册；id 或 name 为空的行不参与名寄せ
func (r *PostgresResidentsRepository) ListRoster(ctx context.Context) ([]domain.ResidentName, error) {
	query := `
		SELECT id, name
		FROM residents
		WHERE id <> '' AND name <> ''
		ORDER BY id
	`
	var roster []domain.ResidentName
	if err := r.db.SelectContext(ctx, &roster, query); err != nil {
		return nil, fmt.Errorf("failed to list resident roster: %w", err)
	}
	return roster, nil
}

// ListResidents 按 building_room 排序返回入居者列表
func (r *PostgresResidentsRepository) ListResidents(ctx context.Context, filters ResidentFilters) ([]domain.ResidentSummary, error) {
	query := `
		SELECT id, name, building_room, status
		FROM residents
	`
	args := []any{}
	if search := strings.TrimSpace(filters.Search); search != "" {
		query += ` WHERE name LIKE $1 OR COALESCE(building_room, '') LIKE $1`
		args = append(args, "%"+escapeLike(search)+"%")
	}
	query += ` ORDER BY building_room ASC NULLS LAST, id ASC`

	var residents []domain.ResidentSummary
	if err := r.db.SelectContext(ctx, &residents, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list residents: %w", err)
	}
	return residents, nil
}

// GetResident 获取入居者详情
func (r *PostgresResidentsRepository) GetResident(ctx context.Context, residentID string) (*domain.Resident, error) {
	if residentID == "" {
		return nil, ErrNotFound
	}

	query := `
		SELECT
			id,
			name,
			gender,
			birth_date::text AS birth_date,
			building_room,
			care_level,
			primary_doctor,
			emergency_contact,
			status
		FROM residents
		WHERE id = $1
	`
	var resident domain.Resident
	if err := r.db.GetContext(ctx, &resident, query, residentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("resident %s: %w", residentID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get resident: %w", err)
	}
	return &resident, nil
}

// ListMedicalHistories 既往歴
func (r *PostgresResidentsRepository) ListMedicalHistories(ctx context.Context, residentID string) ([]domain.MedicalHistory, error) {
	query := `
		SELECT id, user_id, disease_name, onset_date, hospital
		FROM medical_histories
		WHERE user_id = $1
		ORDER BY id
	`
	var items []domain.MedicalHistory
	if err := r.db.SelectContext(ctx, &items, query, residentID); err != nil {
		return nil, fmt.Errorf("failed to list medical histories: %w", err)
	}
	return items, nil
}

// ListMedications 服薬
func (r *PostgresResidentsRepository) ListMedications(ctx context.Context, residentID string) ([]domain.Medication, error) {
	query := `
		SELECT id, user_id, timing, medicine_name, dosage
		FROM medications
		WHERE user_id = $1
		ORDER BY id
	`
	var items []domain.Medication
	if err := r.db.SelectContext(ctx, &items, query, residentID); err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	return items, nil
}

// escapeLike 转义 LIKE 通配符（PostgreSQL 默认转义符为 \）
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
