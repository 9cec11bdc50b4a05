package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nerufirm/appneruf/internal/domain"
)

// PostgresStaffRepository 职员Repository实现
type PostgresStaffRepository struct {
	db *sqlx.DB
}

func NewPostgresStaffRepository(db *sqlx.DB) *PostgresStaffRepository {
	return &PostgresStaffRepository{db: db}
}

var _ StaffRepository = (*PostgresStaffRepository)(nil)

func (r *PostgresStaffRepository) ListStaff(ctx context.Context) ([]domain.Staff, error) {
	var staff []domain.Staff
	if err := r.db.SelectContext(ctx, &staff, `SELECT id, name, department FROM staff ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

func (r *PostgresStaffRepository) GetStaff(ctx context.Context, staffID string) (*domain.Staff, error) {
	var s domain.Staff
	err := r.db.GetContext(ctx, &s, `SELECT id, name, department FROM staff WHERE id = $1`, staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("staff %s: %w", staffID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return &s, nil
}
