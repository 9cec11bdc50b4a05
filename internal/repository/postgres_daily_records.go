package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nerufirm/appneruf/internal/domain"
)

// PostgresDailyRecordsRepository 日次记录Repository实现
type PostgresDailyRecordsRepository struct {
	db *sqlx.DB
}

// NewPostgresDailyRecordsRepository 创建日次记录Repository
func NewPostgresDailyRecordsRepository(db *sqlx.DB) *PostgresDailyRecordsRepository {
	return &PostgresDailyRecordsRepository{db: db}
}

var _ DailyRecordsRepository = (*PostgresDailyRecordsRepository)(nil)

// CreateDailyRecord 插入一条日次记录（ID 由调用方生成）
func (r *PostgresDailyRecordsRepository) CreateDailyRecord(ctx context.Context, record *domain.DailyRecord) error {
	query := `
		INSERT INTO daily_records (
			id, user_id, staff_id, record_time,
			body_temp, bp_high, bp_low, pulse, spo2,
			excretion_urine, meal_amount
		) VALUES (
			:id, :user_id, :staff_id, :record_time,
			:body_temp, :bp_high, :bp_low, :pulse, :spo2,
			:excretion_urine, :meal_amount
		)
	`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("failed to create daily record: %w", err)
	}
	return nil
}

const dailyRecordColumns = `
	id, user_id, staff_id, record_time,
	body_temp, bp_high, bp_low, pulse, spo2,
	excretion_urine, meal_amount
`

// ListDailyRecordsByResident 按 record_time 倒序
func (r *PostgresDailyRecordsRepository) ListDailyRecordsByResident(ctx context.Context, residentID string, limit int) ([]domain.DailyRecord, error) {
	query := `SELECT ` + dailyRecordColumns + `
		FROM daily_records
		WHERE user_id = $1
		ORDER BY record_time DESC
		LIMIT $2
	`
	var records []domain.DailyRecord
	if err := r.db.SelectContext(ctx, &records, query, residentID, limit); err != nil {
		return nil, fmt.Errorf("failed to list daily records: %w", err)
	}
	return records, nil
}

const dailyRecordWithResidentColumns = `
	d.id, d.user_id, d.staff_id, d.record_time,
	d.body_temp, d.bp_high, d.bp_low, d.pulse, d.spo2,
	d.excretion_urine, d.meal_amount,
	r.name AS resident_name, r.building_room
`

// ListDailyRecordsBetween [start, end] 区间内的记录（含入居者信息）
func (r *PostgresDailyRecordsRepository) ListDailyRecordsBetween(ctx context.Context, start, end time.Time) ([]domain.DailyRecordWithResident, error) {
	query := `SELECT ` + dailyRecordWithResidentColumns + `
		FROM daily_records d
		LEFT JOIN residents r ON r.id = d.user_id
		WHERE d.record_time >= $1 AND d.record_time <= $2
		ORDER BY d.record_time DESC
	`
	var records []domain.DailyRecordWithResident
	if err := r.db.SelectContext(ctx, &records, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to list daily records between: %w", err)
	}
	return records, nil
}

// ListLatestDailyRecords 最新 limit 条（含入居者信息）
func (r *PostgresDailyRecordsRepository) ListLatestDailyRecords(ctx context.Context, limit int) ([]domain.DailyRecordWithResident, error) {
	query := `SELECT ` + dailyRecordWithResidentColumns + `
		FROM daily_records d
		LEFT JOIN residents r ON r.id = d.user_id
		ORDER BY d.record_time DESC
		LIMIT $1
	`
	var records []domain.DailyRecordWithResident
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list latest daily records: %w", err)
	}
	return records, nil
}
