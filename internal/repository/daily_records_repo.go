package repository

import (
	"context"
	"time"

	"github.com/nerufirm/appneruf/internal/domain"
)

// DailyRecordsRepository 日次记录Repository接口
type DailyRecordsRepository interface {
	CreateDailyRecord(ctx context.Context, record *domain.DailyRecord) error
	ListDailyRecordsByResident(ctx context.Context, residentID string, limit int) ([]domain.DailyRecord, error)
	ListDailyRecordsBetween(ctx context.Context, start, end time.Time) ([]domain.DailyRecordWithResident, error)
	ListLatestDailyRecords(ctx context.Context, limit int) ([]domain.DailyRecordWithResident, error)
}
