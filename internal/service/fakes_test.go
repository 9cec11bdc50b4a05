package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerufirm/appneruf/internal/domain"
	"github.com/nerufirm/appneruf/internal/repository"
)

type fakeRoster struct {
	roster []domain.ResidentName
	err    error
	calls  int32
	delay  time.Duration
}

func (f *fakeRoster) ListRoster(ctx context.Context) ([]domain.ResidentName, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.roster, nil
}

type fakeChatLogs struct {
	mu       sync.Mutex
	upserted [][]domain.ChatLog
	err      error

	byResident []domain.ChatLog
	between    []domain.ChatLogWithResident
	latest     []domain.ChatLogWithResident
}

func (f *fakeChatLogs) UpsertChatLogs(ctx context.Context, logs []domain.ChatLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, logs)
	return nil
}

func (f *fakeChatLogs) ListChatLogsByResident(ctx context.Context, residentID string, limit int) ([]domain.ChatLog, error) {
	return f.byResident, f.err
}

func (f *fakeChatLogs) ListChatLogsBetween(ctx context.Context, start, end time.Time) ([]domain.ChatLogWithResident, error) {
	return f.between, f.err
}

func (f *fakeChatLogs) ListLatestChatLogs(ctx context.Context, limit int) ([]domain.ChatLogWithResident, error) {
	return f.latest, f.err
}

type fakeNotifier struct {
	events []domain.SyncEvent
	err    error
}

func (f *fakeNotifier) NotifySync(ctx context.Context, event domain.SyncEvent) error {
	f.events = append(f.events, event)
	return f.err
}

type fakeResidents struct {
	residents []domain.ResidentSummary
	detail    map[string]*domain.Resident
	histories []domain.MedicalHistory
	meds      []domain.Medication
	err       error
	lastQuery repository.ResidentFilters
}

func (f *fakeResidents) ListRoster(ctx context.Context) ([]domain.ResidentName, error) {
	out := make([]domain.ResidentName, 0, len(f.residents))
	for _, r := range f.residents {
		out = append(out, domain.ResidentName{ID: r.ID, Name: r.Name})
	}
	return out, f.err
}

func (f *fakeResidents) ListResidents(ctx context.Context, filters repository.ResidentFilters) ([]domain.ResidentSummary, error) {
	f.lastQuery = filters
	return f.residents, f.err
}

func (f *fakeResidents) GetResident(ctx context.Context, residentID string) (*domain.Resident, error) {
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.detail[residentID]; ok {
		return r, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeResidents) ListMedicalHistories(ctx context.Context, residentID string) ([]domain.MedicalHistory, error) {
	return f.histories, f.err
}

func (f *fakeResidents) ListMedications(ctx context.Context, residentID string) ([]domain.Medication, error) {
	return f.meds, f.err
}

type fakeDailyRecords struct {
	created    []domain.DailyRecord
	byResident []domain.DailyRecord
	between    []domain.DailyRecordWithResident
	latest     []domain.DailyRecordWithResident
	err        error
}

func (f *fakeDailyRecords) CreateDailyRecord(ctx context.Context, record *domain.DailyRecord) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *record)
	return nil
}

func (f *fakeDailyRecords) ListDailyRecordsByResident(ctx context.Context, residentID string, limit int) ([]domain.DailyRecord, error) {
	return f.byResident, f.err
}

func (f *fakeDailyRecords) ListDailyRecordsBetween(ctx context.Context, start, end time.Time) ([]domain.DailyRecordWithResident, error) {
	return f.between, f.err
}

func (f *fakeDailyRecords) ListLatestDailyRecords(ctx context.Context, limit int) ([]domain.DailyRecordWithResident, error) {
	return f.latest, f.err
}

type fakeStaff struct {
	staff []domain.Staff
}

func (f *fakeStaff) ListStaff(ctx context.Context) ([]domain.Staff, error) {
	return f.staff, nil
}

func (f *fakeStaff) GetStaff(ctx context.Context, staffID string) (*domain.Staff, error) {
	for i := range f.staff {
		if f.staff[i].ID == staffID {
			return &f.staff[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }
