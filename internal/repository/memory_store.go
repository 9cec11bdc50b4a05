package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nerufirm/appneruf/internal/domain"
)

// MemoryStore DB 未启用时的内存实现（单实例联调用，重启即丢失）
type MemoryStore struct {
	mu        sync.RWMutex
	residents map[string]domain.Resident
	staff     map[string]domain.Staff
	histories []domain.MedicalHistory
	meds      []domain.Medication
	records   map[string]domain.DailyRecord
	chatLogs  map[string]domain.ChatLog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		residents: map[string]domain.Resident{},
		staff:     map[string]domain.Staff{},
		records:   map[string]domain.DailyRecord{},
		chatLogs:  map[string]domain.ChatLog{},
	}
}

var (
	_ ResidentsRepository    = (*MemoryStore)(nil)
	_ StaffRepository        = (*MemoryStore)(nil)
	_ ChatLogsRepository     = (*MemoryStore)(nil)
	_ DailyRecordsRepository = (*MemoryStore)(nil)
)

// PutResident 新增或覆盖入居者
func (m *MemoryStore) PutResident(r domain.Resident) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.residents[r.ID] = r
}

// PutStaff 新增或覆盖职员
func (m *MemoryStore) PutStaff(s domain.Staff) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staff[s.ID] = s
}

func (m *MemoryStore) PutMedicalHistory(h domain.MedicalHistory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histories = append(m.histories, h)
}

func (m *MemoryStore) PutMedication(med domain.Medication) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meds = append(m.meds, med)
}

func (m *MemoryStore) ListRoster(_ context.Context) ([]domain.ResidentName, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.ResidentName, 0, len(m.residents))
	for _, r := range m.residents {
		if r.ID == "" || r.Name == "" {
			continue
		}
		out = append(out, domain.ResidentName{ID: r.ID, Name: r.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) ListResidents(_ context.Context, filters ResidentFilters) ([]domain.ResidentSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	search := strings.TrimSpace(filters.Search)
	out := make([]domain.ResidentSummary, 0, len(m.residents))
	for _, r := range m.residents {
		room := ""
		if r.BuildingRoom != nil {
			room = *r.BuildingRoom
		}
		if search != "" && !strings.Contains(r.Name, search) && !strings.Contains(room, search) {
			continue
		}
		out = append(out, domain.ResidentSummary{ID: r.ID, Name: r.Name, BuildingRoom: r.BuildingRoom, Status: r.Status})
	}
	// building_room ASC NULLS LAST, id ASC
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].BuildingRoom, out[j].BuildingRoom
		switch {
		case a == nil && b == nil:
			return out[i].ID < out[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a < *b
		default:
			return out[i].ID < out[j].ID
		}
	})
	return out, nil
}

func (m *MemoryStore) GetResident(_ context.Context, residentID string) (*domain.Resident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.residents[residentID]
	if !ok {
		return nil, fmt.Errorf("resident %s: %w", residentID, ErrNotFound)
	}
	return &r, nil
}

func (m *MemoryStore) ListMedicalHistories(_ context.Context, residentID string) ([]domain.MedicalHistory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.MedicalHistory
	for _, h := range m.histories {
		if h.UserID == residentID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListMedications(_ context.Context, residentID string) ([]domain.Medication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Medication
	for _, med := range m.meds {
		if med.UserID == residentID {
			out = append(out, med)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListStaff(_ context.Context) ([]domain.Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Staff, 0, len(m.staff))
	for _, s := range m.staff {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetStaff(_ context.Context, staffID string) (*domain.Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.staff[staffID]
	if !ok {
		return nil, fmt.Errorf("staff %s: %w", staffID, ErrNotFound)
	}
	return &s, nil
}

// UpsertChatLogs 与 Postgres 实现一致：user_id 必须指向已存在的入居者，否则整批失败
func (m *MemoryStore) UpsertChatLogs(_ context.Context, logs []domain.ChatLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range logs {
		if _, ok := m.residents[l.UserID]; !ok {
			return fmt.Errorf("failed to upsert chat logs: unknown resident %s", l.UserID)
		}
	}
	for _, l := range logs {
		m.chatLogs[l.ID] = l
	}
	return nil
}

func (m *MemoryStore) ListChatLogsByResident(_ context.Context, residentID string, limit int) ([]domain.ChatLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.ChatLog
	for _, l := range m.chatLogs {
		if l.UserID == residentID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SendTime.After(out[j].SendTime) })
	return truncate(out, limit), nil
}

func (m *MemoryStore) ListChatLogsBetween(_ context.Context, start, end time.Time) ([]domain.ChatLogWithResident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.ChatLogWithResident
	for _, l := range m.chatLogs {
		if l.SendTime.Before(start) || l.SendTime.After(end) {
			continue
		}
		out = append(out, m.chatLogWithResident(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SendTime.After(out[j].SendTime) })
	return out, nil
}

func (m *MemoryStore) ListLatestChatLogs(_ context.Context, limit int) ([]domain.ChatLogWithResident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.ChatLogWithResident, 0, len(m.chatLogs))
	for _, l := range m.chatLogs {
		out = append(out, m.chatLogWithResident(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SendTime.After(out[j].SendTime) })
	return truncate(out, limit), nil
}

func (m *MemoryStore) chatLogWithResident(l domain.ChatLog) domain.ChatLogWithResident {
	out := domain.ChatLogWithResident{ChatLog: l}
	if r, ok := m.residents[l.UserID]; ok {
		name := r.Name
		out.ResidentName = &name
		out.BuildingRoom = r.BuildingRoom
	}
	return out
}

func (m *MemoryStore) CreateDailyRecord(_ context.Context, record *domain.DailyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.residents[record.UserID]; !ok {
		return fmt.Errorf("failed to create daily record: unknown resident %s", record.UserID)
	}
	if _, dup := m.records[record.ID]; dup {
		return fmt.Errorf("failed to create daily record: duplicate id %s", record.ID)
	}
	m.records[record.ID] = *record
	return nil
}

func (m *MemoryStore) ListDailyRecordsByResident(_ context.Context, residentID string, limit int) ([]domain.DailyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.DailyRecord
	for _, r := range m.records {
		if r.UserID == residentID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordTime.After(out[j].RecordTime) })
	return truncate(out, limit), nil
}

func (m *MemoryStore) ListDailyRecordsBetween(_ context.Context, start, end time.Time) ([]domain.DailyRecordWithResident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.DailyRecordWithResident
	for _, r := range m.records {
		if r.RecordTime.Before(start) || r.RecordTime.After(end) {
			continue
		}
		out = append(out, m.dailyRecordWithResident(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordTime.After(out[j].RecordTime) })
	return out, nil
}

func (m *MemoryStore) ListLatestDailyRecords(_ context.Context, limit int) ([]domain.DailyRecordWithResident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.DailyRecordWithResident, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, m.dailyRecordWithResident(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordTime.After(out[j].RecordTime) })
	return truncate(out, limit), nil
}

func (m *MemoryStore) dailyRecordWithResident(r domain.DailyRecord) domain.DailyRecordWithResident {
	out := domain.DailyRecordWithResident{DailyRecord: r}
	if res, ok := m.residents[r.UserID]; ok {
		name := res.Name
		out.ResidentName = &name
		out.BuildingRoom = res.BuildingRoom
	}
	return out
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
