package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nerufirm/appneruf/internal/chatwork"
	"github.com/nerufirm/appneruf/internal/domain"
	"github.com/nerufirm/appneruf/internal/repository"
)

const (
	// 告警阈值
	alertBodyTemp = 37.0
	alertBPHigh   = 140

	dashboardTimelineLimit = 20
)

// DashboardService 当日概况
type DashboardService interface {
	GetDashboard(ctx context.Context) (*DashboardResponse, error)
}

// DashboardAlert 需要注意的日次记录
type DashboardAlert struct {
	Record   domain.DailyRecord  `json:"record"`
	Resident *domain.ResidentRef `json:"resident"`
	Flags    []string            `json:"flags"`
}

// DashboardResponse 仪表盘响应
type DashboardResponse struct {
	Date             string                `json:"date"` // YYYY-MM-DD（JST）
	TodayRecordCount int                   `json:"today_record_count"`
	TodayChatCount   int                   `json:"today_chat_count"`
	Alerts           []DashboardAlert      `json:"alerts"`
	Timeline         []domain.TimelineItem `json:"timeline"`
}

type dashboardService struct {
	dailyRecordsRepo repository.DailyRecordsRepository
	chatLogsRepo     repository.ChatLogsRepository
	clock            Clock
	logger           *zap.Logger
}

// NewDashboardService clock 为 nil 时使用 time.Now
func NewDashboardService(
	dailyRecordsRepo repository.DailyRecordsRepository,
	chatLogsRepo repository.ChatLogsRepository,
	clock Clock,
	logger *zap.Logger,
) DashboardService {
	if clock == nil {
		clock = time.Now
	}
	return &dashboardService{
		dailyRecordsRepo: dailyRecordsRepo,
		chatLogsRepo:     chatLogsRepo,
		clock:            clock,
		logger:           logger,
	}
}

// TodayRangeJST 当天（JST）[00:00:00, 23:59:59.999999999]
func TodayRangeJST(now time.Time) (time.Time, time.Time) {
	n := now.In(chatwork.JST)
	start := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, chatwork.JST)
	return start, start.Add(24*time.Hour - time.Nanosecond)
}

func (s *dashboardService) GetDashboard(ctx context.Context) (*DashboardResponse, error) {
	start, end := TodayRangeJST(s.clock())

	var (
		todayRecords  []domain.DailyRecordWithResident
		todayLogs     []domain.ChatLogWithResident
		latestRecords []domain.DailyRecordWithResident
		latestLogs    []domain.ChatLogWithResident
	)

	// 四个查询互不依赖
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		todayRecords, err = s.dailyRecordsRepo.ListDailyRecordsBetween(gctx, start, end)
		return err
	})
	g.Go(func() (err error) {
		todayLogs, err = s.chatLogsRepo.ListChatLogsBetween(gctx, start, end)
		return err
	})
	g.Go(func() (err error) {
		latestRecords, err = s.dailyRecordsRepo.ListLatestDailyRecords(gctx, dashboardTimelineLimit)
		return err
	})
	g.Go(func() (err error) {
		latestLogs, err = s.chatLogsRepo.ListLatestChatLogs(gctx, dashboardTimelineLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to load dashboard", zap.Error(err))
		return nil, err
	}

	alerts := make([]DashboardAlert, 0)
	for _, r := range todayRecords {
		flags := AlertFlags(r.DailyRecord)
		if len(flags) == 0 {
			continue
		}
		alerts = append(alerts, DashboardAlert{
			Record:   r.DailyRecord,
			Resident: residentRef(r.UserID, r.ResidentName, r.BuildingRoom),
			Flags:    flags,
		})
	}

	return &DashboardResponse{
		Date:             start.Format("2006-01-02"),
		TodayRecordCount: len(todayRecords),
		TodayChatCount:   len(todayLogs),
		Alerts:           alerts,
		Timeline:         facilityTimeline(latestRecords, latestLogs, dashboardTimelineLimit),
	}, nil
}

// AlertFlags 体温 ≥ 37.0 或 收缩压 ≥ 140 时返回对应标签
func AlertFlags(r domain.DailyRecord) []string {
	var flags []string
	if r.BodyTemp != nil && *r.BodyTemp >= alertBodyTemp {
		flags = append(flags, "体温 "+strconv.FormatFloat(*r.BodyTemp, 'f', -1, 64)+"℃")
	}
	if r.BPHigh != nil && *r.BPHigh >= alertBPHigh {
		flags = append(flags, "血圧（上） "+strconv.Itoa(*r.BPHigh))
	}
	return flags
}

// facilityTimeline 施設全体タイムライン：合并后取前 limit 条，附带入居者信息
func facilityTimeline(records []domain.DailyRecordWithResident, logs []domain.ChatLogWithResident, limit int) []domain.TimelineItem {
	items := make([]domain.TimelineItem, 0, len(records)+len(logs))
	for i := range records {
		r := &records[i]
		items = append(items, domain.TimelineItem{
			Type:        domain.TimelineDailyRecord,
			Time:        r.RecordTime,
			DailyRecord: &r.DailyRecord,
			Resident:    residentRef(r.UserID, r.ResidentName, r.BuildingRoom),
		})
	}
	for i := range logs {
		l := &logs[i]
		items = append(items, domain.TimelineItem{
			Type:     domain.TimelineChatLog,
			Time:     l.SendTime,
			ChatLog:  &l.ChatLog,
			Resident: residentRef(l.UserID, l.ResidentName, l.BuildingRoom),
		})
	}
	sortTimeline(items)
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func residentRef(id string, name, room *string) *domain.ResidentRef {
	ref := &domain.ResidentRef{ID: id, Name: "不明", BuildingRoom: room}
	if name != nil && *name != "" {
		ref.Name = *name
	}
	return ref
}
