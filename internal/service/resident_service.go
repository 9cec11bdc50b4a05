package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nerufirm/appneruf/internal/domain"
	"github.com/nerufirm/appneruf/internal/repository"
)

// 入居者详情中时间线的读取上限（各来源分别计）
const residentTimelineLimit = 100

// ResidentService 入居者查询服务接口
type ResidentService interface {
	ListResidents(ctx context.Context, req ListResidentsRequest) (*ListResidentsResponse, error)
	GetResidentDetail(ctx context.Context, req GetResidentDetailRequest) (*GetResidentDetailResponse, error)
}

type residentService struct {
	residentsRepo    repository.ResidentsRepository
	dailyRecordsRepo repository.DailyRecordsRepository
	chatLogsRepo     repository.ChatLogsRepository
	logger           *zap.Logger
}

// NewResidentService 创建 ResidentService 实例
func NewResidentService(
	residentsRepo repository.ResidentsRepository,
	dailyRecordsRepo repository.DailyRecordsRepository,
	chatLogsRepo repository.ChatLogsRepository,
	logger *zap.Logger,
) ResidentService {
	return &residentService{
		residentsRepo:    residentsRepo,
		dailyRecordsRepo: dailyRecordsRepo,
		chatLogsRepo:     chatLogsRepo,
		logger:           logger,
	}
}

// ============================================
// Request/Response DTOs
// ============================================

// ListResidentsRequest 查询入居者列表请求
type ListResidentsRequest struct {
	Search string // 姓名或房间的部分一致
	All    bool   // true 时包含入院/退所/空床
}

// ListResidentsResponse 查询入居者列表响应
type ListResidentsResponse struct {
	Items []domain.ResidentSummary `json:"items"`
	Total int                      `json:"total"`
}

// GetResidentDetailRequest 查询入居者详情请求
type GetResidentDetailRequest struct {
	ResidentID string
	Category   TimelineFilter
}

// GetResidentDetailResponse 入居者详情响应
type GetResidentDetailResponse struct {
	Resident         *domain.Resident         `json:"resident"`
	MedicalHistories []domain.MedicalHistory `json:"medical_histories"`
	Medications      []domain.Medication      `json:"medications"`
	Timeline         []domain.TimelineItem    `json:"timeline"`
	Category         TimelineFilter           `json:"category"`
}

// ============================================
// 实现
// ============================================

func (s *residentService) ListResidents(ctx context.Context, req ListResidentsRequest) (*ListResidentsResponse, error) {
	residents, err := s.residentsRepo.ListResidents(ctx, repository.ResidentFilters{Search: strings.TrimSpace(req.Search)})
	if err != nil {
		return nil, err
	}

	items := make([]domain.ResidentSummary, 0, len(residents))
	for _, r := range residents {
		if !req.All && r.IsHiddenByDefault() {
			continue
		}
		items = append(items, r)
	}
	return &ListResidentsResponse{Items: items, Total: len(items)}, nil
}

func (s *residentService) GetResidentDetail(ctx context.Context, req GetResidentDetailRequest) (*GetResidentDetailResponse, error) {
	if req.ResidentID == "" {
		return nil, fmt.Errorf("resident_id is required: %w", repository.ErrNotFound)
	}
	filter := req.Category
	if filter == "" {
		filter = TimelineFilterAll
	}

	resp := &GetResidentDetailResponse{Category: filter}
	var (
		records []domain.DailyRecord
		logs    []domain.ChatLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.residentsRepo.GetResident(gctx, req.ResidentID)
		resp.Resident = r
		return err
	})
	g.Go(func() error {
		h, err := s.residentsRepo.ListMedicalHistories(gctx, req.ResidentID)
		resp.MedicalHistories = h
		return err
	})
	g.Go(func() error {
		m, err := s.residentsRepo.ListMedications(gctx, req.ResidentID)
		resp.Medications = m
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.dailyRecordsRepo.ListDailyRecordsByResident(gctx, req.ResidentID, residentTimelineLimit)
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = s.chatLogsRepo.ListChatLogsByResident(gctx, req.ResidentID, residentTimelineLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if resp.MedicalHistories == nil {
		resp.MedicalHistories = []domain.MedicalHistory{}
	}
	if resp.Medications == nil {
		resp.Medications = []domain.Medication{}
	}
	resp.Timeline = FilterTimeline(MergeTimeline(records, logs), filter)
	return resp, nil
}
