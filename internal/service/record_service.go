package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nerufirm/appneruf/internal/chatwork"
	"github.com/nerufirm/appneruf/internal/domain"
	"github.com/nerufirm/appneruf/internal/repository"
)

// ErrInvalidRecord 日次记录输入不合法
var ErrInvalidRecord = errors.New("invalid daily record")

// RecordService 日次记录录入
type RecordService interface {
	CreateDailyRecord(ctx context.Context, req CreateDailyRecordRequest) (*CreateDailyRecordResponse, error)
}

// CreateDailyRecordRequest 录入请求；数值项为空表示未测量
type CreateDailyRecordRequest struct {
	ResidentID     string   `json:"-" validate:"required"`
	StaffID        string   `json:"-"`
	RecordTime     string   `json:"record_time" validate:"required"`
	BodyTemp       *float64 `json:"body_temp" validate:"omitempty,gte=30,lte=45"`
	BPHigh         *int     `json:"bp_high" validate:"omitempty,gte=0,lte=300"`
	BPLow          *int     `json:"bp_low" validate:"omitempty,gte=0,lte=300"`
	Pulse          *int     `json:"pulse" validate:"omitempty,gte=0,lte=200"`
	SpO2           *int     `json:"spo2" validate:"omitempty,gte=50,lte=100"`
	ExcretionUrine *string  `json:"excretion_urine" validate:"omitempty,max=200"`
	MealAmount     *string  `json:"meal_amount" validate:"omitempty,max=200"`
}

// CreateDailyRecordResponse 录入响应
type CreateDailyRecordResponse struct {
	Record domain.DailyRecord `json:"record"`
}

type recordService struct {
	residentsRepo    repository.ResidentsRepository
	dailyRecordsRepo repository.DailyRecordsRepository
	validate         *validator.Validate
	logger           *zap.Logger
}

// NewRecordService 创建 RecordService 实例
func NewRecordService(
	residentsRepo repository.ResidentsRepository,
	dailyRecordsRepo repository.DailyRecordsRepository,
	logger *zap.Logger,
) RecordService {
	return &recordService{
		residentsRepo:    residentsRepo,
		dailyRecordsRepo: dailyRecordsRepo,
		validate:         validator.New(),
		logger:           logger,
	}
}

// ParseRecordTime 接受 RFC3339，或不带偏移的 YYYY-MM-DDTHH:MM[:SS]（按 JST 解释）
func ParseRecordTime(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return chatwork.ParseJSTTimestamp(s)
}

func (s *recordService) CreateDailyRecord(ctx context.Context, req CreateDailyRecordRequest) (*CreateDailyRecordResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("%w: %s failed on %s", ErrInvalidRecord, verrs[0].Field(), verrs[0].Tag())
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	recordTime, ok := ParseRecordTime(req.RecordTime)
	if !ok {
		return nil, fmt.Errorf("%w: record_time %q", ErrInvalidRecord, req.RecordTime)
	}

	// 入居者不存在时返回 ErrNotFound
	if _, err := s.residentsRepo.GetResident(ctx, req.ResidentID); err != nil {
		return nil, err
	}

	record := domain.DailyRecord{
		ID:             uuid.NewString(),
		UserID:         req.ResidentID,
		StaffID:        optionalString(&req.StaffID),
		RecordTime:     recordTime,
		BodyTemp:       req.BodyTemp,
		BPHigh:         req.BPHigh,
		BPLow:          req.BPLow,
		Pulse:          req.Pulse,
		SpO2:           req.SpO2,
		ExcretionUrine: optionalString(req.ExcretionUrine),
		MealAmount:     optionalString(req.MealAmount),
	}
	if err := s.dailyRecordsRepo.CreateDailyRecord(ctx, &record); err != nil {
		s.logger.Error("Failed to create daily record",
			zap.String("resident_id", req.ResidentID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Daily record created",
		zap.String("record_id", record.ID),
		zap.String("resident_id", record.UserID),
	)
	return &CreateDailyRecordResponse{Record: record}, nil
}

// optionalString 空白字符串视为未填写
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
