package repository

import (
	"context"
	"time"

	"github.com/nerufirm/appneruf/internal/domain"
)

// ChatLogsRepository 聊天记录Repository接口
type ChatLogsRepository interface {
	// UpsertChatLogs 按 id 插入或覆盖，整批在同一事务中提交
	UpsertChatLogs(ctx context.Context, logs []domain.ChatLog) error
	ListChatLogsByResident(ctx context.Context, residentID string, limit int) ([]domain.ChatLog, error)
	ListChatLogsBetween(ctx context.Context, start, end time.Time) ([]domain.ChatLogWithResident, error)
	ListLatestChatLogs(ctx context.Context, limit int) ([]domain.ChatLogWithResident, error)
}
