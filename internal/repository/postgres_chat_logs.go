package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nerufirm/appneruf/internal/domain"
)

// upsertChunkSize 单条 INSERT 的最大行数（6 列 × 500 行，远低于 65535 个参数上限）
const upsertChunkSize = 500

// PostgresChatLogsRepository 聊天记录Repository实现
type PostgresChatLogsRepository struct {
	db *sqlx.DB
}

// NewPostgresChatLogsRepository 创建聊天记录Repository
func NewPostgresChatLogsRepository(db *sqlx.DB) *PostgresChatLogsRepository {
	return &PostgresChatLogsRepository{db: db}
}

var _ ChatLogsRepository = (*PostgresChatLogsRepository)(nil)

// UpsertChatLogs 按 id 幂等写入：已存在的 id 覆盖全部字段，新 id 插入
// 调用方需保证同一批次内 id 不重复（同一语句无法两次更新同一行）
func (r *PostgresChatLogsRepository) UpsertChatLogs(ctx context.Context, logs []domain.ChatLog) error {
	if len(logs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for start := 0; start < len(logs); start += upsertChunkSize {
		end := start + upsertChunkSize
		if end > len(logs) {
			end = len(logs)
		}
		query, args := buildChatLogUpsert(logs[start:end])
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to upsert chat logs: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chat logs: %w", err)
	}
	return nil
}

func buildChatLogUpsert(logs []domain.ChatLog) (string, []any) {
	const cols = 6
	var b strings.Builder
	b.WriteString(`INSERT INTO chat_logs (id, user_id, staff_name, message, send_time, category_tag) VALUES `)

	args := make([]any, 0, len(logs)*cols)
	for i, l := range logs {
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * cols
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6)
		args = append(args, l.ID, l.UserID, l.StaffName, l.Message, l.SendTime, string(l.CategoryTag))
	}

	b.WriteString(` ON CONFLICT (id) DO UPDATE SET
		user_id = EXCLUDED.user_id,
		staff_name = EXCLUDED.staff_name,
		message = EXCLUDED.message,
		send_time = EXCLUDED.send_time,
		category_tag = EXCLUDED.category_tag`)

	return b.String(), args
}

// ListChatLogsByResident 按 send_time 倒序
func (r *PostgresChatLogsRepository) ListChatLogsByResident(ctx context.Context, residentID string, limit int) ([]domain.ChatLog, error) {
	query := `
		SELECT id, user_id, staff_name, message, send_time, category_tag
		FROM chat_logs
		WHERE user_id = $1
		ORDER BY send_time DESC
		LIMIT $2
	`
	var logs []domain.ChatLog
	if err := r.db.SelectContext(ctx, &logs, query, residentID, limit); err != nil {
		return nil, fmt.Errorf("failed to list chat logs: %w", err)
	}
	return logs, nil
}

const chatLogWithResidentColumns = `
	c.id, c.user_id, c.staff_name, c.message, c.send_time, c.category_tag,
	r.name AS resident_name, r.building_room
`

// ListChatLogsBetween [start, end] 区间内的记录（含入居者信息）
func (r *PostgresChatLogsRepository) ListChatLogsBetween(ctx context.Context, start, end time.Time) ([]domain.ChatLogWithResident, error) {
	query := `SELECT ` + chatLogWithResidentColumns + `
		FROM chat_logs c
		LEFT JOIN residents r ON r.id = c.user_id
		WHERE c.send_time >= $1 AND c.send_time <= $2
		ORDER BY c.send_time DESC
	`
	var logs []domain.ChatLogWithResident
	if err := r.db.SelectContext(ctx, &logs, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to list chat logs between: %w", err)
	}
	return logs, nil
}

// ListLatestChatLogs 最新 limit 条（含入居者信息）
func (r *PostgresChatLogsRepository) ListLatestChatLogs(ctx context.Context, limit int) ([]domain.ChatLogWithResident, error) {
	query := `SELECT ` + chatLogWithResidentColumns + `
		FROM chat_logs c
		LEFT JOIN residents r ON r.id = c.user_id
		ORDER BY c.send_time DESC
		LIMIT $1
	`
	var logs []domain.ChatLogWithResident
	if err := r.db.SelectContext(ctx, &logs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list latest chat logs: %w", err)
	}
	return logs, nil
}
