package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nerufirm/appneruf/internal/chatwork"
	"github.com/nerufirm/appneruf/internal/domain"
)

// ErrUpsert 聊天记录写入失败（整批回滚）
var ErrUpsert = errors.New("chat log upsert failed")

// EmptyResidentName 姓名为空时在 skippedNames 中的占位
const EmptyResidentName = "(empty)"

// ChatLogWriter 聊天记录写入端（repository.ChatLogsRepository 满足）
type ChatLogWriter interface {
	UpsertChatLogs(ctx context.Context, logs []domain.ChatLog) error
}

// SyncNotifier 同步完成后的通知（Redis Streams）
type SyncNotifier interface {
	NotifySync(ctx context.Context, event domain.SyncEvent) error
}

// NameResolver 名寄せ映射来源（*NameMapResolver 满足）
type NameResolver interface {
	Resolve(ctx context.Context) (*NameMap, error)
}

// OutcomeKind 单条记录的判定结果
type OutcomeKind int

const (
	OutcomeAccepted OutcomeKind = iota
	OutcomeDroppedInvalid
	OutcomeSkippedUnresolved
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeDroppedInvalid:
		return "dropped_invalid"
	case OutcomeSkippedUnresolved:
		return "skipped_unresolved"
	default:
		return "unknown"
	}
}

// EntryOutcome 根据 Kind，Record 或 OriginalName 有效
type EntryOutcome struct {
	Kind         OutcomeKind
	Record       domain.ChatLog
	OriginalName string
}

// ClassifyEntry 判定单条原始记录（纯函数，不访问存储）
//  1. message_id 或 message 为空 → DroppedInvalid
//  2. datetime 无法解析 → DroppedInvalid
//  3. 姓名无法解析为入居者 → SkippedUnresolved（保留原始姓名）
//  4. 其余 → Accepted
func ClassifyEntry(entry chatwork.RawChatEntry, names *NameMap) EntryOutcome {
	id := entry.MessageID.Trimmed()
	if id == "" || entry.Message.Trimmed() == "" {
		return EntryOutcome{Kind: OutcomeDroppedInvalid}
	}

	sendTime, ok := chatwork.ParseJSTTimestamp(string(entry.Datetime))
	if !ok {
		return EntryOutcome{Kind: OutcomeDroppedInvalid}
	}

	residentID, ok := names.Lookup(chatwork.NormalizeName(string(entry.ResidentName)))
	if !ok {
		original := string(entry.ResidentName)
		if original == "" {
			original = EmptyResidentName
		}
		return EntryOutcome{Kind: OutcomeSkippedUnresolved, OriginalName: original}
	}

	message := entry.Message.Trimmed()
	var staffName *string
	if s := entry.StaffName.Trimmed(); s != "" {
		staffName = &s
	}

	return EntryOutcome{
		Kind: OutcomeAccepted,
		Record: domain.ChatLog{
			ID:          id,
			UserID:      residentID,
			StaffName:   staffName,
			Message:     message,
			SendTime:    sendTime,
			CategoryTag: chatwork.InferCategoryTag(message),
		},
	}
}

// SyncReport 同步结果
type SyncReport struct {
	Inserted     int      `json:"inserted"`
	Skipped      int      `json:"skipped"`
	SkippedNames []string `json:"skippedNames"`
	Dropped      int      `json:"-"`
}

// ReduceOutcomes 汇总判定结果；accepted 按 id 去重（后出现者覆盖，位置保持首次出现处）
func ReduceOutcomes(outcomes []EntryOutcome) ([]domain.ChatLog, *SyncReport) {
	report := &SyncReport{SkippedNames: []string{}}
	records := make([]domain.ChatLog, 0, len(outcomes))
	index := make(map[string]int, len(outcomes))

	for _, o := range outcomes {
		switch o.Kind {
		case OutcomeAccepted:
			if i, dup := index[o.Record.ID]; dup {
				records[i] = o.Record
				continue
			}
			index[o.Record.ID] = len(records)
			records = append(records, o.Record)
		case OutcomeSkippedUnresolved:
			report.Skipped++
			report.SkippedNames = append(report.SkippedNames, o.OriginalName)
		default:
			report.Dropped++
		}
	}
	report.Inserted = len(records)
	return records, report
}

// ChatworkSyncService 外部聊天消息的规范化与入库
type ChatworkSyncService struct {
	names    NameResolver
	writer   ChatLogWriter
	notifier SyncNotifier
	logger   *zap.Logger
}

// NewChatworkSyncService notifier 可为 nil
func NewChatworkSyncService(names NameResolver, writer ChatLogWriter, notifier SyncNotifier, logger *zap.Logger) *ChatworkSyncService {
	return &ChatworkSyncService{
		names:    names,
		writer:   writer,
		notifier: notifier,
		logger:   logger,
	}
}

// Sync 处理一批原始记录
// 名册读取失败返回 ErrNameMapLoad，写入失败返回 ErrUpsert，两者均不产生部分提交
func (s *ChatworkSyncService) Sync(ctx context.Context, source domain.SyncSource, entries []chatwork.RawChatEntry) (*SyncReport, error) {
	if len(entries) == 0 {
		return &SyncReport{SkippedNames: []string{}}, nil
	}

	names, err := s.names.Resolve(ctx)
	if err != nil {
		if !errors.Is(err, ErrNameMapLoad) {
			err = fmt.Errorf("%w: %v", ErrNameMapLoad, err)
		}
		return nil, err
	}

	outcomes := make([]EntryOutcome, len(entries))
	for i, e := range entries {
		outcomes[i] = ClassifyEntry(e, names)
	}
	records, report := ReduceOutcomes(outcomes)

	if len(records) > 0 {
		if err := s.writer.UpsertChatLogs(ctx, records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpsert, err)
		}
	}

	s.logger.Info("Chatwork sync completed",
		zap.String("source", string(source)),
		zap.Int("entries", len(entries)),
		zap.Int("inserted", report.Inserted),
		zap.Int("skipped", report.Skipped),
		zap.Int("dropped", report.Dropped),
	)
	if report.Skipped > 0 {
		s.logger.Warn("Unresolved resident names in chatwork sync", zap.Strings("skipped_names", report.SkippedNames))
	}

	s.notify(ctx, source, records, report)
	return report, nil
}

func (s *ChatworkSyncService) notify(ctx context.Context, source domain.SyncSource, records []domain.ChatLog, report *SyncReport) {
	if s.notifier == nil {
		return
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	event := domain.SyncEvent{
		Source:     source,
		Inserted:   report.Inserted,
		Skipped:    report.Skipped,
		MessageIDs: ids,
	}
	if err := s.notifier.NotifySync(ctx, event); err != nil {
		s.logger.Warn("Failed to publish sync event", zap.Error(err))
	}
}
