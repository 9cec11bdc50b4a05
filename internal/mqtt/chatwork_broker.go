package mqtt

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nerufirm/appneruf/internal/chatwork"
	"github.com/nerufirm/appneruf/internal/domain"
	"github.com/nerufirm/appneruf/internal/service"
)

// 单条 MQTT 消息的处理超时
const handleTimeout = 30 * time.Second

// Syncer 同步管道（*service.ChatworkSyncService 满足）
type Syncer interface {
	Sync(ctx context.Context, source domain.SyncSource, entries []chatwork.RawChatEntry) (*service.SyncReport, error)
}

// ChatworkMQTTBroker 从 MQTT 主题接收聊天推送
// payload 与 HTTP 入口相同（单个对象或对象数组），结果只记录日志
type ChatworkMQTTBroker struct {
	syncer Syncer
	logger *zap.Logger
}

// NewChatworkMQTTBroker 创建 Broker
func NewChatworkMQTTBroker(syncer Syncer, logger *zap.Logger) *ChatworkMQTTBroker {
	return &ChatworkMQTTBroker{
		syncer: syncer,
		logger: logger,
	}
}

// HandleMessage 满足 common/mqtt.MessageHandler
func (b *ChatworkMQTTBroker) HandleMessage(topic string, payload []byte) error {
	entries, err := chatwork.DecodeChatEntries(payload)
	if err != nil {
		return fmt.Errorf("topic %s: %w", topic, err)
	}
	if len(entries) == 0 {
		b.logger.Debug("Empty chatwork payload", zap.String("topic", topic))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	report, err := b.syncer.Sync(ctx, domain.SyncSourceMQTT, entries)
	if err != nil {
		return fmt.Errorf("topic %s: %w", topic, err)
	}

	b.logger.Info("MQTT chatwork payload processed",
		zap.String("topic", topic),
		zap.Int("inserted", report.Inserted),
		zap.Int("skipped", report.Skipped),
		zap.Strings("skipped_names", report.SkippedNames),
	)
	return nil
}
