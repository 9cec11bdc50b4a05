package store

import (
	"context"
	"fmt"

	commonredis "github.com/nerufirm/appneruf/internal/common/redis"
	"github.com/nerufirm/appneruf/internal/domain"
)

// DefaultSyncStream 同步事件流名称
const DefaultSyncStream = "chatwork:sync:events"

// SyncStreamPublisher 将同步结果写入 Redis Streams
type SyncStreamPublisher struct {
	client commonredis.StreamAdder
	stream string
}

func NewSyncStreamPublisher(client commonredis.StreamAdder, stream string) *SyncStreamPublisher {
	if stream == "" {
		stream = DefaultSyncStream
	}
	return &SyncStreamPublisher{client: client, stream: stream}
}

func (p *SyncStreamPublisher) NotifySync(ctx context.Context, event domain.SyncEvent) error {
	if event.MessageIDs == nil {
		event.MessageIDs = []string{}
	}
	if _, err := commonredis.PublishJSONToStream(ctx, p.client, p.stream, event); err != nil {
		return fmt.Errorf("failed to publish sync event to %s: %w", p.stream, err)
	}
	return nil
}
