package domain

// SyncSource 同步请求来源
type SyncSource string

const (
	SyncSourceWebhook SyncSource = "webhook"
	SyncSourceMQTT    SyncSource = "mqtt"
)

// SyncEvent 一次成功提交的同步批次（写入 Redis Streams 供下游消费）
type SyncEvent struct {
	Source     SyncSource `json:"source"`
	Inserted   int        `json:"inserted"`
	Skipped    int        `json:"skipped"`
	MessageIDs []string   `json:"message_ids"`
}
