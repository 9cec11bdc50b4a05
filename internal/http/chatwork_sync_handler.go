package httpapi

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/nerufirm/appneruf/internal/chatwork"
	"github.com/nerufirm/appneruf/internal/domain"
	"github.com/nerufirm/appneruf/internal/service"
)

const (
	// WebhookSecretHeader 共享密钥请求头
	WebhookSecretHeader = "X-Webhook-Secret"
	maxSyncBodyBytes    = 10 << 20
)

// syncResponse 同步接口响应（该接口不使用 Result 包装）
type syncResponse struct {
	Message      string   `json:"message"`
	Inserted     int      `json:"inserted"`
	Skipped      int      `json:"skipped"`
	SkippedNames []string `json:"skippedNames"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ChatworkSyncHandler 外部聊天集成推送入口
type ChatworkSyncHandler struct {
	sync   *service.ChatworkSyncService
	secret string
	logger *zap.Logger
}

func NewChatworkSyncHandler(sync *service.ChatworkSyncService, secret string, logger *zap.Logger) *ChatworkSyncHandler {
	return &ChatworkSyncHandler{sync: sync, secret: secret, logger: logger}
}

// authorized 未配置密钥时一律拒绝
func (h *ChatworkSyncHandler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return false
	}
	got := r.Header.Get(WebhookSecretHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) == 1
}

func (h *ChatworkSyncHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !h.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}

	body, err := readBody(r, maxSyncBodyBytes)
	if err != nil {
		h.logger.Warn("Failed to read chatwork sync body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
		return
	}
	entries, err := chatwork.DecodeChatEntries(body)
	if err != nil {
		h.logger.Warn("Malformed chatwork sync envelope", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON body"})
		return
	}
	if len(entries) == 0 {
		writeJSON(w, http.StatusOK, syncResponse{Message: "No entries to process", SkippedNames: []string{}})
		return
	}

	report, err := h.sync.Sync(r.Context(), domain.SyncSourceWebhook, entries)
	if err != nil {
		h.logger.Error("Chatwork sync failed", zap.Error(err))
		msg := "Sync failed: " + err.Error()
		switch {
		case errors.Is(err, service.ErrNameMapLoad):
			msg = "名寄せマップの読み込みに失敗: " + err.Error()
		case errors.Is(err, service.ErrUpsert):
			msg = "Upsert failed: " + err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, syncResponse{
		Message:      "Sync complete",
		Inserted:     report.Inserted,
		Skipped:      report.Skipped,
		SkippedNames: report.SkippedNames,
	})
}
