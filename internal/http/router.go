package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/nerufirm/appneruf/internal/service"
)

// Router 使用标准库 http.ServeMux
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterHealthRoutes 存活检查
func (r *Router) RegisterHealthRoutes() {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Ok("ok"))
	})
}

// RegisterChatworkSyncRoutes 外部推送入口（共享密钥，不走职员会话）
func (r *Router) RegisterChatworkSyncRoutes(h *ChatworkSyncHandler) {
	r.HandleHandler("/api/chatwork-sync", h)
}

// RegisterAuthRoutes 职员名单与登录/登出；/api/me 需要会话
func (r *Router) RegisterAuthRoutes(h *AuthHandler, auth service.AuthService) {
	r.Handle("/api/staff", h.ListStaff)
	r.Handle("/api/login", h.Login)
	r.Handle("/api/logout", h.Logout)
	r.Handle("/api/me", requireStaff(auth, r.logger, h.Me))
	// 其余未注册的 /api/* 同样先校验会话
	r.Handle("/api/", requireStaff(auth, r.logger, http.NotFound))
}

// RegisterResidentRoutes 入居者与日次记录（需要会话）
func (r *Router) RegisterResidentRoutes(h *ResidentHandler, auth service.AuthService) {
	gated := requireStaff(auth, r.logger, h.ServeHTTP)
	r.Handle("/api/residents", gated)
	r.Handle("/api/residents/", gated)
}

// RegisterDashboardRoutes 当日概况（需要会话）
func (r *Router) RegisterDashboardRoutes(h *DashboardHandler, auth service.AuthService) {
	r.Handle("/api/dashboard", requireStaff(auth, r.logger, h.ServeHTTP))
}
