package httpapi

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/nerufirm/appneruf/internal/domain"
	"github.com/nerufirm/appneruf/internal/service"
)

// StaffCookieName 职员会话 Cookie
const StaffCookieName = "appsheetto_staff"

type staffCtxKey struct{}

// StaffFromContext 由 requireStaff 写入的当前职员
func StaffFromContext(ctx context.Context) (*domain.StaffSession, bool) {
	s, ok := ctx.Value(staffCtxKey{}).(*domain.StaffSession)
	return s, ok && s != nil
}

func sessionID(r *http.Request) string {
	c, err := r.Cookie(StaffCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// requireStaff 未登录返回 401
func requireStaff(auth service.AuthService, logger *zap.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staff, err := auth.CurrentStaff(r.Context(), sessionID(r))
		if err != nil {
			if !errors.Is(err, service.ErrUnauthorized) {
				logger.Error("Failed to load staff session", zap.Error(err))
			}
			writeJSON(w, http.StatusUnauthorized, Unauthorized("login required"))
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), staffCtxKey{}, staff)))
	}
}
