package httpapi

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nerufirm/appneruf/internal/service"
)

// AuthHandler 职员登录/登出
type AuthHandler struct {
	auth       service.AuthService
	sessionTTL time.Duration
	secure     bool
	logger     *zap.Logger
}

func NewAuthHandler(auth service.AuthService, sessionTTL time.Duration, secureCookie bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessionTTL: sessionTTL, secure: secureCookie, logger: logger}
}

// ListStaff GET /api/staff（登录前的姓名选择）
func (h *AuthHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	staff, err := h.auth.ListStaff(r.Context())
	if err != nil {
		h.logger.Error("Failed to list staff", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to list staff"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(staff))
}

// Login POST /api/login {staff_id}
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req service.LoginRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}

	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			writeJSON(w, http.StatusUnauthorized, Unauthorized("unknown staff"))
			return
		}
		h.logger.Error("Failed to login", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to login"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     StaffCookieName,
		Value:    resp.SessionID,
		Path:     "/",
		MaxAge:   int(h.sessionTTL / time.Second),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, Ok(resp.Staff))
}

// Logout POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := h.auth.Logout(r.Context(), sessionID(r)); err != nil {
		h.logger.Warn("Failed to delete session", zap.Error(err))
	}
	http.SetCookie(w, &http.Cookie{
		Name:     StaffCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

// Me GET /api/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	staff, _ := StaffFromContext(r.Context())
	writeJSON(w, http.StatusOK, Ok(staff))
}
