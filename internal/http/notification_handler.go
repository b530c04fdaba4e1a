package httpapi

import (
	"net/http"

	"eldercare-data/internal/service"

	"go.uber.org/zap"
)

// NotificationsHandler 消息下发 Handler
type NotificationsHandler struct {
	notifications service.NotificationService
	logger        *zap.Logger
}

func NewNotificationsHandler(notifications service.NotificationService, logger *zap.Logger) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications, logger: logger}
}

// ServeHTTP POST /api/v1/notifications — 给单个用户下发消息，
// 尊重用户的接收窗口与暂停设置。
func (h *NotificationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		UserID int    `json:"user_id"`
		Body   string `json:"body"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}
	if payload.UserID == 0 || payload.Body == "" {
		writeDetail(w, http.StatusBadRequest, "user_id and body are required")
		return
	}

	sent, err := h.notifications.NotifyUser(r.Context(), payload.UserID, payload.Body)
	if err != nil {
		h.logger.Warn("NotifyUser failed", zap.Int("user_id", payload.UserID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"sent": sent})
}
