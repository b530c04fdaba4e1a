package service

import (
	"context"
	"database/sql"
	"time"

	"eldercare-data/internal/notify"
	"eldercare-data/internal/repository"

	"go.uber.org/zap"
)

// NotificationService 消息通知服务：在用户的接收窗口内下发消息
type NotificationService interface {
	// NotifyUser 给用户下发一条消息。窗口外或暂停中的用户静默跳过，返回 (false, nil)。
	NotifyUser(ctx context.Context, userID int, body string) (bool, error)
}

type notificationService struct {
	db     *sql.DB
	users  repository.UsersRepository
	sender notify.Sender
	logger *zap.Logger
	now    func() time.Time
}

func NewNotificationService(db *sql.DB, users repository.UsersRepository, sender notify.Sender, logger *zap.Logger) NotificationService {
	return &notificationService{
		db:     db,
		users:  users,
		sender: sender,
		logger: logger,
		now:    time.Now,
	}
}

func (s *notificationService) NotifyUser(ctx context.Context, userID int, body string) (bool, error) {
	user, err := s.users.GetUser(ctx, s.db, userID)
	if err != nil {
		return false, err
	}
	window, err := s.users.GetNotificationWindow(ctx, s.db, userID)
	if err != nil {
		return false, err
	}

	now := s.now()
	if window.PausedUntil != nil && now.Before(*window.PausedUntil) {
		s.logger.Info("notification skipped: user paused",
			zap.Int("user_id", userID),
			zap.Time("paused_until", *window.PausedUntil))
		return false, nil
	}
	if !withinWindow(now, window.StartTime, window.EndTime) {
		s.logger.Info("notification skipped: outside window",
			zap.Int("user_id", userID),
			zap.String("start", window.StartTime),
			zap.String("end", window.EndTime))
		return false, nil
	}

	if err := s.sender.Send(ctx, user, body); err != nil {
		return false, err
	}
	return true, nil
}

// withinWindow 判断 now 是否落在 [start, end] 内。窗口跨午夜时（end < start）
// 按两段处理：start..24:00 与 00:00..end。
func withinWindow(now time.Time, start, end string) bool {
	cur := now.Hour()*60 + now.Minute()
	s := parseMinutes(start)
	e := parseMinutes(end)
	if s < 0 || e < 0 {
		return true
	}
	if s <= e {
		return cur >= s && cur <= e
	}
	return cur >= s || cur <= e
}

func parseMinutes(hhmm string) int {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}
