package repository

import (
	"context"
	"time"

	"eldercare-data/internal/domain"
)

// UsersRepository 用户 Repository 接口
type UsersRepository interface {
	GetUser(ctx context.Context, q Querier, userID int) (*domain.User, error)
	GetUserByEmail(ctx context.Context, q Querier, email string) (*domain.User, error)
	GetUserByPhone(ctx context.Context, q Querier, phone string) (*domain.User, error)
	CreateUser(ctx context.Context, q Querier, u *domain.User, audit domain.AuditContext) (int, error)
	UpdateUser(ctx context.Context, q Querier, userID int, upd UserUpdate, audit domain.AuditContext) error
	DeleteUser(ctx context.Context, q Querier, userID int) error

	// 通知窗口
	GetNotificationWindow(ctx context.Context, q Querier, userID int) (*NotificationWindow, error)
	UpdateNotificationWindow(ctx context.Context, q Querier, userID int, w NotificationWindow, audit domain.AuditContext) error
}

// UserUpdate 用户字段更新白名单
type UserUpdate struct {
	Email       *string
	Phone       *string
	ReceiptType *int
	Active      *bool
}

// NotificationWindow 通知窗口设置（users 表上的三个字段）
type NotificationWindow struct {
	StartTime   string     `json:"notification_start_time"` // HH:MM
	EndTime     string     `json:"notification_end_time"`   // HH:MM
	PausedUntil *time.Time `json:"paused_until,omitempty"`
}
