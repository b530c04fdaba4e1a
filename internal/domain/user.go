package domain

import (
	"database/sql"
)

// 用户角色
const (
	RoleContact    = "contact"
	RoleSubscriber = "subscriber"
	RoleAssisted   = "assisted"
	RoleAttendant  = "attendant"
)

// 通知渠道（receipt_type）
const (
	ReceiptWhatsApp = 1
	ReceiptSMS      = 2
	ReceiptAll      = 3
)

// User 用户领域模型（对应 elderly_care.users 表）
// 所有角色（subscriber/contact/assisted/attendant）共用一行 users 记录，
// 角色专有数据在 clients / attendants 表。
type User struct {
	ID           int            `db:"id"`
	Name         string         `db:"name"`          // NOT NULL
	Email        sql.NullString `db:"email"`         // unique, nullable（assisted/contact 可为空）
	Phone        string         `db:"phone"`         // unique, NOT NULL
	Role         string         `db:"role"`          // NOT NULL
	Active       bool           `db:"active"`
	PasswordHash sql.NullString `db:"password_hash"` // bcrypt, nullable
	ReceiptType  sql.NullInt32  `db:"receipt_type"`  // 1 WhatsApp, 2 SMS, 3 全部渠道

	// 通知窗口（HH:MM，迁移 0001 附带 CHECK 约束）
	NotificationStartTime sql.NullString `db:"notification_start_time"`
	NotificationEndTime   sql.NullString `db:"notification_end_time"`
	PausedUntil           sql.NullTime   `db:"paused_until"`

	AuditFields
}
