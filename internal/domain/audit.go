package domain

import (
	"database/sql"
	"time"
)

// AuditFields 审计字段（所有 elderly_care 表共有）
// created_by / user_ip 由请求方提供（X-User-Id header + 客户端 IP）
type AuditFields struct {
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
	CreatedBy int            `db:"created_by"` // NOT NULL
	UpdatedBy sql.NullInt32  `db:"updated_by"` // nullable
	UserIP    sql.NullString `db:"user_ip"`    // nullable
}

// AuditContext 一次请求的审计上下文（操作者 + 来源 IP）
type AuditContext struct {
	ActorID int
	UserIP  string
}
