package domain

import (
	"database/sql"
	"time"
)

// AuditLog 审计日志行（elderly_care.temp_audit_logs / audit_logs 共用同一形状）
// temp_audit_logs 由数据库触发器写入，后台处理器搬运到 audit_logs
type AuditLog struct {
	ID        int            `db:"audit_id"`
	TableName string         `db:"table_name"`
	Action    string         `db:"action"` // INSERT / UPDATE / DELETE
	RecordID  sql.NullInt32  `db:"record_id"`
	UserID    sql.NullInt32  `db:"user_id"`
	OldData   sql.NullString `db:"old_data"` // JSON
	NewData   sql.NullString `db:"new_data"` // JSON
	UserIP    sql.NullString `db:"user_ip"`
	Timestamp time.Time      `db:"timestamp"`
}
