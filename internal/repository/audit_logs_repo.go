package repository

import (
	"context"
	"database/sql"

	"eldercare-data/internal/domain"
)

// AuditLogsRepository 审计日志 Repository 接口
// temp_audit_logs 由数据库触发器写入；这里只负责搬运与查询
type AuditLogsRepository interface {
	// DrainTempLogs 原子地取走一批暂存日志并写入 audit_logs（单事务），
	// 返回搬运的行数。没有待处理日志时返回 0。
	DrainTempLogs(ctx context.Context, db *sql.DB, limit int) (int, error)
	ListAuditLogs(ctx context.Context, q Querier, tableName string, limit int) ([]*domain.AuditLog, error)
}
