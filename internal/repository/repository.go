package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Querier 是 *sql.DB 与 *sql.Tx 的公共子集。
// Repository 方法全部基于 Querier：事务边界由调用方（service 层）控制，
// repository 本身从不 Commit/Rollback。
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// ErrNotFound 统一的未找到错误（包装 sql.ErrNoRows）
var ErrNotFound = sql.ErrNoRows

// IsUniqueViolation 判断是否为唯一约束冲突（PostgreSQL 23505）。
// get-or-create 竞态的兜底：冲突后重查一次即可。
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
