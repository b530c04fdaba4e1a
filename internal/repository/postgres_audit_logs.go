package repository

import (
	"context"
	"database/sql"

	"eldercare-data/internal/domain"
)

// PostgresAuditLogsRepo 审计日志 Repository 实现
type PostgresAuditLogsRepo struct{}

func NewPostgresAuditLogsRepo() *PostgresAuditLogsRepo { return &PostgresAuditLogsRepo{} }

var _ AuditLogsRepository = (*PostgresAuditLogsRepo)(nil)

// DrainTempLogs 把 temp_audit_logs 的一批行搬到 audit_logs。
// DELETE ... RETURNING + INSERT 在同一事务内，失败则整体回滚，日志不会丢。
func (r *PostgresAuditLogsRepo) DrainTempLogs(ctx context.Context, db *sql.DB, limit int) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, `
		DELETE FROM elderly_care.temp_audit_logs
		WHERE temp_audit_id IN (
			SELECT temp_audit_id
			FROM elderly_care.temp_audit_logs
			ORDER BY temp_audit_id
			LIMIT $1
		)
		RETURNING table_name, action, record_id, user_id, old_data, new_data, user_ip, timestamp
	`, limit)
	if err != nil {
		return 0, err
	}

	var batch []*domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		if err := rows.Scan(
			&l.TableName,
			&l.Action,
			&l.RecordID,
			&l.UserID,
			&l.OldData,
			&l.NewData,
			&l.UserIP,
			&l.Timestamp,
		); err != nil {
			rows.Close()
			return 0, err
		}
		batch = append(batch, &l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	if len(batch) == 0 {
		return 0, tx.Commit()
	}

	for _, l := range batch {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO elderly_care.audit_logs (
				table_name, action, record_id, user_id, old_data, new_data, user_ip, timestamp
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, l.TableName, l.Action, l.RecordID, l.UserID, l.OldData, l.NewData, l.UserIP, l.Timestamp); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(batch), nil
}

func (r *PostgresAuditLogsRepo) ListAuditLogs(ctx context.Context, q Querier, tableName string, limit int) ([]*domain.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := q.QueryContext(ctx, `
		SELECT audit_id, table_name, action, record_id, user_id, old_data, new_data, user_ip, timestamp
		FROM elderly_care.audit_logs
		WHERE ($1 = '' OR table_name = $1)
		ORDER BY audit_id DESC
		LIMIT $2
	`, tableName, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		if err := rows.Scan(
			&l.ID,
			&l.TableName,
			&l.Action,
			&l.RecordID,
			&l.UserID,
			&l.OldData,
			&l.NewData,
			&l.UserIP,
			&l.Timestamp,
		); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
