package service

import (
	"context"
	"testing"
	"time"

	"eldercare-data/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuditLogProcessor_DrainOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`DELETE FROM elderly_care\.temp_audit_logs`).
		WithArgs(500).
		WillReturnRows(sqlmock.NewRows([]string{
			"table_name", "action", "record_id", "user_id", "old_data", "new_data", "user_ip", "timestamp",
		}).
			AddRow("users", "INSERT", 10, 9, nil, `{"id":10}`, "10.0.0.1", now).
			AddRow("teams", "UPDATE", 2, 9, `{"team_id":2}`, `{"team_id":2}`, "10.0.0.1", now))
	mock.ExpectExec(`INSERT INTO elderly_care\.audit_logs`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO elderly_care\.audit_logs`).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	p := NewAuditLogProcessor(db, repository.NewPostgresAuditLogsRepo(), time.Minute, 500, zap.NewNop())
	n, err := p.DrainOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogProcessor_DrainOnceEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`DELETE FROM elderly_care\.temp_audit_logs`).
		WithArgs(500).
		WillReturnRows(sqlmock.NewRows([]string{
			"table_name", "action", "record_id", "user_id", "old_data", "new_data", "user_ip", "timestamp",
		}))
	mock.ExpectCommit()

	p := NewAuditLogProcessor(db, repository.NewPostgresAuditLogsRepo(), time.Minute, 500, zap.NewNop())
	n, err := p.DrainOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogProcessor_RunStopsOnCancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// 第一轮 drain
	mock.ExpectBegin()
	mock.ExpectQuery(`DELETE FROM elderly_care\.temp_audit_logs`).
		WithArgs(500).
		WillReturnRows(sqlmock.NewRows([]string{
			"table_name", "action", "record_id", "user_id", "old_data", "new_data", "user_ip", "timestamp",
		}))
	mock.ExpectCommit()

	p := NewAuditLogProcessor(db, repository.NewPostgresAuditLogsRepo(), time.Hour, 500, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("processor did not stop after cancel")
	}
}
