package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"eldercare-data/internal/domain"
	"eldercare-data/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAssociationService(t *testing.T) (*AttendantAssociationService, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewAttendantAssociationService(
		repository.NewPostgresAttendantsRepo(),
		repository.NewPostgresTeamsRepo(),
		repository.NewPostgresSpecialtiesRepo(),
		repository.NewPostgresFunctionsRepo(),
		zap.NewNop(),
	)
	return svc, db, mock
}

func teamRows(teams ...[2]any) *sqlmock.Rows {
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"team_id", "team_name", "team_site",
		"created_at", "updated_at", "created_by", "updated_by", "user_ip",
	})
	for _, tm := range teams {
		rows.AddRow(tm[0], tm[1], "default", now, now, 1, nil, nil)
	}
	return rows
}

func specialtyRows(id int, name string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "created_at", "updated_at", "created_by", "updated_by", "user_ip",
	}).AddRow(id, name, now, now, 1, nil, nil)
}

func functionRows(id int, name, description string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"function_id", "function_name", "function_description",
		"created_at", "updated_at", "created_by", "updated_by", "user_ip",
	}).AddRow(id, name, description, now, now, 1, nil, nil)
}

func associatedIDRows(column string, ids ...int) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{column})
	for _, id := range ids {
		rows.AddRow(id)
	}
	return rows
}

var testAudit = domain.AuditContext{ActorID: 9, UserIP: "10.0.0.1"}

func TestSyncTeamAssociations_EmptyNamesIsNoOp(t *testing.T) {
	svc, db, mock := newAssociationService(t)

	require.NoError(t, svc.SyncTeamAssociations(context.Background(), db, 7, nil, testAudit))
	require.NoError(t, svc.SyncTeamAssociations(context.Background(), db, 7, []string{}, testAudit))

	// 没有设置任何期望：有任何查询发出都会失败
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncTeamAssociations_DeduplicatesAndSkipsExisting(t *testing.T) {
	svc, db, mock := newAssociationService(t)

	mock.ExpectQuery(`SELECT team_id\s+FROM elderly_care\.attendant_team`).
		WithArgs(7).
		WillReturnRows(associatedIDRows("team_id", 1))

	// "Alpha" 重复出现，只查找一次；已关联（id=1），不再插入
	mock.ExpectQuery(`FROM elderly_care\.teams\s+WHERE team_name = \$1`).
		WithArgs("Alpha").
		WillReturnRows(teamRows([2]any{1, "Alpha"}))

	// "Beta" 不存在：创建 + 插入关联
	mock.ExpectQuery(`FROM elderly_care\.teams\s+WHERE team_name = \$1`).
		WithArgs("Beta").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO elderly_care\.teams`).
		WithArgs("Beta", "default", 9, "10.0.0.1").
		WillReturnRows(teamRows([2]any{2, "Beta"}))
	mock.ExpectExec(`INSERT INTO elderly_care\.attendant_team`).
		WithArgs(7, 2, 9, "10.0.0.1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.SyncTeamAssociations(context.Background(), db, 7, []string{"Alpha", "Alpha", "Beta"}, testAudit)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncTeamAssociations_IdempotentResubmit(t *testing.T) {
	svc, db, mock := newAssociationService(t)

	mock.ExpectQuery(`SELECT team_id\s+FROM elderly_care\.attendant_team`).
		WithArgs(7).
		WillReturnRows(associatedIDRows("team_id", 1, 2))
	mock.ExpectQuery(`FROM elderly_care\.teams\s+WHERE team_name = \$1`).
		WithArgs("Alpha").
		WillReturnRows(teamRows([2]any{1, "Alpha"}))
	mock.ExpectQuery(`FROM elderly_care\.teams\s+WHERE team_name = \$1`).
		WithArgs("Beta").
		WillReturnRows(teamRows([2]any{2, "Beta"}))

	// 全部已关联：不允许任何 INSERT
	err := svc.SyncTeamAssociations(context.Background(), db, 7, []string{"Alpha", "Beta"}, testAudit)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncTeamAssociations_CreateFailureAborts(t *testing.T) {
	svc, db, mock := newAssociationService(t)

	boom := errors.New("insert failed")
	mock.ExpectQuery(`SELECT team_id\s+FROM elderly_care\.attendant_team`).
		WithArgs(7).
		WillReturnRows(associatedIDRows("team_id"))
	mock.ExpectQuery(`FROM elderly_care\.teams\s+WHERE team_name = \$1`).
		WithArgs("Alpha").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO elderly_care\.teams`).
		WithArgs("Alpha", "default", 9, "10.0.0.1").
		WillReturnError(boom)

	err := svc.SyncTeamAssociations(context.Background(), db, 7, []string{"Alpha", "Beta"}, testAudit)
	require.Error(t, err)
	require.ErrorIs(t, err, boom)
	// "Beta" 不应被处理
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncSpecialtyAssociations_CreatesMissing(t *testing.T) {
	svc, db, mock := newAssociationService(t)

	mock.ExpectQuery(`SELECT specialty_id\s+FROM elderly_care\.attendant_specialty`).
		WithArgs(3).
		WillReturnRows(associatedIDRows("specialty_id"))
	mock.ExpectQuery(`FROM elderly_care\.specialties\s+WHERE name = \$1`).
		WithArgs("Geriatria").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO elderly_care\.specialties`).
		WithArgs("Geriatria", 9, "10.0.0.1").
		WillReturnRows(specialtyRows(11, "Geriatria"))
	mock.ExpectExec(`INSERT INTO elderly_care\.attendant_specialty`).
		WithArgs(3, 11, 9, "10.0.0.1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.SyncSpecialtyAssociations(context.Background(), db, 3, []string{"Geriatria"}, testAudit)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncFunctionAssociation_EmptyIsNoOp(t *testing.T) {
	svc, db, mock := newAssociationService(t)

	fn, err := svc.SyncFunctionAssociation(context.Background(), db, nil, testAudit)
	require.NoError(t, err)
	require.Nil(t, fn)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncFunctionAssociation_MultipleNamesRejected(t *testing.T) {
	svc, db, mock := newAssociationService(t)

	fn, err := svc.SyncFunctionAssociation(context.Background(), db, []string{"Enfermeiro", "Cuidador"}, testAudit)
	require.ErrorIs(t, err, ErrMultipleFunctions)
	require.Nil(t, fn)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncFunctionAssociation_ReturnsExisting(t *testing.T) {
	svc, db, mock := newAssociationService(t)

	mock.ExpectQuery(`FROM elderly_care\.functions\s+WHERE function_name = \$1`).
		WithArgs("Enfermeiro").
		WillReturnRows(functionRows(5, "Enfermeiro", "Auto-created function"))

	fn, err := svc.SyncFunctionAssociation(context.Background(), db, []string{"Enfermeiro"}, testAudit)
	require.NoError(t, err)
	require.Equal(t, 5, fn.ID)
	require.Equal(t, "Enfermeiro", fn.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncFunctionAssociation_AutoCreates(t *testing.T) {
	svc, db, mock := newAssociationService(t)

	mock.ExpectQuery(`FROM elderly_care\.functions\s+WHERE function_name = \$1`).
		WithArgs("Fisioterapeuta").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO elderly_care\.functions`).
		WithArgs("Fisioterapeuta", "Auto-created function", 9, "10.0.0.1").
		WillReturnRows(functionRows(6, "Fisioterapeuta", "Auto-created function"))

	fn, err := svc.SyncFunctionAssociation(context.Background(), db, []string{"Fisioterapeuta"}, testAudit)
	require.NoError(t, err)
	require.Equal(t, 6, fn.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUniqueNamesPreservesFirstOccurrenceOrder(t *testing.T) {
	got := uniqueNames([]string{"b", "a", "b", "c", "a"})
	require.Equal(t, []string{"b", "a", "c"}, got)
}
