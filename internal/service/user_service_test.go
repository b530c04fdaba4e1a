package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eldercare-data/internal/repository"
	"eldercare-data/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserTestService(t *testing.T, cache store.KV) (UserService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewUserService(db,
		repository.NewPostgresUsersRepo(),
		repository.NewPostgresClientsRepo(),
		cache, zap.NewNop())
	return svc, mock
}

func userRow(id int, email, phone, role string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "email", "phone", "role", "active", "password_hash", "receipt_type",
		"notification_start_time", "notification_end_time", "paused_until",
		"created_at", "updated_at", "created_by", "updated_by", "user_ip",
	}).AddRow(id, "Test User", email, phone, role, true, nil, nil,
		"08:00", "22:00", nil, now, now, 1, nil, nil)
}

func TestSearchUser_RequiresExactlyOneCriterion(t *testing.T) {
	svc, mock := newUserTestService(t, nil)

	_, err := svc.SearchUser(context.Background(), SearchCriteria{})
	require.Error(t, err)

	_, err = svc.SearchUser(context.Background(), SearchCriteria{Email: "a@b.com", Phone: "+5511999"})
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchUser_ByEmailCachesResult(t *testing.T) {
	cache := store.NewMemoryKV()
	svc, mock := newUserTestService(t, cache)

	// 仅期望一次数据库查询：第二次命中缓存
	mock.ExpectQuery(`FROM elderly_care\.users\s+WHERE email = \$1`).
		WithArgs("maria@example.com").
		WillReturnRows(userRow(10, "maria@example.com", "+5511998765432", "subscriber"))

	id, err := svc.SearchUser(context.Background(), SearchCriteria{Email: "maria@example.com"})
	require.NoError(t, err)
	require.Equal(t, 10, id)

	id, err = svc.SearchUser(context.Background(), SearchCriteria{Email: "maria@example.com"})
	require.NoError(t, err)
	require.Equal(t, 10, id)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchUser_NotFoundPassesThrough(t *testing.T) {
	svc, mock := newUserTestService(t, nil)

	mock.ExpectQuery(`FROM elderly_care\.users\s+WHERE phone = \$1`).
		WithArgs("+5511900000000").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.SearchUser(context.Background(), SearchCriteria{Phone: "+5511900000000"})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchUser_NormalizesCPFBeforeLookup(t *testing.T) {
	svc, mock := newUserTestService(t, nil)

	clientCols := []string{
		"user_id", "team_id", "cpf", "birthday", "address", "neighborhood",
		"city", "state", "code_address",
		"created_at", "updated_at", "created_by", "updated_by", "user_ip",
	}
	now := time.Now()
	mock.ExpectQuery(`FROM elderly_care\.clients\s+WHERE cpf = \$1`).
		WithArgs("123.456.789-01").
		WillReturnRows(sqlmock.NewRows(clientCols).
			AddRow(10, nil, "123.456.789-01", nil, nil, nil, nil, nil, nil, now, now, 1, nil, nil))

	// 裸数字输入在查询前被规范化
	id, err := svc.SearchUser(context.Background(), SearchCriteria{CPF: "12345678901"})
	require.NoError(t, err)
	require.Equal(t, 10, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterSubscriber_RequiresClientData(t *testing.T) {
	svc, mock := newUserTestService(t, nil)

	_, err := svc.RegisterSubscriber(context.Background(), RegisterUserRequest{
		Name:     "Maria",
		Email:    "maria@example.com",
		Phone:    "+5511998765432",
		Password: "s3cret",
	}, testAudit)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
