package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eldercare-data/internal/domain"
	"eldercare-data/internal/repository"
	"eldercare-data/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeUserService 按字段替换单个方法的测试桩
type fakeUserService struct {
	registerSubscriber func(ctx context.Context, req service.RegisterUserRequest, audit domain.AuditContext) (*service.UserInfo, error)
	registerContact    func(ctx context.Context, req service.RegisterUserRequest, audit domain.AuditContext) (*service.UserInfo, error)
	search             func(ctx context.Context, criteria service.SearchCriteria) (int, error)
	get                func(ctx context.Context, userID int) (*service.UserInfo, error)
	update             func(ctx context.Context, userID int, req service.UserUpdateRequest, audit domain.AuditContext) (*service.UserInfo, error)
}

func (f *fakeUserService) RegisterSubscriber(ctx context.Context, req service.RegisterUserRequest, audit domain.AuditContext) (*service.UserInfo, error) {
	return f.registerSubscriber(ctx, req, audit)
}

func (f *fakeUserService) RegisterContact(ctx context.Context, req service.RegisterUserRequest, audit domain.AuditContext) (*service.UserInfo, error) {
	return f.registerContact(ctx, req, audit)
}

func (f *fakeUserService) SearchUser(ctx context.Context, criteria service.SearchCriteria) (int, error) {
	return f.search(ctx, criteria)
}

func (f *fakeUserService) GetUser(ctx context.Context, userID int) (*service.UserInfo, error) {
	return f.get(ctx, userID)
}

func (f *fakeUserService) UpdateUser(ctx context.Context, userID int, req service.UserUpdateRequest, audit domain.AuditContext) (*service.UserInfo, error) {
	return f.update(ctx, userID, req, audit)
}

func (f *fakeUserService) AssociateAssisted(context.Context, int, int, domain.AuditContext) error {
	return nil
}

func (f *fakeUserService) ListAssisted(context.Context, int) ([]*service.UserInfo, error) {
	return nil, nil
}

func (f *fakeUserService) AssociateContact(context.Context, int, int, string, domain.AuditContext) error {
	return nil
}

func (f *fakeUserService) ListClientContacts(context.Context, int) ([]*service.UserInfo, error) {
	return nil, nil
}

func (f *fakeUserService) ListClientsOfContact(context.Context, int) ([]*service.UserInfo, error) {
	return nil, nil
}

func (f *fakeUserService) DeleteContactAssociation(context.Context, int, int, domain.AuditContext) error {
	return nil
}

func (f *fakeUserService) GetNotificationWindow(context.Context, int) (*repository.NotificationWindow, error) {
	return &repository.NotificationWindow{StartTime: "08:00", EndTime: "22:00"}, nil
}

func (f *fakeUserService) UpdateNotificationWindow(context.Context, int, repository.NotificationWindow, domain.AuditContext) error {
	return nil
}

func TestUsersHandler_RegisterSubscriber(t *testing.T) {
	var gotAudit domain.AuditContext
	fake := &fakeUserService{
		registerSubscriber: func(_ context.Context, req service.RegisterUserRequest, audit domain.AuditContext) (*service.UserInfo, error) {
			gotAudit = audit
			require.Equal(t, "Maria Silva", req.Name)
			return &service.UserInfo{ID: 10, Name: req.Name, Role: domain.RoleSubscriber}, nil
		},
	}
	h := NewUsersHandler(fake, zap.NewNop())

	body := `{"name":"Maria Silva","email":"maria@example.com","phone":"+5511998765432","role":"subscriber","password":"s3cret","client_data":{"cpf":"12345678901"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", strings.NewReader(body))
	req.Header.Set("X-User-Id", "77")
	req.RemoteAddr = "10.1.2.3:5555"
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 77, gotAudit.ActorID)
	require.Equal(t, "10.1.2.3", gotAudit.UserIP)

	var info service.UserInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	require.Equal(t, 10, info.ID)
}

func TestUsersHandler_RegisterRejectsUnknownRole(t *testing.T) {
	h := NewUsersHandler(&fakeUserService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register",
		strings.NewReader(`{"name":"X","role":"attendant"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "detail")
}

func TestUsersHandler_RegisterConflictIs422(t *testing.T) {
	fake := &fakeUserService{
		registerSubscriber: func(context.Context, service.RegisterUserRequest, domain.AuditContext) (*service.UserInfo, error) {
			return nil, service.ErrEmailExists
		},
	}
	h := NewUsersHandler(fake, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register",
		strings.NewReader(`{"name":"X","role":"subscriber"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Email already exists", body.Detail)
}

func TestUsersHandler_GetNotFound(t *testing.T) {
	fake := &fakeUserService{
		get: func(context.Context, int) (*service.UserInfo, error) {
			return nil, sql.ErrNoRows
		},
	}
	h := NewUsersHandler(fake, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/999", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsersHandler_Search(t *testing.T) {
	fake := &fakeUserService{
		search: func(_ context.Context, criteria service.SearchCriteria) (int, error) {
			require.Equal(t, "maria@example.com", criteria.Email)
			return 10, nil
		},
	}
	h := NewUsersHandler(fake, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/search?email=maria@example.com", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"id":10}`, rec.Body.String())
}

func TestUsersHandler_UnknownPathIs404(t *testing.T) {
	h := NewUsersHandler(&fakeUserService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/not-a-number", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
