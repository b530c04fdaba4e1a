package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"eldercare-data/internal/domain"
	"eldercare-data/internal/repository"
	"eldercare-data/internal/service"

	"go.uber.org/zap"
)

// UsersHandler 用户管理 Handler
type UsersHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

func NewUsersHandler(userService service.UserService, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{
		userService: userService,
		logger:      logger,
	}
}

// ServeHTTP 实现 http.Handler 接口
func (h *UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/users")
	path = strings.TrimPrefix(path, "/")

	// 路由分发
	switch {
	case path == "register" && r.Method == http.MethodPost:
		h.Register(w, r)
	case path == "search" && r.Method == http.MethodGet:
		h.Search(w, r)
	default:
		h.serveUserSubtree(w, r, path)
	}
}

// serveUserSubtree 处理 /api/v1/users/{id}[/...] 路由
func (h *UsersHandler) serveUserSubtree(w http.ResponseWriter, r *http.Request, path string) {
	parts := strings.Split(path, "/")
	userID, err := strconv.Atoi(parts[0])
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.Get(w, r, userID)
	case len(parts) == 1 && r.Method == http.MethodPatch:
		h.Update(w, r, userID)
	case len(parts) == 2 && parts[1] == "assisted" && r.Method == http.MethodGet:
		h.ListAssisted(w, r, userID)
	case len(parts) == 3 && parts[1] == "assisted" && r.Method == http.MethodPost:
		h.AssociateAssisted(w, r, userID, parts[2])
	case len(parts) == 2 && parts[1] == "contacts" && r.Method == http.MethodGet:
		h.ListContacts(w, r, userID)
	case len(parts) == 3 && parts[1] == "contacts" && r.Method == http.MethodPost:
		h.AssociateContact(w, r, userID, parts[2])
	case len(parts) == 3 && parts[1] == "contacts" && r.Method == http.MethodDelete:
		h.DeleteContactAssociation(w, r, userID, parts[2])
	case len(parts) == 2 && parts[1] == "clients" && r.Method == http.MethodGet:
		h.ListClientsOfContact(w, r, userID)
	case len(parts) == 2 && parts[1] == "notification-window" && r.Method == http.MethodGet:
		h.GetNotificationWindow(w, r, userID)
	case len(parts) == 2 && parts[1] == "notification-window" && r.Method == http.MethodPut:
		h.UpdateNotificationWindow(w, r, userID)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// Register 注册 subscriber 或 contact（按 role 字段分发）
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.RegisterUserRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}

	audit := auditFromReq(r)
	var (
		info *service.UserInfo
		err  error
	)
	switch req.Role {
	case domain.RoleSubscriber:
		info, err = h.userService.RegisterSubscriber(ctx, req, audit)
	case domain.RoleContact:
		info, err = h.userService.RegisterContact(ctx, req, audit)
	default:
		writeDetail(w, http.StatusBadRequest, "role must be 'subscriber' or 'contact'")
		return
	}
	if err != nil {
		h.logger.Warn("Register failed", zap.String("role", req.Role), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// Search 按 email/phone/cpf 查询用户 id
func (h *UsersHandler) Search(w http.ResponseWriter, r *http.Request) {
	criteria := service.SearchCriteria{
		Email: r.URL.Query().Get("email"),
		Phone: r.URL.Query().Get("phone"),
		CPF:   r.URL.Query().Get("cpf"),
	}
	id, err := h.userService.SearchUser(r.Context(), criteria)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"id": id})
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request, userID int) {
	info, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request, userID int) {
	var req service.UserUpdateRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}
	info, err := h.userService.UpdateUser(r.Context(), userID, req, auditFromReq(r))
	if err != nil {
		h.logger.Warn("UpdateUser failed", zap.Int("user_id", userID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *UsersHandler) AssociateAssisted(w http.ResponseWriter, r *http.Request, subscriberID int, rawAssisted string) {
	assistedID, err := strconv.Atoi(rawAssisted)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid assisted id")
		return
	}
	if err := h.userService.AssociateAssisted(r.Context(), subscriberID, assistedID, auditFromReq(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "associated"})
}

func (h *UsersHandler) ListAssisted(w http.ResponseWriter, r *http.Request, subscriberID int) {
	infos, err := h.userService.ListAssisted(r.Context(), subscriberID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *UsersHandler) AssociateContact(w http.ResponseWriter, r *http.Request, clientID int, rawContact string) {
	contactID, err := strconv.Atoi(rawContact)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid contact id")
		return
	}
	var payload struct {
		TypeContact string `json:"type_contact"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.userService.AssociateContact(r.Context(), clientID, contactID, payload.TypeContact, auditFromReq(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "associated"})
}

func (h *UsersHandler) ListContacts(w http.ResponseWriter, r *http.Request, clientID int) {
	infos, err := h.userService.ListClientContacts(r.Context(), clientID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *UsersHandler) ListClientsOfContact(w http.ResponseWriter, r *http.Request, contactID int) {
	infos, err := h.userService.ListClientsOfContact(r.Context(), contactID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *UsersHandler) DeleteContactAssociation(w http.ResponseWriter, r *http.Request, clientID int, rawContact string) {
	contactID, err := strconv.Atoi(rawContact)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid contact id")
		return
	}
	if err := h.userService.DeleteContactAssociation(r.Context(), clientID, contactID, auditFromReq(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) GetNotificationWindow(w http.ResponseWriter, r *http.Request, userID int) {
	window, err := h.userService.GetNotificationWindow(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, window)
}

func (h *UsersHandler) UpdateNotificationWindow(w http.ResponseWriter, r *http.Request, userID int) {
	var window repository.NotificationWindow
	if err := readBodyJSON(r, 1<<20, &window); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.userService.UpdateNotificationWindow(r.Context(), userID, window, auditFromReq(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
