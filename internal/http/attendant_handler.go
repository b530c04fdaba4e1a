package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"eldercare-data/internal/service"

	"go.uber.org/zap"
)

// AttendantsHandler 护理人员管理 Handler
type AttendantsHandler struct {
	attendantService service.AttendantService
	logger           *zap.Logger
}

func NewAttendantsHandler(attendantService service.AttendantService, logger *zap.Logger) *AttendantsHandler {
	return &AttendantsHandler{
		attendantService: attendantService,
		logger:           logger,
	}
}

// ServeHTTP 实现 http.Handler 接口
func (h *AttendantsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/attendants")
	path = strings.TrimPrefix(path, "/")

	switch {
	case path == "register" && r.Method == http.MethodPost:
		h.Register(w, r)
	case path == "search" && r.Method == http.MethodGet:
		h.Search(w, r)
	case path == "roster/export" && r.Method == http.MethodGet:
		h.ExportRoster(w, r)
	case path == "roster/import" && r.Method == http.MethodPost:
		h.ImportRoster(w, r)
	default:
		h.serveAttendantSubtree(w, r, path)
	}
}

func (h *AttendantsHandler) serveAttendantSubtree(w http.ResponseWriter, r *http.Request, path string) {
	parts := strings.Split(path, "/")
	attendantID, err := strconv.Atoi(parts[0])
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.Get(w, r, attendantID)
	case len(parts) == 1 && r.Method == http.MethodPatch:
		h.Update(w, r, attendantID)
	case len(parts) == 2 && parts[1] == "clients" && r.Method == http.MethodGet:
		h.ListClients(w, r, attendantID)
	case len(parts) == 3 && parts[1] == "teams" && r.Method == http.MethodDelete:
		h.DeleteTeamAssociation(w, r, attendantID, parts[2])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *AttendantsHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterAttendantRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}
	info, err := h.attendantService.RegisterAttendant(r.Context(), req, auditFromReq(r))
	if err != nil {
		h.logger.Warn("RegisterAttendant failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

func (h *AttendantsHandler) Search(w http.ResponseWriter, r *http.Request) {
	criteria := service.SearchCriteria{
		Email: r.URL.Query().Get("email"),
		Phone: r.URL.Query().Get("phone"),
		CPF:   r.URL.Query().Get("cpf"),
	}
	id, err := h.attendantService.SearchAttendant(r.Context(), criteria)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"id": id})
}

func (h *AttendantsHandler) Get(w http.ResponseWriter, r *http.Request, attendantID int) {
	info, err := h.attendantService.GetAttendant(r.Context(), attendantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *AttendantsHandler) Update(w http.ResponseWriter, r *http.Request, attendantID int) {
	var req service.AttendantUpdateRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid body")
		return
	}
	info, err := h.attendantService.UpdateAttendant(r.Context(), attendantID, req, auditFromReq(r))
	if err != nil {
		h.logger.Warn("UpdateAttendant failed", zap.Int("attendant_id", attendantID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *AttendantsHandler) ListClients(w http.ResponseWriter, r *http.Request, attendantID int) {
	infos, err := h.attendantService.ListClientsForAttendant(r.Context(), attendantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *AttendantsHandler) DeleteTeamAssociation(w http.ResponseWriter, r *http.Request, attendantID int, rawTeam string) {
	teamID, err := strconv.Atoi(rawTeam)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid team id")
		return
	}
	if err := h.attendantService.DeleteTeamAssociation(r.Context(), attendantID, teamID, auditFromReq(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
