package httpapi

import (
	"net/http"
	"net/url"
	"strings"

	"eldercare-data/internal/service"

	"go.uber.org/zap"
)

// TeamsHandler 团队/专长/职能查询 Handler
type TeamsHandler struct {
	teamService      service.TeamService
	attendantService service.AttendantService
	logger           *zap.Logger
}

func NewTeamsHandler(teamService service.TeamService, attendantService service.AttendantService, logger *zap.Logger) *TeamsHandler {
	return &TeamsHandler{
		teamService:      teamService,
		attendantService: attendantService,
		logger:           logger,
	}
}

// ServeHTTP 实现 http.Handler 接口
func (h *TeamsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1/teams")
	path = strings.TrimPrefix(path, "/")

	switch {
	case path == "":
		h.ListTeams(w, r)
	case strings.HasSuffix(path, "/attendants"):
		h.ListTeamAttendants(w, r, strings.TrimSuffix(path, "/attendants"))
	case !strings.Contains(path, "/"):
		h.GetTeamByName(w, r, path)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *TeamsHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.ListTeams(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// GetTeamByName 按名称查询团队（路径段做 URL 解码，团队名可含空格）
func (h *TeamsHandler) GetTeamByName(w http.ResponseWriter, r *http.Request, rawName string) {
	name, err := url.PathUnescape(rawName)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid team name")
		return
	}
	team, err := h.teamService.GetTeamByName(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (h *TeamsHandler) ListTeamAttendants(w http.ResponseWriter, r *http.Request, rawID string) {
	teamID := parseInt(rawID, 0)
	if teamID == 0 {
		writeDetail(w, http.StatusBadRequest, "invalid team id")
		return
	}
	attendants, err := h.attendantService.ListTeamAttendants(r.Context(), teamID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attendants)
}

// LookupsHandler 专长/职能列表 Handler
type LookupsHandler struct {
	teamService service.TeamService
	logger      *zap.Logger
}

func NewLookupsHandler(teamService service.TeamService, logger *zap.Logger) *LookupsHandler {
	return &LookupsHandler{teamService: teamService, logger: logger}
}

func (h *LookupsHandler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	specialties, err := h.teamService.ListSpecialties(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, specialties)
}

func (h *LookupsHandler) ListFunctions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	functions, err := h.teamService.ListFunctions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, functions)
}
