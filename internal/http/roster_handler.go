package httpapi

import (
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// ExportRoster 导出一个团队的护理人员花名册（Excel）
func (h *AttendantsHandler) ExportRoster(w http.ResponseWriter, r *http.Request) {
	teamID := parseInt(r.URL.Query().Get("team_id"), 0)
	if teamID == 0 {
		writeDetail(w, http.StatusBadRequest, "team_id is required")
		return
	}

	attendants, err := h.attendantService.ListTeamAttendants(r.Context(), teamID)
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := GenerateRosterExport(attendants)
	if err != nil {
		h.logger.Error("roster export failed", zap.Int("team_id", teamID), zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "failed to generate roster")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"roster_team_%d.xlsx\"", teamID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// rosterImportResult 批量导入汇总
type rosterImportResult struct {
	Total        int      `json:"total"`
	SuccessCount int      `json:"success_count"`
	FailedCount  int      `json:"failed_count"`
	Errors       []string `json:"errors"`
}

// ImportRoster 从 Excel 批量注册护理人员。逐行独立事务，单行失败不影响其它行。
func (h *AttendantsHandler) ImportRoster(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "file upload required (multipart field 'file')")
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(io.LimitReader(file, 10<<20))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	reqs, err := ParseRosterImport(fileBytes)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	audit := auditFromReq(r)
	result := rosterImportResult{Total: len(reqs), Errors: []string{}}
	for i, req := range reqs {
		if _, err := h.attendantService.RegisterAttendant(r.Context(), req, audit); err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		result.SuccessCount++
	}

	h.logger.Info("roster import finished",
		zap.Int("total", result.Total),
		zap.Int("success", result.SuccessCount),
		zap.Int("failed", result.FailedCount))
	writeJSON(w, http.StatusOK, result)
}
