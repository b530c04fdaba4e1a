package httpapi

import (
	"database/sql"
	"errors"
	"net/http"

	"eldercare-data/internal/service"
	"eldercare-data/internal/validator"
)

// detailBody 错误响应体，与原有 API 保持 {"detail": "..."} 形状
type detailBody struct {
	Detail string `json:"detail"`
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailBody{Detail: detail})
}

// writeError 把 service/repository 错误翻译为 HTTP 状态码
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		writeDetail(w, http.StatusNotFound, "not found")
	case isConflict(err):
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
	case isValidation(err):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

func isConflict(err error) bool {
	return errors.Is(err, service.ErrEmailExists) ||
		errors.Is(err, service.ErrPhoneExists) ||
		errors.Is(err, service.ErrCPFExists) ||
		errors.Is(err, service.ErrClientExists) ||
		errors.Is(err, service.ErrSubscriberExists) ||
		errors.Is(err, service.ErrConflict)
}

func isValidation(err error) bool {
	var vErr validator.ValidationError
	return errors.As(err, &vErr) || errors.Is(err, service.ErrMultipleFunctions)
}
