package httpapi

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"eldercare-data/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// statusRecorder 捕获响应状态码用于访问日志
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// AccessLog 访问日志中间件：每个请求分配 request_id（回写 X-Request-Id 头）
func AccessLog(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		logger.Info("http request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// auditFromReq 从 X-User-Id 头和远端地址构造审计上下文。
// 鉴权在上游网关完成，这里信任头部（无头部时 actor 为 0）。
func auditFromReq(r *http.Request) domain.AuditContext {
	actorID, _ := strconv.Atoi(r.Header.Get("X-User-Id"))
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
	}
	return domain.AuditContext{ActorID: actorID, UserIP: ip}
}
