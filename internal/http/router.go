package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler 支持 http.Handler 接口
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterUserRoutes 注册用户管理路由
func (r *Router) RegisterUserRoutes(h *UsersHandler) {
	r.HandleHandler("/api/v1/users/", h)
}

// RegisterAttendantRoutes 注册护理人员管理路由
func (r *Router) RegisterAttendantRoutes(h *AttendantsHandler) {
	r.HandleHandler("/api/v1/attendants/", h)
}

// RegisterTeamRoutes 注册团队/专长/职能查询路由
func (r *Router) RegisterTeamRoutes(teams *TeamsHandler, lookups *LookupsHandler) {
	r.HandleHandler("/api/v1/teams", teams)
	r.HandleHandler("/api/v1/teams/", teams)
	r.Handle("/api/v1/specialties", lookups.ListSpecialties)
	r.Handle("/api/v1/functions", lookups.ListFunctions)
}

// RegisterNotificationRoutes 注册消息下发路由
func (r *Router) RegisterNotificationRoutes(h *NotificationsHandler) {
	r.HandleHandler("/api/v1/notifications", h)
}

// RegisterHealthz 健康检查
func (r *Router) RegisterHealthz() {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
