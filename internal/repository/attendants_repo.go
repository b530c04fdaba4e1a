package repository

import (
	"context"

	"eldercare-data/internal/domain"
)

// AttendantsRepository 护理人员 Repository 接口
// 关联方法（ListAssociated*/Insert*Association）供 AttendantAssociationService
// 在调用方事务内使用
type AttendantsRepository interface {
	GetAttendant(ctx context.Context, q Querier, userID int) (*domain.Attendant, error)
	GetAttendantByCPF(ctx context.Context, q Querier, cpf string) (*domain.Attendant, error)
	CreateAttendant(ctx context.Context, q Querier, a *domain.Attendant, audit domain.AuditContext) error
	UpdateAttendant(ctx context.Context, q Querier, userID int, upd AttendantUpdate, audit domain.AuditContext) error
	SetFunction(ctx context.Context, q Querier, userID, functionID int, audit domain.AuditContext) error

	// 团队关联（只增不删；删除是独立操作）
	ListAssociatedTeamIDs(ctx context.Context, q Querier, attendantID int) (map[int]bool, error)
	InsertTeamAssociation(ctx context.Context, q Querier, attendantID, teamID int, audit domain.AuditContext) error
	DeleteTeamAssociation(ctx context.Context, q Querier, attendantID, teamID int) error

	// 专长关联
	ListAssociatedSpecialtyIDs(ctx context.Context, q Querier, attendantID int) (map[int]bool, error)
	InsertSpecialtyAssociation(ctx context.Context, q Querier, attendantID, specialtyID int, audit domain.AuditContext) error

	// 名称展开（响应用）
	ListTeamNames(ctx context.Context, q Querier, attendantID int) ([]string, error)
	ListSpecialtyNames(ctx context.Context, q Querier, attendantID int) ([]string, error)

	// 团队视角
	ListAttendantIDsByTeam(ctx context.Context, q Querier, teamID int) ([]int, error)
}

// AttendantUpdate 护理人员核心字段更新（显式白名单，不做反射赋值）
type AttendantUpdate struct {
	Address          *string
	Neighborhood     *string
	City             *string
	State            *string
	CodeAddress      *string
	RegistroConselho *string
	NivelExperiencia *string
	Formacao         *string
}
