package repository

import (
	"context"

	"eldercare-data/internal/domain"
)

// TeamsRepository 团队 Repository 接口
// 使用强类型领域模型，不使用 map[string]any
type TeamsRepository interface {
	GetTeam(ctx context.Context, q Querier, teamID int) (*domain.Team, error)
	GetTeamByName(ctx context.Context, q Querier, name string) (*domain.Team, error)
	CreateTeam(ctx context.Context, q Querier, name, site string, audit domain.AuditContext) (*domain.Team, error)
	ListTeams(ctx context.Context, q Querier) ([]*domain.Team, error)
}

// SpecialtiesRepository 专长 Repository 接口
type SpecialtiesRepository interface {
	GetSpecialtyByName(ctx context.Context, q Querier, name string) (*domain.Specialty, error)
	CreateSpecialty(ctx context.Context, q Querier, name string, audit domain.AuditContext) (*domain.Specialty, error)
	ListSpecialties(ctx context.Context, q Querier) ([]*domain.Specialty, error)
}

// FunctionsRepository 职能 Repository 接口
type FunctionsRepository interface {
	GetFunction(ctx context.Context, q Querier, functionID int) (*domain.Function, error)
	GetFunctionByName(ctx context.Context, q Querier, name string) (*domain.Function, error)
	CreateFunction(ctx context.Context, q Querier, name, description string, audit domain.AuditContext) (*domain.Function, error)
	ListFunctions(ctx context.Context, q Querier) ([]*domain.Function, error)
}
