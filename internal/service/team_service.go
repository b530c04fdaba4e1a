package service

import (
	"context"
	"database/sql"

	"eldercare-data/internal/domain"
	"eldercare-data/internal/repository"

	"go.uber.org/zap"
)

// TeamService 团队/专长/职能查询服务
type TeamService interface {
	GetTeamByName(ctx context.Context, name string) (*domain.Team, error)
	ListTeams(ctx context.Context) ([]*domain.Team, error)
	ListSpecialties(ctx context.Context) ([]*domain.Specialty, error)
	ListFunctions(ctx context.Context) ([]*domain.Function, error)
}

type teamService struct {
	db          *sql.DB
	teams       repository.TeamsRepository
	specialties repository.SpecialtiesRepository
	functions   repository.FunctionsRepository
	logger      *zap.Logger
}

func NewTeamService(
	db *sql.DB,
	teams repository.TeamsRepository,
	specialties repository.SpecialtiesRepository,
	functions repository.FunctionsRepository,
	logger *zap.Logger,
) TeamService {
	return &teamService{
		db:          db,
		teams:       teams,
		specialties: specialties,
		functions:   functions,
		logger:      logger,
	}
}

func (s *teamService) GetTeamByName(ctx context.Context, name string) (*domain.Team, error) {
	return s.teams.GetTeamByName(ctx, s.db, name)
}

func (s *teamService) ListTeams(ctx context.Context) ([]*domain.Team, error) {
	return s.teams.ListTeams(ctx, s.db)
}

func (s *teamService) ListSpecialties(ctx context.Context) ([]*domain.Specialty, error) {
	return s.specialties.ListSpecialties(ctx, s.db)
}

func (s *teamService) ListFunctions(ctx context.Context) ([]*domain.Function, error) {
	return s.functions.ListFunctions(ctx, s.db)
}
