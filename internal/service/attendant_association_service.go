package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eldercare-data/internal/domain"
	"eldercare-data/internal/repository"

	"go.uber.org/zap"
)

// 惰性创建实体的缺省值
const (
	defaultTeamSite            = "default"
	autoCreatedFunctionComment = "Auto-created function"
)

// ErrMultipleFunctions 一个护理人员只能有一个职能；调用方传入多个名称时报错，
// 不再静默取第一个丢弃其余
var ErrMultipleFunctions = errors.New("attendant accepts exactly one function name")

// AttendantAssociationService 护理人员关联同步服务。
//
// 给定目标名称列表（团队/专长/职能），保证被引用的实体存在（按名称惰性创建），
// 并补齐缺失的关联行。团队/专长同步是只增量的：已有关联行（按外键 id）不会被
// 删除，即使目标列表没有提到它们。职能是单一外键，整体替换。
//
// 所有方法都在调用方传入的 Querier（通常是 *sql.Tx）上执行，本服务从不
// Commit/Rollback——失败时调用方回滚整个事务，避免残留半套关联。
type AttendantAssociationService struct {
	attendants  repository.AttendantsRepository
	teams       repository.TeamsRepository
	specialties repository.SpecialtiesRepository
	functions   repository.FunctionsRepository
	logger      *zap.Logger
}

func NewAttendantAssociationService(
	attendants repository.AttendantsRepository,
	teams repository.TeamsRepository,
	specialties repository.SpecialtiesRepository,
	functions repository.FunctionsRepository,
	logger *zap.Logger,
) *AttendantAssociationService {
	return &AttendantAssociationService{
		attendants:  attendants,
		teams:       teams,
		specialties: specialties,
		functions:   functions,
		logger:      logger,
	}
}

// SyncTeamAssociations 同步团队关联。
// names 为空时是严格 no-op（不发出任何查询）。
func (s *AttendantAssociationService) SyncTeamAssociations(ctx context.Context, q repository.Querier, attendantID int, names []string, audit domain.AuditContext) error {
	if len(names) == 0 {
		return nil
	}

	existing, err := s.attendants.ListAssociatedTeamIDs(ctx, q, attendantID)
	if err != nil {
		return fmt.Errorf("list team associations: %w", err)
	}

	for _, name := range uniqueNames(names) {
		team, err := s.getOrCreateTeam(ctx, q, name, audit)
		if err != nil {
			return err
		}
		if existing[team.TeamID] {
			continue
		}
		if err := s.attendants.InsertTeamAssociation(ctx, q, attendantID, team.TeamID, audit); err != nil {
			return fmt.Errorf("associate team %q: %w", name, err)
		}
		s.logger.Info("team association created",
			zap.Int("attendant_id", attendantID),
			zap.Int("team_id", team.TeamID),
			zap.String("team_name", name))
	}
	return nil
}

// SyncSpecialtyAssociations 同步专长关联，语义与团队同步一致。
func (s *AttendantAssociationService) SyncSpecialtyAssociations(ctx context.Context, q repository.Querier, attendantID int, names []string, audit domain.AuditContext) error {
	if len(names) == 0 {
		return nil
	}

	existing, err := s.attendants.ListAssociatedSpecialtyIDs(ctx, q, attendantID)
	if err != nil {
		return fmt.Errorf("list specialty associations: %w", err)
	}

	for _, name := range uniqueNames(names) {
		spec, err := s.getOrCreateSpecialty(ctx, q, name, audit)
		if err != nil {
			return err
		}
		if existing[spec.ID] {
			continue
		}
		if err := s.attendants.InsertSpecialtyAssociation(ctx, q, attendantID, spec.ID, audit); err != nil {
			return fmt.Errorf("associate specialty %q: %w", name, err)
		}
		s.logger.Info("specialty association created",
			zap.Int("attendant_id", attendantID),
			zap.Int("specialty_id", spec.ID),
			zap.String("specialty", name))
	}
	return nil
}

// SyncFunctionAssociation 解析护理人员的职能引用（整体替换，不做增量）。
// names 为空时返回 (nil, nil) 且不发出任何查询，职能保持不变；
// 恰好一个名称时按名称查找、不存在则创建，并返回解析出的职能供调用方赋值；
// 多于一个名称返回 ErrMultipleFunctions。
func (s *AttendantAssociationService) SyncFunctionAssociation(ctx context.Context, q repository.Querier, names []string, audit domain.AuditContext) (*domain.Function, error) {
	if len(names) == 0 {
		return nil, nil
	}
	if len(names) > 1 {
		return nil, ErrMultipleFunctions
	}

	name := names[0]
	fn, err := s.functions.GetFunctionByName(ctx, q, name)
	if err == nil {
		return fn, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup function %q: %w", name, err)
	}

	fn, err = s.functions.CreateFunction(ctx, q, name, autoCreatedFunctionComment, audit)
	if err != nil {
		return nil, fmt.Errorf("create function %q: %w", name, err)
	}
	s.logger.Info("function auto-created",
		zap.Int("function_id", fn.ID),
		zap.String("function_name", name))
	return fn, nil
}

func (s *AttendantAssociationService) getOrCreateTeam(ctx context.Context, q repository.Querier, name string, audit domain.AuditContext) (*domain.Team, error) {
	team, err := s.teams.GetTeamByName(ctx, q, name)
	if err == nil {
		return team, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup team %q: %w", name, err)
	}
	team, err = s.teams.CreateTeam(ctx, q, name, defaultTeamSite, audit)
	if err != nil {
		return nil, fmt.Errorf("create team %q: %w", name, err)
	}
	return team, nil
}

func (s *AttendantAssociationService) getOrCreateSpecialty(ctx context.Context, q repository.Querier, name string, audit domain.AuditContext) (*domain.Specialty, error) {
	spec, err := s.specialties.GetSpecialtyByName(ctx, q, name)
	if err == nil {
		return spec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup specialty %q: %w", name, err)
	}
	spec, err = s.specialties.CreateSpecialty(ctx, q, name, audit)
	if err != nil {
		return nil, fmt.Errorf("create specialty %q: %w", name, err)
	}
	return spec, nil
}

// uniqueNames 去重；同一名称在输入里出现多次只查找/创建一次。
// 保持首次出现顺序，数据库调用顺序因此可预期。
func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
