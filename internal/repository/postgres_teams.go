package repository

import (
	"context"
	"database/sql"

	"eldercare-data/internal/domain"
)

// PostgresTeamsRepo 团队 Repository 实现
type PostgresTeamsRepo struct{}

func NewPostgresTeamsRepo() *PostgresTeamsRepo { return &PostgresTeamsRepo{} }

// 确保实现了接口
var _ TeamsRepository = (*PostgresTeamsRepo)(nil)

const teamColumns = `
	team_id,
	team_name,
	team_site,
	created_at,
	updated_at,
	created_by,
	updated_by,
	user_ip
`

func scanTeam(row interface{ Scan(...any) error }) (*domain.Team, error) {
	var t domain.Team
	if err := row.Scan(
		&t.TeamID,
		&t.TeamName,
		&t.TeamSite,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.CreatedBy,
		&t.UpdatedBy,
		&t.UserIP,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresTeamsRepo) GetTeam(ctx context.Context, q Querier, teamID int) (*domain.Team, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+teamColumns+`
		FROM elderly_care.teams
		WHERE team_id = $1
	`, teamID)
	return scanTeam(row)
}

func (r *PostgresTeamsRepo) GetTeamByName(ctx context.Context, q Querier, name string) (*domain.Team, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+teamColumns+`
		FROM elderly_care.teams
		WHERE team_name = $1
	`, name)
	return scanTeam(row)
}

// CreateTeam 以 upsert 形式创建：并发对同名 team 的 get-or-create 竞态
// 由存储层原子解决（冲突时 DO UPDATE 是无副作用写，仅为了 RETURNING 现有行）
func (r *PostgresTeamsRepo) CreateTeam(ctx context.Context, q Querier, name, site string, audit domain.AuditContext) (*domain.Team, error) {
	row := q.QueryRowContext(ctx, `
		INSERT INTO elderly_care.teams (team_name, team_site, created_by, user_ip)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (team_name) DO UPDATE SET team_name = EXCLUDED.team_name
		RETURNING `+teamColumns+`
	`, name, site, audit.ActorID, audit.UserIP)
	return scanTeam(row)
}

func (r *PostgresTeamsRepo) ListTeams(ctx context.Context, q Querier) ([]*domain.Team, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+teamColumns+`
		FROM elderly_care.teams
		ORDER BY team_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []*domain.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// PostgresSpecialtiesRepo 专长 Repository 实现
type PostgresSpecialtiesRepo struct{}

func NewPostgresSpecialtiesRepo() *PostgresSpecialtiesRepo { return &PostgresSpecialtiesRepo{} }

var _ SpecialtiesRepository = (*PostgresSpecialtiesRepo)(nil)

func scanSpecialty(row interface{ Scan(...any) error }) (*domain.Specialty, error) {
	var s domain.Specialty
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.CreatedBy,
		&s.UpdatedBy,
		&s.UserIP,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

const specialtyColumns = `
	id,
	name,
	created_at,
	updated_at,
	created_by,
	updated_by,
	user_ip
`

func (r *PostgresSpecialtiesRepo) GetSpecialtyByName(ctx context.Context, q Querier, name string) (*domain.Specialty, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+specialtyColumns+`
		FROM elderly_care.specialties
		WHERE name = $1
	`, name)
	return scanSpecialty(row)
}

func (r *PostgresSpecialtiesRepo) CreateSpecialty(ctx context.Context, q Querier, name string, audit domain.AuditContext) (*domain.Specialty, error) {
	row := q.QueryRowContext(ctx, `
		INSERT INTO elderly_care.specialties (name, created_by, user_ip)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING `+specialtyColumns+`
	`, name, audit.ActorID, audit.UserIP)
	return scanSpecialty(row)
}

func (r *PostgresSpecialtiesRepo) ListSpecialties(ctx context.Context, q Querier) ([]*domain.Specialty, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+specialtyColumns+`
		FROM elderly_care.specialties
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var specialties []*domain.Specialty
	for rows.Next() {
		s, err := scanSpecialty(rows)
		if err != nil {
			return nil, err
		}
		specialties = append(specialties, s)
	}
	return specialties, rows.Err()
}

// PostgresFunctionsRepo 职能 Repository 实现
type PostgresFunctionsRepo struct{}

func NewPostgresFunctionsRepo() *PostgresFunctionsRepo { return &PostgresFunctionsRepo{} }

var _ FunctionsRepository = (*PostgresFunctionsRepo)(nil)

const functionColumns = `
	function_id,
	function_name,
	function_description,
	created_at,
	updated_at,
	created_by,
	updated_by,
	user_ip
`

func scanFunction(row interface{ Scan(...any) error }) (*domain.Function, error) {
	var f domain.Function
	if err := row.Scan(
		&f.ID,
		&f.Name,
		&f.Description,
		&f.CreatedAt,
		&f.UpdatedAt,
		&f.CreatedBy,
		&f.UpdatedBy,
		&f.UserIP,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PostgresFunctionsRepo) GetFunction(ctx context.Context, q Querier, functionID int) (*domain.Function, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+functionColumns+`
		FROM elderly_care.functions
		WHERE function_id = $1
	`, functionID)
	return scanFunction(row)
}

func (r *PostgresFunctionsRepo) GetFunctionByName(ctx context.Context, q Querier, name string) (*domain.Function, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+functionColumns+`
		FROM elderly_care.functions
		WHERE function_name = $1
	`, name)
	return scanFunction(row)
}

func (r *PostgresFunctionsRepo) CreateFunction(ctx context.Context, q Querier, name, description string, audit domain.AuditContext) (*domain.Function, error) {
	var desc sql.NullString
	if description != "" {
		desc = sql.NullString{String: description, Valid: true}
	}
	row := q.QueryRowContext(ctx, `
		INSERT INTO elderly_care.functions (function_name, function_description, created_by, user_ip)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (function_name) DO UPDATE SET function_name = EXCLUDED.function_name
		RETURNING `+functionColumns+`
	`, name, desc, audit.ActorID, audit.UserIP)
	return scanFunction(row)
}

func (r *PostgresFunctionsRepo) ListFunctions(ctx context.Context, q Querier) ([]*domain.Function, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+functionColumns+`
		FROM elderly_care.functions
		ORDER BY function_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var functions []*domain.Function
	for rows.Next() {
		f, err := scanFunction(rows)
		if err != nil {
			return nil, err
		}
		functions = append(functions, f)
	}
	return functions, rows.Err()
}
