package repository

import (
	"context"
	"fmt"
	"strings"

	"eldercare-data/internal/domain"
)

// PostgresAttendantsRepo 护理人员 Repository 实现
type PostgresAttendantsRepo struct{}

func NewPostgresAttendantsRepo() *PostgresAttendantsRepo { return &PostgresAttendantsRepo{} }

var _ AttendantsRepository = (*PostgresAttendantsRepo)(nil)

const attendantColumns = `
	user_id,
	function_id,
	cpf,
	birthday,
	address,
	neighborhood,
	city,
	state,
	code_address,
	registro_conselho,
	nivel_experiencia,
	formacao,
	created_at,
	updated_at,
	created_by,
	updated_by,
	user_ip
`

func scanAttendant(row interface{ Scan(...any) error }) (*domain.Attendant, error) {
	var a domain.Attendant
	if err := row.Scan(
		&a.UserID,
		&a.FunctionID,
		&a.CPF,
		&a.Birthday,
		&a.Address,
		&a.Neighborhood,
		&a.City,
		&a.State,
		&a.CodeAddress,
		&a.RegistroConselho,
		&a.NivelExperiencia,
		&a.Formacao,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.CreatedBy,
		&a.UpdatedBy,
		&a.UserIP,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresAttendantsRepo) GetAttendant(ctx context.Context, q Querier, userID int) (*domain.Attendant, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+attendantColumns+`
		FROM elderly_care.attendants
		WHERE user_id = $1
	`, userID)
	return scanAttendant(row)
}

func (r *PostgresAttendantsRepo) GetAttendantByCPF(ctx context.Context, q Querier, cpf string) (*domain.Attendant, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+attendantColumns+`
		FROM elderly_care.attendants
		WHERE cpf = $1
	`, cpf)
	return scanAttendant(row)
}

func (r *PostgresAttendantsRepo) CreateAttendant(ctx context.Context, q Querier, a *domain.Attendant, audit domain.AuditContext) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO elderly_care.attendants (
			user_id, function_id, cpf, birthday,
			address, neighborhood, city, state, code_address,
			registro_conselho, nivel_experiencia, formacao,
			created_by, user_ip
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		a.UserID, a.FunctionID, a.CPF, a.Birthday,
		a.Address, a.Neighborhood, a.City, a.State, a.CodeAddress,
		a.RegistroConselho, a.NivelExperiencia, a.Formacao,
		audit.ActorID, audit.UserIP,
	)
	return err
}

// UpdateAttendant 按白名单更新核心字段（关联字段走 AttendantAssociationService）
func (r *PostgresAttendantsRepo) UpdateAttendant(ctx context.Context, q Querier, userID int, upd AttendantUpdate, audit domain.AuditContext) error {
	set := []string{}
	args := []any{userID}
	argN := 2
	add := func(col string, v any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, argN))
		args = append(args, v)
		argN++
	}
	if upd.Address != nil {
		add("address", *upd.Address)
	}
	if upd.Neighborhood != nil {
		add("neighborhood", *upd.Neighborhood)
	}
	if upd.City != nil {
		add("city", *upd.City)
	}
	if upd.State != nil {
		add("state", *upd.State)
	}
	if upd.CodeAddress != nil {
		add("code_address", *upd.CodeAddress)
	}
	if upd.RegistroConselho != nil {
		add("registro_conselho", *upd.RegistroConselho)
	}
	if upd.NivelExperiencia != nil {
		add("nivel_experiencia", *upd.NivelExperiencia)
	}
	if upd.Formacao != nil {
		add("formacao", *upd.Formacao)
	}
	if len(set) == 0 {
		return nil
	}
	add("updated_by", audit.ActorID)
	add("user_ip", audit.UserIP)
	set = append(set, "updated_at = now()")

	query := "UPDATE elderly_care.attendants SET " + strings.Join(set, ", ") + " WHERE user_id = $1"
	_, err := q.ExecContext(ctx, query, args...)
	return err
}

func (r *PostgresAttendantsRepo) SetFunction(ctx context.Context, q Querier, userID, functionID int, audit domain.AuditContext) error {
	_, err := q.ExecContext(ctx, `
		UPDATE elderly_care.attendants
		SET function_id = $2, updated_by = $3, user_ip = $4, updated_at = now()
		WHERE user_id = $1
	`, userID, functionID, audit.ActorID, audit.UserIP)
	return err
}

func (r *PostgresAttendantsRepo) ListAssociatedTeamIDs(ctx context.Context, q Querier, attendantID int) (map[int]bool, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT team_id
		FROM elderly_care.attendant_team
		WHERE attendant_id = $1
	`, attendantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDSet(rows)
}

func (r *PostgresAttendantsRepo) InsertTeamAssociation(ctx context.Context, q Querier, attendantID, teamID int, audit domain.AuditContext) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO elderly_care.attendant_team (attendant_id, team_id, created_by, user_ip)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (attendant_id, team_id) DO NOTHING
	`, attendantID, teamID, audit.ActorID, audit.UserIP)
	return err
}

func (r *PostgresAttendantsRepo) DeleteTeamAssociation(ctx context.Context, q Querier, attendantID, teamID int) error {
	res, err := q.ExecContext(ctx, `
		DELETE FROM elderly_care.attendant_team
		WHERE attendant_id = $1 AND team_id = $2
	`, attendantID, teamID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresAttendantsRepo) ListAssociatedSpecialtyIDs(ctx context.Context, q Querier, attendantID int) (map[int]bool, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT specialty_id
		FROM elderly_care.attendant_specialty
		WHERE attendant_id = $1
	`, attendantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDSet(rows)
}

func (r *PostgresAttendantsRepo) InsertSpecialtyAssociation(ctx context.Context, q Querier, attendantID, specialtyID int, audit domain.AuditContext) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO elderly_care.attendant_specialty (attendant_id, specialty_id, created_by, user_ip)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (attendant_id, specialty_id) DO NOTHING
	`, attendantID, specialtyID, audit.ActorID, audit.UserIP)
	return err
}

func (r *PostgresAttendantsRepo) ListTeamNames(ctx context.Context, q Querier, attendantID int) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT t.team_name
		FROM elderly_care.attendant_team at
		JOIN elderly_care.teams t ON t.team_id = at.team_id
		WHERE at.attendant_id = $1
		ORDER BY t.team_name
	`, attendantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStrings(rows)
}

func (r *PostgresAttendantsRepo) ListSpecialtyNames(ctx context.Context, q Querier, attendantID int) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT s.name
		FROM elderly_care.attendant_specialty asp
		JOIN elderly_care.specialties s ON s.id = asp.specialty_id
		WHERE asp.attendant_id = $1
		ORDER BY s.name
	`, attendantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStrings(rows)
}

func (r *PostgresAttendantsRepo) ListAttendantIDsByTeam(ctx context.Context, q Querier, teamID int) ([]int, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT attendant_id
		FROM elderly_care.attendant_team
		WHERE team_id = $1
		ORDER BY attendant_id
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func collectIDSet(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) (map[int]bool, error) {
	set := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		set[id] = true
	}
	return set, rows.Err()
}

func collectStrings(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
