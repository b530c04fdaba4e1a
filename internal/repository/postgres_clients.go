package repository

import (
	"context"
	"fmt"
	"strings"

	"eldercare-data/internal/domain"
)

// PostgresClientsRepo 客户档案 Repository 实现
type PostgresClientsRepo struct{}

func NewPostgresClientsRepo() *PostgresClientsRepo { return &PostgresClientsRepo{} }

var _ ClientsRepository = (*PostgresClientsRepo)(nil)

const clientColumns = `
	user_id,
	team_id,
	cpf,
	birthday,
	address,
	neighborhood,
	city,
	state,
	code_address,
	created_at,
	updated_at,
	created_by,
	updated_by,
	user_ip
`

func scanClient(row interface{ Scan(...any) error }) (*domain.Client, error) {
	var c domain.Client
	if err := row.Scan(
		&c.UserID,
		&c.TeamID,
		&c.CPF,
		&c.Birthday,
		&c.Address,
		&c.Neighborhood,
		&c.City,
		&c.State,
		&c.CodeAddress,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.CreatedBy,
		&c.UpdatedBy,
		&c.UserIP,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresClientsRepo) GetClient(ctx context.Context, q Querier, userID int) (*domain.Client, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+clientColumns+`
		FROM elderly_care.clients
		WHERE user_id = $1
	`, userID)
	return scanClient(row)
}

func (r *PostgresClientsRepo) GetClientByCPF(ctx context.Context, q Querier, cpf string) (*domain.Client, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+clientColumns+`
		FROM elderly_care.clients
		WHERE cpf = $1
	`, cpf)
	return scanClient(row)
}

func (r *PostgresClientsRepo) CreateClient(ctx context.Context, q Querier, c *domain.Client, audit domain.AuditContext) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO elderly_care.clients (
			user_id, team_id, cpf, birthday,
			address, neighborhood, city, state, code_address,
			created_by, user_ip
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		c.UserID, c.TeamID, c.CPF, c.Birthday,
		c.Address, c.Neighborhood, c.City, c.State, c.CodeAddress,
		audit.ActorID, audit.UserIP,
	)
	return err
}

func (r *PostgresClientsRepo) UpdateClient(ctx context.Context, q Querier, userID int, upd ClientUpdate, audit domain.AuditContext) error {
	set := []string{}
	args := []any{userID}
	argN := 2
	add := func(col string, v any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, argN))
		args = append(args, v)
		argN++
	}
	if upd.TeamID != nil {
		add("team_id", *upd.TeamID)
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
	if len(set) == 0 {
		return nil
	}
	add("updated_by", audit.ActorID)
	add("user_ip", audit.UserIP)
	set = append(set, "updated_at = now()")

	query := "UPDATE elderly_care.clients SET " + strings.Join(set, ", ") + " WHERE user_id = $1"
	res, err := q.ExecContext(ctx, query, args...)
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

func (r *PostgresClientsRepo) AssociateAssisted(ctx context.Context, q Querier, subscriberID, assistedID int, audit domain.AuditContext) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO elderly_care.client_association (subscriber_id, assisted_id, created_by, user_ip)
		VALUES ($1, $2, $3, $4)
	`, subscriberID, assistedID, audit.ActorID, audit.UserIP)
	return err
}

func (r *PostgresClientsRepo) ListAssistedIDs(ctx context.Context, q Querier, subscriberID int) ([]int, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT assisted_id
		FROM elderly_care.client_association
		WHERE subscriber_id = $1
		ORDER BY assisted_id
	`, subscriberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInts(rows)
}

func (r *PostgresClientsRepo) AssociateContact(ctx context.Context, q Querier, clientID, contactID int, typeContact string, audit domain.AuditContext) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO elderly_care.contacts (user_client_id, user_contact_id, type_contact, created_by, user_ip)
		VALUES ($1, $2, $3, $4, $5)
	`, clientID, contactID, typeContact, audit.ActorID, audit.UserIP)
	return err
}

func (r *PostgresClientsRepo) ListContactIDs(ctx context.Context, q Querier, clientID int) ([]int, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT user_contact_id
		FROM elderly_care.contacts
		WHERE user_client_id = $1
		ORDER BY user_contact_id
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInts(rows)
}

func (r *PostgresClientsRepo) ListClientIDsOfContact(ctx context.Context, q Querier, contactID int) ([]int, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT user_client_id
		FROM elderly_care.contacts
		WHERE user_contact_id = $1
		ORDER BY user_client_id
	`, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInts(rows)
}

func (r *PostgresClientsRepo) DeleteContactAssociation(ctx context.Context, q Querier, clientID, contactID int) error {
	res, err := q.ExecContext(ctx, `
		DELETE FROM elderly_care.contacts
		WHERE user_client_id = $1 AND user_contact_id = $2
	`, clientID, contactID)
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

func (r *PostgresClientsRepo) CountClientsOfContact(ctx context.Context, q Querier, contactID int) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM elderly_care.contacts
		WHERE user_contact_id = $1
	`, contactID).Scan(&n)
	return n, err
}

// ListClientIDsForAttendant 经由护理人员所属团队可达的客户
func (r *PostgresClientsRepo) ListClientIDsForAttendant(ctx context.Context, q Querier, attendantID int) ([]int, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT DISTINCT c.user_id
		FROM elderly_care.clients c
		JOIN elderly_care.attendant_team at ON at.team_id = c.team_id
		WHERE at.attendant_id = $1
		ORDER BY c.user_id
	`, attendantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInts(rows)
}

func collectInts(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]int, error) {
	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
