package repository

import (
	"context"
	"fmt"
	"strings"

	"eldercare-data/internal/domain"
)

// PostgresUsersRepo 用户 Repository 实现（强类型版本）
type PostgresUsersRepo struct{}

func NewPostgresUsersRepo() *PostgresUsersRepo { return &PostgresUsersRepo{} }

var _ UsersRepository = (*PostgresUsersRepo)(nil)

const userColumns = `
	id,
	name,
	email,
	phone,
	role,
	active,
	password_hash,
	receipt_type,
	notification_start_time,
	notification_end_time,
	paused_until,
	created_at,
	updated_at,
	created_by,
	updated_by,
	user_ip
`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.Role,
		&u.Active,
		&u.PasswordHash,
		&u.ReceiptType,
		&u.NotificationStartTime,
		&u.NotificationEndTime,
		&u.PausedUntil,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.CreatedBy,
		&u.UpdatedBy,
		&u.UserIP,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUsersRepo) GetUser(ctx context.Context, q Querier, userID int) (*domain.User, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM elderly_care.users
		WHERE id = $1
	`, userID)
	return scanUser(row)
}

func (r *PostgresUsersRepo) GetUserByEmail(ctx context.Context, q Querier, email string) (*domain.User, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM elderly_care.users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

func (r *PostgresUsersRepo) GetUserByPhone(ctx context.Context, q Querier, phone string) (*domain.User, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM elderly_care.users
		WHERE phone = $1
	`, phone)
	return scanUser(row)
}

func (r *PostgresUsersRepo) CreateUser(ctx context.Context, q Querier, u *domain.User, audit domain.AuditContext) (int, error) {
	var id int
	err := q.QueryRowContext(ctx, `
		INSERT INTO elderly_care.users (
			name, email, phone, role, active, password_hash, receipt_type,
			created_by, user_ip
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`,
		u.Name, u.Email, u.Phone, u.Role, u.Active, u.PasswordHash, u.ReceiptType,
		audit.ActorID, audit.UserIP,
	).Scan(&id)
	return id, err
}

// UpdateUser 按白名单更新（不做反射赋值）
func (r *PostgresUsersRepo) UpdateUser(ctx context.Context, q Querier, userID int, upd UserUpdate, audit domain.AuditContext) error {
	set := []string{}
	args := []any{userID}
	argN := 2
	add := func(col string, v any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, argN))
		args = append(args, v)
		argN++
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Phone != nil {
		add("phone", *upd.Phone)
	}
	if upd.ReceiptType != nil {
		add("receipt_type", *upd.ReceiptType)
	}
	if upd.Active != nil {
		add("active", *upd.Active)
	}
	if len(set) == 0 {
		return nil
	}
	add("updated_by", audit.ActorID)
	add("user_ip", audit.UserIP)
	set = append(set, "updated_at = now()")

	query := "UPDATE elderly_care.users SET " + strings.Join(set, ", ") + " WHERE id = $1"
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

func (r *PostgresUsersRepo) DeleteUser(ctx context.Context, q Querier, userID int) error {
	_, err := q.ExecContext(ctx, `DELETE FROM elderly_care.users WHERE id = $1`, userID)
	return err
}

func (r *PostgresUsersRepo) GetNotificationWindow(ctx context.Context, q Querier, userID int) (*NotificationWindow, error) {
	var w NotificationWindow
	err := q.QueryRowContext(ctx, `
		SELECT
			COALESCE(notification_start_time, '08:00'),
			COALESCE(notification_end_time, '22:00'),
			paused_until
		FROM elderly_care.users
		WHERE id = $1
	`, userID).Scan(&w.StartTime, &w.EndTime, &w.PausedUntil)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *PostgresUsersRepo) UpdateNotificationWindow(ctx context.Context, q Querier, userID int, w NotificationWindow, audit domain.AuditContext) error {
	res, err := q.ExecContext(ctx, `
		UPDATE elderly_care.users
		SET notification_start_time = $2,
		    notification_end_time = $3,
		    paused_until = $4,
		    updated_by = $5,
		    user_ip = $6,
		    updated_at = now()
		WHERE id = $1
	`, userID, w.StartTime, w.EndTime, w.PausedUntil, audit.ActorID, audit.UserIP)
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
