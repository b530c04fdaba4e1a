package domain

import (
	"database/sql"
	"time"
)

// Client 客户档案（subscriber / assisted 共用，对应 elderly_care.clients 表）
// user_id 主键即 users.id（一对一）
type Client struct {
	UserID       int            `db:"user_id"`
	TeamID       sql.NullInt32  `db:"team_id"` // 负责团队，nullable
	CPF          string         `db:"cpf"`     // unique, NOT NULL，格式 xxx.xxx.xxx-xx
	Birthday     sql.NullTime   `db:"birthday"`
	Address      sql.NullString `db:"address"`
	Neighborhood sql.NullString `db:"neighborhood"`
	City         sql.NullString `db:"city"`
	State        sql.NullString `db:"state"`
	CodeAddress  sql.NullString `db:"code_address"` // CEP

	AuditFields
}

// ClientContact 客户↔联系人关联（对应 elderly_care.contacts 表）
type ClientContact struct {
	UserClientID  int            `db:"user_client_id"`
	UserContactID int            `db:"user_contact_id"`
	TypeContact   sql.NullString `db:"type_contact"` // emergency 等

	AuditFields
}

// ClientAssociation 订阅者↔被照护人关联（对应 elderly_care.client_association 表）
type ClientAssociation struct {
	SubscriberID int       `db:"subscriber_id"`
	AssistedID   int       `db:"assisted_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	CreatedBy    int       `db:"created_by"`
}
