package repository

import (
	"context"

	"eldercare-data/internal/domain"
)

// ClientsRepository 客户档案与角色关联 Repository 接口
// 覆盖 clients / contacts / client_association 三张表
type ClientsRepository interface {
	GetClient(ctx context.Context, q Querier, userID int) (*domain.Client, error)
	GetClientByCPF(ctx context.Context, q Querier, cpf string) (*domain.Client, error)
	CreateClient(ctx context.Context, q Querier, c *domain.Client, audit domain.AuditContext) error
	UpdateClient(ctx context.Context, q Querier, userID int, upd ClientUpdate, audit domain.AuditContext) error

	// subscriber ↔ assisted
	AssociateAssisted(ctx context.Context, q Querier, subscriberID, assistedID int, audit domain.AuditContext) error
	ListAssistedIDs(ctx context.Context, q Querier, subscriberID int) ([]int, error)

	// client ↔ contact
	AssociateContact(ctx context.Context, q Querier, clientID, contactID int, typeContact string, audit domain.AuditContext) error
	ListContactIDs(ctx context.Context, q Querier, clientID int) ([]int, error)
	ListClientIDsOfContact(ctx context.Context, q Querier, contactID int) ([]int, error)
	DeleteContactAssociation(ctx context.Context, q Querier, clientID, contactID int) error
	CountClientsOfContact(ctx context.Context, q Querier, contactID int) (int, error)

	// attendant 视角：经由 attendant 的团队可达的客户
	ListClientIDsForAttendant(ctx context.Context, q Querier, attendantID int) ([]int, error)
}

// ClientUpdate 客户档案更新白名单
type ClientUpdate struct {
	TeamID       *int
	Address      *string
	Neighborhood *string
	City         *string
	State        *string
	CodeAddress  *string
}
