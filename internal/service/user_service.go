package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"eldercare-data/internal/domain"
	"eldercare-data/internal/repository"
	"eldercare-data/internal/store"
	"eldercare-data/internal/validator"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService 用户管理服务接口
type UserService interface {
	// 注册
	RegisterSubscriber(ctx context.Context, req RegisterUserRequest, audit domain.AuditContext) (*UserInfo, error)
	RegisterContact(ctx context.Context, req RegisterUserRequest, audit domain.AuditContext) (*UserInfo, error)

	// 查询
	SearchUser(ctx context.Context, criteria SearchCriteria) (int, error)
	GetUser(ctx context.Context, userID int) (*UserInfo, error)

	// 更新
	UpdateUser(ctx context.Context, userID int, req UserUpdateRequest, audit domain.AuditContext) (*UserInfo, error)

	// 角色关联
	AssociateAssisted(ctx context.Context, subscriberID, assistedID int, audit domain.AuditContext) error
	ListAssisted(ctx context.Context, subscriberID int) ([]*UserInfo, error)
	AssociateContact(ctx context.Context, clientID, contactID int, typeContact string, audit domain.AuditContext) error
	ListClientContacts(ctx context.Context, clientID int) ([]*UserInfo, error)
	ListClientsOfContact(ctx context.Context, contactID int) ([]*UserInfo, error)
	DeleteContactAssociation(ctx context.Context, clientID, contactID int, audit domain.AuditContext) error

	// 通知窗口
	GetNotificationWindow(ctx context.Context, userID int) (*repository.NotificationWindow, error)
	UpdateNotificationWindow(ctx context.Context, userID int, w repository.NotificationWindow, audit domain.AuditContext) error
}

// userService 实现
type userService struct {
	db      *sql.DB
	users   repository.UsersRepository
	clients repository.ClientsRepository
	cache   store.KV
	logger  *zap.Logger
}

// NewUserService 创建 UserService 实例。cache 可为 nil（禁用查询缓存）。
func NewUserService(db *sql.DB, users repository.UsersRepository, clients repository.ClientsRepository, cache store.KV, logger *zap.Logger) UserService {
	return &userService{
		db:      db,
		users:   users,
		clients: clients,
		cache:   cache,
		logger:  logger,
	}
}

// ============================================
// Request/Response DTOs
// ============================================

// RegisterUserRequest 注册请求（subscriber / contact 共用）
type RegisterUserRequest struct {
	Name        string      `json:"name"`
	Email       string      `json:"email,omitempty"`
	Phone       string      `json:"phone"`
	ReceiptType int         `json:"receipt_type"`
	Role        string      `json:"role"`
	Active      *bool       `json:"active,omitempty"`
	Password    string      `json:"password,omitempty"`
	ClientData  *ClientData `json:"client_data,omitempty"`
}

// ClientData 客户档案数据
type ClientData struct {
	CPF          string `json:"cpf"`
	TeamID       *int   `json:"team_id,omitempty"`
	Birthday     string `json:"birthday,omitempty"` // YYYY-MM-DD
	Address      string `json:"address,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	CodeAddress  string `json:"code_address,omitempty"`
}

// SearchCriteria 查询条件：email / phone / cpf 三选一
type SearchCriteria struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	CPF   string `json:"cpf,omitempty"`
}

// UserInfo 用户信息响应
type UserInfo struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email,omitempty"`
	Phone       string      `json:"phone"`
	ReceiptType int         `json:"receipt_type,omitempty"`
	Role        string      `json:"role"`
	Active      bool        `json:"active"`
	ClientData  *ClientData `json:"client_data,omitempty"`
}

// UserUpdateRequest 用户更新请求（显式白名单字段）
type UserUpdateRequest struct {
	Email       *string            `json:"email,omitempty"`
	Phone       *string            `json:"phone,omitempty"`
	ReceiptType *int               `json:"receipt_type,omitempty"`
	Active      *bool              `json:"active,omitempty"`
	ClientData  *ClientUpdateData  `json:"client_data,omitempty"`
}

// ClientUpdateData 客户档案更新字段
type ClientUpdateData struct {
	TeamID       *int    `json:"team_id,omitempty"`
	Address      *string `json:"address,omitempty"`
	Neighborhood *string `json:"neighborhood,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	CodeAddress  *string `json:"code_address,omitempty"`
}

// ============================================
// 注册
// ============================================

// RegisterSubscriber 注册订阅者：users + clients 两行，单事务
func (s *userService) RegisterSubscriber(ctx context.Context, req RegisterUserRequest, audit domain.AuditContext) (*UserInfo, error) {
	if req.ClientData == nil {
		return nil, validator.Invalid("client_data is required when role is %q", domain.RoleSubscriber)
	}
	if req.Email == "" {
		return nil, validator.Invalid("email is required when role is %q", domain.RoleSubscriber)
	}
	if req.Password == "" {
		return nil, validator.Invalid("password is required when role is %q", domain.RoleSubscriber)
	}
	cpf, err := validator.NormalizeCPF(req.ClientData.CPF)
	if err != nil {
		return nil, err
	}

	if err := s.checkUserConflicts(ctx, req.Email, req.Phone); err != nil {
		return nil, err
	}
	if _, err := s.clients.GetClientByCPF(ctx, s.db, cpf); err == nil {
		return nil, ErrCPFExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	user := buildUser(req, domain.RoleSubscriber, passwordHash)
	userID, err := s.users.CreateUser(ctx, tx, user, audit)
	if err != nil {
		return nil, mapCreateUserError(err)
	}

	client, err := buildClient(userID, cpf, req.ClientData)
	if err != nil {
		return nil, err
	}
	if err := s.clients.CreateClient(ctx, tx, client, audit); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrCPFExists
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("subscriber registered", zap.Int("user_id", userID), zap.Int("created_by", audit.ActorID))
	return s.GetUser(ctx, userID)
}

// RegisterContact 注册联系人：email/password 可缺省
func (s *userService) RegisterContact(ctx context.Context, req RegisterUserRequest, audit domain.AuditContext) (*UserInfo, error) {
	if err := s.checkUserConflicts(ctx, req.Email, req.Phone); err != nil {
		return nil, err
	}

	var passwordHash string
	if req.Password != "" {
		var err error
		passwordHash, err = hashPassword(req.Password)
		if err != nil {
			return nil, err
		}
	}

	user := buildUser(req, domain.RoleContact, passwordHash)
	userID, err := s.users.CreateUser(ctx, s.db, user, audit)
	if err != nil {
		return nil, mapCreateUserError(err)
	}

	s.logger.Info("contact registered", zap.Int("user_id", userID), zap.Int("created_by", audit.ActorID))
	return s.GetUser(ctx, userID)
}

// ============================================
// 查询
// ============================================

// SearchUser 按单一条件（email / phone / cpf）查用户 id。
// 命中结果写入缓存（短 TTL），用户更新时失效。
func (s *userService) SearchUser(ctx context.Context, criteria SearchCriteria) (int, error) {
	key, lookup, err := s.resolveSearch(criteria)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if v, err := s.cache.Get(ctx, key); err == nil {
			if id, err := strconv.Atoi(v); err == nil {
				return id, nil
			}
		}
	}

	id, err := lookup(ctx)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, strconv.Itoa(id), searchCacheTTL); err != nil {
			s.logger.Warn("search cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return id, nil
}

const searchCacheTTL = 5 * time.Minute

func (s *userService) resolveSearch(criteria SearchCriteria) (string, func(context.Context) (int, error), error) {
	provided := 0
	if criteria.Email != "" {
		provided++
	}
	if criteria.Phone != "" {
		provided++
	}
	if criteria.CPF != "" {
		provided++
	}
	if provided != 1 {
		return "", nil, validator.Invalid("provide exactly one search criteria (email, phone, or cpf)")
	}

	switch {
	case criteria.Email != "":
		return "search:email:" + criteria.Email, func(ctx context.Context) (int, error) {
			u, err := s.users.GetUserByEmail(ctx, s.db, criteria.Email)
			if err != nil {
				return 0, err
			}
			return u.ID, nil
		}, nil
	case criteria.Phone != "":
		return "search:phone:" + criteria.Phone, func(ctx context.Context) (int, error) {
			u, err := s.users.GetUserByPhone(ctx, s.db, criteria.Phone)
			if err != nil {
				return 0, err
			}
			return u.ID, nil
		}, nil
	default:
		cpf, err := validator.NormalizeCPF(criteria.CPF)
		if err != nil {
			return "", nil, err
		}
		return "search:cpf:" + cpf, func(ctx context.Context) (int, error) {
			c, err := s.clients.GetClientByCPF(ctx, s.db, cpf)
			if err != nil {
				return 0, err
			}
			return c.UserID, nil
		}, nil
	}
}

func (s *userService) GetUser(ctx context.Context, userID int) (*UserInfo, error) {
	user, err := s.users.GetUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	info := userToInfo(user)

	client, err := s.clients.GetClient(ctx, s.db, userID)
	if err == nil {
		info.ClientData = clientToData(client)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return info, nil
}

// ============================================
// 更新
// ============================================

func (s *userService) UpdateUser(ctx context.Context, userID int, req UserUpdateRequest, audit domain.AuditContext) (*UserInfo, error) {
	old, err := s.users.GetUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if req.Phone != nil {
		if err := validator.ValidatePhone(*req.Phone); err != nil {
			return nil, err
		}
	}
	if req.ReceiptType != nil {
		if err := validator.ValidateReceiptType(*req.ReceiptType); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	upd := repository.UserUpdate{
		Email:       req.Email,
		Phone:       req.Phone,
		ReceiptType: req.ReceiptType,
		Active:      req.Active,
	}
	if err := s.users.UpdateUser(ctx, tx, userID, upd, audit); err != nil {
		return nil, mapCreateUserError(err)
	}

	if req.ClientData != nil {
		cupd := repository.ClientUpdate{
			TeamID:       req.ClientData.TeamID,
			Address:      req.ClientData.Address,
			Neighborhood: req.ClientData.Neighborhood,
			City:         req.ClientData.City,
			State:        req.ClientData.State,
			CodeAddress:  req.ClientData.CodeAddress,
		}
		if err := s.clients.UpdateClient(ctx, tx, userID, cupd, audit); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.invalidateSearchCache(ctx, old)
	return s.GetUser(ctx, userID)
}

// invalidateSearchCache 用户联系方式变更后清掉旧的查询缓存
func (s *userService) invalidateSearchCache(ctx context.Context, old *domain.User) {
	if s.cache == nil {
		return
	}
	keys := []string{"search:phone:" + old.Phone}
	if old.Email.Valid {
		keys = append(keys, "search:email:"+old.Email.String)
	}
	for _, k := range keys {
		if err := s.cache.Del(ctx, k); err != nil {
			s.logger.Warn("search cache invalidation failed", zap.String("key", k), zap.Error(err))
		}
	}
}

// ============================================
// 角色关联
// ============================================

func (s *userService) AssociateAssisted(ctx context.Context, subscriberID, assistedID int, audit domain.AuditContext) error {
	// 两端都必须已是客户
	if _, err := s.clients.GetClient(ctx, s.db, subscriberID); err != nil {
		return fmt.Errorf("subscriber %d: %w", subscriberID, err)
	}
	if _, err := s.clients.GetClient(ctx, s.db, assistedID); err != nil {
		return fmt.Errorf("assisted %d: %w", assistedID, err)
	}
	if err := s.clients.AssociateAssisted(ctx, s.db, subscriberID, assistedID, audit); err != nil {
		if repository.IsUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	s.logger.Info("assisted associated",
		zap.Int("subscriber_id", subscriberID),
		zap.Int("assisted_id", assistedID))
	return nil
}

func (s *userService) ListAssisted(ctx context.Context, subscriberID int) ([]*UserInfo, error) {
	ids, err := s.clients.ListAssistedIDs(ctx, s.db, subscriberID)
	if err != nil {
		return nil, err
	}
	return s.expandUsers(ctx, ids)
}

func (s *userService) AssociateContact(ctx context.Context, clientID, contactID int, typeContact string, audit domain.AuditContext) error {
	if _, err := s.clients.GetClient(ctx, s.db, clientID); err != nil {
		return fmt.Errorf("client %d: %w", clientID, err)
	}
	if _, err := s.users.GetUser(ctx, s.db, contactID); err != nil {
		return fmt.Errorf("contact %d: %w", contactID, err)
	}
	if err := s.clients.AssociateContact(ctx, s.db, clientID, contactID, typeContact, audit); err != nil {
		if repository.IsUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	s.logger.Info("contact associated",
		zap.Int("client_id", clientID),
		zap.Int("contact_id", contactID),
		zap.String("type", typeContact))
	return nil
}

func (s *userService) ListClientContacts(ctx context.Context, clientID int) ([]*UserInfo, error) {
	ids, err := s.clients.ListContactIDs(ctx, s.db, clientID)
	if err != nil {
		return nil, err
	}
	return s.expandUsers(ctx, ids)
}

func (s *userService) ListClientsOfContact(ctx context.Context, contactID int) ([]*UserInfo, error) {
	ids, err := s.clients.ListClientIDsOfContact(ctx, s.db, contactID)
	if err != nil {
		return nil, err
	}
	return s.expandUsers(ctx, ids)
}

// DeleteContactAssociation 删除客户↔联系人关联；联系人不再关联任何客户时，
// 一并删除孤立的联系人用户（原有行为）
func (s *userService) DeleteContactAssociation(ctx context.Context, clientID, contactID int, audit domain.AuditContext) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := s.clients.DeleteContactAssociation(ctx, tx, clientID, contactID); err != nil {
		return err
	}

	remaining, err := s.clients.CountClientsOfContact(ctx, tx, contactID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		user, err := s.users.GetUser(ctx, tx, contactID)
		if err == nil && user.Role == domain.RoleContact {
			if err := s.users.DeleteUser(ctx, tx, contactID); err != nil {
				return err
			}
			s.logger.Info("orphaned contact removed", zap.Int("contact_id", contactID))
		} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
	}

	return tx.Commit()
}

// ============================================
// 通知窗口
// ============================================

func (s *userService) GetNotificationWindow(ctx context.Context, userID int) (*repository.NotificationWindow, error) {
	return s.users.GetNotificationWindow(ctx, s.db, userID)
}

func (s *userService) UpdateNotificationWindow(ctx context.Context, userID int, w repository.NotificationWindow, audit domain.AuditContext) error {
	if err := validator.ValidateNotificationTime(w.StartTime); err != nil {
		return err
	}
	if err := validator.ValidateNotificationTime(w.EndTime); err != nil {
		return err
	}
	return s.users.UpdateNotificationWindow(ctx, s.db, userID, w, audit)
}

// ============================================
// helpers
// ============================================

func (s *userService) checkUserConflicts(ctx context.Context, email, phone string) error {
	if err := validator.ValidatePhone(phone); err != nil {
		return err
	}
	if email != "" {
		if _, err := s.users.GetUserByEmail(ctx, s.db, email); err == nil {
			return ErrEmailExists
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
	}
	if _, err := s.users.GetUserByPhone(ctx, s.db, phone); err == nil {
		return ErrPhoneExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

func (s *userService) expandUsers(ctx context.Context, ids []int) ([]*UserInfo, error) {
	infos := make([]*UserInfo, 0, len(ids))
	for _, id := range ids {
		info, err := s.GetUser(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func buildUser(req RegisterUserRequest, role string, passwordHash string) *domain.User {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	u := &domain.User{
		Name:   req.Name,
		Phone:  req.Phone,
		Role:   role,
		Active: active,
	}
	if req.Email != "" {
		u.Email = sql.NullString{String: req.Email, Valid: true}
	}
	if passwordHash != "" {
		u.PasswordHash = sql.NullString{String: passwordHash, Valid: true}
	}
	if req.ReceiptType != 0 {
		u.ReceiptType = sql.NullInt32{Int32: int32(req.ReceiptType), Valid: true}
	}
	return u
}

func buildClient(userID int, cpf string, data *ClientData) (*domain.Client, error) {
	c := &domain.Client{
		UserID: userID,
		CPF:    cpf,
	}
	if data.TeamID != nil {
		c.TeamID = sql.NullInt32{Int32: int32(*data.TeamID), Valid: true}
	}
	if data.Birthday != "" {
		b, err := parseDate(data.Birthday)
		if err != nil {
			return nil, err
		}
		c.Birthday = sql.NullTime{Time: b, Valid: true}
	}
	c.Address = nullString(data.Address)
	c.Neighborhood = nullString(data.Neighborhood)
	c.City = nullString(data.City)
	c.State = nullString(data.State)
	c.CodeAddress = nullString(data.CodeAddress)
	return c, nil
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, validator.Invalid("invalid date %q: expected YYYY-MM-DD", value)
	}
	return t, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func userToInfo(u *domain.User) *UserInfo {
	info := &UserInfo{
		ID:     u.ID,
		Name:   u.Name,
		Phone:  u.Phone,
		Role:   u.Role,
		Active: u.Active,
	}
	if u.Email.Valid {
		info.Email = u.Email.String
	}
	if u.ReceiptType.Valid {
		info.ReceiptType = int(u.ReceiptType.Int32)
	}
	return info
}

func clientToData(c *domain.Client) *ClientData {
	data := &ClientData{CPF: c.CPF}
	if c.TeamID.Valid {
		teamID := int(c.TeamID.Int32)
		data.TeamID = &teamID
	}
	if c.Birthday.Valid {
		data.Birthday = c.Birthday.Time.Format("2006-01-02")
	}
	data.Address = c.Address.String
	data.Neighborhood = c.Neighborhood.String
	data.City = c.City.String
	data.State = c.State.String
	data.CodeAddress = c.CodeAddress.String
	return data
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// mapCreateUserError 把 users 表唯一约束冲突翻译为对外错误
func mapCreateUserError(err error) error {
	if repository.IsUniqueViolation(err) {
		return ErrConflict
	}
	return err
}
