package service

import (
	"context"
	"database/sql"
	"errors"

	"eldercare-data/internal/domain"
	"eldercare-data/internal/repository"
	"eldercare-data/internal/store"
	"eldercare-data/internal/validator"

	"go.uber.org/zap"
)

// AttendantService 护理人员管理服务接口
type AttendantService interface {
	RegisterAttendant(ctx context.Context, req RegisterAttendantRequest, audit domain.AuditContext) (*AttendantInfo, error)
	GetAttendant(ctx context.Context, userID int) (*AttendantInfo, error)
	UpdateAttendant(ctx context.Context, userID int, req AttendantUpdateRequest, audit domain.AuditContext) (*AttendantInfo, error)
	SearchAttendant(ctx context.Context, criteria SearchCriteria) (int, error)
	ListClientsForAttendant(ctx context.Context, attendantID int) ([]*UserInfo, error)
	DeleteTeamAssociation(ctx context.Context, attendantID, teamID int, audit domain.AuditContext) error
	ListTeamAttendants(ctx context.Context, teamID int) ([]*AttendantInfo, error)
}

// attendantService 实现
type attendantService struct {
	db           *sql.DB
	users        repository.UsersRepository
	clients      repository.ClientsRepository
	attendants   repository.AttendantsRepository
	teams        repository.TeamsRepository
	functions    repository.FunctionsRepository
	associations *AttendantAssociationService
	cache        store.KV
	logger       *zap.Logger
}

// NewAttendantService 创建 AttendantService 实例
func NewAttendantService(
	db *sql.DB,
	users repository.UsersRepository,
	clients repository.ClientsRepository,
	attendants repository.AttendantsRepository,
	teams repository.TeamsRepository,
	functions repository.FunctionsRepository,
	associations *AttendantAssociationService,
	cache store.KV,
	logger *zap.Logger,
) AttendantService {
	return &attendantService{
		db:           db,
		users:        users,
		clients:      clients,
		attendants:   attendants,
		teams:        teams,
		functions:    functions,
		associations: associations,
		cache:        cache,
		logger:       logger,
	}
}

// ============================================
// Request/Response DTOs
// ============================================

// RegisterAttendantRequest 护理人员注册请求
type RegisterAttendantRequest struct {
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	ReceiptType   int            `json:"receipt_type,omitempty"`
	Active        *bool          `json:"active,omitempty"`
	Password      string         `json:"password"`
	AttendantData *AttendantData `json:"attendant_data"`
}

// AttendantData 护理人员档案数据（注册用）
type AttendantData struct {
	CPF              string   `json:"cpf"`
	Birthday         string   `json:"birthday,omitempty"` // YYYY-MM-DD
	Address          string   `json:"address,omitempty"`
	Neighborhood     string   `json:"neighborhood,omitempty"`
	City             string   `json:"city,omitempty"`
	State            string   `json:"state,omitempty"`
	CodeAddress      string   `json:"code_address,omitempty"`
	RegistroConselho string   `json:"registro_conselho,omitempty"`
	NivelExperiencia string   `json:"nivel_experiencia,omitempty"`
	Formacao         string   `json:"formacao,omitempty"`
	Specialties      []string `json:"specialties,omitempty"`
	TeamNames        []string `json:"team_names,omitempty"`
	FunctionName     string   `json:"function_names,omitempty"` // 单一职能，沿用原有字段名
}

// AttendantInfo 护理人员信息响应
type AttendantInfo struct {
	ID            int                `json:"id"`
	Name          string             `json:"name"`
	Email         string             `json:"email,omitempty"`
	Phone         string             `json:"phone"`
	ReceiptType   int                `json:"receipt_type,omitempty"`
	Role          string             `json:"role"`
	Active        bool               `json:"active"`
	AttendantData *AttendantProfile  `json:"attendant_data,omitempty"`
}

// AttendantProfile 护理人员档案（响应用，含展开的关联名称）
type AttendantProfile struct {
	CPF              string   `json:"cpf"`
	Birthday         string   `json:"birthday,omitempty"`
	Address          string   `json:"address,omitempty"`
	Neighborhood     string   `json:"neighborhood,omitempty"`
	City             string   `json:"city,omitempty"`
	State            string   `json:"state,omitempty"`
	CodeAddress      string   `json:"code_address,omitempty"`
	RegistroConselho string   `json:"registro_conselho,omitempty"`
	NivelExperiencia string   `json:"nivel_experiencia,omitempty"`
	Formacao         string   `json:"formacao,omitempty"`
	Specialties      []string `json:"specialties"`
	TeamNames        []string `json:"team_names"`
	FunctionName     string   `json:"function_names,omitempty"`
}

// AttendantUpdateRequest 护理人员更新请求
type AttendantUpdateRequest struct {
	Email         *string              `json:"email,omitempty"`
	Phone         *string              `json:"phone,omitempty"`
	ReceiptType   *int                 `json:"receipt_type,omitempty"`
	Active        *bool                `json:"active,omitempty"`
	AttendantData *AttendantUpdateData `json:"attendant_data,omitempty"`
}

// AttendantUpdateData 护理人员档案更新字段（显式白名单）
type AttendantUpdateData struct {
	Address          *string  `json:"address,omitempty"`
	Neighborhood     *string  `json:"neighborhood,omitempty"`
	City             *string  `json:"city,omitempty"`
	State            *string  `json:"state,omitempty"`
	CodeAddress      *string  `json:"code_address,omitempty"`
	RegistroConselho *string  `json:"registro_conselho,omitempty"`
	NivelExperiencia *string  `json:"nivel_experiencia,omitempty"`
	Formacao         *string  `json:"formacao,omitempty"`
	Specialties      []string `json:"specialties,omitempty"`
	TeamNames        []string `json:"team_names,omitempty"`
	FunctionName     *string  `json:"function_names,omitempty"`
}

// ============================================
// 注册
// ============================================

// RegisterAttendant 注册护理人员：users + attendants + 关联同步，单事务。
// 任一步失败整体回滚，不会留下半套关联。
func (s *attendantService) RegisterAttendant(ctx context.Context, req RegisterAttendantRequest, audit domain.AuditContext) (*AttendantInfo, error) {
	if req.AttendantData == nil {
		return nil, validator.Invalid("attendant_data is required when role is %q", domain.RoleAttendant)
	}
	if req.Email == "" {
		return nil, validator.Invalid("email is required when role is %q", domain.RoleAttendant)
	}
	if req.Password == "" {
		return nil, validator.Invalid("password is required when role is %q", domain.RoleAttendant)
	}
	if req.AttendantData.NivelExperiencia != "" {
		if err := validator.ValidateExperienceLevel(req.AttendantData.NivelExperiencia); err != nil {
			return nil, err
		}
	}
	cpf, err := validator.NormalizeCPF(req.AttendantData.CPF)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidatePhone(req.Phone); err != nil {
		return nil, err
	}

	// 冲突预检（事务外，最终一致由唯一约束兜底）
	if _, err := s.users.GetUserByEmail(ctx, s.db, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if _, err := s.users.GetUserByPhone(ctx, s.db, req.Phone); err == nil {
		return nil, ErrPhoneExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if _, err := s.attendants.GetAttendantByCPF(ctx, s.db, cpf); err == nil {
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

	user := buildUser(RegisterUserRequest{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		ReceiptType: req.ReceiptType,
		Active:      req.Active,
	}, domain.RoleAttendant, passwordHash)
	userID, err := s.users.CreateUser(ctx, tx, user, audit)
	if err != nil {
		return nil, mapCreateUserError(err)
	}

	att, err := buildAttendant(userID, cpf, req.AttendantData)
	if err != nil {
		return nil, err
	}

	fn, err := s.associations.SyncFunctionAssociation(ctx, tx, functionNames(req.AttendantData.FunctionName), audit)
	if err != nil {
		return nil, err
	}
	if fn != nil {
		att.FunctionID = sql.NullInt32{Int32: int32(fn.ID), Valid: true}
	}

	if err := s.attendants.CreateAttendant(ctx, tx, att, audit); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrCPFExists
		}
		return nil, err
	}

	if err := s.associations.SyncTeamAssociations(ctx, tx, userID, req.AttendantData.TeamNames, audit); err != nil {
		return nil, err
	}
	if err := s.associations.SyncSpecialtyAssociations(ctx, tx, userID, req.AttendantData.Specialties, audit); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("attendant registered",
		zap.Int("user_id", userID),
		zap.Int("created_by", audit.ActorID))
	return s.GetAttendant(ctx, userID)
}

// ============================================
// 查询
// ============================================

func (s *attendantService) GetAttendant(ctx context.Context, userID int) (*AttendantInfo, error) {
	user, err := s.users.GetUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	att, err := s.attendants.GetAttendant(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	profile := attendantToProfile(att)
	profile.TeamNames, err = s.attendants.ListTeamNames(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	profile.Specialties, err = s.attendants.ListSpecialtyNames(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if profile.TeamNames == nil {
		profile.TeamNames = []string{}
	}
	if profile.Specialties == nil {
		profile.Specialties = []string{}
	}
	if att.FunctionID.Valid {
		fn, err := s.functions.GetFunction(ctx, s.db, int(att.FunctionID.Int32))
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if fn != nil {
			profile.FunctionName = fn.Name
		}
	}

	info := &AttendantInfo{
		ID:            user.ID,
		Name:          user.Name,
		Phone:         user.Phone,
		Role:          user.Role,
		Active:        user.Active,
		AttendantData: profile,
	}
	if user.Email.Valid {
		info.Email = user.Email.String
	}
	if user.ReceiptType.Valid {
		info.ReceiptType = int(user.ReceiptType.Int32)
	}
	return info, nil
}

func (s *attendantService) SearchAttendant(ctx context.Context, criteria SearchCriteria) (int, error) {
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
		return 0, validator.Invalid("provide exactly one search criteria (email, phone, or cpf)")
	}

	switch {
	case criteria.CPF != "":
		cpf, err := validator.NormalizeCPF(criteria.CPF)
		if err != nil {
			return 0, err
		}
		att, err := s.attendants.GetAttendantByCPF(ctx, s.db, cpf)
		if err != nil {
			return 0, err
		}
		return att.UserID, nil
	case criteria.Email != "":
		u, err := s.users.GetUserByEmail(ctx, s.db, criteria.Email)
		if err != nil {
			return 0, err
		}
		if u.Role != domain.RoleAttendant {
			return 0, sql.ErrNoRows
		}
		return u.ID, nil
	default:
		u, err := s.users.GetUserByPhone(ctx, s.db, criteria.Phone)
		if err != nil {
			return 0, err
		}
		if u.Role != domain.RoleAttendant {
			return 0, sql.ErrNoRows
		}
		return u.ID, nil
	}
}

func (s *attendantService) ListClientsForAttendant(ctx context.Context, attendantID int) ([]*UserInfo, error) {
	ids, err := s.clients.ListClientIDsForAttendant(ctx, s.db, attendantID)
	if err != nil {
		return nil, err
	}
	infos := make([]*UserInfo, 0, len(ids))
	for _, id := range ids {
		user, err := s.users.GetUser(ctx, s.db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}
		info := userToInfo(user)
		if client, err := s.clients.GetClient(ctx, s.db, id); err == nil {
			info.ClientData = clientToData(client)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *attendantService) ListTeamAttendants(ctx context.Context, teamID int) ([]*AttendantInfo, error) {
	if _, err := s.teams.GetTeam(ctx, s.db, teamID); err != nil {
		return nil, err
	}
	ids, err := s.attendants.ListAttendantIDsByTeam(ctx, s.db, teamID)
	if err != nil {
		return nil, err
	}
	infos := make([]*AttendantInfo, 0, len(ids))
	for _, id := range ids {
		info, err := s.GetAttendant(ctx, id)
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

// ============================================
// 更新
// ============================================

// UpdateAttendant 更新用户字段 + 档案字段 + 关联同步，单事务
func (s *attendantService) UpdateAttendant(ctx context.Context, userID int, req AttendantUpdateRequest, audit domain.AuditContext) (*AttendantInfo, error) {
	old, err := s.users.GetUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.attendants.GetAttendant(ctx, s.db, userID); err != nil {
		return nil, err
	}
	if req.Phone != nil {
		if err := validator.ValidatePhone(*req.Phone); err != nil {
			return nil, err
		}
	}
	if req.AttendantData != nil && req.AttendantData.NivelExperiencia != nil {
		if err := validator.ValidateExperienceLevel(*req.AttendantData.NivelExperiencia); err != nil {
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

	if d := req.AttendantData; d != nil {
		aupd := repository.AttendantUpdate{
			Address:          d.Address,
			Neighborhood:     d.Neighborhood,
			City:             d.City,
			State:            d.State,
			CodeAddress:      d.CodeAddress,
			RegistroConselho: d.RegistroConselho,
			NivelExperiencia: d.NivelExperiencia,
			Formacao:         d.Formacao,
		}
		if err := s.attendants.UpdateAttendant(ctx, tx, userID, aupd, audit); err != nil {
			return nil, err
		}

		if err := s.associations.SyncTeamAssociations(ctx, tx, userID, d.TeamNames, audit); err != nil {
			return nil, err
		}
		if err := s.associations.SyncSpecialtyAssociations(ctx, tx, userID, d.Specialties, audit); err != nil {
			return nil, err
		}
		if d.FunctionName != nil {
			fn, err := s.associations.SyncFunctionAssociation(ctx, tx, functionNames(*d.FunctionName), audit)
			if err != nil {
				return nil, err
			}
			if fn != nil {
				if err := s.attendants.SetFunction(ctx, tx, userID, fn.ID, audit); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.invalidateSearchCache(ctx, old)
	return s.GetAttendant(ctx, userID)
}

func (s *attendantService) DeleteTeamAssociation(ctx context.Context, attendantID, teamID int, audit domain.AuditContext) error {
	if err := s.attendants.DeleteTeamAssociation(ctx, s.db, attendantID, teamID); err != nil {
		return err
	}
	s.logger.Info("team association deleted",
		zap.Int("attendant_id", attendantID),
		zap.Int("team_id", teamID),
		zap.Int("updated_by", audit.ActorID))
	return nil
}

// ============================================
// helpers
// ============================================

func (s *attendantService) invalidateSearchCache(ctx context.Context, old *domain.User) {
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

// functionNames 原有 API 用 function_names 字符串承载单一职能
func functionNames(name string) []string {
	if name == "" {
		return nil
	}
	return []string{name}
}

func buildAttendant(userID int, cpf string, data *AttendantData) (*domain.Attendant, error) {
	a := &domain.Attendant{
		UserID: userID,
		CPF:    cpf,
	}
	if data.Birthday != "" {
		b, err := parseDate(data.Birthday)
		if err != nil {
			return nil, err
		}
		a.Birthday = sql.NullTime{Time: b, Valid: true}
	}
	a.Address = nullString(data.Address)
	a.Neighborhood = nullString(data.Neighborhood)
	a.City = nullString(data.City)
	a.State = nullString(data.State)
	a.CodeAddress = nullString(data.CodeAddress)
	a.RegistroConselho = nullString(data.RegistroConselho)
	a.NivelExperiencia = nullString(data.NivelExperiencia)
	a.Formacao = nullString(data.Formacao)
	return a, nil
}

func attendantToProfile(a *domain.Attendant) *AttendantProfile {
	p := &AttendantProfile{CPF: a.CPF}
	if a.Birthday.Valid {
		p.Birthday = a.Birthday.Time.Format("2006-01-02")
	}
	p.Address = a.Address.String
	p.Neighborhood = a.Neighborhood.String
	p.City = a.City.String
	p.State = a.State.String
	p.CodeAddress = a.CodeAddress.String
	p.RegistroConselho = a.RegistroConselho.String
	p.NivelExperiencia = a.NivelExperiencia.String
	p.Formacao = a.Formacao.String
	return p
}
