package domain

import (
	"database/sql"
)

// 护理人员经验级别（nivel_experiencia）
var ExperienceLevels = []string{"junior", "pleno", "senior", "especialista"}

// Attendant 护理人员档案（对应 elderly_care.attendants 表）
// user_id 主键即 users.id（一对一）；function_id 为单一可替换外键
type Attendant struct {
	UserID           int            `db:"user_id"`
	FunctionID       sql.NullInt32  `db:"function_id"` // nullable，整体替换（非增量）
	CPF              string         `db:"cpf"`         // unique among attendants
	Birthday         sql.NullTime   `db:"birthday"`
	Address          sql.NullString `db:"address"`
	Neighborhood     sql.NullString `db:"neighborhood"`
	City             sql.NullString `db:"city"`
	State            sql.NullString `db:"state"`
	CodeAddress      sql.NullString `db:"code_address"`
	RegistroConselho sql.NullString `db:"registro_conselho"` // 职业委员会注册号
	NivelExperiencia sql.NullString `db:"nivel_experiencia"`
	Formacao         sql.NullString `db:"formacao"` // 学历/专业背景

	AuditFields
}

// AttendantTeam 护理人员↔团队关联行（对应 elderly_care.attendant_team 表）
// 只增不删（删除走专门的 DeleteTeamAssociation）
type AttendantTeam struct {
	AttendantID int `db:"attendant_id"`
	TeamID      int `db:"team_id"`

	AuditFields
}

// AttendantSpecialty 护理人员↔专长关联行（对应 elderly_care.attendant_specialty 表）
type AttendantSpecialty struct {
	AttendantID int `db:"attendant_id"`
	SpecialtyID int `db:"specialty_id"`

	AuditFields
}
