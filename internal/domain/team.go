package domain

import (
	"database/sql"
)

// Team 护理团队（对应 elderly_care.teams 表，team_name 唯一）
// 按名称引用、不存在则惰性创建（team_site 缺省 "default"）
type Team struct {
	TeamID   int    `db:"team_id"`
	TeamName string `db:"team_name"` // unique, NOT NULL
	TeamSite string `db:"team_site"` // NOT NULL

	AuditFields
}

// Specialty 专长标签（对应 elderly_care.specialties 表，name 唯一）
type Specialty struct {
	ID   int    `db:"id"`
	Name string `db:"name"` // unique, NOT NULL

	AuditFields
}

// Function 职能/岗位（对应 elderly_care.functions 表，name 唯一）
type Function struct {
	ID          int            `db:"function_id"`
	Name        string         `db:"function_name"` // unique, NOT NULL
	Description sql.NullString `db:"function_description"`

	AuditFields
}
