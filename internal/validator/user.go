package validator

import (
	"fmt"
	"regexp"
	"strings"

	"eldercare-data/internal/domain"
)

// E.164 风格电话号（与原有 API 约定一致）
var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// HH:MM，严格两位（08:00 合法，8:00 不合法）
var notificationTimePattern = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidationError 请求校验错误；handler 层统一翻译成 HTTP 400
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Invalid 构造格式化的校验错误
func Invalid(format string, args ...any) error {
	return ValidationError(fmt.Sprintf(format, args...))
}

var ErrInvalidPhone error = ValidationError("phone must match ^\\+?[1-9]\\d{1,14}$")

// ValidatePhone 校验电话号格式
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

// ValidateNotificationTime 校验通知窗口时间（HH:MM）
func ValidateNotificationTime(v string) error {
	if !notificationTimePattern.MatchString(v) {
		return Invalid("invalid notification time %q: must be HH:MM", v)
	}
	return nil
}

// ValidateRole 校验用户角色
func ValidateRole(role string) error {
	switch role {
	case domain.RoleContact, domain.RoleSubscriber, domain.RoleAssisted, domain.RoleAttendant:
		return nil
	}
	return Invalid("invalid role %q", role)
}

// ValidateExperienceLevel 校验 nivel_experiencia 取值
func ValidateExperienceLevel(level string) error {
	for _, l := range domain.ExperienceLevels {
		if l == level {
			return nil
		}
	}
	return Invalid("invalid nivel_experiencia %q: must be one of %s",
		level, strings.Join(domain.ExperienceLevels, ", "))
}

// ValidateReceiptType 校验通知渠道（1 WhatsApp / 2 SMS / 3 全部）
func ValidateReceiptType(t int) error {
	if t < domain.ReceiptWhatsApp || t > domain.ReceiptAll {
		return Invalid("invalid receipt_type %d: must be 1, 2 or 3", t)
	}
	return nil
}
