package validator

import (
	"fmt"
	"regexp"
)

var (
	ErrCPFLength error = ValidationError("CPF deve conter 11 dígitos")
	ErrCPFFormat error = ValidationError("CPF deve estar no formato xxx.xxx.xxx-xx")
)

var (
	nonDigits    = regexp.MustCompile(`[^\d]`)
	formattedCPF = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
)

// NormalizeCPF 校验并规范化 CPF：去掉非数字字符，要求 11 位，
// 输出 xxx.xxx.xxx-xx 规范格式（存库用规范格式，查询前先规范化）。
func NormalizeCPF(v string) (string, error) {
	cpf := nonDigits.ReplaceAllString(v, "")
	if len(cpf) != 11 {
		return "", ErrCPFLength
	}
	formatted := fmt.Sprintf("%s.%s.%s-%s", cpf[:3], cpf[3:6], cpf[6:9], cpf[9:])
	if !formattedCPF.MatchString(formatted) {
		return "", ErrCPFFormat
	}
	return formatted, nil
}
