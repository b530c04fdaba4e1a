package service

import "errors"

// 与原有 API 对齐的冲突/校验错误；handler 层统一翻译成 HTTP 422
var (
	ErrEmailExists      = errors.New("Email already exists")
	ErrPhoneExists      = errors.New("Phone already exists")
	ErrCPFExists        = errors.New("CPF already exists")
	ErrClientExists     = errors.New("Client already exists")
	ErrSubscriberExists = errors.New("The subscriber already exists")

	// ErrConflict 由调用链判定的通用唯一约束冲突
	ErrConflict = errors.New("conflict")
)
