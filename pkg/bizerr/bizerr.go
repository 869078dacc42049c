// Package bizerr 定义携带业务错误码的错误类型。
// service 层返回 *Error，handler 层按 Kind 决定是否直接把 Code 回给客户端。
package bizerr

import (
	"errors"
	"fmt"

	"FitSocial/consts"
)

// Kind 错误分类
type Kind int

const (
	KindValidation Kind = iota + 1 // 参数不合法，未触达存储
	KindConflict                   // 与现有状态冲突，重试无意义
	KindNotFound                   // 目标不存在
	KindInternal                   // 存储或依赖异常
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error 业务错误
type Error struct {
	Kind    Kind
	Code    int32
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s(%d): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s(%d): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is 同错误码即视为同一错误，便于 errors.Is 比较预定义错误。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New 创建业务错误，消息取自 consts.CodeMessage
func New(kind Kind, code int32) *Error {
	return &Error{Kind: kind, Code: code, Message: consts.GetMessage(code)}
}

func Validation(code int32) *Error { return New(KindValidation, code) }
func Conflict(code int32) *Error   { return New(KindConflict, code) }
func NotFound(code int32) *Error   { return New(KindNotFound, code) }

// Internal 包装底层错误为内部错误
func Internal(cause error) *Error {
	e := New(KindInternal, consts.CodeInternalError)
	e.Cause = cause
	return e
}

// WithMessage 返回替换了消息的副本，原值不变
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

// Wrap 返回附带底层原因的副本
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Cause = cause
	return &cp
}

// From 从错误链中取出 *Error
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf 返回错误码；非业务错误一律视为内部错误
func CodeOf(err error) int32 {
	if err == nil {
		return consts.CodeSuccess
	}
	if e, ok := From(err); ok {
		return e.Code
	}
	return consts.CodeInternalError
}

// IsKind 判断错误链中的业务错误分类
func IsKind(err error, kind Kind) bool {
	e, ok := From(err)
	return ok && e.Kind == kind
}
