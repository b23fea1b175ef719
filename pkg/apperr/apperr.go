// Package apperr 定义了业务层统一使用的错误类型。
// 服务层返回 *Error，由 handler 统一映射为 HTTP 状态码和响应体。
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 表示错误的类别。
type Kind string

const (
	KindMissingField     Kind = "MISSING_FIELD"
	KindInvalidEnum      Kind = "INVALID_ENUM"
	KindInvalidFormat    Kind = "INVALID_FORMAT"
	KindConsentRequired  Kind = "CONSENT_REQUIRED"
	KindNotFound         Kind = "NOT_FOUND"
	KindStoreUnavailable Kind = "STORE_UNAVAILABLE"
	KindBadRequest       Kind = "BAD_REQUEST"
	KindUnauthorized     Kind = "UNAUTHORIZED"
	KindForbidden        Kind = "FORBIDDEN"
	KindConflict         Kind = "CONFLICT"
)

// Error 是带类别和字段信息的业务错误。
type Error struct {
	Kind    Kind
	Field   string // 校验失败时对应的字段名，可为空
	Message string // 面向调用方的可读信息
	Err     error  // 底层错误
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := string(e.Kind)
	if e.Field != "" {
		msg += "(" + e.Field + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New 创建一个不包含底层错误的 Error。
func New(kind Kind, field, message string) *Error {
	return &Error{Kind: kind, Field: field, Message: message}
}

// Wrap 用指定类别包装一个底层错误。
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// As 从错误链中取出 *Error。
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf 返回错误链中 *Error 的类别，非业务错误返回空字符串。
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return ""
}

// Is 判断错误是否属于指定类别。
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsValidation 判断是否为字段校验类错误。
func IsValidation(err error) bool {
	switch KindOf(err) {
	case KindMissingField, KindInvalidEnum, KindInvalidFormat, KindConsentRequired:
		return true
	}
	return false
}

// HTTPStatus 把错误类别映射为 HTTP 状态码。
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindMissingField, KindInvalidEnum, KindInvalidFormat, KindConsentRequired, KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
