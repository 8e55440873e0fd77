package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ==================== 错误类别 ====================

// Kind 错误类别，控制器据此映射 HTTP 状态码
type Kind int

const (
	KindInternal     Kind = iota // 未分类的内部错误
	KindBadRequest               // 参数/校验/状态机错误
	KindNotFound                 // 资源不存在（含权限掩蔽）
	KindUnauthorized             // 无调用者身份
)

// Error 业务错误
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 支持 errors.Is 按类别比较
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Message == "" || t.Message == e.Message)
}

// ==================== 构造函数 ====================

// BadRequest 参数或业务规则错误
func BadRequest(msg string) *Error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

// BadRequestf 格式化版本
func BadRequestf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NotFound 资源不存在
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// NotFoundf 格式化版本
func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized 未认证
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Internal 包装底层错误
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// ==================== 判定与映射 ====================

// KindOf 返回错误类别，非 *Error 一律视为内部错误
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus 类别到 HTTP 状态码的映射
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
