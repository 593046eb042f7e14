package errs

import (
	"errors"
	"net/http"
)

// AErr 统一业务错误：Code 直接使用 HTTP 语义
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

// BadRequest 业务校验失败（空心愿单、重复申请、用户名重复…）
func BadRequest(msg string) error   { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: http.StatusNotFound, Msg: msg} }

// Unprocessable 入参结构/类型不合法
func Unprocessable(msg string, err error) error {
	return &AErr{Code: http.StatusUnprocessableEntity, Msg: msg, Err: err}
}

func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// CodeOf 非 AErr 一律按 500 处理
func CodeOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ae *AErr
	if errors.As(err, &ae) {
		return ae.Code
	}
	return http.StatusInternalServerError
}

func Is(err error, code int) bool { return err != nil && CodeOf(err) == code }
