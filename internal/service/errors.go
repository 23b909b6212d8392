package service

import (
	"errors"

	"GameCatalog/internal/repository"
)

// ErrValidation 请求字段缺失或非法
var ErrValidation = errors.New("validation error")

// Error 业务错误。Kind 为 repository.ErrNotFound / repository.ErrConflict / ErrValidation 之一，
// Detail 可直接返回给客户端
type Error struct {
	Kind   error
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Detail + ": " + e.Err.Error()
	}
	return e.Detail
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func notFound(detail string) error {
	return &Error{Kind: repository.ErrNotFound, Detail: detail}
}

func conflict(detail string, err error) error {
	return &Error{Kind: repository.ErrConflict, Detail: detail, Err: err}
}

func invalid(detail string) error {
	return &Error{Kind: ErrValidation, Detail: detail}
}

// wrapNotFound 把仓储的 ErrNotFound 换成带说明的业务错误，其它错误原样返回
func wrapNotFound(err error, detail string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(detail)
	}
	return err
}
