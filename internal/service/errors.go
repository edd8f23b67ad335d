package service

import "fmt"

type Kind int

const (
	KindNotFound Kind = iota
	KindForbidden
	KindConflict
)

// Error 业务错误：Kind 决定对外状态码，Msg 直接回给调用方
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &Error{Kind: KindForbidden, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Msg: msg}
}
