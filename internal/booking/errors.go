package booking

import (
	"errors"
	"fmt"
)

// Kind 业务错误分类。核心层所有失败都是确定性的规则违反，
// 不做自动重试，由传输层根据 Kind 决定映射（HTTP/gRPC code）。
type Kind int

const (
	KindUnknown         Kind = iota
	KindUnauthorized         // 角色/归属校验失败
	KindInvalidArgument      // 参数不合法（时间窗、空工具列表等）
	KindNotFound             // 工具或预约不存在
	KindConflict             // 工具不可预约，或时间窗重叠
	KindInvalidOperation     // 非法的生命周期流转
	KindInternal             // 持久化未返回 ID / 提交失败
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidOperation:
		return "invalid_operation"
	case KindInternal:
		return "internal"
	}
	return "unknown"
}

// Error 带分类的业务错误。
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// E 构造业务错误。
func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf 取出错误分类；非业务错误一律视为 KindInternal（如数据库故障），
// 便于传输层区分可重试的基础设施错误与终态的业务错误。
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}
