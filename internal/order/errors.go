package order

import "errors"

var (
	// ErrUnknownAction 表示动作关键字不在固定动作表内。
	ErrUnknownAction = errors.New("order: unknown action")
	// ErrMissingField 表示动作要求的字段既未被推导也未被显式提供。
	ErrMissingField = errors.New("order: missing required field")
	// ErrSizeOutOfBounds 表示解析后的仓位大小超出交易对允许区间。
	ErrSizeOutOfBounds = errors.New("order: size out of bounds")
)
