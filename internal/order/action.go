package order

import (
	"fmt"
)

// Action 表示声明式订单的动作关键字。
type Action string

const (
	ActionMarketOpenLong   Action = "market_open_long"
	ActionMarketOpenShort  Action = "market_open_short"
	ActionLimitOpenLong    Action = "limit_open_long"
	ActionLimitOpenShort   Action = "limit_open_short"
	ActionMarketCloseLong  Action = "market_close_long"
	ActionMarketCloseShort Action = "market_close_short"
	ActionLimitCloseLong   Action = "limit_close_long"
	ActionLimitCloseShort  Action = "limit_close_short"
	ActionAddToPosition    Action = "add_to_position"
	ActionAddCollateral    Action = "add_collateral"
	ActionPartialClose     Action = "partial_close"
	ActionFullClose        Action = "full_close"
	ActionCustom           Action = "custom"
)

// Defaults 保存动作推导出的默认布尔标志。nil 表示动作不指定该标志，
// 必须由订单显式给出。
type Defaults struct {
	IsLong          *bool
	IsIncrease      *bool
	IsMarket        *bool
	ImpliesZeroSize bool
}

var actionTable = map[Action]Defaults{
	ActionMarketOpenLong:   {IsLong: boolPtr(true), IsIncrease: boolPtr(true), IsMarket: boolPtr(true)},
	ActionMarketOpenShort:  {IsLong: boolPtr(false), IsIncrease: boolPtr(true), IsMarket: boolPtr(true)},
	ActionLimitOpenLong:    {IsLong: boolPtr(true), IsIncrease: boolPtr(true), IsMarket: boolPtr(false)},
	ActionLimitOpenShort:   {IsLong: boolPtr(false), IsIncrease: boolPtr(true), IsMarket: boolPtr(false)},
	ActionMarketCloseLong:  {IsLong: boolPtr(true), IsIncrease: boolPtr(false), IsMarket: boolPtr(true)},
	ActionMarketCloseShort: {IsLong: boolPtr(false), IsIncrease: boolPtr(false), IsMarket: boolPtr(true)},
	ActionLimitCloseLong:   {IsLong: boolPtr(true), IsIncrease: boolPtr(false), IsMarket: boolPtr(false)},
	ActionLimitCloseShort:  {IsLong: boolPtr(false), IsIncrease: boolPtr(false), IsMarket: boolPtr(false)},
	ActionAddToPosition:    {IsIncrease: boolPtr(true)},
	ActionAddCollateral:    {IsIncrease: boolPtr(true), IsMarket: boolPtr(true), ImpliesZeroSize: true},
	ActionPartialClose:     {IsIncrease: boolPtr(false)},
	ActionFullClose:        {IsIncrease: boolPtr(false)},
	ActionCustom:           {},
}

// ResolveAction 返回动作对应的标志默认值。该表是固定的，不接受用户扩展。
func ResolveAction(action Action) (Defaults, error) {
	defaults, ok := actionTable[action]
	if !ok {
		return Defaults{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return defaults, nil
}

func boolPtr(v bool) *bool {
	return &v
}
