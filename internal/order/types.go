package order

// RawOrder 是用户在策略文件中书写的声明式订单。指针字段表示可选，
// nil 与显式零值在解析时含义不同。
type RawOrder struct {
	Name   string `json:"name"`
	Action Action `json:"action"`
	Pair   string `json:"pair"`
	Wallet string `json:"wallet"`

	SizeUSD         *float64 `json:"size_usd,omitempty"`
	SizeUnits       *uint64  `json:"size_units,omitempty"`
	CollateralUSD   *float64 `json:"collateral_usd,omitempty"`
	CollateralUnits *uint64  `json:"collateral_units,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	PriceUnits      *uint64  `json:"price_units,omitempty"`

	StopLoss        *float64 `json:"stop_loss,omitempty"`
	StopLossUnits   *uint64  `json:"stop_loss_units,omitempty"`
	TakeProfit      *float64 `json:"take_profit,omitempty"`
	TakeProfitUnits *uint64  `json:"take_profit_units,omitempty"`

	IsLong               *bool `json:"is_long,omitempty"`
	IsIncrease           *bool `json:"is_increase,omitempty"`
	IsMarket             *bool `json:"is_market,omitempty"`
	CanExecuteAbovePrice *bool `json:"can_execute_above_price,omitempty"`

	// CustomParameters 非空时所有链上参数以其内容为准，不再做任何推导与换算。
	CustomParameters map[string]interface{} `json:"custom_parameters,omitempty"`

	WaitBefore  float64 `json:"wait_before,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Resolved 是完成全部默认值、换算与覆盖后的订单，可直接构造链上交易参数。
// 产出后不可变，由提交端消费一次。
type Resolved struct {
	Name        string
	Pair        string
	PairTypeArg string
	Wallet      string

	SizeUnits       uint64
	CollateralUnits uint64
	PriceUnits      uint64

	IsLong     bool
	IsIncrease bool
	IsMarket   bool

	// StopLossUnits/TakeProfitUnits 为 0 表示未设置。
	StopLossUnits   uint64
	TakeProfitUnits uint64

	CanExecuteAbovePrice bool
}
