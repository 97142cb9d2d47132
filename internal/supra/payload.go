package supra

import (
	"fmt"
	"strconv"

	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/order"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/profile"
)

const (
	placeOrderModule   = "managed_trading"
	placeOrderFunction = "place_order_v3"
	// 合约要求的推荐人参数，未接入推荐体系时固定为零地址。
	referrerAddress = "0x0"
)

// EntryFunctionPayload 是提交给节点的入口函数调用描述。
// u64 参数以十进制字符串编码，避免 JSON 数字精度丢失。
type EntryFunctionPayload struct {
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []string `json:"arguments"`
}

// BuildPlaceOrderPayload 按合约 place_order_v3 的参数顺序构造交易负载：
// 地址、size、collateral、price、is_long、is_increase、is_market、
// stop_loss、take_profit、can_execute_above_price、推荐人地址。
func BuildPlaceOrderPayload(network profile.Network, wallet profile.Wallet, resolved order.Resolved) EntryFunctionPayload {
	return EntryFunctionPayload{
		Function: fmt.Sprintf("%s::%s::%s", network.ContractAddress, placeOrderModule, placeOrderFunction),
		TypeArguments: []string{
			fmt.Sprintf("%s::pair_types::%s", network.ContractAddress, resolved.PairTypeArg),
			network.CollateralToken,
		},
		Arguments: []string{
			wallet.Address,
			strconv.FormatUint(resolved.SizeUnits, 10),
			strconv.FormatUint(resolved.CollateralUnits, 10),
			strconv.FormatUint(resolved.PriceUnits, 10),
			strconv.FormatBool(resolved.IsLong),
			strconv.FormatBool(resolved.IsIncrease),
			strconv.FormatBool(resolved.IsMarket),
			strconv.FormatUint(resolved.StopLossUnits, 10),
			strconv.FormatUint(resolved.TakeProfitUnits, 10),
			strconv.FormatBool(resolved.CanExecuteAbovePrice),
			referrerAddress,
		},
	}
}
