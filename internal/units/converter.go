package units

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidAmount 表示金额为负数或非有限值，无法换算为链上单位。
var ErrInvalidAmount = errors.New("units: invalid amount")

// ToUnits 将 USD 金额按指定精度换算为链上整数单位，换算规则为 round(usd * 10^decimals)。
func ToUnits(amountUSD float64, decimals int) (uint64, error) {
	if math.IsNaN(amountUSD) || math.IsInf(amountUSD, 0) {
		return 0, fmt.Errorf("%w: 金额必须为有限数值, got %v", ErrInvalidAmount, amountUSD)
	}
	if amountUSD < 0 {
		return 0, fmt.Errorf("%w: 金额不能为负, got %v", ErrInvalidAmount, amountUSD)
	}
	if decimals < 0 {
		return 0, fmt.Errorf("%w: 精度不能为负, got %d", ErrInvalidAmount, decimals)
	}

	scaled := math.Round(amountUSD * math.Pow10(decimals))
	if scaled >= math.MaxUint64 {
		return 0, fmt.Errorf("%w: 换算结果超出 u64 范围, usd=%v decimals=%d", ErrInvalidAmount, amountUSD, decimals)
	}

	return uint64(scaled), nil
}

// ToUSD 将链上整数单位还原为 USD 金额，为 ToUnits 的精确逆运算。
func ToUSD(amountUnits uint64, decimals int) float64 {
	return float64(amountUnits) / math.Pow10(decimals)
}
