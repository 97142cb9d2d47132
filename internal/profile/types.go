package profile

import (
	"encoding/json"
)

// Network 描述单个网络的合约与精度配置，加载后不可变。
type Network struct {
	Name               string `json:"-"`
	ContractAddress    string `json:"contract_address"`
	CollateralToken    string `json:"collateral_token"`
	SizeDecimals       int    `json:"size_decimals"`
	CollateralDecimals int    `json:"collateral_decimals"`
	PriceDecimals      int    `json:"price_decimals"`
}

// Pair 描述可交易的交易对及其默认值，加载后不可变。
type Pair struct {
	Name                 string  `json:"-"`
	TypeArg              string  `json:"type_arg"`
	Description          string  `json:"description"`
	AvailableTestnet     bool    `json:"available_testnet"`
	AvailableMainnet     bool    `json:"available_mainnet"`
	DefaultSizeUSD       float64 `json:"default_size_usd"`
	DefaultCollateralUSD float64 `json:"default_collateral_usd"`
	DefaultPrice         float64 `json:"default_price"`
	MinSizeUSD           float64 `json:"min_size_usd"`
	MaxSizeUSD           float64 `json:"max_size_usd"`
}

// AvailableOn 判断交易对在指定网络是否开放。
func (p Pair) AvailableOn(network string) bool {
	switch network {
	case "mainnet":
		return p.AvailableMainnet
	default:
		return p.AvailableTestnet
	}
}

// Wallet 保存钱包地址与私钥。私钥只会被签名方读取，禁止写入日志。
type Wallet struct {
	Name        string `json:"-"`
	Address     string `json:"address"`
	PrivateKey  string `json:"private_key"`
	Description string `json:"description"`
}

// MarshalJSON 序列化时抹除私钥，避免凭据外泄。
func (w Wallet) MarshalJSON() ([]byte, error) {
	type redacted struct {
		Address     string `json:"address"`
		Description string `json:"description"`
	}
	return json.Marshal(redacted{Address: w.Address, Description: w.Description})
}
