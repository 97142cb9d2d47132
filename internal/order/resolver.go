package order

import (
	"fmt"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"

	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/profile"
	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/units"
)

// Options 控制解析行为，取值来自主配置，解析器本身不持有全局状态。
type Options struct {
	// SlippageTolerance 用于市价单的限价放宽，买方向上浮、卖方向下调。
	SlippageTolerance float64
	// AutoExecutionGuard 控制是否按方向自动推导执行保护；关闭时未显式
	// 指定的保护位取安全默认值 true。
	AutoExecutionGuard bool
}

// Resolver 将声明式订单按固定优先级展开为完整的链上参数集。
type Resolver struct {
	opts   Options
	logger *zap.Logger
}

// NewResolver 创建订单解析器。
func NewResolver(opts Options, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{opts: opts, logger: logger}
}

// Resolve 解析单个订单。优先级从高到低：custom_parameters 整体覆盖、
// 显式单位、USD 换算、交易对默认值。
func (r *Resolver) Resolve(raw RawOrder, pair profile.Pair, network profile.Network) (Resolved, error) {
	resolved := Resolved{
		Name:        raw.Name,
		Pair:        pair.Name,
		PairTypeArg: pair.TypeArg,
		Wallet:      raw.Wallet,
	}

	if raw.CustomParameters != nil {
		if err := applyCustomParameters(&resolved, raw.CustomParameters); err != nil {
			return Resolved{}, err
		}
		r.logger.Debug("使用完全自定义参数",
			zap.String("order", raw.Name),
			zap.String("pair", pair.Name),
		)
		return resolved, nil
	}

	defaults, err := ResolveAction(raw.Action)
	if err != nil {
		return Resolved{}, err
	}

	isLong, err := resolveFlag(raw.IsLong, defaults.IsLong, "is_long", raw.Action)
	if err != nil {
		return Resolved{}, err
	}
	isIncrease, err := resolveFlag(raw.IsIncrease, defaults.IsIncrease, "is_increase", raw.Action)
	if err != nil {
		return Resolved{}, err
	}
	isMarket, err := resolveFlag(raw.IsMarket, defaults.IsMarket, "is_market", raw.Action)
	if err != nil {
		return Resolved{}, err
	}
	resolved.IsLong = isLong
	resolved.IsIncrease = isIncrease
	resolved.IsMarket = isMarket

	if defaults.ImpliesZeroSize {
		resolved.SizeUnits = 0
	} else {
		sizeUnits, err := resolveAmount(raw.SizeUnits, raw.SizeUSD, pair.DefaultSizeUSD, network.SizeDecimals)
		if err != nil {
			return Resolved{}, fmt.Errorf("解析 size 失败: %w", err)
		}
		resolved.SizeUnits = sizeUnits
	}

	collateralUnits, err := resolveAmount(raw.CollateralUnits, raw.CollateralUSD, pair.DefaultCollateralUSD, network.CollateralDecimals)
	if err != nil {
		return Resolved{}, fmt.Errorf("解析 collateral 失败: %w", err)
	}
	resolved.CollateralUnits = collateralUnits

	// 买方向（做多加仓、做空减仓）禁止高于限价成交，卖方向反之。
	buySide := isIncrease == isLong
	guard := !buySide
	if raw.CanExecuteAbovePrice != nil {
		guard = *raw.CanExecuteAbovePrice
	} else if !r.opts.AutoExecutionGuard {
		guard = true
	}
	resolved.CanExecuteAbovePrice = guard

	priceUnits, err := r.resolvePrice(raw, pair, network, isMarket, buySide)
	if err != nil {
		return Resolved{}, fmt.Errorf("解析 price 失败: %w", err)
	}
	resolved.PriceUnits = priceUnits

	stopLossUnits, err := resolveRiskPrice(raw.StopLossUnits, raw.StopLoss, network.PriceDecimals)
	if err != nil {
		return Resolved{}, fmt.Errorf("解析 stop_loss 失败: %w", err)
	}
	resolved.StopLossUnits = stopLossUnits

	takeProfitUnits, err := resolveRiskPrice(raw.TakeProfitUnits, raw.TakeProfit, network.PriceDecimals)
	if err != nil {
		return Resolved{}, fmt.Errorf("解析 take_profit 失败: %w", err)
	}
	resolved.TakeProfitUnits = takeProfitUnits

	if !defaults.ImpliesZeroSize {
		if err := checkSizeBounds(resolved.SizeUnits, pair, network); err != nil {
			return Resolved{}, err
		}
	}

	return resolved, nil
}

// resolveAmount 实现 units > usd > 交易对默认值的取值顺序。
// 两者同时出现时以显式单位为准，USD 值被静默忽略，这是约定行为。
func resolveAmount(explicitUnits *uint64, explicitUSD *float64, defaultUSD float64, decimals int) (uint64, error) {
	if explicitUnits != nil {
		return *explicitUnits, nil
	}
	if explicitUSD != nil {
		return units.ToUnits(*explicitUSD, decimals)
	}
	return units.ToUnits(defaultUSD, decimals)
}

func (r *Resolver) resolvePrice(raw RawOrder, pair profile.Pair, network profile.Network, isMarket, buySide bool) (uint64, error) {
	if raw.PriceUnits != nil {
		return *raw.PriceUnits, nil
	}

	priceUSD := pair.DefaultPrice
	if raw.Price != nil {
		priceUSD = *raw.Price
	}

	// 市价单把限价按滑点容忍度放宽，作为执行保护的价格边界。
	if isMarket && r.opts.SlippageTolerance > 0 {
		if buySide {
			priceUSD *= 1 + r.opts.SlippageTolerance
		} else {
			priceUSD *= 1 - r.opts.SlippageTolerance
		}
	}

	return units.ToUnits(priceUSD, network.PriceDecimals)
}

func resolveRiskPrice(explicitUnits *uint64, explicitUSD *float64, priceDecimals int) (uint64, error) {
	if explicitUnits != nil {
		return *explicitUnits, nil
	}
	if explicitUSD != nil && *explicitUSD > 0 {
		return units.ToUnits(*explicitUSD, priceDecimals)
	}
	return 0, nil
}

func resolveFlag(explicit, fromAction *bool, field string, action Action) (bool, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if fromAction != nil {
		return *fromAction, nil
	}
	return false, fmt.Errorf("%w: 动作 %q 需要显式提供 %s", ErrMissingField, action, field)
}

func checkSizeBounds(sizeUnits uint64, pair profile.Pair, network profile.Network) error {
	minUnits, err := units.ToUnits(pair.MinSizeUSD, network.SizeDecimals)
	if err != nil {
		return err
	}
	maxUnits, err := units.ToUnits(pair.MaxSizeUSD, network.SizeDecimals)
	if err != nil {
		return err
	}
	if sizeUnits < minUnits || sizeUnits > maxUnits {
		return fmt.Errorf("%w: size=%d 允许区间 [%d, %d]", ErrSizeOutOfBounds, sizeUnits, minUnits, maxUnits)
	}
	return nil
}

type customParameters struct {
	SizeUnits            *uint64 `mapstructure:"size_units"`
	CollateralUnits      *uint64 `mapstructure:"collateral_units"`
	PriceUnits           *uint64 `mapstructure:"price_units"`
	IsLong               *bool   `mapstructure:"is_long"`
	IsIncrease           *bool   `mapstructure:"is_increase"`
	IsMarket             *bool   `mapstructure:"is_market"`
	StopLossUnits        uint64  `mapstructure:"stop_loss_units"`
	TakeProfitUnits      uint64  `mapstructure:"take_profit_units"`
	CanExecuteAbovePrice *bool   `mapstructure:"can_execute_above_price"`
}

// applyCustomParameters 将 custom_parameters 中的字段原样写入结果，
// 不做单位换算、标志推导与边界校验。
func applyCustomParameters(resolved *Resolved, params map[string]interface{}) error {
	var custom customParameters
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &custom,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("构建 custom_parameters 解码器失败: %w", err)
	}
	if err := decoder.Decode(params); err != nil {
		return fmt.Errorf("解析 custom_parameters 失败: %w", err)
	}

	missing := ""
	switch {
	case custom.SizeUnits == nil:
		missing = "size_units"
	case custom.CollateralUnits == nil:
		missing = "collateral_units"
	case custom.PriceUnits == nil:
		missing = "price_units"
	case custom.IsLong == nil:
		missing = "is_long"
	case custom.IsIncrease == nil:
		missing = "is_increase"
	case custom.IsMarket == nil:
		missing = "is_market"
	case custom.CanExecuteAbovePrice == nil:
		missing = "can_execute_above_price"
	}
	if missing != "" {
		return fmt.Errorf("%w: custom_parameters 缺少 %s", ErrMissingField, missing)
	}

	resolved.SizeUnits = *custom.SizeUnits
	resolved.CollateralUnits = *custom.CollateralUnits
	resolved.PriceUnits = *custom.PriceUnits
	resolved.IsLong = *custom.IsLong
	resolved.IsIncrease = *custom.IsIncrease
	resolved.IsMarket = *custom.IsMarket
	resolved.StopLossUnits = custom.StopLossUnits
	resolved.TakeProfitUnits = custom.TakeProfitUnits
	resolved.CanExecuteAbovePrice = *custom.CanExecuteAbovePrice
	return nil
}
