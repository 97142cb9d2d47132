package order

import (
	"errors"
	"testing"

	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/profile"
)

func testNetwork() profile.Network {
	return profile.Network{
		Name:               "testnet",
		ContractAddress:    "0xae38",
		CollateralToken:    "0x4f31::tusdc_coin::TUSDC",
		SizeDecimals:       6,
		CollateralDecimals: 6,
		PriceDecimals:      10,
	}
}

func testPair() profile.Pair {
	return profile.Pair{
		Name:                 "ETH_USD",
		TypeArg:              "ETH_USD",
		AvailableTestnet:     true,
		DefaultSizeUSD:       300.0,
		DefaultCollateralUSD: 3.0,
		DefaultPrice:         3500.0,
		MinSizeUSD:           300.0,
		MaxSizeUSD:           500000.0,
	}
}

func f64(v float64) *float64 { return &v }
func u64(v uint64) *uint64   { return &v }
func b(v bool) *bool         { return &v }

func newTestResolver() *Resolver {
	return NewResolver(Options{AutoExecutionGuard: true}, nil)
}

func TestResolve_MarketOpenLongFromUSD(t *testing.T) {
	raw := RawOrder{
		Name:          "Open LONG ETH",
		Action:        ActionMarketOpenLong,
		Pair:          "ETH_USD",
		Wallet:        "trader_1",
		SizeUSD:       f64(300.0),
		CollateralUSD: f64(3.0),
		Price:         f64(3500.0),
	}

	resolved, err := newTestResolver().Resolve(raw, testPair(), testNetwork())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if resolved.SizeUnits != 300000000 {
		t.Errorf("SizeUnits = %d, want 300000000", resolved.SizeUnits)
	}
	if resolved.CollateralUnits != 3000000 {
		t.Errorf("CollateralUnits = %d, want 3000000", resolved.CollateralUnits)
	}
	if resolved.PriceUnits != 35000000000000 {
		t.Errorf("PriceUnits = %d, want 35000000000000", resolved.PriceUnits)
	}
	if !resolved.IsLong || !resolved.IsIncrease || !resolved.IsMarket {
		t.Errorf("expected long/increase/market all true, got %+v", resolved)
	}
	// 做多加仓属于买方向，保护位应为“不允许高于限价成交”。
	if resolved.CanExecuteAbovePrice {
		t.Errorf("expected CanExecuteAbovePrice=false for market open long")
	}
	if resolved.StopLossUnits != 0 || resolved.TakeProfitUnits != 0 {
		t.Errorf("expected no risk prices, got sl=%d tp=%d", resolved.StopLossUnits, resolved.TakeProfitUnits)
	}
}

func TestResolve_UnitsBeatUSD(t *testing.T) {
	raw := RawOrder{
		Name:      "explicit units win",
		Action:    ActionMarketOpenLong,
		Pair:      "ETH_USD",
		Wallet:    "trader_1",
		SizeUSD:   f64(999999.0),
		SizeUnits: u64(300000000),
	}

	resolved, err := newTestResolver().Resolve(raw, testPair(), testNetwork())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.SizeUnits != 300000000 {
		t.Errorf("SizeUnits = %d, want explicit 300000000 (size_usd must be ignored)", resolved.SizeUnits)
	}
}

func TestResolve_PairDefaultsFillMissingAmounts(t *testing.T) {
	raw := RawOrder{
		Name:   "defaults",
		Action: ActionLimitOpenShort,
		Pair:   "ETH_USD",
		Wallet: "trader_1",
	}

	resolved, err := newTestResolver().Resolve(raw, testPair(), testNetwork())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.SizeUnits != 300000000 {
		t.Errorf("SizeUnits = %d, want pair default 300000000", resolved.SizeUnits)
	}
	if resolved.CollateralUnits != 3000000 {
		t.Errorf("CollateralUnits = %d, want pair default 3000000", resolved.CollateralUnits)
	}
	if resolved.PriceUnits != 35000000000000 {
		t.Errorf("PriceUnits = %d, want pair default 35000000000000", resolved.PriceUnits)
	}
	if resolved.IsLong || !resolved.IsIncrease || resolved.IsMarket {
		t.Errorf("unexpected flags: %+v", resolved)
	}
	// 做空加仓属于卖方向，保护位应为“允许高于限价成交”。
	if !resolved.CanExecuteAbovePrice {
		t.Errorf("expected CanExecuteAbovePrice=true for limit open short")
	}
}

func TestResolve_SlippageWidensMarketPrice(t *testing.T) {
	resolver := NewResolver(Options{SlippageTolerance: 0.01, AutoExecutionGuard: true}, nil)

	long := RawOrder{Name: "buy", Action: ActionMarketOpenLong, Pair: "ETH_USD", Wallet: "trader_1", Price: f64(3500.0)}
	resolved, err := resolver.Resolve(long, testPair(), testNetwork())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if want := uint64(35350000000000); resolved.PriceUnits != want {
		t.Errorf("buy side PriceUnits = %d, want ceiling %d", resolved.PriceUnits, want)
	}

	short := RawOrder{Name: "sell", Action: ActionMarketOpenShort, Pair: "ETH_USD", Wallet: "trader_1", Price: f64(3500.0)}
	resolved, err = resolver.Resolve(short, testPair(), testNetwork())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if want := uint64(34650000000000); resolved.PriceUnits != want {
		t.Errorf("sell side PriceUnits = %d, want floor %d", resolved.PriceUnits, want)
	}

	// 显式单位与限价单都不受滑点调整影响。
	exact := RawOrder{Name: "exact", Action: ActionMarketOpenLong, Pair: "ETH_USD", Wallet: "trader_1", PriceUnits: u64(35000000000000)}
	resolved, err = resolver.Resolve(exact, testPair(), testNetwork())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.PriceUnits != 35000000000000 {
		t.Errorf("explicit PriceUnits adjusted: %d", resolved.PriceUnits)
	}

	limit := RawOrder{Name: "limit", Action: ActionLimitOpenLong, Pair: "ETH_USD", Wallet: "trader_1", Price: f64(3500.0)}
	resolved, err = resolver.Resolve(limit, testPair(), testNetwork())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.PriceUnits != 35000000000000 {
		t.Errorf("limit order PriceUnits adjusted: %d", resolved.PriceUnits)
	}
}

func TestResolve_ExplicitFlagsOverrideAction(t *testing.T) {
	raw := RawOrder{
		Name:     "manual override",
		Action:   ActionAddToPosition,
		Pair:     "ETH_USD",
		Wallet:   "trader_1",
		SizeUSD:  f64(300.0),
		IsLong:   b(false),
		IsMarket: b(true),
	}

	resolved, err := newTestResolver().Resolve(raw, testPair(), testNetwork())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.IsLong {
		t.Errorf("expected explicit is_long=false to win")
	}
	if !resolved.IsIncrease {
		t.Errorf("expected is_increase=true from action table")
	}
	if !resolved.IsMarket {
		t.Errorf("expected explicit is_market=true")
	}
}

func TestResolve_MissingFlag(t *testing.T) {
	raw := RawOrder{
		Name:    "no direction",
		Action:  ActionAddToPosition,
		Pair:    "ETH_USD",
		Wallet:  "trader_1",
		SizeUSD: f64(300.0),
	}

	if _, err := newTestResolver().Resolve(raw, testPair(), testNetwork()); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestResolve_AddCollateralForcesZeroSize(t *testing.T) {
	raw := RawOrder{
		Name:          "top up margin",
		Action:        ActionAddCollateral,
		Pair:          "ETH_USD",
		Wallet:        "trader_1",
		SizeUSD:       f64(300.0),
		CollateralUSD: f64(10.0),
		IsLong:        b(true),
	}

	resolved, err := newTestResolver().Resolve(raw, testPair(), testNetwork())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.SizeUnits != 0 {
		t.Errorf("SizeUnits = %d, want 0 for add_collateral", resolved.SizeUnits)
	}
	if resolved.CollateralUnits != 10000000 {
		t.Errorf("CollateralUnits = %d, want 10000000", resolved.CollateralUnits)
	}
}

func TestResolve_SizeBounds(t *testing.T) {
	raw := RawOrder{
		Name:    "too small",
		Action:  ActionMarketOpenLong,
		Pair:    "ETH_USD",
		Wallet:  "trader_1",
		SizeUSD: f64(100.0),
	}

	if _, err := newTestResolver().Resolve(raw, testPair(), testNetwork()); !errors.Is(err, ErrSizeOutOfBounds) {
		t.Fatalf("expected ErrSizeOutOfBounds for undersized order, got %v", err)
	}

	raw.SizeUSD = f64(600000.0)
	if _, err := newTestResolver().Resolve(raw, testPair(), testNetwork()); !errors.Is(err, ErrSizeOutOfBounds) {
		t.Fatalf("expected ErrSizeOutOfBounds for oversized order, got %v", err)
	}
}

func TestResolve_CustomParametersVerbatim(t *testing.T) {
	raw := RawOrder{
		Name:   "fully custom",
		Action: ActionCustom,
		Pair:   "ETH_USD",
		Wallet: "trader_1",
		CustomParameters: map[string]interface{}{
			"size_units":              float64(500000000), // JSON 数字解析为 float64
			"collateral_units":        float64(10000000),
			"price_units":             float64(3550000000000000),
			"is_long":                 true,
			"is_increase":             true,
			"is_market":               false,
			"stop_loss_units":         float64(3195000000000000),
			"take_profit_units":       float64(3905000000000000),
			"can_execute_above_price": false,
		},
	}

	// size_units 远超 max_size_usd 对应的区间，custom_parameters 不做边界校验。
	resolved, err := newTestResolver().Resolve(raw, testPair(), testNetwork())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.SizeUnits != 500000000 {
		t.Errorf("SizeUnits = %d, want verbatim 500000000", resolved.SizeUnits)
	}
	if resolved.PriceUnits != 3550000000000000 {
		t.Errorf("PriceUnits = %d, want verbatim 3550000000000000", resolved.PriceUnits)
	}
	if resolved.StopLossUnits != 3195000000000000 || resolved.TakeProfitUnits != 3905000000000000 {
		t.Errorf("risk prices not taken verbatim: sl=%d tp=%d", resolved.StopLossUnits, resolved.TakeProfitUnits)
	}
	if resolved.IsMarket {
		t.Errorf("expected is_market=false from custom parameters")
	}
	if resolved.CanExecuteAbovePrice {
		t.Errorf("expected can_execute_above_price=false from custom parameters")
	}
}

func TestResolve_CustomParametersMissingField(t *testing.T) {
	raw := RawOrder{
		Name:   "incomplete custom",
		Action: ActionCustom,
		Pair:   "ETH_USD",
		Wallet: "trader_1",
		CustomParameters: map[string]interface{}{
			"size_units":       float64(500000000),
			"collateral_units": float64(10000000),
		},
	}

	if _, err := newTestResolver().Resolve(raw, testPair(), testNetwork()); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestResolve_RiskPricesConvertWithoutDirectionCheck(t *testing.T) {
	// 止损高于入场价对做多并不合理，但方向合理性由调用方负责，解析器只做换算。
	raw := RawOrder{
		Name:       "inverted stops",
		Action:     ActionMarketOpenLong,
		Pair:       "ETH_USD",
		Wallet:     "trader_1",
		Price:      f64(3500.0),
		StopLoss:   f64(3850.0),
		TakeProfit: f64(3150.0),
	}

	resolved, err := newTestResolver().Resolve(raw, testPair(), testNetwork())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.StopLossUnits != 38500000000000 {
		t.Errorf("StopLossUnits = %d, want 38500000000000", resolved.StopLossUnits)
	}
	if resolved.TakeProfitUnits != 31500000000000 {
		t.Errorf("TakeProfitUnits = %d, want 31500000000000", resolved.TakeProfitUnits)
	}
}

func TestResolve_AutoGuardDisabledDefaultsTrue(t *testing.T) {
	resolver := NewResolver(Options{AutoExecutionGuard: false}, nil)

	raw := RawOrder{Name: "no auto guard", Action: ActionMarketOpenLong, Pair: "ETH_USD", Wallet: "trader_1"}
	resolved, err := resolver.Resolve(raw, testPair(), testNetwork())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !resolved.CanExecuteAbovePrice {
		t.Errorf("expected safe default true when auto guard disabled")
	}

	raw.CanExecuteAbovePrice = b(false)
	resolved, err = resolver.Resolve(raw, testPair(), testNetwork())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.CanExecuteAbovePrice {
		t.Errorf("expected explicit guard to win over safe default")
	}
}
