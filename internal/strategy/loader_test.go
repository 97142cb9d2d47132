package strategy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wdcs-pruthvithakor/dexlyn-perps-bot/internal/order"
)

func writeStrategyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strategies.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write strategy file: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeStrategyFile(t, `{
  "basic_cycle": {
    "name": "Basic ETH Open/Close Cycle",
    "network": "testnet",
    "cycles": -1,
    "orders": [
      {"name": "Open LONG", "action": "market_open_long", "pair": "ETH_USD", "wallet": "trader_1",
       "size_usd": 300.0, "collateral_usd": 3.0, "price": 3500.0,
       "stop_loss": 3150.0, "take_profit": 3850.0},
      {"name": "Open SHORT", "action": "market_open_short", "pair": "ETH_USD", "wallet": "trader_2",
       "wait_before": 10}
    ]
  },
  "not_a_strategy": {"comment": "entries without orders are skipped"}
}`)

	strategies, err := NewLoader(nil).LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if len(strategies) != 1 {
		t.Fatalf("expected 1 strategy (skipping orderless entry), got %d", len(strategies))
	}

	s, err := Select(strategies, "basic_cycle")
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if s.Cycles != -1 {
		t.Errorf("Cycles = %d, want -1 (infinite sentinel)", s.Cycles)
	}
	if len(s.Orders) != 2 {
		t.Fatalf("Orders = %d, want 2", len(s.Orders))
	}

	first := s.Orders[0]
	if first.SizeUSD == nil || *first.SizeUSD != 300.0 {
		t.Errorf("size_usd not decoded as optional field: %+v", first.SizeUSD)
	}
	if first.SizeUnits != nil {
		t.Errorf("size_units should be absent, got %v", *first.SizeUnits)
	}
	if first.StopLoss == nil || *first.StopLoss != 3150.0 {
		t.Errorf("stop_loss not decoded: %+v", first.StopLoss)
	}

	second := s.Orders[1]
	if second.WaitBefore != 10 {
		t.Errorf("wait_before = %v, want 10", second.WaitBefore)
	}
	if second.SizeUSD != nil {
		t.Errorf("absent size_usd must stay nil, got %v", *second.SizeUSD)
	}
}

func TestLoadFile_NoValidStrategies(t *testing.T) {
	path := writeStrategyFile(t, `{"config_blob": {"foo": 1}}`)

	if _, err := NewLoader(nil).LoadFile(path); !errors.Is(err, ErrNoStrategies) {
		t.Fatalf("expected ErrNoStrategies, got %v", err)
	}
}

func TestLoadFile_StructuralValidation(t *testing.T) {
	path := writeStrategyFile(t, `{
  "broken": {
    "network": "testnet",
    "cycles": 1,
    "orders": [{"name": "no pair", "action": "market_open_long", "wallet": "trader_1"}]
  }
}`)

	if _, err := NewLoader(nil).LoadFile(path); err == nil {
		t.Fatalf("expected structural validation error for missing pair")
	}
}

// 随仓库发布的策略文件必须开箱可用：每个订单的动作都要能在
// 动作表中解析，否则默认运行会在每个周期记录失败。
func TestShippedStrategiesResolveActions(t *testing.T) {
	strategies, err := NewLoader(nil).LoadFile(filepath.Join("..", "..", "configs", "strategies.json"))
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	for key, s := range strategies {
		for _, raw := range s.Orders {
			if _, err := order.ResolveAction(raw.Action); err != nil {
				t.Errorf("strategy %q order %q: %v", key, raw.Name, err)
			}
		}
	}
}

func TestSelect(t *testing.T) {
	strategies := map[string]*Strategy{
		"a": {Key: "a", Name: "a", Orders: nil},
	}

	if _, err := Select(strategies, "missing"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy, got %v", err)
	}

	s, err := Select(strategies, "")
	if err != nil {
		t.Fatalf("Select with single strategy should succeed, got %v", err)
	}
	if s.Key != "a" {
		t.Errorf("selected %q, want a", s.Key)
	}

	strategies["b"] = &Strategy{Key: "b"}
	if _, err := Select(strategies, ""); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy for ambiguous empty name, got %v", err)
	}
}
