package order

import (
	"errors"
	"testing"
)

func TestResolveAction_FixedTable(t *testing.T) {
	set := func(v bool) *bool { return &v }

	cases := []struct {
		action          Action
		isLong          *bool
		isIncrease      *bool
		isMarket        *bool
		impliesZeroSize bool
	}{
		{action: ActionMarketOpenLong, isLong: set(true), isIncrease: set(true), isMarket: set(true)},
		{action: ActionMarketOpenShort, isLong: set(false), isIncrease: set(true), isMarket: set(true)},
		{action: ActionLimitOpenLong, isLong: set(true), isIncrease: set(true), isMarket: set(false)},
		{action: ActionLimitOpenShort, isLong: set(false), isIncrease: set(true), isMarket: set(false)},
		{action: ActionMarketCloseLong, isLong: set(true), isIncrease: set(false), isMarket: set(true)},
		{action: ActionMarketCloseShort, isLong: set(false), isIncrease: set(false), isMarket: set(true)},
		{action: ActionLimitCloseLong, isLong: set(true), isIncrease: set(false), isMarket: set(false)},
		{action: ActionLimitCloseShort, isLong: set(false), isIncrease: set(false), isMarket: set(false)},
		{action: ActionAddToPosition, isIncrease: set(true)},
		{action: ActionAddCollateral, isIncrease: set(true), isMarket: set(true), impliesZeroSize: true},
		{action: ActionPartialClose, isIncrease: set(false)},
		{action: ActionFullClose, isIncrease: set(false)},
		{action: ActionCustom},
	}

	for _, tc := range cases {
		t.Run(string(tc.action), func(t *testing.T) {
			got, err := ResolveAction(tc.action)
			if err != nil {
				t.Fatalf("ResolveAction(%q) returned error: %v", tc.action, err)
			}
			checkFlag(t, "is_long", got.IsLong, tc.isLong)
			checkFlag(t, "is_increase", got.IsIncrease, tc.isIncrease)
			checkFlag(t, "is_market", got.IsMarket, tc.isMarket)
			if got.ImpliesZeroSize != tc.impliesZeroSize {
				t.Errorf("ImpliesZeroSize = %v, want %v", got.ImpliesZeroSize, tc.impliesZeroSize)
			}
		})
	}
}

func TestResolveAction_Unknown(t *testing.T) {
	if _, err := ResolveAction("market_open_sideways"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func checkFlag(t *testing.T, name string, got, want *bool) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Errorf("%s: expected unset, got %v", name, *got)
	case want != nil && got == nil:
		t.Errorf("%s: expected %v, got unset", name, *want)
	case want != nil && got != nil && *want != *got:
		t.Errorf("%s: got %v, want %v", name, *got, *want)
	}
}
