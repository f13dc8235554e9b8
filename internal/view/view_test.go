package view

import (
	"testing"

	"github.com/shopspring/decimal"

	"ge-lookup/internal/catalog"
	"ge-lookup/internal/provider"
)

func price(v int64) *int64 { return &v }

func TestComposeWithoutQuote(t *testing.T) {
	item := Compose(catalog.Entry{ID: 1965, Name: "Cabbage"}, nil, nil)

	if item.HasQuote() {
		t.Fatal("item without a quote must not report one")
	}
	if item.MarketSummary() != NoMarketData {
		t.Fatalf("expected %q, got %q", NoMarketData, item.MarketSummary())
	}
	if item.Margin != nil {
		t.Fatal("no margin without a quote")
	}
}

func TestComposeWithOneSidedQuote(t *testing.T) {
	quote := &provider.PriceQuote{InstantBuy: price(100)}
	item := Compose(catalog.Entry{ID: 1}, quote, nil)

	if !item.HasQuote() {
		t.Fatal("one-sided quote is still market data")
	}
	if item.Margin != nil {
		t.Fatal("margin needs both market sides")
	}
}

func TestExchangeTax(t *testing.T) {
	cases := []struct {
		salePrice int64
		want      int64
	}{
		{100, 2},
		// floored
		{99, 1},
		{1, 0},
		// capped
		{1_000_000_000, 5_000_000},
	}

	for _, tc := range cases {
		got := ExchangeTax(tc.salePrice)
		if !got.Equal(decimal.NewFromInt(tc.want)) {
			t.Fatalf("tax on %d: expected %d, got %s", tc.salePrice, tc.want, got)
		}
	}
}

func TestComputeMargin(t *testing.T) {
	m := ComputeMargin(1_000_000, 950_000)

	if !m.Spread.Equal(decimal.NewFromInt(50_000)) {
		t.Fatalf("spread: expected 50000, got %s", m.Spread)
	}
	if !m.Tax.Equal(decimal.NewFromInt(20_000)) {
		t.Fatalf("tax: expected 20000, got %s", m.Tax)
	}
	if !m.Net.Equal(decimal.NewFromInt(30_000)) {
		t.Fatalf("net: expected 30000, got %s", m.Net)
	}
	want := decimal.NewFromFloat(3.16)
	if !m.ROIPct.Equal(want) {
		t.Fatalf("roi: expected %s, got %s", want, m.ROIPct)
	}
}

func TestComputeMarginNegative(t *testing.T) {
	m := ComputeMargin(100, 100)
	if !m.Net.IsNegative() {
		t.Fatalf("tax should push a flat spread negative, got %s", m.Net)
	}
}
