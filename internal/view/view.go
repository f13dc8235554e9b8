package view

import (
	"github.com/shopspring/decimal"

	"ge-lookup/internal/catalog"
	"ge-lookup/internal/provider"
)

// NoMarketData is the rendering for an item without a recent quote. Absence
// of a quote is a valid state, never a default-zero price.
const NoMarketData = "no recent market data available"

var (
	taxRate = decimal.NewFromFloat(0.02)
	taxCap  = decimal.NewFromInt(5_000_000)
	hundred = decimal.NewFromInt(100)
)

// Margin breaks down the flip economics of an item when both market sides
// have recent trades.
type Margin struct {
	Spread decimal.Decimal `json:"spread"`
	Tax    decimal.Decimal `json:"tax"`
	Net    decimal.Decimal `json:"net"`
	ROIPct decimal.Decimal `json:"roiPct"`
}

// Item is the merged record handed to the presentation boundary: the catalog
// entry decorated with its optional price quote and attribute record.
type Item struct {
	Entry      catalog.Entry             `json:"entry"`
	Quote      *provider.PriceQuote      `json:"quote,omitempty"`
	Attributes *provider.AttributeRecord `json:"attributes,omitempty"`
	Margin     *Margin                   `json:"margin,omitempty"`
}

// HasQuote reports whether the item carries any recent market data.
func (i Item) HasQuote() bool {
	return i.Quote != nil
}

// MarketSummary renders the quote state for display.
func (i Item) MarketSummary() string {
	if !i.HasQuote() {
		return NoMarketData
	}
	return "market data available"
}

// Compose assembles the merged view of one item. quote and attrs may be nil;
// the entry is only decorated, never filtered.
func Compose(entry catalog.Entry, quote *provider.PriceQuote, attrs *provider.AttributeRecord) Item {
	item := Item{Entry: entry, Quote: quote, Attributes: attrs}
	if quote != nil && quote.InstantBuy != nil && quote.InstantSell != nil {
		m := ComputeMargin(*quote.InstantBuy, *quote.InstantSell)
		item.Margin = &m
	}
	return item
}

// ExchangeTax is the fee charged on a sale: 2% of the sale price, rounded
// down, capped at 5,000,000 per item.
func ExchangeTax(salePrice int64) decimal.Decimal {
	tax := decimal.NewFromInt(salePrice).Mul(taxRate).Floor()
	if tax.GreaterThan(taxCap) {
		return taxCap
	}
	return tax
}

// ComputeMargin derives spread, tax, net margin, and ROI for buying at the
// instant-sell price and selling at the instant-buy price.
func ComputeMargin(instantBuy, instantSell int64) Margin {
	buy := decimal.NewFromInt(instantBuy)
	sell := decimal.NewFromInt(instantSell)

	spread := buy.Sub(sell)
	tax := ExchangeTax(instantBuy)
	net := spread.Sub(tax)

	roi := decimal.Zero
	if sell.IsPositive() {
		roi = net.Div(sell).Mul(hundred).Round(2)
	}

	return Margin{Spread: spread, Tax: tax, Net: net, ROIPct: roi}
}
