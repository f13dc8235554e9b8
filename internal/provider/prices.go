package provider

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const latestPath = "/latest"

// PricesOptions parameterise the live price client.
type PricesOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Prices fetches the latest instant-buy/instant-sell quotes.
type Prices struct {
	opts    PricesOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewPrices constructs a live price client.
func NewPrices(opts PricesOptions, logger zerolog.Logger) *Prices {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Prices{
		opts:    opts,
		logger:  logger.With().Str("component", "price_provider").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}
}

type quotePayload struct {
	High     *int64 `json:"high"`
	HighTime int64  `json:"highTime"`
	Low      *int64 `json:"low"`
	LowTime  int64  `json:"lowTime"`
}

type latestResponse struct {
	Data map[string]quotePayload `json:"data"`
}

// FetchPrices retrieves the current quote map. Ids absent from the response
// simply have no recent trade data.
func (p *Prices) FetchPrices(ctx context.Context) (map[int64]PriceQuote, error) {
	var payload latestResponse
	if err := getJSON(ctx, p.client, "prices", p.baseURL+latestPath, p.opts.UserAgent, &payload); err != nil {
		return nil, err
	}

	quotes := make(map[int64]PriceQuote, len(payload.Data))
	for key, raw := range payload.Data {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			p.logger.Warn().Str("id", key).Msg("skipping quote with non-numeric id")
			continue
		}

		quote := PriceQuote{InstantBuy: raw.High, InstantSell: raw.Low}
		if raw.HighTime > 0 {
			quote.InstantBuyAt = time.Unix(raw.HighTime, 0).UTC()
		}
		if raw.LowTime > 0 {
			quote.InstantSellAt = time.Unix(raw.LowTime, 0).UTC()
		}
		quotes[id] = quote
	}

	p.logger.Debug().Int("quotes", len(quotes)).Msg("prices fetched")
	return quotes, nil
}

// Probe checks the price endpoint for reachability.
func (p *Prices) Probe(ctx context.Context) error {
	return probeEndpoint(ctx, p.client, "prices", p.baseURL+latestPath, p.opts.UserAgent)
}

var (
	_ PriceProvider = (*Prices)(nil)
	_ Prober        = (*Prices)(nil)
)
