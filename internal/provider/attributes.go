package provider

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const attributesPath = "/attributes"

// AttributesOptions parameterise the static attribute client.
type AttributesOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Attributes fetches static equipment/weapon attribute records.
type Attributes struct {
	opts    AttributesOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewAttributes constructs a static attribute client.
func NewAttributes(opts AttributesOptions, logger zerolog.Logger) *Attributes {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Attributes{
		opts:    opts,
		logger:  logger.With().Str("component", "attribute_provider").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}
}

// FetchAttributes retrieves the attribute map. Cosmetic and non-equipable
// items are absent, which is a valid state and not an error.
func (a *Attributes) FetchAttributes(ctx context.Context) (map[int64]AttributeRecord, error) {
	var payload map[string]AttributeRecord
	if err := getJSON(ctx, a.client, "attributes", a.baseURL+attributesPath, a.opts.UserAgent, &payload); err != nil {
		return nil, err
	}

	records := make(map[int64]AttributeRecord, len(payload))
	for key, record := range payload {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			a.logger.Warn().Str("id", key).Msg("skipping attribute record with non-numeric id")
			continue
		}
		records[id] = record
	}

	a.logger.Debug().Int("records", len(records)).Msg("attributes fetched")
	return records, nil
}

// Probe checks the attribute endpoint for reachability.
func (a *Attributes) Probe(ctx context.Context) error {
	return probeEndpoint(ctx, a.client, "attributes", a.baseURL+attributesPath, a.opts.UserAgent)
}

var (
	_ AttributeProvider = (*Attributes)(nil)
	_ Prober            = (*Attributes)(nil)
)
