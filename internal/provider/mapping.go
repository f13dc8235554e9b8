package provider

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ge-lookup/internal/catalog"
)

const mappingPath = "/mapping"

// MappingOptions parameterise the catalog mapping client.
type MappingOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Mapping fetches the item catalog from the mapping endpoint.
type Mapping struct {
	opts    MappingOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewMapping constructs a catalog mapping client.
func NewMapping(opts MappingOptions, logger zerolog.Logger) *Mapping {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Mapping{
		opts:    opts,
		logger:  logger.With().Str("component", "mapping_provider").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}
}

// FetchCatalog retrieves the full ordered catalog.
func (m *Mapping) FetchCatalog(ctx context.Context) ([]catalog.Entry, error) {
	var entries []catalog.Entry
	if err := getJSON(ctx, m.client, "mapping", m.baseURL+mappingPath, m.opts.UserAgent, &entries); err != nil {
		return nil, err
	}

	m.logger.Debug().Int("entries", len(entries)).Msg("catalog fetched")
	return entries, nil
}

// Probe checks the mapping endpoint for reachability.
func (m *Mapping) Probe(ctx context.Context) error {
	return probeEndpoint(ctx, m.client, "mapping", m.baseURL+mappingPath, m.opts.UserAgent)
}

var (
	_ CatalogProvider = (*Mapping)(nil)
	_ Prober          = (*Mapping)(nil)
)
