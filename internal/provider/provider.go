package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ge-lookup/internal/catalog"
)

// ErrUnavailable marks a network failure or non-success response from a
// provider endpoint.
var ErrUnavailable = errors.New("source unavailable")

// CatalogProvider retrieves the full item catalog from the mapping endpoint.
type CatalogProvider interface {
	FetchCatalog(ctx context.Context) ([]catalog.Entry, error)
}

// PriceProvider retrieves the latest instant-buy/instant-sell quotes.
type PriceProvider interface {
	FetchPrices(ctx context.Context) (map[int64]PriceQuote, error)
}

// AttributeProvider retrieves static equipment and weapon attributes.
type AttributeProvider interface {
	FetchAttributes(ctx context.Context) (map[int64]AttributeRecord, error)
}

// Prober performs a cheap reachability check against a provider endpoint.
type Prober interface {
	Probe(ctx context.Context) error
}

// PriceQuote is the most recent trade observed at each side of the market
// for one item. Either side may be absent when the item has not traded
// recently on that side.
type PriceQuote struct {
	InstantBuy    *int64    `json:"instantBuy,omitempty"`
	InstantBuyAt  time.Time `json:"instantBuyAt,omitzero"`
	InstantSell   *int64    `json:"instantSell,omitempty"`
	InstantSellAt time.Time `json:"instantSellAt,omitzero"`
}

// AttributeRecord carries optional static enrichment for an item. Cosmetic
// and non-equipable items have no equipment or weapon block.
type AttributeRecord struct {
	Weight    float64         `json:"weight"`
	Equipment *EquipmentStats `json:"equipment,omitempty"`
	Weapon    *WeaponStats    `json:"weapon,omitempty"`
}

// EquipmentStats are the combat bonuses granted when the item is worn.
type EquipmentStats struct {
	AttackStab     int    `json:"attack_stab"`
	AttackSlash    int    `json:"attack_slash"`
	AttackCrush    int    `json:"attack_crush"`
	AttackMagic    int    `json:"attack_magic"`
	AttackRanged   int    `json:"attack_ranged"`
	DefenceStab    int    `json:"defence_stab"`
	DefenceSlash   int    `json:"defence_slash"`
	DefenceCrush   int    `json:"defence_crush"`
	DefenceMagic   int    `json:"defence_magic"`
	DefenceRanged  int    `json:"defence_ranged"`
	MeleeStrength  int    `json:"melee_strength"`
	RangedStrength int    `json:"ranged_strength"`
	MagicDamage    int    `json:"magic_damage"`
	Prayer         int    `json:"prayer"`
	Slot           string `json:"slot"`
}

// WeaponStats describe attack cadence and style for weapons.
type WeaponStats struct {
	AttackSpeed int    `json:"attack_speed"`
	WeaponType  string `json:"weapon_type"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// decodeHTTPError turns a non-success provider response into an
// ErrUnavailable-wrapped error, preferring the structured message when the
// payload carries one.
func decodeHTTPError(source string, status int, payload []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(payload, &apiErr); err == nil {
		if apiErr.Message != "" {
			return fmt.Errorf("%w: %s api error (%d): %s", ErrUnavailable, source, status, apiErr.Message)
		}
		if apiErr.Error != "" {
			return fmt.Errorf("%w: %s api error (%d): %s", ErrUnavailable, source, status, apiErr.Error)
		}
	}
	if len(payload) > 0 {
		return fmt.Errorf("%w: %s api error (%d): %s", ErrUnavailable, source, status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("%w: %s api error (%d)", ErrUnavailable, source, status)
}

// getJSON issues a GET with the shared header set and decodes a success
// response into out.
func getJSON(ctx context.Context, client *http.Client, source, url, userAgent string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(userAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "ge-lookup/1.0")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s request: %v", ErrUnavailable, source, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s read body: %v", ErrUnavailable, source, err)
	}

	if resp.StatusCode != http.StatusOK {
		return decodeHTTPError(source, resp.StatusCode, payload)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", source, err)
	}
	return nil
}

// probeEndpoint performs the liveness check: a GET whose body is discarded.
// Any status below 400 counts as reachable.
func probeEndpoint(ctx context.Context, client *http.Client, source, url, userAgent string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if ua := strings.TrimSpace(userAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "ge-lookup/1.0")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s probe: %v", ErrUnavailable, source, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<10)) //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: %s probe status %d", ErrUnavailable, source, resp.StatusCode)
	}
	return nil
}
