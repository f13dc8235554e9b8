package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestMappingFetchCatalogSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mapping" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":4151,"name":"Abyssal whip","examine":"A weapon from the abyss.","members":true,"lowalch":48000,"highalch":72000,"limit":70,"value":120001,"icon":"Abyssal whip.png"},
			{"id":1965,"name":"Cabbage","examine":"Yuck.","members":false,"value":1,"icon":"Cabbage.png"}
		]`))
	}))
	defer srv.Close()

	m := NewMapping(MappingOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	entries, err := m.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("fetch catalog: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	whip := entries[0]
	if whip.ID != 4151 || whip.Name != "Abyssal whip" || !whip.Members {
		t.Fatalf("unexpected entry decode: %+v", whip)
	}
	if whip.BuyLimit == nil || *whip.BuyLimit != 70 {
		t.Fatalf("buy limit should decode, got %+v", whip.BuyLimit)
	}
	if entries[1].BuyLimit != nil {
		t.Fatal("absent buy limit should stay nil")
	}
}

func TestMappingFetchCatalogHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "maintenance"})
	}))
	defer srv.Close()

	m := NewMapping(MappingOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	_, err := m.FetchCatalog(context.Background())
	if err == nil {
		t.Fatal("HTTP 503 should return an error")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error should wrap ErrUnavailable, got %v", err)
	}
}

func TestPricesFetchDecodesQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{
			"4151":{"high":1800000,"highTime":1700000000,"low":1750000,"lowTime":1700000050},
			"1965":{"high":null,"highTime":0,"low":1,"lowTime":1700000100},
			"bogus":{"high":1,"highTime":1,"low":1,"lowTime":1}
		}}`))
	}))
	defer srv.Close()

	p := NewPrices(PricesOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	quotes, err := p.FetchPrices(context.Background())
	if err != nil {
		t.Fatalf("fetch prices: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("non-numeric ids should be skipped; expected 2 quotes, got %d", len(quotes))
	}

	whip := quotes[4151]
	if whip.InstantBuy == nil || *whip.InstantBuy != 1800000 {
		t.Fatalf("instant buy should decode, got %+v", whip.InstantBuy)
	}
	if whip.InstantBuyAt.Unix() != 1700000000 {
		t.Fatalf("instant buy timestamp should decode, got %v", whip.InstantBuyAt)
	}

	cabbage := quotes[1965]
	if cabbage.InstantBuy != nil {
		t.Fatal("null high price should stay nil")
	}
	if !cabbage.InstantBuyAt.IsZero() {
		t.Fatal("zero highTime should leave the timestamp unset")
	}
	if cabbage.InstantSell == nil || *cabbage.InstantSell != 1 {
		t.Fatalf("instant sell should decode, got %+v", cabbage.InstantSell)
	}
}

func TestPricesMissingIDIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	p := NewPrices(PricesOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	quotes, err := p.FetchPrices(context.Background())
	if err != nil {
		t.Fatalf("empty quote map is valid: %v", err)
	}
	if _, ok := quotes[4151]; ok {
		t.Fatal("absent id must not resolve to a quote")
	}
}

func TestAttributesFetchNestedBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/attributes" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"4151":{"weight":0.453,"equipment":{"attack_slash":82,"melee_strength":82,"slot":"weapon"},"weapon":{"attack_speed":4,"weapon_type":"whips"}},
			"1965":{"weight":0.35}
		}`))
	}))
	defer srv.Close()

	a := NewAttributes(AttributesOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	records, err := a.FetchAttributes(context.Background())
	if err != nil {
		t.Fatalf("fetch attributes: %v", err)
	}

	whip, ok := records[4151]
	if !ok {
		t.Fatal("expected record for 4151")
	}
	if whip.Equipment == nil || whip.Equipment.AttackSlash != 82 || whip.Equipment.Slot != "weapon" {
		t.Fatalf("equipment block should decode, got %+v", whip.Equipment)
	}
	if whip.Weapon == nil || whip.Weapon.AttackSpeed != 4 {
		t.Fatalf("weapon block should decode, got %+v", whip.Weapon)
	}

	cabbage := records[1965]
	if cabbage.Equipment != nil || cabbage.Weapon != nil {
		t.Fatal("non-equipable items must keep nil equipment/weapon blocks")
	}
}

func TestProbeOutcomes(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer ok.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	p := NewPrices(PricesOptions{BaseURL: ok.URL, Timeout: time.Second}, noopLogger())
	if err := p.Probe(context.Background()); err != nil {
		t.Fatalf("probe against a healthy endpoint should pass: %v", err)
	}

	p = NewPrices(PricesOptions{BaseURL: failing.URL, Timeout: time.Second}, noopLogger())
	if err := p.Probe(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("probe against a failing endpoint should report ErrUnavailable, got %v", err)
	}

	off := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	off.Close()
	p = NewPrices(PricesOptions{BaseURL: off.URL, Timeout: time.Second}, noopLogger())
	if err := p.Probe(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("probe against an unreachable endpoint should report ErrUnavailable, got %v", err)
	}
}
