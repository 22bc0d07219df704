package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"aircheck/internal/catalog"
	"aircheck/internal/logging"
	"aircheck/internal/services"
	"aircheck/internal/testsupport"
)

func registryServer(t *testing.T, respond func(r *http.Request) []Candidate) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stations/search" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		candidates := respond(r)
		if candidates == nil {
			candidates = []Candidate{}
		}
		if err := json.NewEncoder(w).Encode(candidates); err != nil {
			t.Errorf("encode candidates: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFindBestStreamExactNameFirst(t *testing.T) {
	var strategies []string
	server := registryServer(t, func(r *http.Request) []Candidate {
		strategies = append(strategies, r.URL.Query().Get("name"))
		if r.URL.Query().Get("nameExact") == "true" {
			return []Candidate{{Name: "WEHC 90.7 FM", URL: "http://exact.example/stream", LastCheckOK: 1, Bitrate: 128}}
		}
		return nil
	})

	cfg := testsupport.NewConfig(t, testsupport.WithDiscoveryURL(server.URL))
	client := NewClient(cfg, logging.NewNop())

	station := &catalog.Station{Name: "WEHC 90.7 FM", CallLetters: "WEHC"}
	match, err := client.FindBestStream(context.Background(), station, FreshDiscoveryWeights)
	if err != nil {
		t.Fatalf("FindBestStream: %v", err)
	}
	if match.Candidate.URL != "http://exact.example/stream" {
		t.Fatalf("unexpected URL %s", match.Candidate.URL)
	}
	if match.Source != "exact-name" {
		t.Fatalf("expected exact-name strategy, got %s", match.Source)
	}
	if len(strategies) != 1 {
		t.Fatalf("later strategies should not run after a hit, got queries %v", strategies)
	}
}

func TestFindBestStreamFallsThroughStrategies(t *testing.T) {
	var queries int32
	server := registryServer(t, func(r *http.Request) []Candidate {
		atomic.AddInt32(&queries, 1)
		// Only the bare call-letter search returns anything.
		if r.URL.Query().Get("name") == "WEHC" && r.URL.Query().Get("nameExact") == "" {
			return []Candidate{{Name: "WEHC Emory & Henry", URL: "http://call.example/stream", LastCheckOK: 1}}
		}
		return nil
	})

	cfg := testsupport.NewConfig(t, testsupport.WithDiscoveryURL(server.URL))
	cfg.Discovery.MinConfidence = 0.5
	client := NewClient(cfg, logging.NewNop())

	station := &catalog.Station{Name: "WEHC 90.7 FM", CallLetters: "WEHC"}
	match, err := client.FindBestStream(context.Background(), station, FreshDiscoveryWeights)
	if err != nil {
		t.Fatalf("FindBestStream: %v", err)
	}
	if match.Source != "call-letters" {
		t.Fatalf("expected call-letters strategy, got %s", match.Source)
	}
	if atomic.LoadInt32(&queries) < 2 {
		t.Fatal("expected the exact-name strategy to be tried before call letters")
	}
}

func TestFindBestStreamBelowThreshold(t *testing.T) {
	server := registryServer(t, func(r *http.Request) []Candidate {
		if r.URL.Query().Get("nameExact") == "true" {
			return []Candidate{{Name: "Entirely Different", URL: "http://weak.example/stream"}}
		}
		return nil
	})

	cfg := testsupport.NewConfig(t, testsupport.WithDiscoveryURL(server.URL))
	cfg.Discovery.MinConfidence = 0.8
	client := NewClient(cfg, logging.NewNop())

	station := &catalog.Station{Name: "WEHC 90.7 FM", CallLetters: "WEHC"}
	_, err := client.FindBestStream(context.Background(), station, FreshDiscoveryWeights)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for sub-threshold match, got %v", err)
	}
}

func TestFindBestStreamNoCandidates(t *testing.T) {
	server := registryServer(t, func(r *http.Request) []Candidate { return nil })

	cfg := testsupport.NewConfig(t, testsupport.WithDiscoveryURL(server.URL))
	client := NewClient(cfg, logging.NewNop())

	station := &catalog.Station{Name: "Obscure Webcast", CallLetters: ""}
	_, err := client.FindBestStream(context.Background(), station, FreshDiscoveryWeights)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRefreshStationAppliesResult(t *testing.T) {
	server := registryServer(t, func(r *http.Request) []Candidate {
		if r.URL.Query().Get("nameExact") == "true" {
			return []Candidate{{Name: "WEHC 90.7 FM", URL: "http://fresh.example/stream", LastCheckOK: 1, Bitrate: 128}}
		}
		return nil
	})

	cfg := testsupport.NewConfig(t, testsupport.WithDiscoveryURL(server.URL))
	store := testsupport.MustOpenStore(t, cfg)
	station := testsupport.NewStation(t, store, "WEHC", "WEHC 90.7 FM", "http://stale.example/stream")
	station.RecommendedTool = catalog.ToolStreamripper
	if err := store.UpdateStationCAS(context.Background(), station, station.UpdatedAt); err != nil {
		t.Fatalf("seed recommended tool: %v", err)
	}

	client := NewClient(cfg, logging.NewNop())
	updated, match, err := client.RefreshStation(context.Background(), store, station.ID, RediscoveryWeights)
	if err != nil {
		t.Fatalf("RefreshStation: %v", err)
	}
	if match == nil || match.Candidate.URL != "http://fresh.example/stream" {
		t.Fatalf("unexpected match %+v", match)
	}

	persisted, err := store.GetStation(context.Background(), updated.ID)
	if err != nil {
		t.Fatalf("GetStation: %v", err)
	}
	if persisted.StreamURL != "http://fresh.example/stream" {
		t.Fatalf("stream URL not replaced, got %s", persisted.StreamURL)
	}
	if persisted.RecommendedTool != catalog.ToolUnset {
		t.Fatalf("recommended tool should be cleared after a stream change, got %s", persisted.RecommendedTool)
	}
	if persisted.DiscoverySource != "exact-name" {
		t.Fatalf("discovery source = %q", persisted.DiscoverySource)
	}
	if persisted.DiscoveryConfidence <= 0 {
		t.Fatal("discovery confidence not recorded")
	}
}

func TestRefreshStationFailureKeepsStreamURL(t *testing.T) {
	server := registryServer(t, func(r *http.Request) []Candidate { return nil })

	cfg := testsupport.NewConfig(t, testsupport.WithDiscoveryURL(server.URL))
	store := testsupport.MustOpenStore(t, cfg)
	station := testsupport.NewStation(t, store, "WEHC", "WEHC 90.7 FM", "http://old.example/stream")

	client := NewClient(cfg, logging.NewNop())
	_, _, err := client.RefreshStation(context.Background(), store, station.ID, RediscoveryWeights)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	persisted, err := store.GetStation(context.Background(), station.ID)
	if err != nil {
		t.Fatalf("GetStation: %v", err)
	}
	if persisted.StreamURL != "http://old.example/stream" {
		t.Fatalf("failed discovery must not touch stream URL, got %s", persisted.StreamURL)
	}
	if persisted.LastTestResult != catalog.TestResultError {
		t.Fatalf("expected error test result after failed discovery, got %s", persisted.LastTestResult)
	}
}
