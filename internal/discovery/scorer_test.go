package discovery

import (
	"testing"
	"time"

	"aircheck/internal/catalog"
)

func TestScoreCallLettersOutweighWordOverlap(t *testing.T) {
	station := &catalog.Station{Name: "The Mountain", CallLetters: "WEHC"}
	now := time.Now()

	withCall := Candidate{Name: "WEHC 90.7", URL: "http://a.example/stream"}
	withOverlap := Candidate{Name: "The Mountain", URL: "http://b.example/stream"}

	callScore := Score(ExtractFeatures(station, withCall, now), FreshDiscoveryWeights)
	overlapScore := Score(ExtractFeatures(station, withOverlap, now), FreshDiscoveryWeights)

	// Full word overlap also trips the exact-name feature, so strip that
	// back out to compare the partial-evidence weights in isolation.
	overlapOnly := overlapScore - FreshDiscoveryWeights.ExactName
	if callScore <= overlapOnly {
		t.Fatalf("call-letter evidence %.2f should beat word overlap %.2f", callScore, overlapOnly)
	}
}

func TestScoreExactNameDominates(t *testing.T) {
	station := &catalog.Station{Name: "WEHC 90.7 FM", CallLetters: "WEHC"}
	now := time.Now()

	exact := Candidate{Name: "WEHC 90.7 FM", URL: "http://a.example", LastCheckOK: 1, Bitrate: 128}
	partial := Candidate{Name: "WEHC HD2", URL: "http://b.example", LastCheckOK: 1, Bitrate: 128}

	if got, want := Score(ExtractFeatures(station, exact, now), FreshDiscoveryWeights),
		Score(ExtractFeatures(station, partial, now), FreshDiscoveryWeights); got <= want {
		t.Fatalf("exact-name candidate scored %.2f, partial scored %.2f", got, want)
	}
}

func TestScoreUnreachablePenalty(t *testing.T) {
	station := &catalog.Station{Name: "WEHC 90.7 FM"}
	now := time.Now()

	up := Candidate{Name: "WEHC 90.7 FM", URL: "http://a.example", LastCheckOK: 1}
	down := Candidate{Name: "WEHC 90.7 FM", URL: "http://a.example", LastCheckOK: 0}

	upScore := Score(ExtractFeatures(station, up, now), FreshDiscoveryWeights)
	downScore := Score(ExtractFeatures(station, down, now), FreshDiscoveryWeights)

	want := FreshDiscoveryWeights.Reachable - FreshDiscoveryWeights.Unreachable
	if diff := upScore - downScore; diff < want-0.001 || diff > want+0.001 {
		t.Fatalf("reachability delta = %.2f, want %.2f", diff, want)
	}
}

func TestScoreOrderIndependent(t *testing.T) {
	features := Features{
		CallLetters:    true,
		WordOverlap:    0.5,
		USCountry:      true,
		Reachable:      true,
		HighBitrate:    true,
		FrequencyClose: true,
		RecentCheck:    true,
	}
	first := Score(features, RediscoveryWeights)
	for i := 0; i < 10; i++ {
		if got := Score(features, RediscoveryWeights); got != first {
			t.Fatalf("score changed between calls: %.4f vs %.4f", got, first)
		}
	}
}

func TestExtractFeaturesFrequency(t *testing.T) {
	station := &catalog.Station{Name: "WEHC 90.7 FM"}
	now := time.Now()

	exact := ExtractFeatures(station, Candidate{Name: "Community Radio 90.7"}, now)
	if !exact.FrequencyExact {
		t.Fatal("expected exact frequency match for 90.7 vs 90.7")
	}
	close := ExtractFeatures(station, Candidate{Name: "Community Radio 90.9"}, now)
	if close.FrequencyExact || !close.FrequencyClose {
		t.Fatalf("expected close frequency match, got %+v", close)
	}
	far := ExtractFeatures(station, Candidate{Name: "Community Radio 101.1"}, now)
	if far.FrequencyExact || far.FrequencyClose {
		t.Fatalf("expected no frequency match, got %+v", far)
	}
}

func TestExtractFeaturesRecentCheck(t *testing.T) {
	station := &catalog.Station{Name: "WEHC 90.7 FM"}
	now := time.Date(2025, 7, 27, 8, 0, 0, 0, time.UTC)

	recent := Candidate{Name: "WEHC", LastCheckTime: now.Add(-24 * time.Hour).Format(time.RFC3339)}
	if !ExtractFeatures(station, recent, now).RecentCheck {
		t.Fatal("check one day ago should count as recent")
	}
	stale := Candidate{Name: "WEHC", LastCheckTime: now.Add(-60 * 24 * time.Hour).Format(time.RFC3339)}
	if ExtractFeatures(station, stale, now).RecentCheck {
		t.Fatal("check two months ago should not count as recent")
	}
	if ExtractFeatures(station, Candidate{Name: "WEHC"}, now).RecentCheck {
		t.Fatal("missing check time should not count as recent")
	}
}

func TestRankOrdersByScoreThenBitrate(t *testing.T) {
	station := &catalog.Station{Name: "WEHC 90.7 FM", CallLetters: "WEHC"}
	now := time.Now()
	candidates := []Candidate{
		{Name: "Unrelated Stream", URL: "http://c.example", Bitrate: 320},
		{Name: "WEHC 90.7 FM", URL: "http://a.example", Bitrate: 64},
		{Name: "WEHC 90.7 FM", URL: "http://b.example", Bitrate: 192},
		{Name: "WEHC 90.7 FM", URL: ""},
	}

	ranked := rank(station, candidates, FreshDiscoveryWeights, now)
	if len(ranked) != 3 {
		t.Fatalf("expected URL-less candidate dropped, got %d results", len(ranked))
	}
	if ranked[0].candidate.URL != "http://b.example" {
		t.Fatalf("expected 192kbps exact match first, got %s", ranked[0].candidate.URL)
	}
	if ranked[2].candidate.URL != "http://c.example" {
		t.Fatalf("expected unrelated candidate last, got %s", ranked[2].candidate.URL)
	}
}

func TestExtractCallLetters(t *testing.T) {
	cases := []struct {
		text string
		want string
		ok   bool
	}{
		{"WEHC 90.7 FM", "WEHC", true},
		{"the mountain kexp seattle", "KEXP", true},
		{"Jazz 24/7", "", false},
		{"WXYZ-FM Detroit", "WXYZ", true},
	}
	for _, tc := range cases {
		got, ok := ExtractCallLetters(tc.text)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ExtractCallLetters(%q) = %q, %v; want %q, %v", tc.text, got, ok, tc.want, tc.ok)
		}
	}
}

func TestExtractFrequency(t *testing.T) {
	if freq, ok := ExtractFrequency("WEHC 90.7 FM"); !ok || freq != 90.7 {
		t.Fatalf("got %.1f, %v", freq, ok)
	}
	if _, ok := ExtractFrequency("All Talk Radio"); ok {
		t.Fatal("expected no frequency")
	}
}

func TestExtractLocation(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"WEHC 90.7 FM - Emory", "Emory"},
		{"The Mountain, Asheville", "Asheville"},
		{"WXPN | Philadelphia", "Philadelphia"},
		{"Plain Name", ""},
	}
	for _, tc := range cases {
		if got := ExtractLocation(tc.text); got != tc.want {
			t.Errorf("ExtractLocation(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}
