package discovery

import (
	"math"
	"sort"
	"strings"
	"time"

	"aircheck/internal/catalog"
	"aircheck/internal/textutil"
)

// Weights parameterizes candidate scoring. Two named sets exist because
// fresh discovery and failure-triggered rediscovery intentionally weigh
// evidence differently; call sites pass the set they want rather than
// relying on a merged default.
type Weights struct {
	ExactName      float64
	CallLetters    float64
	WordOverlap    float64
	USCountry      float64
	Reachable      float64
	Unreachable    float64
	HighBitrate    float64
	FrequencyExact float64
	FrequencyClose float64
	Location       float64
	RecentCheck    float64
}

// FreshDiscoveryWeights scores candidates for a station that has never
// had a working stream.
var FreshDiscoveryWeights = Weights{
	ExactName:   1.0,
	CallLetters: 0.8,
	WordOverlap: 0.6,
	USCountry:   0.2,
	Reachable:   0.3,
	Unreachable: -0.2,
	HighBitrate: 0.2,
}

// RediscoveryWeights scores candidates when refreshing a station after a
// capture failure; frequency and location evidence helps avoid swapping
// in a similarly-named but wrong station.
var RediscoveryWeights = Weights{
	ExactName:      1.0,
	CallLetters:    0.8,
	WordOverlap:    0.6,
	USCountry:      0.2,
	Reachable:      0.3,
	Unreachable:    -0.2,
	HighBitrate:    0.2,
	FrequencyExact: 0.7,
	FrequencyClose: 0.4,
	Location:       0.5,
	RecentCheck:    0.1,
}

const (
	highBitrateKbps   = 128
	recentCheckWindow = 30 * 24 * time.Hour
	frequencyCloseMHz = 0.3
)

// Features holds the match evidence for one candidate. Extracting
// features is separated from scoring so Score stays a pure function.
type Features struct {
	ExactName      bool
	CallLetters    bool
	WordOverlap    float64
	USCountry      bool
	Reachable      bool
	HighBitrate    bool
	FrequencyExact bool
	FrequencyClose bool
	Location       bool
	RecentCheck    bool
}

// Score computes the additive confidence for a feature set. Order of
// feature evaluation never matters.
func Score(features Features, weights Weights) float64 {
	score := 0.0
	if features.ExactName {
		score += weights.ExactName
	}
	if features.CallLetters {
		score += weights.CallLetters
	}
	score += weights.WordOverlap * features.WordOverlap
	if features.USCountry {
		score += weights.USCountry
	}
	if features.Reachable {
		score += weights.Reachable
	} else {
		score += weights.Unreachable
	}
	if features.HighBitrate {
		score += weights.HighBitrate
	}
	if features.FrequencyExact {
		score += weights.FrequencyExact
	} else if features.FrequencyClose {
		score += weights.FrequencyClose
	}
	if features.Location {
		score += weights.Location
	}
	if features.RecentCheck {
		score += weights.RecentCheck
	}
	return score
}

// ExtractFeatures derives match evidence for a candidate against a station.
func ExtractFeatures(station *catalog.Station, candidate Candidate, now time.Time) Features {
	stationName := strings.TrimSpace(station.Name)
	candidateName := strings.TrimSpace(candidate.Name)
	call := strings.ToUpper(strings.TrimSpace(station.CallLetters))

	features := Features{
		ExactName:   strings.EqualFold(stationName, candidateName),
		WordOverlap: textutil.WordOverlap(stationName, candidateName),
		USCountry:   isUSCountry(candidate),
		Reachable:   candidate.LastCheckOK == 1,
		HighBitrate: candidate.Bitrate >= highBitrateKbps,
	}
	if call != "" {
		features.CallLetters = strings.Contains(strings.ToUpper(candidateName), call)
	}

	stationFreq, stationHasFreq := ExtractFrequency(stationName)
	candidateFreq, candidateHasFreq := ExtractFrequency(candidateName)
	if stationHasFreq && candidateHasFreq {
		diff := math.Abs(stationFreq - candidateFreq)
		features.FrequencyExact = diff < 0.05
		features.FrequencyClose = !features.FrequencyExact && diff <= frequencyCloseMHz
	}

	if location := ExtractLocation(stationName); location != "" {
		lowered := strings.ToLower(location)
		features.Location = strings.Contains(strings.ToLower(candidate.State), lowered) ||
			strings.Contains(strings.ToLower(candidateName), lowered)
	}

	if checked, err := candidate.LastCheckedAt(); err == nil && !checked.IsZero() {
		features.RecentCheck = now.Sub(checked) < recentCheckWindow
	}

	return features
}

// scored pairs a candidate with its computed confidence.
type scored struct {
	candidate Candidate
	score     float64
}

// rank orders candidates best-first: score, then bitrate, then most
// recently checked.
func rank(station *catalog.Station, candidates []Candidate, weights Weights, now time.Time) []scored {
	results := make([]scored, 0, len(candidates))
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate.URL) == "" {
			continue
		}
		features := ExtractFeatures(station, candidate, now)
		results = append(results, scored{candidate: candidate, score: Score(features, weights)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		if results[i].candidate.Bitrate != results[j].candidate.Bitrate {
			return results[i].candidate.Bitrate > results[j].candidate.Bitrate
		}
		ti, errI := results[i].candidate.LastCheckedAt()
		tj, errJ := results[j].candidate.LastCheckedAt()
		if errI != nil || errJ != nil {
			return false
		}
		return ti.After(tj)
	})
	return results
}

func isUSCountry(candidate Candidate) bool {
	if strings.EqualFold(candidate.CountryCode, "US") {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(candidate.Country)) {
	case "the united states of america", "united states of america", "united states", "usa":
		return true
	}
	return false
}
