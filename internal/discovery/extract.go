package discovery

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Four-letter W/K calls ("WEHC"), or three letters followed by digits
	// used by translator stations ("WJZ9").
	callLetterPattern = regexp.MustCompile(`\b([WK][A-Z]{3})\b|\b([WK][A-Z]{2}\d{1,3})\b`)

	frequencyPattern = regexp.MustCompile(`\b(\d{2,3}\.\d)\s*(?:FM|AM|MHz)?\b`)
)

// ExtractCallLetters pulls a station identifier out of free-form text.
func ExtractCallLetters(text string) (string, bool) {
	match := callLetterPattern.FindString(strings.ToUpper(text))
	if match == "" {
		return "", false
	}
	return match, true
}

// ExtractFrequency pulls a dial frequency (MHz) out of free-form text.
func ExtractFrequency(text string) (float64, bool) {
	match := frequencyPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ExtractLocation pulls a trailing place name out of a station name.
// Conventionally written after a comma or dash: "WEHC 90.7 FM - Emory".
func ExtractLocation(text string) string {
	for _, sep := range []string{",", " - ", "|"} {
		if idx := strings.LastIndex(text, sep); idx >= 0 {
			candidate := strings.TrimSpace(text[idx+len(sep):])
			if candidate != "" && !frequencyPattern.MatchString(candidate) {
				return candidate
			}
		}
	}
	return ""
}
