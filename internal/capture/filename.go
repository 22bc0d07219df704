package capture

import (
	"fmt"
	"time"

	"aircheck/internal/catalog"
)

const timestampLayout = "20060102_1504"

// Filename builds the deterministic recording filename
// CALL_Slug_YYYYMMDD_HHMM.mp3. Test and on-demand captures use fixed
// slugs so they sort together in the recordings directory.
func Filename(callLetters, slug string, recordedAt time.Time) string {
	return fmt.Sprintf("%s_%s_%s.mp3", callLetters, slug, recordedAt.Format(timestampLayout))
}

// slugFor picks the filename segment for a capture. Scheduled and
// uploaded recordings carry the show slug; test and on-demand captures
// use fixed markers regardless of show.
func slugFor(show *catalog.Show, sourceType catalog.SourceType) string {
	switch sourceType {
	case catalog.SourceTest:
		return "test"
	case catalog.SourceOnDemand:
		return "on-demand"
	default:
		return show.Slug()
	}
}
