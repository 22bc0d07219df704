// Package catalog manages aircheck's persistent state in SQLite:
// stations, shows, show schedules, and the recording catalog.
//
// All timestamps are stored as RFC3339Nano UTC strings. Station
// test-result updates go through a compare-and-set on updated_at so a
// capture result never clobbers a concurrent discovery update.
package catalog
