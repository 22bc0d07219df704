// Package guard prevents two concurrent captures of the same show.
//
// The claim API is deliberately small and atomic so the in-memory
// implementation can be swapped for a database row with optimistic
// locking if the scheduler is ever run with multiple instances.
package guard

import (
	"sync"
	"time"
)

// Claim is a held reservation for one show.
type Claim struct {
	ShowID    int64
	Token     uint64
	ClaimedAt time.Time
	// ExpiresAt is when the claim may be taken over if the holder never
	// releases it. It is sized from the expected capture length, so a
	// long capture is never presumed dead while still running.
	ExpiresAt time.Time
}

// DuplicateGuard serializes capture attempts per show.
type DuplicateGuard interface {
	// TryClaim reserves the show for a capture starting at now and
	// expected to run for hold. It returns false while another capture
	// holds an unexpired claim.
	TryClaim(showID int64, now time.Time, hold time.Duration) (Claim, bool)
	// Release frees the claim. Releasing a superseded claim is a no-op.
	Release(claim Claim)
	// Held reports the shows currently claimed, for status output.
	Held() []int64
}

// MemoryGuard is the single-instance implementation backed by a
// mutex-protected map.
type MemoryGuard struct {
	window time.Duration

	mu     sync.Mutex
	claims map[int64]Claim
	next   uint64
}

// NewMemoryGuard constructs a guard. window is the minimum claim
// lifetime; a claim whose expected hold is longer keeps the claim for
// the full hold. Takeover of an expired claim covers a dispatch
// goroutine that died without releasing.
func NewMemoryGuard(window time.Duration) *MemoryGuard {
	if window <= 0 {
		window = time.Hour
	}
	return &MemoryGuard{
		window: window,
		claims: make(map[int64]Claim),
	}
}

// TryClaim implements DuplicateGuard.
func (g *MemoryGuard) TryClaim(showID int64, now time.Time, hold time.Duration) (Claim, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, held := g.claims[showID]; held {
		if now.Before(existing.ExpiresAt) {
			return Claim{}, false
		}
		// Expired claim: the holder outlived its own hold estimate
		// without releasing. Take over.
		delete(g.claims, showID)
	}

	if hold < g.window {
		hold = g.window
	}
	g.next++
	claim := Claim{ShowID: showID, Token: g.next, ClaimedAt: now, ExpiresAt: now.Add(hold)}
	g.claims[showID] = claim
	return claim, true
}

// Release implements DuplicateGuard.
func (g *MemoryGuard) Release(claim Claim) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if current, held := g.claims[claim.ShowID]; held && current.Token == claim.Token {
		delete(g.claims, claim.ShowID)
	}
}

// Held implements DuplicateGuard.
func (g *MemoryGuard) Held() []int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	ids := make([]int64, 0, len(g.claims))
	for id := range g.claims {
		ids = append(ids, id)
	}
	return ids
}
