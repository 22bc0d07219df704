package textutil

import "testing"

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"the morning show":        "TheMorningShow",
		"Jazz @ Night!":           "JazzNight",
		"All Things Considered":   "AllThingsConsidered",
		"  spaced   out  ":        "SpacedOut",
		"90.7 Community Calendar": "907CommunityCalendar",
	}
	for input, want := range cases {
		if got := Slug(input); got != want {
			t.Errorf("Slug(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestWordOverlap(t *testing.T) {
	if got := WordOverlap("WEHC Emory & Henry College Radio", "Emory Henry Radio"); got != 1.0 {
		t.Fatalf("expected full overlap of smaller set, got %v", got)
	}
	if got := WordOverlap("Morning Jazz", "Evening Blues"); got != 0 {
		t.Fatalf("expected zero overlap, got %v", got)
	}
	if got := WordOverlap("", "anything"); got != 0 {
		t.Fatalf("expected zero for empty input, got %v", got)
	}
}

func TestSimplifyName(t *testing.T) {
	if got := SimplifyName("The Mountain Radio 90.7 FM"); got != "mountain 90" {
		t.Fatalf("unexpected simplified name: %q", got)
	}
}
