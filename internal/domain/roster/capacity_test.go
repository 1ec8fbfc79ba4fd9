package roster

import "testing"

func TestSlotsFor(t *testing.T) {
	settings := Settings{QB: 1, RB: 2, WR: 3, TE: 1, K: 1, DEF: 1, Flex: 2, Bench: 6}

	tests := []struct {
		category Position
		want     int
	}{
		{PositionQB, 1},
		{PositionRB, 2},
		{PositionWR, 3},
		{PositionTE, 1},
		{PositionK, 1},
		{PositionDEF, 1},
		{PositionFlex, 2},
		{PositionBench, 6},
		{Position("IDP"), UnknownCapacity},
		{Position(""), UnknownCapacity},
	}

	for _, tc := range tests {
		if got := SlotsFor(settings, tc.category); got != tc.want {
			t.Fatalf("SlotsFor(%q) = %d, want %d", tc.category, got, tc.want)
		}
	}
}

func TestSlotsForDistinguishesZeroFromUnknown(t *testing.T) {
	if got := SlotsFor(Settings{}, PositionK); got != 0 {
		t.Fatalf("expected zero capacity for configured K, got %d", got)
	}
	if got := SlotsFor(Settings{}, Position("LB")); got != UnknownCapacity {
		t.Fatalf("expected unknown capacity, got %d", got)
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := (Settings{QB: 1, Bench: 0}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Settings{QB: 1, RB: -1}).Validate(); err == nil {
		t.Fatalf("expected negative capacity to fail")
	}
	if err := (Settings{Bench: 5}).Validate(); err == nil {
		t.Fatalf("expected settings without starting slots to fail")
	}
}

func TestParsePosition(t *testing.T) {
	pos, err := ParsePosition(" wr ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos != PositionWR {
		t.Fatalf("unexpected position: %s", pos)
	}

	for _, raw := range []string{"FLEX", "bench", "LB", ""} {
		if _, err := ParsePosition(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}
