package derive

import "testing"

func TestSummarizeInts(t *testing.T) {
	summary := SummarizeInts(map[string]int{
		"cpu0": 1800000,
		"cpu1": 1200000,
		"cpu2": 1500000,
	})

	if summary.Count != 3 {
		t.Errorf("Count = %d, want 3", summary.Count)
	}
	if summary.Min != 1200000 {
		t.Errorf("Min = %v", summary.Min)
	}
	if summary.Max != 1800000 {
		t.Errorf("Max = %v", summary.Max)
	}
	if summary.Avg != 1500000 {
		t.Errorf("Avg = %v", summary.Avg)
	}
	if summary.Min > summary.Avg || summary.Avg > summary.Max {
		t.Errorf("ordering violated: %+v", summary)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := SummarizeInts(nil)
	if summary.Count != 0 {
		t.Errorf("Count = %d, want 0", summary.Count)
	}
}

func TestSummarizeFloats(t *testing.T) {
	summary := SummarizeFloats(map[string]float64{
		"AP":  39.5,
		"GPU": 41.2,
	})

	if summary.Min != 39.5 || summary.Max != 41.2 || summary.Count != 2 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{3.14159, 3.14},
		{2.675, 2.68},
		{-2.675, -2.68},
		{100, 100},
		{0.005, 0.01},
	}
	for _, c := range cases {
		if got := Round2(c.in); got != c.want {
			t.Errorf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
		// Idempotent: rounding a rounded value changes nothing.
		if got := Round2(Round2(c.in)); got != Round2(c.in) {
			t.Errorf("Round2 not idempotent for %v", c.in)
		}
	}
}

func TestUnitConversions(t *testing.T) {
	if got := KBToMB(1024); got != 1.00 {
		t.Errorf("KBToMB(1024) = %v, want 1.00", got)
	}
	if got := KBToGB(1048576); got != 1.00 {
		t.Errorf("KBToGB(1048576) = %v, want 1.00", got)
	}
	if got := KBToGB(56408880); got != 53.8 {
		t.Errorf("KBToGB(56408880) = %v, want 53.8", got)
	}
	if got := KHzToMHz(1500000); got != 1500.00 {
		t.Errorf("KHzToMHz(1500000) = %v, want 1500.00", got)
	}
	if got := TenthsToDegrees(346); got != 34.6 {
		t.Errorf("TenthsToDegrees(346) = %v, want 34.6", got)
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(44087560, 56408880); got != 78.16 {
		t.Errorf("Percent = %v, want 78.16", got)
	}
	if got := Percent(10, 0); got != 0 {
		t.Errorf("zero total must yield 0, got %v", got)
	}
	if got := Percent(10, -5); got != 0 {
		t.Errorf("negative total must yield 0, got %v", got)
	}
}
