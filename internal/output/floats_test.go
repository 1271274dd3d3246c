package output

import "testing"

func TestRoundFloat(t *testing.T) {
	a, b := 0.1, 0.2
	if got := RoundFloat(a + b); got != 0.3 {
		t.Errorf("RoundFloat(0.1+0.2) = %v, want 0.3", got)
	}
	if got := RoundFloat(0.68750049); got != 0.6875 {
		t.Errorf("RoundFloat(0.68750049) = %v, want 0.6875", got)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		0:         "0",
		1:         "1",
		0.3:       "0.3",
		0.15:      "0.15",
		0.4000001: "0.4",
	}
	for in, want := range tests {
		if got := FormatFloat(in); got != want {
			t.Errorf("FormatFloat(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := map[float64]string{
		0:      "0.0%",
		0.5:    "50.0%",
		1:      "100.0%",
		0.6875: "68.8%",
	}
	for in, want := range tests {
		if got := Percent(in); got != want {
			t.Errorf("Percent(%v) = %q, want %q", in, got, want)
		}
	}
}
