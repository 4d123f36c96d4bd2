package push

import (
	"testing"
	"time"
)

func TestDelayDoubles(t *testing.T) {
	cases := []struct {
		failures int
		want     time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{10, 30 * time.Second},
		{-1, time.Second},
	}
	for _, c := range cases {
		if got := Delay(c.failures); got != c.want {
			t.Errorf("Delay(%d) = %v, want %v", c.failures, got, c.want)
		}
	}
}

func TestDelayNeverExceedsCap(t *testing.T) {
	for failures := 0; failures <= maxAttempts; failures++ {
		if got := Delay(failures); got > maxDelay {
			t.Fatalf("Delay(%d) = %v exceeds cap", failures, got)
		}
	}
}
