package commons

import (
	"strings"
	"testing"
)

func TestApproximateRatioExact(t *testing.T) {
	tests := []struct {
		width, height int
		want          string
	}{
		{4, 3, "4:3"},
		{4000, 3000, "4:3"},
		{1920, 1080, "16:9"},
		{1080, 1920, "9:16"},
		{500, 500, "1:1"},
		{21, 9, "21:9"},
	}

	for _, tt := range tests {
		got := ApproximateRatio(tt.width, tt.height)
		if got != tt.want {
			t.Errorf("ApproximateRatio(%d, %d) = %q, want %q", tt.width, tt.height, got, tt.want)
		}
	}
}

func TestApproximateRatioUnknown(t *testing.T) {
	for _, pair := range [][2]int{{0, 100}, {100, 0}, {-5, 100}, {0, 0}} {
		got := ApproximateRatio(pair[0], pair[1])
		if got != "unknown" {
			t.Errorf("ApproximateRatio(%d, %d) = %q, want \"unknown\"", pair[0], pair[1], got)
		}
	}
}

func TestApproximateRatioApproximated(t *testing.T) {
	// 1920x817 reduces to 1920:817, far past the component bound, so the
	// label must carry the approximation marker.
	got := ApproximateRatio(1920, 817)
	if got != "≈7:3" {
		t.Errorf("ApproximateRatio(1920, 817) = %q, want \"≈7:3\"", got)
	}

	// A prime pair just over the bound also gets approximated.
	got = ApproximateRatio(997, 499)
	if !strings.HasPrefix(got, "≈") {
		t.Errorf("ApproximateRatio(997, 499) = %q, want approximation marker prefix", got)
	}
}

func TestApproximateRatioDeterministic(t *testing.T) {
	first := ApproximateRatio(3989, 1523)
	for i := 0; i < 10; i++ {
		if got := ApproximateRatio(3989, 1523); got != first {
			t.Fatalf("ApproximateRatio not deterministic: %q then %q", first, got)
		}
	}
}
