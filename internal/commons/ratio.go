package commons

import (
	"fmt"
	"math"
)

// maxRatioComponent bounds both sides of a reported aspect ratio. Ratios
// whose reduced form fits the bound are reported exactly; anything else is
// snapped to the closest small ratio and marked as approximate.
const maxRatioComponent = 21

// ApproximateRatio derives a compact aspect-ratio label from pixel
// dimensions, e.g. "4:3" for 4000x3000 or "≈21:9" for 1920x817. Returns
// "unknown" when either dimension is not positive.
func ApproximateRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return "unknown"
	}

	g := gcd(width, height)
	rw, rh := width/g, height/g
	if rw <= maxRatioComponent && rh <= maxRatioComponent {
		return fmt.Sprintf("%d:%d", rw, rh)
	}

	// Reduced form is too unwieldy to display. Scan the small denominators
	// and keep the pair closest to the true ratio; the first best match
	// wins so the result is deterministic.
	target := float64(width) / float64(height)
	bestW, bestH := 1, 1
	bestDiff := math.Inf(1)
	for h := 1; h <= maxRatioComponent; h++ {
		w := int(math.Round(target * float64(h)))
		if w < 1 {
			w = 1
		}
		if w > maxRatioComponent {
			w = maxRatioComponent
		}
		diff := math.Abs(float64(w)/float64(h) - target)
		if diff < bestDiff {
			bestDiff = diff
			bestW, bestH = w, h
		}
	}
	return fmt.Sprintf("≈%d:%d", bestW, bestH)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
