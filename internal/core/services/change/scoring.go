package change

import (
	"math"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
)

// ImpactFactor is the fixed per-type multiplier applied to every score.
func ImpactFactor(t domain.ChangeType) float64 {
	switch t {
	case domain.ChangeSecurityDowngrade:
		return 2.0
	case domain.ChangeSecurityUpgrade:
		return 0.5
	case domain.ChangeChannelShift:
		return 1.5
	case domain.ChangeNewBSSIDSameSSID:
		return 1.8
	case domain.ChangeSignalAnomaly:
		return 1.2
	case domain.ChangeCapabilitiesChanged:
		return 1.8
	case domain.ChangeFollowingNetwork:
		return 2.0
	}
	return 1.0
}

// Score computes round(likelihood × 100 × impact × confidence) clamped to [0,100].
// likelihood and confidence are clamped to [0,1] first.
func Score(t domain.ChangeType, likelihood, confidence float64) int {
	likelihood = clamp01(likelihood)
	confidence = clamp01(confidence)

	raw := math.Round(likelihood * 100 * ImpactFactor(t) * confidence)
	switch {
	case raw < 0:
		return 0
	case raw > 100:
		return 100
	}
	return int(raw)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
