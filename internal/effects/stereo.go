package effects

// LimiterCeiling is the brick-wall output bound.
const LimiterCeiling = 0.89

// Width scales the side signal of a mid/side decomposition. 0.5 leaves the
// image unchanged, 0 folds to mono and 1 doubles the side level.
func Width(l, r, w float32) (float32, float32) {
	mid := (l + r) * 0.5
	side := (l - r) * 0.5 * (2 * w)
	return mid + side, mid - side
}

// Limit hard-clamps x to +/-LimiterCeiling. It is a safety ceiling, not a
// lookahead limiter.
func Limit(x float32) float32 {
	if x > LimiterCeiling {
		return LimiterCeiling
	}
	if x < -LimiterCeiling {
		return -LimiterCeiling
	}
	return x
}
