package control

import "math/rand"

const (
	StylePopGloss = iota
	StyleTrap808
	StyleRnBSilk

	NumStyles
)

var styleNames = [NumStyles]string{"Pop Gloss", "Trap 808", "R&B Silk"}

// StyleName returns the display name of a style index. Out of range indices
// report R&B Silk, matching ApplyStyle.
func StyleName(style int) string {
	if style < 0 || style >= NumStyles {
		return styleNames[StyleRnBSilk]
	}
	return styleNames[style]
}

type setting struct {
	id ID
	v  float32
}

var styleTables = [NumStyles][]setting{
	StylePopGloss: {
		{OscMorph, 0.3}, {SubLevel, 0.15}, {NoiseLevel, 0.05},
		{Cutoff, 8000}, {Resonance, 0.15},
		{ChorusMix, 0.25}, {ReverbMix, 0.18},
		{DelayTime, 380}, {DelayMix, 0.15},
		{CompAmt, 0.35},
	},
	StyleTrap808: {
		{OscMorph, 0}, {SubLevel, 0.7}, {Drive, 0.35},
		{FilterType, 0}, {Cutoff, 180}, {Resonance, 0.25},
		{ChorusMix, 0}, {ReverbMix, 0}, {DelayMix, 0},
		{CompAmt, 0.55},
	},
	StyleRnBSilk: {
		{OscMorph, 0.5}, {SubLevel, 0.25}, {NoiseLevel, 0.03},
		{Cutoff, 3200}, {Resonance, 0.2},
		{ChorusMix, 0.35}, {ReverbMix, 0.28},
		{DelayTime, 480}, {DelayMix, 0.22},
		{CompAmt, 0.25},
	},
}

// ApplyStyle writes a style's designer values into the store. Parameters a
// style does not name keep their current values. Unknown indices apply
// R&B Silk.
func ApplyStyle(s *Store, style int) {
	if style < 0 || style >= NumStyles {
		style = StyleRnBSilk
	}
	for _, kv := range styleTables[style] {
		s.Set(kv.id, kv.v)
	}
	s.Set(Style, float32(style))
}

type sauceRange struct {
	id     ID
	lo, hi float32
}

var sauceRanges = []sauceRange{
	{OscMorph, 0, 1},
	{SubLevel, 0, 0.6},
	{NoiseLevel, 0, 0.2},
	{FMAmount, 0, 0.3},
	{Drive, 0, 0.5},
	{Cutoff, 120, 9000},
	{Resonance, 0.1, 0.8},
	{FiltEnvAmt, -0.4, 0.7},
	{ChorusMix, 0, 0.5},
	{ReverbMix, 0, 0.35},
	{DelayTime, 120, 600},
	{DelayFdbk, 0.1, 0.7},
	{DelayMix, 0, 0.35},
	{CrushAmt, 0, 0.35},
}

// RandomizeSauce draws a new patch from the musically safe ranges. Envelope,
// width, limiter and macro settings are left alone.
func RandomizeSauce(s *Store, rng *rand.Rand) {
	for _, r := range sauceRanges {
		s.Set(r.id, r.lo+rng.Float32()*(r.hi-r.lo))
		if r.id == Drive {
			s.Set(FilterType, float32(rng.Intn(3)))
		}
	}
}
