package control

import "math"

// ID identifies one control parameter.
type ID int

const (
	OscMorph ID = iota
	SubLevel
	NoiseLevel
	FMAmount
	Drive

	FilterType
	Cutoff
	Resonance
	FiltEnvAmt

	AmpA
	AmpD
	AmpS
	AmpR
	FilA
	FilD
	FilS
	FilR

	ChorusMix
	DelayTime
	DelayFdbk
	DelayMix
	ReverbMix
	CrushAmt

	CompAmt
	Width
	LimitOn

	MacroBite
	MacroBody
	MacroAir
	MacroSpace

	Style

	NumParams
)

// Info describes a parameter's name, range and default. Discrete parameters
// are rounded to the nearest integer when stored.
type Info struct {
	Name     string
	Min, Max float32
	Default  float32
	Discrete bool
}

func continuous(name string, lo, hi float32) Info {
	return Info{Name: name, Min: lo, Max: hi, Default: (lo + hi) / 2}
}

var infos = [NumParams]Info{
	OscMorph:   continuous("oscMorph", 0, 1),
	SubLevel:   continuous("subLevel", 0, 1),
	NoiseLevel: continuous("noiseLevel", 0, 1),
	FMAmount:   continuous("fmAmount", 0, 1),
	Drive:      continuous("drive", 0, 1),

	FilterType: {Name: "filterType", Min: 0, Max: 2, Default: 0, Discrete: true},
	Cutoff:     {Name: "cutoff", Min: 20, Max: 20000, Default: 1200},
	Resonance:  continuous("resonance", 0.1, 1.2),
	FiltEnvAmt: continuous("filtEnvAmt", -1, 1),

	AmpA: continuous("ampA", 0.001, 2),
	AmpD: continuous("ampD", 0.001, 2),
	AmpS: continuous("ampS", 0, 1),
	AmpR: continuous("ampR", 0.001, 2),
	FilA: continuous("filA", 0.001, 2),
	FilD: continuous("filD", 0.001, 2),
	FilS: continuous("filS", 0, 1),
	FilR: continuous("filR", 0.001, 2),

	ChorusMix: continuous("chorusMix", 0, 1),
	DelayTime: continuous("delayTime", 10, 1500),
	DelayFdbk: continuous("delayFdbk", 0, 0.95),
	DelayMix:  continuous("delayMix", 0, 1),
	ReverbMix: continuous("reverbMix", 0, 1),
	CrushAmt:  continuous("crushAmt", 0, 1),

	CompAmt: continuous("compAmt", 0, 1),
	Width:   continuous("width", 0, 1),
	LimitOn: {Name: "limitOn", Min: 0, Max: 1, Default: 1, Discrete: true},

	MacroBite:  {Name: "macroBite", Min: 0, Max: 1},
	MacroBody:  {Name: "macroBody", Min: 0, Max: 1},
	MacroAir:   {Name: "macroAir", Min: 0, Max: 1},
	MacroSpace: {Name: "macroSpace", Min: 0, Max: 1},

	Style: {Name: "style", Min: 0, Max: float32(NumStyles - 1), Default: 0, Discrete: true},
}

var byName = func() map[string]ID {
	m := make(map[string]ID, NumParams)
	for id, s := range infos {
		m[s.Name] = ID(id)
	}
	return m
}()

// InfoOf returns the range description for id.
func InfoOf(id ID) Info {
	if id < 0 || id >= NumParams {
		return Info{}
	}
	return infos[id]
}

func (id ID) String() string {
	return InfoOf(id).Name
}

// Lookup resolves a parameter name such as "cutoff" or "ampA".
func Lookup(name string) (ID, bool) {
	id, ok := byName[name]
	return id, ok
}

// Clamp forces v into the range of id, rounding discrete parameters. NaN
// becomes the default.
func (s Info) Clamp(v float32) float32 {
	if v != v {
		return s.Default
	}
	if v < s.Min {
		v = s.Min
	}
	if v > s.Max {
		v = s.Max
	}
	if s.Discrete {
		v = float32(math.Round(float64(v)))
	}
	return v
}
