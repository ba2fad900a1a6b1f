package effects

import (
	"math"
	"sync/atomic"

	"github.com/cbegin/radiosauce-go/internal/filter"
)

// EQ bands.
const (
	EQLow = iota
	EQMid
	EQHigh

	NumEQBands
)

// Crossover points of the master EQ.
const (
	EQLowCrossover  = 250.0
	EQHighCrossover = 4000.0
	MaxEQGainDB     = 12.0
)

// MasterEQ is a three band post stage for the player output. Band gains are
// stored as float32 bits so control goroutines can change them while the
// audio goroutine processes. With every band at 0 dB the input passes
// through untouched.
type MasterEQ struct {
	gainsDB [NumEQBands]atomic.Uint32
	low     *filter.SVF
	high    *filter.SVF
}

func NewMasterEQ(sampleRate int) *MasterEQ {
	eq := &MasterEQ{
		low:  filter.NewSVF(sampleRate, 2),
		high: filter.NewSVF(sampleRate, 2),
	}
	eq.low.SetMode(filter.Lowpass)
	eq.low.SetCutoff(EQLowCrossover)
	eq.high.SetMode(filter.Highpass)
	eq.high.SetCutoff(EQHighCrossover)
	return eq
}

// SetGainDB sets a band's gain, clamped to +/-MaxEQGainDB.
func (eq *MasterEQ) SetGainDB(band int, db float32) {
	if band < 0 || band >= NumEQBands {
		return
	}
	eq.gainsDB[band].Store(math.Float32bits(clamp(db, -MaxEQGainDB, MaxEQGainDB)))
}

func (eq *MasterEQ) GainDB(band int) float32 {
	if band < 0 || band >= NumEQBands {
		return 0
	}
	return math.Float32frombits(eq.gainsDB[band].Load())
}

// ProcessBlock filters an interleaved stereo buffer in place.
func (eq *MasterEQ) ProcessBlock(buf []float32) {
	var g [NumEQBands]float64
	flat := true
	for i := range g {
		db := eq.GainDB(i)
		if db != 0 {
			flat = false
		}
		g[i] = math.Pow(10, float64(db)/20)
	}
	for i := 0; i+1 < len(buf); i += 2 {
		for ch := 0; ch < 2; ch++ {
			x := float64(buf[i+ch])
			lo := eq.low.ProcessSample(ch, x)
			hi := eq.high.ProcessSample(ch, x)
			if flat {
				continue
			}
			mid := x - lo - hi
			buf[i+ch] = float32(lo*g[EQLow] + mid*g[EQMid] + hi*g[EQHigh])
		}
	}
}

func (eq *MasterEQ) Reset() {
	eq.low.Reset()
	eq.high.Reset()
}
