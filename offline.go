package radiosauce

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"

	intvoice "github.com/cbegin/radiosauce-go/internal/voice"
)

var ErrInvalidWAV = errors.New("radiosauce: invalid wav file")

// NoteEvent is one note of an offline score. Times are in seconds.
type NoteEvent struct {
	Start    float64
	Duration float64
	Note     int
	Velocity float64
}

type action struct {
	frame int
	note  int
	vel   float64
	on    bool
}

// RenderSamples renders seconds of interleaved stereo audio for events. Notes
// release with their tail at Start+Duration. An event outside 0..127 fails the
// render with ErrInvalidNote.
func RenderSamples(events []NoteEvent, sampleRate int, seconds float64, opts ...PlayerOption) ([]float32, error) {
	for i, ev := range events {
		if !intvoice.ValidNote(ev.Note) {
			return nil, fmt.Errorf("event %d: %w: %d", i, ErrInvalidNote, ev.Note)
		}
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	engine, err := newEngine(sampleRate, cfg)
	if err != nil {
		return nil, err
	}

	frames := int(float64(sampleRate) * seconds)
	if frames < 0 {
		frames = 0
	}
	toFrame := func(sec float64) int {
		return int(math.Round(sec * float64(sampleRate)))
	}
	actions := make([]action, 0, 2*len(events))
	for _, ev := range events {
		start := toFrame(ev.Start)
		actions = append(actions,
			action{frame: start, note: ev.Note, vel: ev.Velocity, on: true},
			action{frame: start + max(toFrame(ev.Duration), 1), note: ev.Note},
		)
	}
	// Offs sort before ons at the same frame so repeated notes retrigger.
	sort.SliceStable(actions, func(i, j int) bool {
		if actions[i].frame != actions[j].frame {
			return actions[i].frame < actions[j].frame
		}
		return !actions[i].on && actions[j].on
	})

	out := make([]float32, frames*2)
	pos := 0
	for _, a := range actions {
		if a.frame > frames {
			break
		}
		if a.frame > pos {
			engine.ProcessBlock(out[2*pos : 2*a.frame])
			pos = a.frame
		}
		if a.on {
			engine.NoteOn(a.note, a.vel)
		} else {
			engine.NoteOff(a.note, true)
		}
	}
	if pos < frames {
		engine.ProcessBlock(out[2*pos:])
	}
	if cfg.sampleTap != nil {
		cfg.sampleTap(out)
	}
	return out, nil
}

// WriteWAV writes interleaved stereo samples as 16-bit PCM.
func WriteWAV(path string, samples []float32, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 2, 1)
	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: 2,
		},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return nil
}

// ReadWAV loads a WAV file as interleaved stereo. Mono files are duplicated
// into both channels.
func ReadWAV(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	out := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		l := float32(buf.Data[i*ch])
		r := l
		if ch > 1 {
			r = float32(buf.Data[i*ch+1])
		}
		out[2*i], out[2*i+1] = l, r
	}
	return out, buf.Format.SampleRate, nil
}
