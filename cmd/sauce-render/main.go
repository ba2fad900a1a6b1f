package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cbegin/radiosauce-go"
)

const defaultNotes = "48 55 60 63 67 70 72"

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		outDir     = flag.String("out", "renders", "output directory")
		notesFlag  = flag.String("notes", defaultNotes, "space or comma separated MIDI notes, played in sequence")
		step       = flag.Float64("step", 0.25, "seconds between note starts")
		gate       = flag.Float64("gate", 0.2, "seconds each note is held")
		tail       = flag.Float64("tail", 1.5, "seconds rendered after the last note")
		styleFlag  = flag.String("style", "all", "style index 0..2 or all")
		sauces     = flag.Int("sauces", 0, "extra randomized renders per style")
		seed       = flag.Int64("seed", 1, "random seed")
		jobs       = flag.Int("jobs", 0, "concurrent renders (0 = one per file)")
	)
	flag.Parse()

	notes, err := parseNotes(*notesFlag)
	if err != nil {
		log.Fatal(err)
	}
	styles, err := parseStyles(*styleFlag)
	if err != nil {
		log.Fatal(err)
	}

	events := make([]radiosauce.NoteEvent, len(notes))
	for i, n := range notes {
		events[i] = radiosauce.NoteEvent{
			Start:    float64(i) * *step,
			Duration: *gate,
			Note:     n,
			Velocity: 1,
		}
	}
	lastStart := float64(len(notes)-1) * *step
	seconds := lastStart + *gate + *tail

	var g errgroup.Group
	if *jobs > 0 {
		g.SetLimit(*jobs)
	}
	for _, style := range styles {
		for variant := 0; variant <= *sauces; variant++ {
			name := fmt.Sprintf("%d-%s.wav", style, slug(radiosauce.StyleName(style)))
			if variant > 0 {
				name = fmt.Sprintf("%d-%s-sauce%d.wav", style, slug(radiosauce.StyleName(style)), variant)
			}
			path := filepath.Join(*outDir, name)
			opts := []radiosauce.PlayerOption{
				radiosauce.WithStyle(style),
				radiosauce.WithSeed(*seed + int64(variant)),
			}
			if variant > 0 {
				opts = append(opts, radiosauce.WithNewSauce())
			}
			g.Go(func() error {
				samples, err := radiosauce.RenderSamples(events, *sampleRate, seconds, opts...)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				if err := radiosauce.WriteWAV(path, samples, *sampleRate); err != nil {
					return err
				}
				fmt.Printf("wrote %s (%d frames)\n", path, len(samples)/2)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}

func parseNotes(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("invalid -notes %q: no notes", s)
	}
	notes := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 || n > 127 {
			return nil, fmt.Errorf("invalid -notes entry %q (expected 0..127)", f)
		}
		notes[i] = n
	}
	return notes, nil
}

func parseStyles(s string) ([]int, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		out := make([]int, radiosauce.NumStyles)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n >= radiosauce.NumStyles {
		return nil, fmt.Errorf("invalid -style %q (expected 0..%d or all)", s, radiosauce.NumStyles-1)
	}
	return []int{n}, nil
}

func slug(name string) string {
	r := strings.NewReplacer(" ", "-", "&", "n")
	return strings.ToLower(r.Replace(name))
}
