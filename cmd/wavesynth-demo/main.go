// FILE: cmd/wavesynth-demo/main.go
package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/wavesynth/audio"
	"github.com/lixenwraith/wavesynth/synth"
)

// White keys a..k map to one octave of C major starting at C4
var keyNotes = map[rune]int{
	'a': 60, // C4
	's': 62, // D4
	'd': 64, // E4
	'f': 65, // F4
	'g': 67, // G4
	'h': 69, // A4
	'j': 71, // B4
	'k': 72, // C5
}

var waveNames = map[synth.Wave]string{
	synth.WaveSine:     "sine",
	synth.WaveTriangle: "triangle",
	synth.WaveSawtooth: "sawtooth",
	synth.WaveSquare50: "square",
	synth.WaveNoise:    "noise",
}

type Demo struct {
	screen        tcell.Screen
	syn           *synth.Synthesizer
	speaker       *audio.Speaker
	width, height int

	wave     synth.Wave
	lastNote string
}

func NewDemo() (*Demo, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	cfg := audio.LoadConfig()
	syn := synth.New(synth.Config{SampleRate: cfg.SampleRate})

	d := &Demo{
		screen:  screen,
		syn:     syn,
		speaker: audio.NewSpeaker(syn, cfg),
		wave:    synth.WaveSine,
	}
	d.width, d.height = screen.Size()
	return d, nil
}

// noteFreq converts a MIDI note number to Hz, A4 (69) = 440
func noteFreq(midi int) uint16 {
	return uint16(440.0*math.Pow(2, float64(midi-69)/12.0) + 0.5)
}

// playNote enqueues a three-segment note: short attack ramp, sustain, release
func (d *Demo) playNote(midi int) {
	freq := noteFreq(midi)
	buf := synth.EncodeInstructions(nil,
		synth.Instruction{Wave: d.wave, Frequency: freq, EndFrequency: freq,
			StartVolume: 0, EndVolume: 1023, Duration: 20},
		synth.Instruction{Wave: d.wave, Frequency: freq, EndFrequency: freq,
			StartVolume: 1023, EndVolume: 1023, Duration: 180},
		synth.Instruction{Wave: d.wave, Frequency: freq, EndFrequency: freq,
			StartVolume: 1023, EndVolume: 0, Duration: 150},
	)
	d.syn.Enqueue(0, buf)
	d.lastNote = fmt.Sprintf("%d Hz (%s)", freq, waveNames[d.wave])
}

// playGlide enqueues a two-second frequency sweep across two octaves
func (d *Demo) playGlide() {
	buf := synth.EncodeInstructions(nil,
		synth.Instruction{Wave: d.wave, Frequency: 220, EndFrequency: 880,
			StartVolume: 800, EndVolume: 800, Duration: 2000},
		synth.Instruction{Wave: d.wave, Frequency: 880, EndFrequency: 880,
			StartVolume: 800, EndVolume: 0, Duration: 200},
	)
	d.syn.Enqueue(0, buf)
	d.lastNote = fmt.Sprintf("glide 220-880 Hz (%s)", waveNames[d.wave])
}

func (d *Demo) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return false
	}
	if ev.Key() != tcell.KeyRune {
		return true
	}

	switch r := ev.Rune(); r {
	case 'q':
		return false
	case '1':
		d.wave = synth.WaveSine
	case '2':
		d.wave = synth.WaveTriangle
	case '3':
		d.wave = synth.WaveSawtooth
	case '4':
		d.wave = synth.WaveSquare50
	case '5':
		d.wave = synth.WaveNoise
	case '`':
		d.playGlide()
	case ' ':
		d.syn.Stop()
		d.lastNote = "stopped"
	default:
		if midi, ok := keyNotes[r]; ok {
			d.playNote(midi)
		}
	}
	return true
}

func (d *Demo) draw() {
	d.screen.Clear()

	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	lines := []string{
		"wavesynth demo",
		"",
		fmt.Sprintf("wave:    %s  (1-5 to switch)", waveNames[d.wave]),
		fmt.Sprintf("playing: %v", d.syn.Active()),
		fmt.Sprintf("sample:  %d", d.syn.CurrentSample()),
		fmt.Sprintf("last:    %s", d.lastNote),
		"",
		"a s d f g h j k  play notes    ` glide    space stop    q quit",
	}

	for y, line := range lines {
		st := style
		if y >= 6 {
			st = dim
		}
		for x, r := range line {
			d.screen.SetContent(2+x, 1+y, r, nil, st)
		}
	}

	d.screen.Show()
}

func (d *Demo) Run() {
	eventCh := make(chan tcell.Event, 16)
	go func() {
		for {
			eventCh <- d.screen.PollEvent()
		}
	}()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case ev := <-eventCh:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !d.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				d.width, d.height = d.screen.Size()
				d.screen.Sync()
			}
		case <-ticker.C:
		}
		d.draw()
	}
}

func main() {
	d, err := NewDemo()
	if err != nil {
		log.Printf("init failed: %v", err)
		os.Exit(1)
	}
	defer d.screen.Fini()

	if err := d.speaker.Start(); err != nil {
		// Non-fatal, the demo still shows scheduling state
		log.Printf("audio unavailable: %v", err)
	}
	defer d.speaker.Stop()

	d.Run()
}
