package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/wavesynth/parameter"
	"github.com/lixenwraith/wavesynth/synth"
)

// Streamer adapts a Synthesizer to beep.Streamer. The synthesizer is a live
// source: the streamer never drains, it produces silence when nothing is
// queued. Mono output is duplicated onto both channels.
type Streamer struct {
	syn    *synth.Synthesizer
	volume float64
	buf    []int16
}

// NewStreamer wraps a synthesizer for beep playback
func NewStreamer(syn *synth.Synthesizer, volume float64) *Streamer {
	if volume < 0 {
		volume = 0
	} else if volume > 1 {
		volume = 1
	}
	return &Streamer{syn: syn, volume: volume}
}

func (st *Streamer) Stream(samples [][2]float64) (n int, ok bool) {
	if len(st.buf) < len(samples) {
		st.buf = make([]int16, len(samples))
	}
	buf := st.buf[:len(samples)]
	st.syn.FillSamples(buf)

	for i, s := range buf {
		v := float64(s) / 32768.0 * st.volume
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (st *Streamer) Err() error {
	return nil
}

// Speaker plays a synthesizer through the beep speaker
type Speaker struct {
	mu          sync.Mutex
	syn         *synth.Synthesizer
	streamer    *Streamer
	ctrl        *beep.Ctrl
	initialized bool
}

// NewSpeaker creates a speaker output for the given synthesizer
func NewSpeaker(syn *synth.Synthesizer, cfg ...*Config) *Speaker {
	config := DefaultConfig()
	if len(cfg) > 0 && cfg[0] != nil {
		config = cfg[0]
	}
	return &Speaker{
		syn:      syn,
		streamer: NewStreamer(syn, config.MasterVolume),
	}
}

// Start initializes the speaker and begins playback
func (sp *Speaker) Start() error {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	if sp.initialized {
		return nil
	}

	sr := beep.SampleRate(sp.syn.SampleRate())
	if err := speaker.Init(sr, sr.N(parameter.SpeakerBufferDuration)); err != nil {
		return err
	}

	sp.ctrl = &beep.Ctrl{Streamer: sp.streamer}
	speaker.Play(sp.ctrl)
	sp.initialized = true
	return nil
}

// Stop pauses playback and clears the speaker
func (sp *Speaker) Stop() {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	if !sp.initialized {
		return
	}

	speaker.Lock()
	sp.ctrl.Paused = true
	speaker.Unlock()

	speaker.Clear()
	sp.initialized = false
}
