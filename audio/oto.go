package audio

import (
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"

	"github.com/lixenwraith/wavesynth/synth"
)

// OtoPlayer is a direct oto/v3 pull backend. The oto mixer goroutine calls
// Read, which fills straight from the synthesizer without an intermediate
// pump loop or pipe.
type OtoPlayer struct {
	ctx       *oto.Context
	player    *oto.Player
	syn       atomic.Pointer[synth.Synthesizer] // Atomic for lock-free Read()
	sampleBuf []int16                           // Pre-allocated sample buffer
	started   bool
	mu        sync.Mutex // Only for setup/control operations
}

// NewOtoPlayer creates an oto context for mono s16le output
func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	return &OtoPlayer{ctx: ctx}, nil
}

// SetupPlayer binds a synthesizer as the sample source
func (op *OtoPlayer) SetupPlayer(syn *synth.Synthesizer) {
	op.mu.Lock()
	defer op.mu.Unlock()

	op.syn.Store(syn)
	op.player = op.ctx.NewPlayer(op)
	op.sampleBuf = make([]int16, 4096)
}

func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	// Load the synthesizer pointer atomically - no lock on the hot path
	syn := op.syn.Load()
	if syn == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	numSamples := len(p) / 2

	// Grow the pre-allocated buffer if oto asks for more than expected;
	// this should not happen after SetupPlayer
	if len(op.sampleBuf) < numSamples {
		op.sampleBuf = make([]int16, numSamples)
	}
	samples := op.sampleBuf[:numSamples]

	syn.FillSamples(samples)

	for i, s := range samples {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(s))
	}
	return numSamples * 2, nil
}

// Start begins playback
func (op *OtoPlayer) Start() {
	op.mu.Lock()
	defer op.mu.Unlock()

	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

// Stop halts playback
func (op *OtoPlayer) Stop() {
	op.mu.Lock()
	defer op.mu.Unlock()

	if op.started && op.player != nil {
		op.player.Close()
		op.player = nil
		op.started = false
	}
}

// IsStarted reports whether playback is active
func (op *OtoPlayer) IsStarted() bool {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.started
}
