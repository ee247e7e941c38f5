package synth

// SoundState tracks a queued sound through its lifecycle
type SoundState int32

const (
	StateWaiting SoundState = iota // scheduled, not yet playing
	StatePlaying                   // bound to a playback slot
	StateDone                      // finished or evicted, awaiting cleanup
)

// Wave selects a waveform generator. Unrecognized selectors fall back to
// silence rather than failing.
type Wave uint8

const (
	WaveSilence  Wave = 0
	WaveTriangle Wave = 1
	WaveSawtooth Wave = 2
	WaveSine     Wave = 3
	WaveNoise    Wave = 4

	// Square duty-cycle family, 10% through 50% in 10% steps
	WaveSquare10 Wave = 11
	WaveSquare20 Wave = 12
	WaveSquare30 Wave = 13
	WaveSquare40 Wave = 14
	WaveSquare50 Wave = 15
)

// WaitingSound wraps an enqueued instruction sequence with its scheduled
// start. Entries stay in the waiting store after finishing until the next
// enqueue compacts them, so the store doubles as the record of recently
// finished sounds.
type WaitingSound struct {
	state         SoundState
	startSampleNo int64
	instructions  []byte
}

// ReferenceTracker keeps instruction buffers alive while the synthesizer
// references them. Retain is called once on enqueue and Release exactly once
// when the sound is retired from the waiting store.
type ReferenceTracker interface {
	Retain(buf []byte)
	Release(buf []byte)
}

// ResetRegistry receives actions to run on a system-wide reset
type ResetRegistry interface {
	RegisterReset(fn func())
}

// nopTracker is the default when no external lifetime tracking is needed;
// the garbage collector keeps enqueued buffers alive on its own.
type nopTracker struct{}

func (nopTracker) Retain([]byte)  {}
func (nopTracker) Release([]byte) {}
