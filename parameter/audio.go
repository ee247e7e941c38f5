package parameter

import "time"

// Audio Output Settings
// The PCM stream is mono s16le; the speaker path duplicates it to stereo
const (
	AudioSampleRate = 44100
	AudioBitDepth   = 16
)

// Synthesizer Core
const (
	// MaxSounds is the number of concurrent playback slots
	MaxSounds = 5

	// OutputBits is the default output bit depth; samples are clamped to
	// the symmetric range ±(2^(OutputBits-1) - 1)
	OutputBits = 16

	// PhaseBits is the wavetable cycle domain; phase positions run 0..1023
	PhaseBits  = 10
	PhaseSteps = 1 << PhaseBits
	PhaseMask  = PhaseSteps - 1
)

// Instruction Field Operating Ranges
// Out-of-range fields are clamped, never rejected
const (
	MinFrequency  = 20    // Hz
	MaxFrequency  = 20000 // Hz
	MaxVolume     = 1023  // linear volume units
	MinDurationMs = 1
	MaxDurationMs = 60000
)

// Audio Engine Timing
const (
	// AudioBufferDuration determines latency and pump tick rate
	AudioBufferDuration = 50 * time.Millisecond

	// SpeakerBufferDuration sizes the beep speaker ring buffer
	SpeakerBufferDuration = 100 * time.Millisecond
)
