package synth

import (
	"math"
	"sync"
	"time"

	"github.com/lixenwraith/wavesynth/parameter"
)

// Config holds synthesizer construction parameters
type Config struct {
	SampleRate int // output rate in Hz, default parameter.AudioSampleRate
	MaxSounds  int // concurrent playback slots, default parameter.MaxSounds
	OutputBits int // output bit depth 2..16, default parameter.OutputBits
	Tracker    ReferenceTracker
	Resets     ResetRegistry // optional; Stop is registered as the reset action
}

// DefaultConfig returns the standard configuration
func DefaultConfig() Config {
	return Config{
		SampleRate: parameter.AudioSampleRate,
		MaxSounds:  parameter.MaxSounds,
		OutputBits: parameter.OutputBits,
	}
}

// resumeState is the interpolation state a slot carries between fill calls
// so one instruction can span multiple calls without a discontinuity.
// When valid is false but hasFreq is true, the slot sits exactly on an
// instruction boundary; the frequency pair and tone step survive so that a
// following instruction with the same pair skips step recomputation, same
// as it would mid-call.
type resumeState struct {
	valid       bool // mid-instruction ramp in flight
	hasFreq     bool // prevFreq/prevEndFreq and tone step are meaningful
	wave        Wave
	samplesLeft uint32
	volume      int32 // Q16.16
	volumeStep  int32 // Q16.16 per sample
	toneStep    uint32
	toneDelta   int32
	prevFreq    uint16
	prevEndFreq uint16
}

// playingSlot is one fixed playback cursor. Empty when sound is nil.
type playingSlot struct {
	sound        *WaitingSound
	cursor       int // next instruction index
	tonePosition uint32
	resume       resumeState
}

// Synthesizer converts queued instruction sequences into a continuous
// stream of signed PCM samples. Construct with New and hand it to an audio
// backend that calls FillSamples; Enqueue and Stop are safe to call
// concurrently with fills.
//
// Concurrency contract: a single mutex covers the waiting store and slots.
// Enqueue and Stop hold it only across store edits; FillSamples holds it for
// the duration of one fill, which is allocation-free after warmup and linear
// in slots x samples requested.
type Synthesizer struct {
	mu sync.Mutex

	sampleRate   int
	outputBits   int
	maxVal       int32
	samplesPerMS uint32 // sampleRate expressed as a Q24.8 per-millisecond count

	currSample int64
	slots      []playingSlot
	waiting    []*WaitingSound

	gen     toneGenerator
	tracker ReferenceTracker
	mixBuf  []int32
}

// noPending is returned by updateQueues when no sound is waiting
const noPending = int64(math.MaxInt32)

// New creates a synthesizer. Zero-valued config fields take defaults.
func New(cfg Config) *Synthesizer {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = parameter.AudioSampleRate
	}
	if cfg.MaxSounds <= 0 {
		cfg.MaxSounds = parameter.MaxSounds
	}
	if cfg.OutputBits < 2 || cfg.OutputBits > 16 {
		cfg.OutputBits = parameter.OutputBits
	}
	if cfg.Tracker == nil {
		cfg.Tracker = nopTracker{}
	}

	s := &Synthesizer{
		sampleRate:   cfg.SampleRate,
		outputBits:   cfg.OutputBits,
		maxVal:       (1 << (cfg.OutputBits - 1)) - 1,
		samplesPerMS: uint32((cfg.SampleRate << 8) / 1000),
		slots:        make([]playingSlot, cfg.MaxSounds),
		gen:          newToneGenerator(),
		tracker:      cfg.Tracker,
	}

	if cfg.Resets != nil {
		cfg.Resets.RegisterReset(s.Stop)
	}
	return s
}

// SampleRate returns the configured output rate in Hz
func (s *Synthesizer) SampleRate() int {
	return s.sampleRate
}

// CurrentSample returns the absolute sample counter
func (s *Synthesizer) CurrentSample() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currSample
}

// Enqueue schedules an encoded instruction sequence for playback at
// now + delay. Admission is unconditional; if every slot is busy when the
// sound comes due, the longest-playing sound is evicted. Finished entries
// reachable in the store are released opportunistically on every enqueue.
func (s *Synthesizer) Enqueue(delay time.Duration, instructions []byte) {
	s.tracker.Retain(instructions)
	w := &WaitingSound{instructions: instructions}

	var done []*WaitingSound

	s.mu.Lock()
	w.startSampleNo = s.currSample + delay.Milliseconds()*int64(s.sampleRate)/1000

	kept := s.waiting[:0]
	for _, q := range s.waiting {
		if q.state == StateDone {
			done = append(done, q)
			continue
		}
		kept = append(kept, q)
	}
	s.waiting = append(kept, w)
	s.mu.Unlock()

	for _, q := range done {
		s.tracker.Release(q.instructions)
	}
}

// Stop discards all queued and playing sounds immediately. It is also the
// action registered with the reset registry.
func (s *Synthesizer) Stop() {
	s.mu.Lock()
	detached := s.waiting
	s.waiting = nil
	for i := range s.slots {
		s.slots[i] = playingSlot{}
	}
	s.mu.Unlock()

	for _, w := range detached {
		s.tracker.Release(w.instructions)
	}
}

// Active reports whether any sound is pending or playing
func (s *Synthesizer) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anyPending()
}

// FillSamples produces exactly len(dst) output samples representing the sum
// of all active sounds, advances global time by len(dst), and reports
// whether any sound is still pending or playing.
func (s *Synthesizer) FillSamples(dst []int16) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fill(dst)
}

func (s *Synthesizer) fill(dst []int16) bool {
	n := len(dst)
	if n == 0 {
		return s.anyPending()
	}

	timeLeft := s.updateQueues()

	// A sound due mid-buffer splits the fill in two so that playback starts
	// exactly on its scheduled sample, never rounded to buffer granularity.
	if timeLeft < int64(n) {
		s.fill(dst[:timeLeft])
		s.fill(dst[timeLeft:])
		return s.anyPending()
	}

	if cap(s.mixBuf) < n {
		s.mixBuf = make([]int32, n)
	}
	mix := s.mixBuf[:n]
	for i := range mix {
		mix[i] = 0
	}

	for i := range s.slots {
		s.runSlot(&s.slots[i], mix)
	}

	for i, v := range mix {
		if v > s.maxVal {
			v = s.maxVal
		} else if v < -s.maxVal {
			v = -s.maxVal
		}
		dst[i] = int16(v)
	}

	s.currSample += int64(n)
	return s.anyPending()
}

// updateQueues promotes due sounds from the waiting store into playback
// slots and returns the number of samples that may be generated before the
// next scheduling event, or noPending when nothing is waiting.
func (s *Synthesizer) updateQueues() int64 {
	for {
		var due *WaitingSound
		minLeft := noPending
		for _, w := range s.waiting {
			if w.state != StateWaiting {
				continue
			}
			left := w.startSampleNo - s.currSample
			if left <= 0 {
				if due == nil || w.startSampleNo < due.startSampleNo {
					due = w
				}
				continue
			}
			if left < minLeft {
				minLeft = left
			}
		}
		if due == nil {
			return minLeft
		}

		slot := s.acquireSlot()
		if slot.sound != nil {
			// forced eviction
			slot.sound.state = StateDone
		}
		*slot = playingSlot{sound: due}
		due.state = StatePlaying
	}
}

// acquireSlot returns an empty slot, or failing that the slot whose sound
// has the smallest start sample number, i.e. has been playing the longest.
func (s *Synthesizer) acquireSlot() *playingSlot {
	oldest := 0
	for i := range s.slots {
		if s.slots[i].sound == nil {
			return &s.slots[i]
		}
		if s.slots[i].sound.startSampleNo < s.slots[oldest].sound.startSampleNo {
			oldest = i
		}
	}
	return &s.slots[oldest]
}

// runSlot advances one slot through up to len(mix) samples, accumulating
// its contribution additively. Interpolation state is restored from the
// previous call and saved again afterwards so ramps continue seamlessly
// across fills.
func (s *Synthesizer) runSlot(slot *playingSlot, mix []int32) {
	snd := slot.sound
	if snd == nil {
		return
	}

	count := len(snd.instructions) / InstructionSize
	st := slot.resume
	pos := slot.tonePosition
	shift := uint(10 + 16 - s.outputBits)

	for j := 0; j < len(mix); j++ {
		if !st.valid || st.samplesLeft == 0 {
			if slot.cursor >= count {
				break
			}
			in := decodeInstruction(snd.instructions[slot.cursor*InstructionSize:])
			slot.cursor++
			in.clamp()

			st.wave = in.Wave
			st.samplesLeft = uint32(in.Duration) * s.samplesPerMS >> 8
			if st.samplesLeft == 0 {
				st.samplesLeft = 1
			}
			st.volume = int32(in.StartVolume) << 16
			st.volumeStep = ((int32(in.EndVolume) - int32(in.StartVolume)) << 16) / int32(st.samplesLeft)

			// Consecutive instructions sharing a frequency pair keep the
			// current tone step and delta instead of recomputing them.
			if !st.hasFreq || st.prevFreq != in.Frequency || st.prevEndFreq != in.EndFrequency {
				st.toneStep = s.phaseStep(in.Frequency)
				st.toneDelta = 0
				if in.Frequency != in.EndFrequency {
					end := s.phaseStep(in.EndFrequency)
					st.toneDelta = (int32(end) - int32(st.toneStep)) / int32(st.samplesLeft)
				}
				st.prevFreq = in.Frequency
				st.prevEndFreq = in.EndFrequency
				st.hasFreq = true
			}
			st.valid = true
		}

		v := s.gen.sample(st.wave, (pos>>16)&parameter.PhaseMask)
		v = (v * (st.volume >> 16)) >> shift
		mix[j] += v

		pos += st.toneStep
		st.toneStep += uint32(st.toneDelta)
		st.volume += st.volumeStep
		st.samplesLeft--
	}

	if slot.cursor >= count && (!st.valid || st.samplesLeft == 0) {
		// instruction stream exhausted
		snd.state = StateDone
		slot.sound = nil
		slot.resume = resumeState{}
		return
	}

	slot.tonePosition = pos
	if st.samplesLeft == 0 {
		// landed exactly on an instruction boundary; the next fill starts
		// the following instruction fresh
		st.valid = false
	}
	slot.resume = st
}

// phaseStep converts Hz into a Q16.16 phase increment through the 10-bit
// cycle domain at the configured sample rate.
func (s *Synthesizer) phaseStep(freq uint16) uint32 {
	return uint32(uint64(freq) * (parameter.PhaseSteps << 16) / uint64(s.sampleRate))
}

func (s *Synthesizer) anyPending() bool {
	for i := range s.slots {
		if s.slots[i].sound != nil {
			return true
		}
	}
	for _, w := range s.waiting {
		if w.state != StateDone {
			return true
		}
	}
	return false
}
