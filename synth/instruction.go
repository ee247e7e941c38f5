package synth

import (
	"encoding/binary"

	"github.com/lixenwraith/wavesynth/parameter"
)

// InstructionSize is the wire size of one encoded instruction record
const InstructionSize = 12

// Instruction is one ramp segment: a waveform at a linearly interpolated
// frequency and volume for a fixed duration. A queued sound is a contiguous
// sequence of these records played back to back.
//
// Wire layout, little-endian, InstructionSize bytes per record:
//
//	offset 0  uint8  wave selector
//	offset 1  uint8  reserved (zero)
//	offset 2  uint16 frequency (Hz)
//	offset 4  uint16 duration (ms)
//	offset 6  uint16 start volume
//	offset 8  uint16 end volume
//	offset 10 uint16 end frequency (Hz)
//
// Any producer of instruction buffers must follow this layout; an enqueued
// buffer is interpreted as len/InstructionSize consecutive records.
type Instruction struct {
	Wave         Wave
	Frequency    uint16 // Hz, clamped to [20, 20000]
	Duration     uint16 // ms, clamped to [1, 60000]
	StartVolume  uint16 // clamped to [0, 1023]
	EndVolume    uint16 // clamped to [0, 1023]
	EndFrequency uint16 // Hz, clamped to [20, 20000]
}

// EncodeInstructions appends the wire encoding of instrs to dst
func EncodeInstructions(dst []byte, instrs ...Instruction) []byte {
	for _, in := range instrs {
		var rec [InstructionSize]byte
		rec[0] = byte(in.Wave)
		binary.LittleEndian.PutUint16(rec[2:], in.Frequency)
		binary.LittleEndian.PutUint16(rec[4:], in.Duration)
		binary.LittleEndian.PutUint16(rec[6:], in.StartVolume)
		binary.LittleEndian.PutUint16(rec[8:], in.EndVolume)
		binary.LittleEndian.PutUint16(rec[10:], in.EndFrequency)
		dst = append(dst, rec[:]...)
	}
	return dst
}

// decodeInstruction reads one record from the start of b
func decodeInstruction(b []byte) Instruction {
	return Instruction{
		Wave:         Wave(b[0]),
		Frequency:    binary.LittleEndian.Uint16(b[2:]),
		Duration:     binary.LittleEndian.Uint16(b[4:]),
		StartVolume:  binary.LittleEndian.Uint16(b[6:]),
		EndVolume:    binary.LittleEndian.Uint16(b[8:]),
		EndFrequency: binary.LittleEndian.Uint16(b[10:]),
	}
}

// clamp forces every field into its operating range. Corrupt or adversarial
// records degrade into bounded audible output instead of undefined math.
func (in *Instruction) clamp() {
	in.Frequency = clampU16(in.Frequency, parameter.MinFrequency, parameter.MaxFrequency)
	in.EndFrequency = clampU16(in.EndFrequency, parameter.MinFrequency, parameter.MaxFrequency)
	in.StartVolume = clampU16(in.StartVolume, 0, parameter.MaxVolume)
	in.EndVolume = clampU16(in.EndVolume, 0, parameter.MaxVolume)
	in.Duration = clampU16(in.Duration, parameter.MinDurationMs, parameter.MaxDurationMs)
}

func clampU16(v, lo, hi uint16) uint16 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
