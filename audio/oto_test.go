package audio

import (
	"encoding/binary"
	"testing"

	"github.com/lixenwraith/wavesynth/synth"
)

// TestOtoReadWithoutSource verifies Read emits silence before a synthesizer
// is bound
func TestOtoReadWithoutSource(t *testing.T) {
	op := &OtoPlayer{}

	p := make([]byte, 64)
	for i := range p {
		p[i] = 0xaa
	}

	n, err := op.Read(p)
	if err != nil {
		t.Fatalf("Expected nil error, got %v", err)
	}
	if n != len(p) {
		t.Errorf("Expected %d bytes, got %d", len(p), n)
	}
	for i, b := range p {
		if b != 0 {
			t.Fatalf("Byte %d: expected silence, got %#x", i, b)
		}
	}
}

// TestOtoReadFillsFromSynth verifies Read produces little-endian samples
// matching the synthesizer output
func TestOtoReadFillsFromSynth(t *testing.T) {
	note := synth.EncodeInstructions(nil, synth.Instruction{
		Wave:         synth.WaveSquare50,
		Frequency:    440,
		EndFrequency: 440,
		Duration:     100,
		StartVolume:  1023,
		EndVolume:    1023,
	})

	want := synth.New(synth.Config{SampleRate: 8000})
	want.Enqueue(0, note)
	expected := make([]int16, 256)
	want.FillSamples(expected)

	syn := synth.New(synth.Config{SampleRate: 8000})
	syn.Enqueue(0, note)

	op := &OtoPlayer{}
	op.syn.Store(syn)

	p := make([]byte, 512)
	n, err := op.Read(p)
	if err != nil {
		t.Fatalf("Expected nil error, got %v", err)
	}
	if n != 512 {
		t.Fatalf("Expected 512 bytes, got %d", n)
	}

	for i, e := range expected {
		got := int16(binary.LittleEndian.Uint16(p[i*2:]))
		if got != e {
			t.Fatalf("Sample %d: expected %d, got %d", i, e, got)
		}
	}
}

// TestOtoReadOddLength verifies a non-sample-aligned read is truncated to
// whole samples
func TestOtoReadOddLength(t *testing.T) {
	op := &OtoPlayer{}
	op.syn.Store(synth.New(synth.Config{SampleRate: 8000}))

	p := make([]byte, 7)
	n, err := op.Read(p)
	if err != nil {
		t.Fatalf("Expected nil error, got %v", err)
	}
	if n != 6 {
		t.Errorf("Expected 6 bytes for a 7-byte read, got %d", n)
	}
}

// TestOtoIsStartedDefault verifies a fresh player reports not started
func TestOtoIsStartedDefault(t *testing.T) {
	op := &OtoPlayer{}
	if op.IsStarted() {
		t.Error("Expected fresh player not started")
	}
}
