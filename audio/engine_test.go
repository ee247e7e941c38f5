package audio

import (
	"sync"
	"testing"

	"github.com/lixenwraith/wavesynth/synth"
)

func testSynth() *synth.Synthesizer {
	return synth.New(synth.Config{SampleRate: 8000})
}

// TestNewEngine verifies engine creation with default config
func TestNewEngine(t *testing.T) {
	engine := NewEngine(testSynth())

	if engine == nil {
		t.Fatal("Expected non-nil engine")
	}

	if engine.IsRunning() {
		t.Error("Expected engine not running before Start")
	}

	if engine.config.MasterVolume != 0.5 {
		t.Errorf("Expected default master volume 0.5, got %f", engine.config.MasterVolume)
	}
}

// TestEngineDisabledConfig verifies a disabled config starts in silent mode
func TestEngineDisabledConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false

	engine := NewEngine(testSynth(), cfg)
	if err := engine.Start(); err != nil {
		t.Fatalf("Expected silent-mode start, got error: %v", err)
	}
	defer engine.Stop()

	if !engine.IsRunning() {
		t.Error("Expected engine running in silent mode")
	}

	if !engine.IsSilent() {
		t.Error("Expected silent mode when audio is disabled")
	}
}

// TestEngineDoubleStart verifies starting twice returns ErrAlreadyRunning
func TestEngineDoubleStart(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false

	engine := NewEngine(testSynth(), cfg)
	if err := engine.Start(); err != nil {
		t.Fatalf("First start failed: %v", err)
	}
	defer engine.Stop()

	if err := engine.Start(); err != ErrAlreadyRunning {
		t.Errorf("Expected ErrAlreadyRunning, got %v", err)
	}
}

// TestEngineStopIdempotent verifies Stop can be called repeatedly
func TestEngineStopIdempotent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false

	engine := NewEngine(testSynth(), cfg)
	engine.Start()

	engine.Stop()
	engine.Stop()

	if engine.IsRunning() {
		t.Error("Expected engine stopped")
	}
}

// TestEngineStopBeforeStart verifies Stop on a fresh engine is a no-op
func TestEngineStopBeforeStart(t *testing.T) {
	engine := NewEngine(testSynth())
	engine.Stop()

	if engine.IsRunning() {
		t.Error("Expected engine not running")
	}
}

// TestEngineSetVolume verifies volume updates and clamping
func TestEngineSetVolume(t *testing.T) {
	engine := NewEngine(testSynth())

	testCases := []struct {
		set      float64
		expected float64
	}{
		{0.8, 0.8},
		{1.5, 1.0},
		{-0.5, 0.0},
		{0.0, 0.0},
	}

	for _, tc := range testCases {
		engine.SetVolume(tc.set)

		engine.mu.RLock()
		got := engine.config.MasterVolume
		engine.mu.RUnlock()

		if got != tc.expected {
			t.Errorf("SetVolume(%f): expected %f, got %f", tc.set, tc.expected, got)
		}
	}
}

// TestEngineVolumeThreadSafety verifies concurrent volume updates do not race
func TestEngineVolumeThreadSafety(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false

	engine := NewEngine(testSynth(), cfg)
	engine.Start()
	defer engine.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(base float64) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				engine.SetVolume(base)
			}
		}(float64(i) / 4)
	}
	wg.Wait()
}

// TestEngineMetrics verifies the counters registry is wired at construction
func TestEngineMetrics(t *testing.T) {
	engine := NewEngine(testSynth())

	m := engine.Metrics()
	if m == nil {
		t.Fatal("Expected non-nil metrics registry")
	}

	if engine.buffersOut.Load() != 0 {
		t.Error("Expected zero buffers before start")
	}

	engine.buffersOut.Add(2)
	if got := m.Ints.Get("audio.buffers_out").Load(); got != 2 {
		t.Errorf("Expected counter visible through the registry, got %d", got)
	}
}

// TestEngineForcedBackendMismatch verifies a forced backend name that does
// not match the detected one falls back to silent mode
func TestEngineForcedBackendMismatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "no-such-backend"

	engine := NewEngine(testSynth(), cfg)
	if err := engine.Start(); err != nil {
		t.Fatalf("Expected silent-mode start, got error: %v", err)
	}
	defer engine.Stop()

	if !engine.IsSilent() {
		t.Error("Expected silent mode for an unmatched forced backend")
	}
}
