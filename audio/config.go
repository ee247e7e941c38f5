package audio

import (
	"os"
	"strconv"

	"github.com/lixenwraith/wavesynth/parameter"
)

// Config holds output configuration
type Config struct {
	Enabled      bool
	SampleRate   int
	MasterVolume float64 // 0.0-1.0, applied at the backend boundary
	Backend      string  // force a specific backend name, empty = auto-detect
}

// DefaultConfig returns standard output settings
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		SampleRate:   parameter.AudioSampleRate,
		MasterVolume: 0.5,
	}
}

// LoadConfig loads output configuration from environment variables
func LoadConfig() *Config {
	cfg := DefaultConfig()

	// Check if audio is enabled
	if enabled := os.Getenv("WAVESYNTH_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Load master volume (0-100 converted to 0.0-1.0)
	if volume := os.Getenv("WAVESYNTH_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = float64(val) / 100.0
			if cfg.MasterVolume < 0 {
				cfg.MasterVolume = 0
			}
			if cfg.MasterVolume > 1 {
				cfg.MasterVolume = 1
			}
		}
	}

	// Load sample rate
	if sampleRate := os.Getenv("WAVESYNTH_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	// Force a specific backend
	if backend := os.Getenv("WAVESYNTH_BACKEND"); backend != "" {
		cfg.Backend = backend
	}

	return cfg
}
