package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/wavesynth/parameter"
	"github.com/lixenwraith/wavesynth/status"
	"github.com/lixenwraith/wavesynth/synth"
)

// Engine pumps synthesizer output into a detected CLI audio backend over a
// pipe. It degrades to silent mode instead of failing when no backend is
// available.
type Engine struct {
	config *Config
	syn    *synth.Synthesizer

	backend *BackendConfig
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	ossFile *os.File // For direct OSS writes

	running    atomic.Bool
	silentMode atomic.Bool
	stopChan   chan struct{}
	errChan    chan error

	metrics      *status.Registry
	buffersOut   *atomic.Int64
	bytesOut     *atomic.Int64
	pipeFailures *atomic.Int64

	mu sync.RWMutex // Protects config
	wg sync.WaitGroup
}

// NewEngine creates an output engine for the given synthesizer
func NewEngine(syn *synth.Synthesizer, cfg ...*Config) *Engine {
	config := DefaultConfig()
	if len(cfg) > 0 && cfg[0] != nil {
		config = cfg[0]
	}

	metrics := status.NewRegistry()
	return &Engine{
		config:       config,
		syn:          syn,
		stopChan:     make(chan struct{}),
		errChan:      make(chan error, 1),
		metrics:      metrics,
		buffersOut:   metrics.Ints.Get("audio.buffers_out"),
		bytesOut:     metrics.Ints.Get("audio.bytes_out"),
		pipeFailures: metrics.Ints.Get("audio.pipe_failures"),
	}
}

// Metrics exposes the playback counters registry
func (e *Engine) Metrics() *status.Registry {
	return e.metrics
}

// Start launches the audio backend and the pump goroutine
func (e *Engine) Start() error {
	if e.running.Load() {
		return ErrAlreadyRunning
	}

	backend, err := DetectBackend(e.syn.SampleRate())
	if err != nil || !e.config.Enabled {
		e.silentMode.Store(true)
		e.running.Store(true)
		return nil // Silent mode, not an error
	}
	if e.config.Backend != "" && e.config.Backend != backend.Name {
		e.silentMode.Store(true)
		e.running.Store(true)
		return nil
	}

	e.backend = backend
	e.metrics.Strings.Get("audio.backend").Store(backend.Name)

	var writer io.Writer
	if backend.Type == BackendOSS {
		// Direct file write for OSS
		f, err := os.OpenFile(backend.Path, os.O_WRONLY, 0)
		if err != nil {
			e.silentMode.Store(true)
			e.running.Store(true)
			return nil
		}
		e.ossFile = f
		writer = f
	} else {
		// Exec-based backend
		cmd := exec.Command(backend.Path, backend.Args...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			e.silentMode.Store(true)
			e.running.Store(true)
			return nil
		}

		if err := cmd.Start(); err != nil {
			stdin.Close()
			e.silentMode.Store(true)
			e.running.Store(true)
			return nil
		}

		e.cmd = cmd
		e.stdin = stdin
		writer = stdin

		// Monitor process
		e.wg.Add(1)
		go e.monitorProcess()
	}

	e.wg.Add(1)
	go e.pump(writer)

	e.running.Store(true)
	return nil
}

// pump is the output goroutine: it pulls one buffer of samples from the
// synthesizer per tick and writes mono s16le bytes to the backend.
func (e *Engine) pump(w io.Writer) {
	defer e.wg.Done()

	ticker := time.NewTicker(parameter.AudioBufferDuration)
	defer ticker.Stop()

	samplesPerTick := e.syn.SampleRate() * int(parameter.AudioBufferDuration/time.Millisecond) / 1000
	sampleBuf := make([]int16, samplesPerTick)
	outBytes := make([]byte, samplesPerTick*2)

	for {
		select {
		case <-e.stopChan:
			return

		case <-ticker.C:
			e.syn.FillSamples(sampleBuf)

			e.mu.RLock()
			gain := int32(e.config.MasterVolume * 256) // Q8.8
			e.mu.RUnlock()

			for i, s := range sampleBuf {
				v := int32(s) * gain >> 8
				binary.LittleEndian.PutUint16(outBytes[i*2:], uint16(int16(v)))
			}

			if _, err := w.Write(outBytes); err != nil {
				select {
				case e.errChan <- fmt.Errorf("%w: %v", ErrPipeClosed, err):
				default:
				}
				e.pipeFailures.Add(1)
				e.silentMode.Store(true)
				return
			}
			e.buffersOut.Add(1)
			e.bytesOut.Add(int64(len(outBytes)))
		}
	}
}

// monitorProcess watches for subprocess exit
func (e *Engine) monitorProcess() {
	defer e.wg.Done()

	if e.cmd == nil {
		return
	}

	err := e.cmd.Wait()
	if err != nil && e.running.Load() && !e.silentMode.Load() {
		e.silentMode.Store(true)
	}
}

// Errors returns the channel signalling pipe failures
func (e *Engine) Errors() <-chan error {
	return e.errChan
}

// Stop terminates the engine
func (e *Engine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return
	}

	close(e.stopChan)

	if e.stdin != nil {
		e.stdin.Close()
	}

	if e.ossFile != nil {
		e.ossFile.Close()
	}

	if e.cmd != nil && e.cmd.Process != nil {
		e.cmd.Process.Kill()
	}

	e.wg.Wait()
}

// IsRunning returns true if the engine is running (even in silent mode)
func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// IsSilent returns true when no usable backend was found
func (e *Engine) IsSilent() bool {
	return e.silentMode.Load()
}

// SetVolume updates master volume (0.0-1.0)
func (e *Engine) SetVolume(vol float64) {
	if vol < 0 {
		vol = 0
	} else if vol > 1 {
		vol = 1
	}

	e.mu.Lock()
	e.config.MasterVolume = vol
	e.mu.Unlock()
}
