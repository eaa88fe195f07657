package feedback

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Player plays impacts. Play must not block the caller.
type Player interface {
	Play(imp Impact)
	Close() error
}

// Nop discards every impact.
type Nop struct{}

func (Nop) Play(Impact)  {}
func (Nop) Close() error { return nil }

// queueSize bounds pending impacts; extra impacts are dropped.
const queueSize = 16

// closeTimeout bounds how long Close waits for queued impacts to drain.
var closeTimeout = 2 * time.Second

// PipePlayer renders impacts on a worker goroutine and writes the PCM to
// an output pipe, usually the stdin of a playback process.
type PipePlayer struct {
	out    io.WriteCloser
	cmd    *exec.Cmd
	logger *log.Logger

	mu     sync.Mutex // Guards closed and sends on queue
	closed bool
	queue  chan Impact
	wg     sync.WaitGroup

	played  atomic.Uint64
	dropped atomic.Uint64
}

// NewPipePlayer starts a player writing to out.
func NewPipePlayer(out io.WriteCloser, logger *log.Logger) *PipePlayer {
	if logger == nil {
		logger = log.Default()
	}
	p := &PipePlayer{
		out:    out,
		logger: logger,
		queue:  make(chan Impact, queueSize),
	}
	p.wg.Add(1)
	go p.loop()
	return p
}

// StartBackend launches the backend process and returns a player feeding it.
func StartBackend(b Backend, logger *log.Logger) (*PipePlayer, error) {
	cmd := exec.Command(b.Path, b.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("feedback: cannot open %s stdin: %w", b.Name, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("feedback: cannot start %s: %w", b.Name, err)
	}

	p := NewPipePlayer(stdin, logger)
	p.cmd = cmd
	return p, nil
}

// Detect returns a player for the first available backend, or Nop when
// none can be started.
func Detect(logger *log.Logger) Player {
	if logger == nil {
		logger = log.Default()
	}

	b, err := DetectBackend()
	if err != nil {
		logger.Info("feedback disabled", "reason", err)
		return Nop{}
	}

	p, err := StartBackend(b, logger)
	if err != nil {
		logger.Warn("feedback disabled", "backend", b.Name, "err", err)
		return Nop{}
	}

	logger.Info("feedback enabled", "backend", b.Name, "path", b.Path)
	return p
}

// Play queues an impact, dropping it if the queue is full or the player is closed.
func (p *PipePlayer) Play(imp Impact) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	select {
	case p.queue <- imp:
	default:
		p.dropped.Add(1)
	}
}

// Close stops accepting impacts and shuts the backend down. Queued impacts
// are finished unless the backend stops reading for closeTimeout, in which
// case the output is closed under the worker and the backend is killed.
func (p *PipePlayer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	stalled := false
	select {
	case <-done:
	case <-time.After(closeTimeout):
		stalled = true
		p.logger.Warn("feedback backend stalled, closing output")
	}

	err := p.out.Close()
	if p.cmd != nil {
		if stalled && p.cmd.Process != nil {
			//nolint:errcheck // The process may already be gone
			p.cmd.Process.Kill()
		}
		//nolint:errcheck // Backend exit status is irrelevant once closed
		p.cmd.Wait()
	}
	if err != nil {
		return fmt.Errorf("feedback: cannot close output: %w", err)
	}
	return nil
}

// Stats returns how many impacts were played and dropped.
func (p *PipePlayer) Stats() (played, dropped uint64) {
	return p.played.Load(), p.dropped.Load()
}

func (p *PipePlayer) loop() {
	defer p.wg.Done()

	for imp := range p.queue {
		pcm := EncodePCM(Render(Synth(imp)))
		if _, err := p.out.Write(pcm); err != nil {
			p.logger.Warn("feedback output failed", "err", err)
			// Count the rest as dropped until Close
			for range p.queue {
				p.dropped.Add(1)
			}
			return
		}
		p.played.Add(1)
	}
}
