package pdfedit

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// PipelinePool manages independent Pipelines for parallel processing.
// Each pipeline has its own renderer (and browser), enabling true parallelism.
// Pipelines are created lazily on first acquire to avoid startup delay.
type PipelinePool struct {
	size      int
	opts      []Option
	pipelines []*Pipeline
	sem       chan *Pipeline
	mu        sync.Mutex
	created   int
	closed    bool
}

// NewPipelinePool creates a pool with capacity for n pipelines, each built
// with opts. Pipelines are created when acquired, not at pool creation.
func NewPipelinePool(n int, opts ...Option) *PipelinePool {
	if n < 1 {
		n = 1
	}

	return &PipelinePool{
		size:      n,
		opts:      opts,
		pipelines: make([]*Pipeline, 0, n),
		sem:       make(chan *Pipeline, n),
	}
}

// Acquire gets a pipeline from the pool, creating one if needed.
// Blocks until one is released or ctx is done.
func (p *PipelinePool) Acquire(ctx context.Context) (*Pipeline, error) {
	// Try to get an existing pipeline (non-blocking)
	select {
	case pl, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return pl, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create new pipeline outside the lock
		pl, err := New(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.pipelines = append(p.pipelines, pl)
		p.mu.Unlock()

		return pl, nil
	}
	p.mu.Unlock()

	// All pipelines created, wait for one to be released
	select {
	case pl, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return pl, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a pipeline to the pool.
// The lock is held while sending so Close cannot close the channel mid-send;
// the channel has room for every pipeline, so the send never blocks.
func (p *PipelinePool) Release(pl *Pipeline) {
	if pl == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- pl
}

// Close releases all browser resources.
// Returns an aggregated error if multiple pipelines fail to close.
func (p *PipelinePool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	pipelines := p.pipelines
	p.mu.Unlock()

	var errs []error
	for _, pl := range pipelines {
		if err := pl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *PipelinePool) Size() int {
	return p.size
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
