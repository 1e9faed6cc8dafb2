package jobs

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-vocoder/engine"
)

var (
	// ErrQueueFull indicates the submission queue is at capacity. The
	// caller should back off and retry.
	ErrQueueFull = errors.New("jobs: queue full")

	// ErrPoolClosed indicates the pool no longer accepts work.
	ErrPoolClosed = errors.New("jobs: pool closed")
)

const (
	defaultWorkers       = 1
	defaultQueueCapacity = 16
)

// Job is a queued render request. Wait blocks until the pool has
// processed it.
type Job struct {
	ctx       context.Context
	modulator []byte
	carrier   []byte
	width     float64

	done chan struct{}
	data []byte
	err  error
}

// Wait blocks until the job finishes or ctx is done, returning the
// rendered WAV bytes.
func (j *Job) Wait(ctx context.Context) ([]byte, error) {
	select {
	case <-j.done:
		return j.data, j.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Pool runs render jobs on a bounded set of workers behind a bounded
// queue. The default single worker serializes rendering; more workers
// trade memory for throughput on batch workloads.
type Pool struct {
	eng *engine.Engine
	log *zap.Logger

	queue chan *Job
	group *errgroup.Group

	mu     sync.Mutex
	closed bool
}

// Option configures a Pool.
type Option func(*poolConfig)

type poolConfig struct {
	workers  int
	capacity int
	log      *zap.Logger
}

// WithWorkers sets the worker count.
func WithWorkers(n int) Option {
	return func(cfg *poolConfig) {
		if n > 0 {
			cfg.workers = n
		}
	}
}

// WithQueueCapacity sets how many jobs may wait before Submit reports
// ErrQueueFull.
func WithQueueCapacity(n int) Option {
	return func(cfg *poolConfig) {
		if n > 0 {
			cfg.capacity = n
		}
	}
}

// WithLogger attaches a structured logger. The default discards logs.
func WithLogger(log *zap.Logger) Option {
	return func(cfg *poolConfig) {
		if log != nil {
			cfg.log = log
		}
	}
}

// NewPool creates a pool around eng and starts its workers.
func NewPool(eng *engine.Engine, opts ...Option) *Pool {
	cfg := poolConfig{
		workers:  defaultWorkers,
		capacity: defaultQueueCapacity,
		log:      zap.NewNop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	p := &Pool{
		eng:   eng,
		log:   cfg.log,
		queue: make(chan *Job, cfg.capacity),
		group: &errgroup.Group{},
	}

	for i := 0; i < cfg.workers; i++ {
		worker := i
		p.group.Go(func() error {
			p.run(worker)
			return nil
		})
	}

	return p
}

// Submit enqueues a render job without blocking. A full queue returns
// ErrQueueFull; a closed pool returns ErrPoolClosed.
//
// ctx is honored only while the job is queued: a job whose context is
// done before a worker picks it up is discarded and Wait reports the
// context error. A render already underway is never interrupted.
func (p *Pool) Submit(ctx context.Context, modulator, carrier []byte, width float64) (*Job, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	j := &Job{
		ctx:       ctx,
		modulator: modulator,
		carrier:   carrier,
		width:     width,
		done:      make(chan struct{}),
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPoolClosed
	}

	select {
	case p.queue <- j:
		return j, nil
	default:
		return nil, ErrQueueFull
	}
}

// Close stops accepting jobs, drains the queue, and waits for the
// workers to finish. Jobs already queued still complete.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}

	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	return p.group.Wait()
}

func (p *Pool) run(worker int) {
	for j := range p.queue {
		if err := j.ctx.Err(); err != nil {
			j.err = err
			p.log.Debug("job discarded before start",
				zap.Int("worker", worker),
				zap.Error(err))
			close(j.done)

			continue
		}

		j.data, j.err = p.eng.Process(j.modulator, j.carrier, j.width)

		if j.err != nil {
			p.log.Warn("job failed",
				zap.Int("worker", worker),
				zap.Float64("width", j.width),
				zap.Error(j.err))
		} else {
			p.log.Debug("job done",
				zap.Int("worker", worker),
				zap.Float64("width", j.width),
				zap.Int("output_bytes", len(j.data)))
		}

		close(j.done)
	}
}
