package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vytor/ankibridge/internal/logger"
)

// ErrStopped is returned by Submit once the pool is stopping.
var ErrStopped = errors.New("worker pool stopped")

type Job interface {
	Run(context.Context) error
	Name() string
}

// QueueObserver is told the number of pending jobs whenever it changes.
type QueueObserver func(depth int)

type Pool struct {
	jobs     chan Job
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	workers  int
	queue    int
	cancel   context.CancelFunc
	observer QueueObserver
	log      *logger.Logger
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithQueueObserver reports queue depth changes.
func WithQueueObserver(o QueueObserver) PoolOption {
	return func(p *Pool) {
		p.observer = o
	}
}

func NewPool(workers, queueSize int, opts ...PoolOption) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 16
	}
	log := logger.Default().WithPrefix("worker-pool")
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	p := &Pool{
		jobs:    make(chan Job, queueSize),
		done:    make(chan struct{}),
		workers: workers,
		queue:   queueSize,
		log:     log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			workerLog := p.log.WithField("worker_id", id)
			workerLog.Debug("worker started")

			for {
				select {
				case <-ctx.Done():
					workerLog.Debug("worker shutting down (context cancelled)")
					return
				case <-p.done:
					workerLog.Debug("worker shutting down (pool stopped)")
					return
				case job := <-p.jobs:
					p.observe()
					p.run(logger.NewContext(ctx, workerLog), workerLog, job)
				}
			}
		}(i + 1)
	}
}

func (p *Pool) run(ctx context.Context, workerLog *logger.Logger, job Job) {
	jobLog := workerLog.WithField("job", job.Name())
	jobLog.Debug("starting job")
	start := time.Now()

	if err := job.Run(logger.NewContext(ctx, jobLog)); err != nil {
		jobLog.Debug("job failed after %v: %v", time.Since(start), err)
		return
	}
	jobLog.Debug("job completed in %v", time.Since(start))
}

// Stop signals the workers to exit and waits for the running jobs. Jobs still
// queued are dropped; callers waiting on them should watch Done.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.log.Info("stopping worker pool")
		close(p.done)
		if p.cancel != nil {
			p.cancel()
		}
		p.wg.Wait()
		p.log.Info("worker pool stopped")
	})
}

// Done is closed when the pool starts stopping.
func (p *Pool) Done() <-chan struct{} {
	return p.done
}

// Submit queues job, waiting for room until ctx is done or the pool stops.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	select {
	case <-p.done:
		return ErrStopped
	default:
	}

	p.log.Debug("submitting job: %s", job.Name())
	select {
	case p.jobs <- job:
		p.observe()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return ErrStopped
	}
}

// QueueSize returns the current number of pending jobs.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}

func (p *Pool) observe() {
	if p.observer != nil {
		p.observer(len(p.jobs))
	}
}
