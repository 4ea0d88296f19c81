/**
 * Worker Pool
 *
 * Fixed-size pool of goroutines, each looping dequeue -> run pipeline.
 * Workers share nothing but the queue and the job store; the queue's
 * atomic dequeue guarantees each job reaches exactly one worker. An empty
 * queue backs the workers off for a poll interval.
 */

package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/opengovlk/docintel-worker/internal/logging"
	"github.com/opengovlk/docintel-worker/internal/pipeline"
	"github.com/opengovlk/docintel-worker/internal/queue"
)

// DefaultPollInterval is the back-off between dequeue attempts on an
// empty queue
const DefaultPollInterval = 250 * time.Millisecond

// Pool runs the pipeline over queued jobs with bounded concurrency
type Pool struct {
	queue        queue.Queue
	orchestrator *pipeline.Orchestrator
	workers      int
	pollInterval time.Duration
	log          *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// PoolConfig holds pool configuration
type PoolConfig struct {
	Queue        queue.Queue
	Orchestrator *pipeline.Orchestrator
	Workers      int
	PollInterval time.Duration
	Logger       *logging.Logger
}

// NewPool creates a worker pool
func NewPool(cfg PoolConfig) (*Pool, error) {
	if cfg.Queue == nil {
		return nil, fmt.Errorf("queue is required")
	}
	if cfg.Orchestrator == nil {
		return nil, fmt.Errorf("orchestrator is required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewLogger("worker")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		queue:        cfg.Queue,
		orchestrator: cfg.Orchestrator,
		workers:      cfg.Workers,
		pollInterval: cfg.PollInterval,
		log:          cfg.Logger,
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

// Start launches the worker goroutines
func (p *Pool) Start() {
	p.log.Info("worker pool starting", "workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop cancels the workers and waits for in-flight jobs to finish.
// Pipelines are short enough to run to completion; only the dequeue loop
// is interrupted.
func (p *Pool) Stop() {
	p.log.Info("worker pool stopping")
	p.cancel()
	p.wg.Wait()
	p.log.Info("worker pool stopped")
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	p.log.Debug("worker started", "worker", id)

	for {
		select {
		case <-p.ctx.Done():
			p.log.Debug("worker stopping", "worker", id)
			return
		default:
		}

		j, err := p.queue.Dequeue(p.ctx)
		if err != nil {
			p.log.Warn("dequeue failed", "worker", id, "error", err)
			p.sleep()
			continue
		}
		if j == nil {
			p.sleep()
			continue
		}

		// processing runs on a fresh context: a dequeued job belongs to
		// this worker until it reaches a terminal state, and Stop() must
		// interrupt only the dequeue loop
		p.orchestrator.Process(context.Background(), j)
	}
}

func (p *Pool) sleep() {
	select {
	case <-p.ctx.Done():
	case <-time.After(p.pollInterval):
	}
}
