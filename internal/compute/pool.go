package compute

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/kinnet/internal/metrics"
)

// Worker bounds.
const (
	MinWorkers = 1
	MaxWorkers = 4
	// MaxLayoutWorkers bounds the layout pool, which is memory-bound.
	MaxLayoutWorkers = 2

	defaultQueueSize = 64
)

type poolState int

const (
	stateNew poolState = iota
	stateRunning
	stateStopped
)

type job struct {
	ctx   context.Context //nolint:containedctx // carried to the worker with the task.
	task  Task
	reply chan reply
}

type reply struct {
	result json.RawMessage
	err    error
}

// Pool runs serialized tasks on a fixed set of worker goroutines. It must be
// started before use and stopped to release its workers; Stop drains tasks
// that were already accepted.
type Pool struct {
	name     string
	workers  int
	handlers map[TaskKind]Handler
	log      *logrus.Logger
	jobs     chan job

	mu    sync.RWMutex
	state poolState
	quit  chan struct{}
	wg    sync.WaitGroup
}

// NewPool creates a pool of workers (clamped to [MinWorkers, maxWorkers])
// with the given queue capacity. A nil handlers map selects Handlers().
func NewPool(name string, workers, maxWorkers, queueSize int, handlers map[TaskKind]Handler, log *logrus.Logger) *Pool {
	workers = max(MinWorkers, min(workers, maxWorkers))

	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	if handlers == nil {
		handlers = Handlers()
	}

	return &Pool{
		name:     name,
		workers:  workers,
		handlers: handlers,
		log:      log,
		jobs:     make(chan job, queueSize),
		quit:     make(chan struct{}),
	}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// Start spawns the workers. Cancelling ctx stops the pool as Stop does.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != stateNew {
		return
	}

	p.state = stateRunning

	p.log.WithFields(logrus.Fields{"pool": p.name, "workers": p.workers}).Info("starting compute workers")

	for i := range p.workers {
		p.wg.Add(1)

		go func(id int) {
			defer p.wg.Done()
			p.runWorker(id)
		}(i)
	}

	go func() {
		select {
		case <-ctx.Done():
			p.Stop()
		case <-p.quit:
		}
	}()
}

// Stop rejects new tasks, waits for accepted tasks to finish and returns once
// every worker has exited. It is safe to call more than once.
func (p *Pool) Stop() {
	p.mu.Lock()

	running := p.state == stateRunning
	started := p.state != stateNew

	if running {
		close(p.quit)
	}

	p.state = stateStopped
	p.mu.Unlock()

	if !started {
		return
	}

	p.wg.Wait()

	if running {
		metrics.ComputeQueueDepth.WithLabelValues(p.name).Set(0)
		p.log.WithField("pool", p.name).Info("all compute workers stopped")
	}
}

// Submit queues task and waits for its result. It never blocks on a full
// queue: ErrPoolSaturated is returned instead.
func (p *Pool) Submit(ctx context.Context, task Task) (json.RawMessage, error) {
	j := job{ctx: ctx, task: task, reply: make(chan reply, 1)}

	// The read lock keeps Stop from closing quit between the state check and
	// the send, so an accepted job is always drained.
	p.mu.RLock()

	if p.state != stateRunning {
		p.mu.RUnlock()

		return nil, ErrPoolClosed
	}

	select {
	case p.jobs <- j:
		metrics.ComputeQueueDepth.WithLabelValues(p.name).Set(float64(len(p.jobs)))
	default:
		p.mu.RUnlock()

		return nil, ErrPoolSaturated
	}

	p.mu.RUnlock()

	select {
	case r := <-j.reply:
		return r.result, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Pool) runWorker(id int) {
	p.log.WithFields(logrus.Fields{"pool": p.name, "worker_id": id}).Debug("compute worker started")

	for {
		select {
		case <-p.quit:
			p.drain()

			return
		case j := <-p.jobs:
			metrics.ComputeQueueDepth.WithLabelValues(p.name).Set(float64(len(p.jobs)))
			p.process(j)
		}
	}
}

func (p *Pool) drain() {
	for {
		select {
		case j := <-p.jobs:
			p.process(j)
		default:
			return
		}
	}
}

func (p *Pool) process(j job) {
	j.reply <- p.run(j)
}

func (p *Pool) run(j job) (r reply) {
	defer func() {
		if rec := recover(); rec != nil {
			r = reply{err: fmt.Errorf("%w: %s task: %v", ErrTaskPanic, j.task.Kind, rec)}
		}
	}()

	if err := j.ctx.Err(); err != nil {
		return reply{err: err}
	}

	handler, ok := p.handlers[j.task.Kind]
	if !ok {
		return reply{err: fmt.Errorf("%w: %q", ErrUnknownTask, j.task.Kind)}
	}

	result, err := handler(j.ctx, j.task.Payload)
	if err != nil {
		return reply{err: fmt.Errorf("running %s task: %w", j.task.Kind, err)}
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return reply{err: fmt.Errorf("encoding %s result: %w", j.task.Kind, err)}
	}

	return reply{result: raw}
}
