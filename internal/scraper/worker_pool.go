package scraper

import (
	"context"
	"sync"
	"time"
)

type Task func(ctx context.Context) error

// Result reports one finished task under the key it was submitted with.
type Result struct {
	Key string
	Err error
}

type job struct {
	key  string
	task Task
}

// WorkerPool runs keyed tasks on a fixed number of goroutines. Tasks are
// queued with Submit, the queue is sealed with Close, and results stream out
// of the channel returned by Run.
type WorkerPool struct {
	workers  int
	jobs     chan job
	interval time.Duration
}

func NewWorkerPool(workers, buffer int) *WorkerPool {
	return &WorkerPool{
		workers: max(workers, 1),
		jobs:    make(chan job, max(buffer, 0)),
	}
}

// SetRateLimit caps task starts per second across all workers; rps <= 0
// means unlimited. It takes effect on the next Run.
func (p *WorkerPool) SetRateLimit(rps int) {
	p.interval = 0
	if rps > 0 {
		p.interval = time.Second / time.Duration(rps)
	}
}

// Submit blocks while the queue is full. It must not be called after Close.
func (p *WorkerPool) Submit(key string, t Task) {
	p.jobs <- job{key: key, task: t}
}

func (p *WorkerPool) Close() { close(p.jobs) }

// Run starts the workers. The returned channel closes once the queue is
// closed and drained, or ctx is done.
func (p *WorkerPool) Run(ctx context.Context) <-chan Result {
	out := make(chan Result, p.workers)

	var tick <-chan time.Time
	var ticker *time.Ticker
	if p.interval > 0 {
		ticker = time.NewTicker(p.interval)
		tick = ticker.C
	}

	var wg sync.WaitGroup
	for range p.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.work(ctx, tick, out)
		}()
	}

	go func() {
		wg.Wait()
		if ticker != nil {
			ticker.Stop()
		}
		close(out)
	}()
	return out
}

func (p *WorkerPool) work(ctx context.Context, tick <-chan time.Time, out chan<- Result) {
	for {
		var j job
		select {
		case <-ctx.Done():
			return
		case next, ok := <-p.jobs:
			if !ok {
				return
			}
			j = next
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return
			case <-tick:
			}
		}

		res := Result{Key: j.key, Err: j.task(ctx)}
		select {
		case <-ctx.Done():
			return
		case out <- res:
		}
	}
}
