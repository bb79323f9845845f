// Package worker runs deferred storefront jobs, such as order confirmation
// mail, off the request path.
package worker

import "sync"

// Task is a deferred job. It runs after the HTTP response is written, so it
// must carry its own context and logger rather than borrow the request's.
type Task func()

// Pool executes tasks on a fixed set of goroutines.
type Pool interface {
	Submit(Task)
	Stop()
}

// NewPool starts workers goroutines draining a shared queue. workers <= 0
// falls back to a single worker.
func NewPool(workers int) Pool {
	if workers <= 0 {
		workers = 1
	}
	p := &pool{tasks: make(chan Task)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.drain()
	}
	return p
}

type pool struct {
	tasks chan Task
	wg    sync.WaitGroup
}

func (p *pool) drain() {
	defer p.wg.Done()
	for task := range p.tasks {
		if task != nil {
			task()
		}
	}
}

func (p *pool) Submit(t Task) {
	p.tasks <- t
}

// Stop closes the queue and waits until every submitted task has finished.
func (p *pool) Stop() {
	close(p.tasks)
	p.wg.Wait()
}
