package controller

import (
	"context"
	"sync"
	"time"
)

// taskGroup tracks every in-flight use-case call of one controller.
// Each task runs under a child of the group context; cancelAll cancels
// them together and refuses new tasks from then on.
type taskGroup struct {
	ctx     context.Context
	timeout time.Duration

	mu      sync.Mutex
	nextID  uint64
	running map[uint64]context.CancelFunc
	closed  bool

	wg sync.WaitGroup
}

func newTaskGroup(ctx context.Context, timeout time.Duration) *taskGroup {
	return &taskGroup{
		ctx:     ctx,
		timeout: timeout,
		running: make(map[uint64]context.CancelFunc),
	}
}

// Go starts fn in its own goroutine. It returns false without starting
// anything once the group has been cancelled.
func (g *taskGroup) Go(fn func(ctx context.Context)) bool {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return false
	}

	var ctx context.Context
	var cancel context.CancelFunc
	if g.timeout > 0 {
		ctx, cancel = context.WithTimeout(g.ctx, g.timeout)
	} else {
		ctx, cancel = context.WithCancel(g.ctx)
	}

	g.nextID++
	id := g.nextID
	g.running[id] = cancel
	g.wg.Add(1)
	g.mu.Unlock()

	go func() {
		defer g.wg.Done()
		defer g.release(id)
		fn(ctx)
	}()
	return true
}

func (g *taskGroup) release(id uint64) {
	g.mu.Lock()
	cancel, ok := g.running[id]
	delete(g.running, id)
	g.mu.Unlock()
	if ok {
		cancel()
	}
}

// cancelAll cancels every running task and returns how many were running
func (g *taskGroup) cancelAll() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	n := len(g.running)
	for id, cancel := range g.running {
		cancel()
		delete(g.running, id)
	}
	return n
}

// inFlight returns the number of running tasks
func (g *taskGroup) inFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.running)
}

// wait blocks until every started task has returned
func (g *taskGroup) wait() {
	g.wg.Wait()
}
