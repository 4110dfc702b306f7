package controller

// update is a state mutation waiting to run on the owner loop
type update struct {
	fn   func()
	ran  bool
	done chan struct{}
}

// run is the owner loop. It is the only goroutine that writes the
// controller's observable state.
func (c *ThumbnailController) run() {
	defer func() {
		c.qmu.Lock()
		c.stopped = true
		pending := c.queue
		c.queue = nil
		c.qmu.Unlock()
		for _, u := range pending {
			close(u.done)
		}
		close(c.loopDone)
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.wake:
			c.drain()
		}
	}
}

// drain applies queued updates in order, including any that observers
// enqueue while it runs
func (c *ThumbnailController) drain() {
	for {
		c.qmu.Lock()
		if len(c.queue) == 0 {
			c.qmu.Unlock()
			return
		}
		u := c.queue[0]
		c.queue = c.queue[1:]
		c.qmu.Unlock()

		// Teardown may have raced the dequeue
		if c.ctx.Err() == nil {
			c.applying.Store(true)
			u.fn()
			c.applying.Store(false)
			u.ran = true
		}
		close(u.done)
	}
}

// enqueue schedules fn on the owner loop. It returns nil once the loop has stopped.
func (c *ThumbnailController) enqueue(fn func()) *update {
	if c.ctx.Err() != nil {
		return nil
	}
	u := &update{fn: fn, done: make(chan struct{})}

	c.qmu.Lock()
	if c.stopped {
		c.qmu.Unlock()
		return nil
	}
	c.queue = append(c.queue, u)
	c.qmu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
	return u
}

// apply hands fn to the owner loop and waits for it to finish.
// It returns false if the controller was torn down before fn could run.
// Only task goroutines call it; they never run on the owner loop.
func (c *ThumbnailController) apply(fn func()) bool {
	u := c.enqueue(fn)
	if u == nil {
		return false
	}
	<-u.done
	return u.ran
}

// post is apply for commands, which observers may issue from the owner loop
// itself. While an update is being applied the command is queued behind it
// and post returns without waiting.
func (c *ThumbnailController) post(fn func()) bool {
	u := c.enqueue(fn)
	if u == nil {
		return false
	}
	if c.applying.Load() {
		return true
	}
	<-u.done
	return u.ran
}
