package compiler

import "context"

// semaphore bounds the number of files compiled at once.
type semaphore struct {
	x chan struct{}
}

func newSemaphore(v int) *semaphore {
	if v < 1 {
		v = 1
	}
	return &semaphore{
		x: make(chan struct{}, v),
	}
}

// Acquire blocks until a slot is free or ctx is done.
func (self *semaphore) Acquire(ctx context.Context) error {
	select {
	case self.x <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (self *semaphore) Release() {
	<-self.x
}
