package resilience

import "sync"

// Flight deduplicates concurrent calls that share a key: one caller executes
// fn, the rest wait and receive the same result. Results are not cached past
// the in-flight window.
type Flight[T any] struct {
	mu    sync.Mutex
	calls map[string]*flightCall[T]
}

type flightCall[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Do returns fn's result for key; shared is true for callers that rode along
// on another caller's execution.
func (f *Flight[T]) Do(key string, fn func() (T, error)) (val T, err error, shared bool) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]*flightCall[T])
	}
	if c, inFlight := f.calls[key]; inFlight {
		f.mu.Unlock()
		<-c.done
		return c.val, c.err, true
	}

	c := &flightCall[T]{done: make(chan struct{})}
	f.calls[key] = c
	f.mu.Unlock()

	c.val, c.err = fn()
	close(c.done)

	f.mu.Lock()
	delete(f.calls, key)
	f.mu.Unlock()

	return c.val, c.err, false
}
