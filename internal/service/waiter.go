package service

import (
	"context"
	"errors"
	"sync"
	"time"
)

// WaitTimeout is the maximum time a client can wait for notifications
const WaitTimeout = 25 * time.Second

// WaitRegistry manages long-polling clients waiting for game state changes
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string][]*waitRequest // gameID → waiting clients
	timeout  time.Duration
	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type waitRequest struct {
	actionCount int           // last action count the client saw
	done        chan struct{} // closed exactly once
	once        sync.Once
}

func (r *waitRequest) release() {
	r.once.Do(func() { close(r.done) })
}

// NewWaitRegistry creates a registry whose waits expire after timeout
func NewWaitRegistry(timeout time.Duration) *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*waitRequest),
		timeout:  timeout,
		shutdown: make(chan struct{}),
	}
}

// RegisterWait returns a channel that is closed when the action count of the
// game differs from actionCount, the game is removed, the wait times out, the
// context ends, or the registry shuts down.
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, actionCount int) <-chan struct{} {
	req := &waitRequest{
		actionCount: actionCount,
		done:        make(chan struct{}),
	}

	w.mu.Lock()
	select {
	case <-w.shutdown:
		w.mu.Unlock()
		req.release()
		return req.done
	default:
	}
	w.waiters[gameID] = append(w.waiters[gameID], req)
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()

		timer := time.NewTimer(w.timeout)
		defer timer.Stop()

		select {
		case <-ctx.Done():
		case <-timer.C:
		case <-w.shutdown:
		case <-req.done:
		}
		req.release()
		w.removeWaiter(gameID, req)
	}()

	return req.done
}

// NotifyGame wakes the waiters of a game whose known action count differs
// from currentActionCount
func (w *WaitRegistry) NotifyGame(gameID string, currentActionCount int) {
	w.mu.Lock()
	waitList := append([]*waitRequest(nil), w.waiters[gameID]...)
	w.mu.Unlock()

	for _, req := range waitList {
		if req.actionCount != currentActionCount {
			req.release()
		}
	}
}

// WakeGame wakes every waiter of a game regardless of action count
func (w *WaitRegistry) WakeGame(gameID string) {
	w.mu.Lock()
	waitList := append([]*waitRequest(nil), w.waiters[gameID]...)
	w.mu.Unlock()

	for _, req := range waitList {
		req.release()
	}
}

// Waiting returns the number of clients currently waiting on a game
func (w *WaitRegistry) Waiting(gameID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waiters[gameID])
}

// Shutdown releases all waiters and waits for their goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.mu.Lock()
	w.stopOnce.Do(func() { close(w.shutdown) })
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errors.New("wait registry shutdown timed out")
	}
}

func (w *WaitRegistry) removeWaiter(gameID string, req *waitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}
}
