package worker

import (
	"context"
	"sync"
	"time"

	"bookutu/internal/services"
	"bookutu/internal/utils"
)

// Sweeper periodically deactivates expired seat holds. Purely hygienic:
// readers already ignore expired holds, so the interval is a cleanliness
// knob, not a correctness one, and the sweep is safe to run alongside
// live traffic.
type Sweeper struct {
	Reservations services.ReservationService
	Interval     time.Duration

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// Start launches the sweep loop. Returns immediately; the first sweep
// runs right away.
func (w *Sweeper) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(ctx)
}

// Stop ends the loop and waits for an in-flight sweep to finish.
func (w *Sweeper) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Sweeper) loop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	w.sweep()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *Sweeper) sweep() {
	if _, err := w.Reservations.SweepExpired(time.Now().UTC()); err != nil {
		utils.LogEvent("", "worker", "sweep", "sweep failed: "+err.Error())
	}
}
