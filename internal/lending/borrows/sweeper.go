package borrows

import (
	"context"
	"log"
	"time"
)

// Sweeper periodically reclassifies expired borrows as OVERDUE. A single
// goroutine drives the ticker, so ticks never overlap; a failed tick is
// logged and the next tick retries the same scan.
type Sweeper struct {
	svc      *Service
	interval time.Duration
	clock    Clock
	stop     chan struct{}
	done     chan struct{}
}

func NewSweeper(svc *Service, interval time.Duration) *Sweeper {
	return &Sweeper{
		svc:      svc,
		interval: interval,
		clock:    realClock{},
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop in the background, sweeping once immediately.
func (w *Sweeper) Start() {
	go func() {
		defer close(w.done)

		w.tick()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.tick()
			case <-w.stop:
				return
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight tick to finish.
func (w *Sweeper) Stop() {
	close(w.stop)
	<-w.done
}

func (w *Sweeper) tick() {
	now := w.clock.Now()
	n, err := w.svc.SweepOverdue(context.Background(), now)
	if err != nil {
		log.Printf("[ERROR] overdue sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[INFO] overdue sweep marked %d borrows", n)
	}
}
