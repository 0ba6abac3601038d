package session

import (
	"log"
	"time"
)

// Sweeper periodically expires Pending sessions older than ttl.
type Sweeper struct {
	store    *Store
	ttl      time.Duration
	interval time.Duration
	stopChan chan struct{}
	ticker   *time.Ticker
}

// NewSweeper returns nil when ttl is zero; a nil Sweeper's Start and Stop
// are no-ops.
func NewSweeper(store *Store, ttl time.Duration) *Sweeper {
	if ttl <= 0 {
		return nil
	}
	interval := ttl / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}
	return &Sweeper{
		store:    store,
		ttl:      ttl,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (w *Sweeper) Start() {
	if w == nil {
		return
	}
	w.ticker = time.NewTicker(w.interval)
	go w.loop()
}

func (w *Sweeper) Stop() {
	if w == nil {
		return
	}
	close(w.stopChan)
	if w.ticker != nil {
		w.ticker.Stop()
	}
}

func (w *Sweeper) loop() {
	for {
		select {
		case <-w.ticker.C:
			w.tick(time.Now())
		case <-w.stopChan:
			return
		}
	}
}

func (w *Sweeper) tick(now time.Time) int {
	removed := w.store.ExpireBefore(now.Add(-w.ttl))
	for _, sess := range removed {
		log.Printf("session: expired pending payment in conversation %s", sess.ConversationID)
	}
	return len(removed)
}
