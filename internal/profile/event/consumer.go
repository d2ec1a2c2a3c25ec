package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

type Handler interface {
	Handle(ctx context.Context, ev entity.ProfiledEvent) error
}

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

func IsPermanent(err error) bool {
	var pe permanentError
	return errors.As(err, &pe)
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
	// MaxBackoff caps the doubling backoff; zero means 32 x BaseBackoff.
	MaxBackoff time.Duration
	// HandleTimeout bounds a single Handle call; zero means 10s.
	HandleTimeout time.Duration
}

// Stats is a snapshot of consumer outcomes.
type Stats struct {
	Handled    int64
	Failed     int64
	Duplicates int64
}

// Consumer drains the bus into a Handler. Failures are retried with capped
// exponential backoff unless marked Permanent. Every upload is handled at
// most once, whatever the number of events published for it.
type Consumer struct {
	bus *Bus
	h   Handler
	cfg ConsumerConfig

	seen sync.Map
	quit chan struct{}
	once sync.Once
	wg   sync.WaitGroup

	handled    atomic.Int64
	failed     atomic.Int64
	duplicates atomic.Int64
}

func NewConsumer(bus *Bus, h Handler, cfg ConsumerConfig) *Consumer {
	if cfg.Workers < 1 {
		cfg.Workers = 2
	}
	cfg.MaxRetries = max(cfg.MaxRetries, 0)
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 100 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 32 * cfg.BaseBackoff
	}
	if cfg.HandleTimeout <= 0 {
		cfg.HandleTimeout = 10 * time.Second
	}

	return &Consumer{bus: bus, h: h, cfg: cfg, quit: make(chan struct{})}
}

func (c *Consumer) Start() {
	for range c.cfg.Workers {
		c.wg.Add(1)
		go c.worker()
	}
}

// Stop closes the bus and waits for queued events to be handled. When ctx
// expires first, pending retries are abandoned and ctx.Err is returned.
func (c *Consumer) Stop(ctx context.Context) error {
	c.bus.Close()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		c.once.Do(func() { close(c.quit) })
		return ctx.Err()
	}
}

func (c *Consumer) Stats() Stats {
	return Stats{
		Handled:    c.handled.Load(),
		Failed:     c.failed.Load(),
		Duplicates: c.duplicates.Load(),
	}
}

func (c *Consumer) worker() {
	defer c.wg.Done()

	for ev := range c.bus.Events() {
		c.process(ev)
	}
}

func dedupKey(ev entity.ProfiledEvent) string {
	if ev.UploadID != "" {
		return "upload:" + ev.UploadID
	}
	return "event:" + ev.EventID
}

func (c *Consumer) process(ev entity.ProfiledEvent) {
	key := dedupKey(ev)
	if _, loaded := c.seen.LoadOrStore(key, struct{}{}); loaded {
		c.duplicates.Add(1)
		slog.Info("skip duplicate profiled event", "event_id", ev.EventID, "upload_id", ev.UploadID)
		return
	}

	backoff := c.cfg.BaseBackoff
	for attempt := 1; ; attempt++ {
		err := c.handle(ev)
		if err == nil {
			c.handled.Add(1)
			return
		}

		if IsPermanent(err) || attempt > c.cfg.MaxRetries {
			c.failed.Add(1)
			// forget the upload so a later event may try again
			c.seen.Delete(key)
			slog.Error("failed to handle profiled event",
				"event_id", ev.EventID, "upload_id", ev.UploadID, "attempts", attempt, "error", err)
			return
		}

		slog.Warn("retrying profiled event",
			"event_id", ev.EventID, "attempt", attempt, "backoff", backoff, "error", err)
		if !c.sleep(backoff) {
			c.failed.Add(1)
			return
		}
		backoff = min(backoff*2, c.cfg.MaxBackoff)
	}
}

func (c *Consumer) handle(ev entity.ProfiledEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.HandleTimeout)
	defer cancel()

	return c.h.Handle(ctx, ev)
}

// sleep waits d and reports false when the consumer is told to quit first.
func (c *Consumer) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-c.quit:
		return false
	}
}
