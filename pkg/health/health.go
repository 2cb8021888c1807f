// Package health serves liveness and readiness probes backed by checks that
// run periodically in the background.
//
// A check turns unhealthy only after failing FailAfter times in a row
// (3 by default) and healthy again after its first success.
package health

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/jx"
)

// CheckFunc reports whether a component is healthy.
type CheckFunc func(ctx context.Context) error

// Probe selects which endpoint a check contributes to.
type Probe int

const (
	Liveness Probe = iota
	Readiness
)

const defaultFailAfter = 3

// Option configures a single check.
type Option func(*check)

// FailAfter sets how many consecutive failures mark the check unhealthy.
func FailAfter(n int) Option {
	return func(c *check) {
		if n > 0 {
			c.failAfter = n
		}
	}
}

type check struct {
	name      string
	probe     Probe
	timeout   time.Duration
	fn        CheckFunc
	failAfter int

	// fails is touched only by the goroutine running the check.
	fails int

	healthy atomic.Bool
	lastErr atomic.Pointer[string]
}

func (c *check) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.fn(ctx); err != nil {
		msg := err.Error()
		c.lastErr.Store(&msg)
		c.fails++
		if c.fails >= c.failAfter {
			c.healthy.Store(false)
		}
		return
	}
	c.lastErr.Store(nil)
	c.fails = 0
	c.healthy.Store(true)
}

func (c *check) failure() (string, bool) {
	if c.healthy.Load() {
		return "", false
	}
	if msg := c.lastErr.Load(); msg != nil {
		return *msg, true
	}
	return "unhealthy", true
}

// Service owns the registered checks and the manual readiness flag.
type Service struct {
	ready atomic.Bool

	mu     sync.Mutex
	checks []*check
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Service that is not ready until SetReady(true).
func New() *Service {
	return &Service{}
}

func (s *Service) add(probe Probe, name string, timeout time.Duration, fn CheckFunc, opts []Option) {
	c := &check{name: name, probe: probe, timeout: timeout, fn: fn, failAfter: defaultFailAfter}
	for _, o := range opts {
		o(c)
	}
	c.healthy.Store(true)

	s.mu.Lock()
	s.checks = append(s.checks, c)
	s.mu.Unlock()
}

// AddLivenessCheck registers a check reported by LiveEndpoint.
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc, opts ...Option) {
	s.add(Liveness, name, timeout, fn, opts)
}

// AddReadinessCheck registers a check reported by ReadyEndpoint.
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc, opts ...Option) {
	s.add(Readiness, name, timeout, fn, opts)
}

// Start runs every check now and then once per interval until Stop or ctx
// cancellation. Checks registered after Start are not run.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	checks := slices.Clone(s.checks)
	s.mu.Unlock()

	for _, c := range checks {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				c.run(ctx)
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}
		}()
	}
}

// Stop halts the background checks and waits for them to return.
func (s *Service) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// SetReady flips the manual readiness flag.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Failures returns the failing checks of probe by name. Readiness also
// reports the manual flag under "ready".
func (s *Service) Failures(probe Probe) map[string]string {
	s.mu.Lock()
	checks := slices.Clone(s.checks)
	s.mu.Unlock()

	out := map[string]string{}
	for _, c := range checks {
		if c.probe != probe {
			continue
		}
		if msg, failed := c.failure(); failed {
			out[c.name] = msg
		}
	}
	if probe == Readiness && !s.ready.Load() {
		out["ready"] = "service is not ready"
	}
	return out
}

// IsReady reports whether the service accepts traffic.
func (s *Service) IsReady() bool {
	return len(s.Failures(Readiness)) == 0
}

// LiveEndpoint serves /livez.
func (s *Service) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, s.Failures(Liveness))
}

// ReadyEndpoint serves /readyz.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, s.Failures(Readiness))
}

func writeStatus(w http.ResponseWriter, failures map[string]string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("status")
	status := http.StatusOK
	if len(failures) == 0 {
		e.Str("ok")
	} else {
		status = http.StatusServiceUnavailable
		e.Str("unavailable")
		e.FieldStart("checks")
		e.ObjStart()
		names := make([]string, 0, len(failures))
		for name := range failures {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			e.FieldStart(name)
			e.Str(failures[name])
		}
		e.ObjEnd()
	}
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
