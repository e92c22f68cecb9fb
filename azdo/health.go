package azdo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Ping verifies the organization URL and PAT by requesting the cheapest
// authenticated endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListProjects(ctx, 1, 0)
	return err
}

var standardCronParser = cron.NewParser(
	cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow,
)

// ParseCronScheduleUTC parses a standard five-field cron expression
// interpreted in UTC. Timezone prefixes are rejected.
func ParseCronScheduleUTC(expr string) (cron.Schedule, error) {
	clean := strings.TrimSpace(expr)
	if clean == "" {
		return nil, fmt.Errorf("azdo: cron expression is required")
	}
	upper := strings.ToUpper(clean)
	if strings.Contains(upper, "CRON_TZ=") || strings.Contains(upper, "TZ=") {
		return nil, fmt.Errorf("azdo: cron expression must be UTC-only (timezone prefixes are not allowed)")
	}
	schedule, err := standardCronParser.Parse(clean)
	if err != nil {
		return nil, fmt.Errorf("azdo: invalid cron expression: %w", err)
	}
	return schedule, nil
}

// ProbeConfig controls the background connection probe.
type ProbeConfig struct {
	Client   *Client
	Schedule cron.Schedule
	Logger   *slog.Logger
	// OnResult receives each probe outcome; nil error means healthy.
	OnResult func(err error)
	Now      func() time.Time
}

// Probe re-checks organization reachability and PAT validity on a cron
// schedule while the server is running. It holds no state beyond the
// goroutine lifecycle; every tick is an independent Ping.
type Probe struct {
	client   *Client
	schedule cron.Schedule
	logger   *slog.Logger
	onResult func(err error)
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewProbe creates a connection probe.
func NewProbe(cfg ProbeConfig) (*Probe, error) {
	if cfg.Client == nil {
		return nil, errors.New("azdo: probe client is nil")
	}
	if cfg.Schedule == nil {
		return nil, errors.New("azdo: probe schedule is nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.OnResult == nil {
		cfg.OnResult = func(error) {}
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Probe{
		client:   cfg.Client,
		schedule: cfg.Schedule,
		logger:   cfg.Logger,
		onResult: cfg.OnResult,
		now:      cfg.Now,
	}, nil
}

// Start begins probe execution; the loop also stops when ctx is
// canceled. Starting an already-started probe is a no-op.
func (p *Probe) Start(ctx context.Context) error {
	if p == nil {
		return errors.New("azdo: probe is nil")
	}

	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return nil
	}
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	go func() {
		defer close(done)
		for {
			next := p.schedule.Next(p.now())
			timer := time.NewTimer(time.Until(next))
			select {
			case <-loopCtx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			p.runOnce(loopCtx)
		}
	}()

	return nil
}

// Stop terminates probe execution and waits for the loop to exit.
func (p *Probe) Stop(ctx context.Context) error {
	if p == nil {
		return nil
	}

	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Probe) runOnce(ctx context.Context) {
	err := p.client.Ping(ctx)
	if err != nil {
		p.logger.Warn("connection probe failed", slog.String("error", err.Error()))
	} else {
		p.logger.Debug("connection probe ok")
	}
	p.onResult(err)
}
