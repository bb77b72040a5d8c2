// Package notify delivers budget alerts over the configured channels.
package notify

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrend/internal/budget"
	"fintrend/internal/log"
)

// Status is a channel delivery outcome.
type Status string

const (
	StatusSent          Status = "sent"
	StatusSkipped       Status = "skipped"
	StatusNotConfigured Status = "not_configured"
	StatusError         Status = "error"
)

// Channel is one delivery transport.
type Channel interface {
	Name() string
	// Configured reports whether the channel has the credentials it needs.
	// Unconfigured channels are reported, not treated as failures.
	Configured() bool
	Send(ctx context.Context, subject, body string) error
}

// Result is the per-channel outcome of a dispatch.
type Result struct {
	Channel string
	Status  Status
	Err     error
}

// Dispatcher fans one message out to every registered channel.
type Dispatcher struct {
	channels []Channel
	timeout  time.Duration
	logger   *log.Logger
}

func NewDispatcher(logger *log.Logger, timeout time.Duration, channels ...Channel) *Dispatcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Dispatcher{channels: channels, timeout: timeout, logger: logger}
}

// DispatchAlerts sends the critical subset of alerts. When nothing is NEAR
// or OVER there is nothing to say and no channel is contacted.
func (d *Dispatcher) DispatchAlerts(ctx context.Context, subject string, alerts []budget.AlertRow) []Result {
	critical := make([]budget.AlertRow, 0, len(alerts))
	for _, a := range alerts {
		if a.Critical() {
			critical = append(critical, a)
		}
	}
	if len(critical) == 0 {
		d.logger.Info("no critical alerts, skipping dispatch")
		results := make([]Result, len(d.channels))
		for i, ch := range d.channels {
			results[i] = Result{Channel: ch.Name(), Status: StatusSkipped}
		}
		return results
	}

	return d.Dispatch(ctx, subject, FormatAlerts(critical))
}

// Dispatch sends one message to every channel concurrently. Channels fail
// independently; one broken transport never blocks the others.
func (d *Dispatcher) Dispatch(ctx context.Context, subject, body string) []Result {
	results := make([]Result, len(d.channels))

	g, gctx := errgroup.WithContext(ctx)
	for i, ch := range d.channels {
		i, ch := i, ch
		g.Go(func() error {
			results[i] = d.send(gctx, ch, subject, body)
			return nil
		})
	}
	g.Wait()

	return results
}

func (d *Dispatcher) send(ctx context.Context, ch Channel, subject, body string) Result {
	if !ch.Configured() {
		d.logger.Warn("channel not configured", log.FieldChannel, ch.Name())
		return Result{Channel: ch.Name(), Status: StatusNotConfigured}
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := ch.Send(sendCtx, subject, body); err != nil {
		d.logger.Error("channel send failed", log.FieldChannel, ch.Name(), log.FieldError, err.Error())
		return Result{Channel: ch.Name(), Status: StatusError, Err: err}
	}

	d.logger.Info("notification sent", log.FieldChannel, ch.Name())
	return Result{Channel: ch.Name(), Status: StatusSent}
}
