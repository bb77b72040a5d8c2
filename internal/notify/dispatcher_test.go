package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"fintrend/internal/budget"
	"fintrend/internal/log"
)

func testLogger() *log.Logger {
	return log.New(log.Config{
		Component: "test",
		Handler:   slog.NewTextHandler(io.Discard, nil),
	})
}

type fakeChannel struct {
	name       string
	configured bool
	err        error
	sent       []string
}

func (f *fakeChannel) Name() string     { return f.name }
func (f *fakeChannel) Configured() bool { return f.configured }

func (f *fakeChannel) Send(ctx context.Context, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, body)
	return nil
}

func floatPtr(v float64) *float64 { return &v }

func overRow() budget.AlertRow {
	return budget.AlertRow{
		Scope:     budget.ScopeCategory,
		Category:  "Groceries",
		Month:     "2025-08",
		Spend:     16500,
		Cap:       floatPtr(15000),
		Remaining: floatPtr(-1500),
		Pct:       floatPtr(1.1),
		Status:    budget.StatusOver,
	}
}

func okRow() budget.AlertRow {
	return budget.AlertRow{
		Scope:    budget.ScopeTotal,
		Category: "TOTAL",
		Month:    "2025-08",
		Spend:    12345,
		Cap:      floatPtr(50000),
		Pct:      floatPtr(0.247),
		Status:   budget.StatusOK,
	}
}

func TestDispatchAlertsSkipsWhenNothingCritical(t *testing.T) {
	ch := &fakeChannel{name: "email", configured: true}
	d := NewDispatcher(testLogger(), time.Second, ch)

	results := d.DispatchAlerts(context.Background(), "alerts", []budget.AlertRow{okRow()})

	if len(ch.sent) != 0 {
		t.Errorf("channel contacted with no critical alerts: %v", ch.sent)
	}
	if len(results) != 1 || results[0].Status != StatusSkipped {
		t.Errorf("results = %+v, want one skipped", results)
	}
}

func TestDispatchAlertsSendsCriticalOnly(t *testing.T) {
	ch := &fakeChannel{name: "email", configured: true}
	d := NewDispatcher(testLogger(), time.Second, ch)

	results := d.DispatchAlerts(context.Background(), "alerts",
		[]budget.AlertRow{okRow(), overRow()})

	if len(results) != 1 || results[0].Status != StatusSent {
		t.Fatalf("results = %+v, want one sent", results)
	}
	if len(ch.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(ch.sent))
	}
	body := ch.sent[0]
	if !strings.Contains(body, "Groceries") {
		t.Errorf("body missing critical row: %q", body)
	}
	if strings.Contains(body, "TOTAL") {
		t.Errorf("body contains non-critical row: %q", body)
	}
}

func TestDispatchChannelsFailIndependently(t *testing.T) {
	good := &fakeChannel{name: "email", configured: true}
	bad := &fakeChannel{name: "telegram", configured: true, err: errors.New("boom")}
	d := NewDispatcher(testLogger(), time.Second, good, bad)

	results := d.Dispatch(context.Background(), "subject", "body")

	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Channel] = r
	}
	if byName["email"].Status != StatusSent {
		t.Errorf("email = %+v, want sent", byName["email"])
	}
	if byName["telegram"].Status != StatusError {
		t.Errorf("telegram = %+v, want error", byName["telegram"])
	}
	if len(good.sent) != 1 {
		t.Error("working channel should still deliver")
	}
}

func TestDispatchUnconfiguredChannelReported(t *testing.T) {
	ch := &fakeChannel{name: "telegram", configured: false}
	d := NewDispatcher(testLogger(), time.Second, ch)

	results := d.Dispatch(context.Background(), "subject", "body")
	if results[0].Status != StatusNotConfigured {
		t.Errorf("status = %v, want not_configured", results[0].Status)
	}
	if len(ch.sent) != 0 {
		t.Error("unconfigured channel must not be contacted")
	}
}

func TestFormatAlertLine(t *testing.T) {
	tests := []struct {
		name string
		row  budget.AlertRow
		want string
	}{
		{
			"over category",
			overRow(),
			"[OVER] CATEGORY :: Groceries (2025-08) spend 16,500.00 / cap 15,000.00 (110.0% used, remaining -1,500.00)",
		},
		{
			"uncapped total",
			budget.AlertRow{
				Scope:    budget.ScopeTotal,
				Category: "TOTAL",
				Month:    "2025-08",
				Spend:    1234.5,
				Status:   budget.StatusNA,
			},
			"[N/A] TOTAL (2025-08) spend 1,234.50 / cap n/a (n/a used, remaining n/a)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAlertLine(tt.row); got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999.999, "1,000.00"},
		{1234567.89, "1,234,567.89"},
		{-1500, "-1,500.00"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
