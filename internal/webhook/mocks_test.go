package webhook_test

import (
	"context"
	"fmt"
	"sync"

	"gh-telegram-relay/internal/model"
	"gh-telegram-relay/internal/router"
)

// ── Mocks ──────────────────────────────────────────────────────────────────

type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                 {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, fmt.Sprintf(format, args...))
}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

func (m *mockLogger) warnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.warns)
}

// countingParser wraps a real parser and counts invocations.
type countingParser struct {
	inner interface {
		Parse(ctx context.Context, kind string, body []byte) (model.Event, error)
	}
	calls int
}

func (p *countingParser) Parse(ctx context.Context, kind string, body []byte) (model.Event, error) {
	p.calls++
	return p.inner.Parse(ctx, kind, body)
}

// mockRouter records routed events and returns a canned output.
type mockRouter struct {
	output router.RouteOutput
	events []model.Event
	ctxErr error
}

func (m *mockRouter) Route(ctx context.Context, event model.Event) router.RouteOutput {
	m.events = append(m.events, event)
	m.ctxErr = ctx.Err()
	out := m.output
	if out.EventKey == "" {
		out.EventKey = router.EventKey(event)
	}
	return out
}

type mockObserver struct {
	outcomes []string
}

func (m *mockObserver) ObserveEvent(kind, outcome string) {
	m.outcomes = append(m.outcomes, kind+"/"+outcome)
}
