package router

import (
	"context"
	"slices"

	"gh-telegram-relay/internal/model"
	"gh-telegram-relay/internal/notify"
	"gh-telegram-relay/pkg/log"
)

// Router fans an event out to the destinations whose rules match it.
type Router interface {
	Route(ctx context.Context, event model.Event) RouteOutput
}

// Sender delivers a formatted message to one destination.
type Sender interface {
	Send(ctx context.Context, destination, text string) error
}

// DeliveryObserver is notified after every delivery attempt.
type DeliveryObserver interface {
	ObserveDelivery(result DeliveryResult)
}

// Engine is the rule based Router. Its rule list is fixed at construction and
// shared read-only between concurrent requests.
type Engine struct {
	rules    []model.SubscriptionRule
	sender   Sender
	format   func(model.Event) string
	observer DeliveryObserver
	l        log.Logger
}

// Ensure Engine implements Router interface
var _ Router = (*Engine)(nil)

// Option customizes an Engine.
type Option func(*Engine)

// WithFormatter replaces notify.Format.
func WithFormatter(format func(model.Event) string) Option {
	return func(e *Engine) { e.format = format }
}

// WithObserver reports every delivery attempt to o.
func WithObserver(o DeliveryObserver) Option {
	return func(e *Engine) { e.observer = o }
}

// New creates an Engine over a copy of rules.
func New(l log.Logger, rules []model.SubscriptionRule, sender Sender, opts ...Option) *Engine {
	e := &Engine{
		rules:  slices.Clone(rules),
		sender: sender,
		format: notify.Format,
		l:      l,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
