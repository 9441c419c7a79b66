package webhook

import (
	"context"

	"gh-telegram-relay/internal/model"
	"gh-telegram-relay/internal/router"
	pkgLog "gh-telegram-relay/pkg/log"
)

// Parser turns a raw webhook body into an Event.
type Parser interface {
	Parse(ctx context.Context, kind string, body []byte) (model.Event, error)
}

// EventObserver is notified once per webhook request with its outcome.
type EventObserver interface {
	ObserveEvent(kind, outcome string)
}

type Handler struct {
	router   router.Router
	security *SecurityValidator
	parser   Parser
	replay   *replayGuard
	observer EventObserver
	l        pkgLog.Logger
}

// Option customizes a Handler.
type Option func(*Handler)

// WithParser replaces the GitHub parser.
func WithParser(p Parser) Option {
	return func(h *Handler) { h.parser = p }
}

// WithObserver reports request outcomes to o.
func WithObserver(o EventObserver) Option {
	return func(h *Handler) { h.observer = o }
}

// WithReplayGuard enables the redelivery guard. A zero Size leaves it off.
func WithReplayGuard(cfg ReplayConfig) Option {
	return func(h *Handler) {
		if cfg.Window <= 0 {
			cfg.Window = defaultReplayWindow
		}
		h.replay = newReplayGuard(cfg)
	}
}

func NewHandler(
	rt router.Router,
	securityConfig SecurityConfig,
	l pkgLog.Logger,
	opts ...Option,
) *Handler {
	h := &Handler{
		router:   rt,
		security: NewSecurityValidator(securityConfig),
		parser:   NewGitHubParser(l),
		l:        l,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) observe(kind, outcome string) {
	if h.observer != nil {
		h.observer.ObserveEvent(kind, outcome)
	}
}
