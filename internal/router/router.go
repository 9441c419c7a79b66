package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gh-telegram-relay/internal/model"
)

// Route delivers event to every rule whose repository pattern and event filter
// both match, in rule order. A failing destination never stops the remaining
// ones; failures are only reported in the output.
func (e *Engine) Route(ctx context.Context, event model.Event) RouteOutput {
	out := RouteOutput{EventKey: EventKey(event)}

	var message string
	for _, rule := range e.rules {
		if !MatchRepository(rule.RepoPattern, event.Repository.FullName) {
			continue
		}
		if !MatchKind(rule.Events, out.EventKey, event.Kind) {
			continue
		}

		if out.Matched == 0 {
			message = e.format(event)
		}
		out.Matched++

		e.l.Infof(ctx, "%s: routing %s from %s to %s", LogPrefixRoute, out.EventKey, event.Repository.FullName, rule.Destination)

		result := e.deliver(ctx, rule, message)
		if result.Err != nil {
			out.Failed++
			e.l.Warnf(ctx, "%s: delivery to %s failed: %v", LogPrefixRoute, rule.Destination, result.Err)
		} else {
			out.Delivered++
		}
		out.Results = append(out.Results, result)

		if e.observer != nil {
			e.observer.ObserveDelivery(result)
		}
	}

	if out.Matched == 0 {
		e.l.Debugf(ctx, "%s: no rule matches %s from %s", LogPrefixRoute, out.EventKey, event.Repository.FullName)
	}

	return out
}

// deliver runs one send attempt, turning a panicking sender into a failed result.
func (e *Engine) deliver(ctx context.Context, rule model.SubscriptionRule, message string) (result DeliveryResult) {
	result = DeliveryResult{Destination: rule.Destination, Pattern: rule.RepoPattern}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("sender panicked: %v", r)
		}
		result.Duration = time.Since(start)
	}()

	result.Err = e.sender.Send(ctx, rule.Destination, message)
	return result
}

// EventKey is "kind" for events without an action and "kind.action" otherwise.
func EventKey(event model.Event) string {
	if event.Action == nil {
		return event.Kind
	}
	return event.Kind + keySeparator + *event.Action
}

// MatchRepository matches a full repository name against "*", a prefix
// pattern ending in "*", or an exact name.
func MatchRepository(pattern, fullName string) bool {
	if pattern == model.Wildcard {
		return true
	}
	if strings.HasSuffix(pattern, model.Wildcard) {
		return strings.HasPrefix(fullName, strings.TrimRight(pattern, model.Wildcard))
	}
	return pattern == fullName
}

// MatchKind reports whether filters contain "*", the composite key or the bare kind.
func MatchKind(filters []string, key, kind string) bool {
	for _, f := range filters {
		if f == model.Wildcard || f == key || f == kind {
			return true
		}
	}
	return false
}
