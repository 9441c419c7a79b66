package router

import "time"

// DeliveryResult is the outcome of one delivery attempt.
type DeliveryResult struct {
	Destination string
	Pattern     string // Repository pattern of the rule that matched
	Err         error  // nil on success
	Duration    time.Duration
}

// RouteOutput summarizes the fan-out of one event.
type RouteOutput struct {
	EventKey  string
	Matched   int
	Delivered int
	Failed    int
	Results   []DeliveryResult // In rule order
}

// AllFailed reports whether the event had destinations and none of them got it.
func (o RouteOutput) AllFailed() bool {
	return o.Matched > 0 && o.Delivered == 0
}
