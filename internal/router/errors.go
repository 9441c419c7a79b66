package router

import "errors"

// ErrAllDeliveriesFailed is reported when an event matched at least one rule
// and no delivery succeeded.
var ErrAllDeliveriesFailed = errors.New("all deliveries failed")
