package model

// Wildcard matches any repository or any event kind.
const Wildcard = "*"

// SubscriptionRule sends events of the selected kinds from matching
// repositories to one destination.
type SubscriptionRule struct {
	RepoPattern string   // "*", "owner/*" style prefix, or an exact full name
	Destination string   // Telegram chat id or @channel
	Events      []string // "*", "kind" or "kind.action"
}
