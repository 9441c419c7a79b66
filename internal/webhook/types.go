package webhook

import "time"

// GitHub request headers.
const (
	HeaderSignature = "X-Hub-Signature-256"
	HeaderEvent     = "X-GitHub-Event"
	HeaderDelivery  = "X-GitHub-Delivery"

	signaturePrefix = "sha256="
)

// Outcomes reported to the EventObserver.
const (
	OutcomeForbidden    = "forbidden"
	OutcomeUnauthorized = "unauthorized"
	OutcomeMalformed    = "malformed"
	OutcomeDuplicate    = "duplicate"
	OutcomeNoRoute      = "no_route"
	OutcomeDelivered    = "delivered"
	OutcomePartial      = "partial"
	OutcomeFailed       = "failed"
)

// SecurityConfig holds webhook security settings
type SecurityConfig struct {
	Secret     string   // Shared secret for signature verification
	AllowedIPs []string // IP whitelist (optional)
}

// ReplayConfig bounds the in-memory redelivery guard. Size 0 disables it.
type ReplayConfig struct {
	Size   int
	Window time.Duration
}
