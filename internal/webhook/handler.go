package webhook

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"gh-telegram-relay/internal/model"
	"gh-telegram-relay/internal/router"
	pkgResponse "gh-telegram-relay/pkg/response"
)

// HandleGitHubWebhook verifies, normalizes and relays one GitHub webhook delivery.
// @Summary GitHub webhook
// @Description Relays a signed GitHub event to every subscribed Telegram chat
// @Tags Webhook
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param X-Hub-Signature-256 header string true "sha256=<hex HMAC of the body>"
// @Param X-GitHub-Event header string true "Event kind"
// @Param X-GitHub-Delivery header string false "Delivery id"
// @Success 200 {object} response.Resp "Relayed, ignored or duplicate"
// @Failure 400 {object} response.Resp "Malformed body"
// @Failure 401 {object} response.Resp "Bad signature"
// @Failure 403 {object} response.Resp "Source IP not allowed"
// @Failure 500 {object} response.Resp "Every delivery failed"
// @Router /webhook/github [post]
func (h *Handler) HandleGitHubWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	// Read body
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.l.Errorf(ctx, "webhook.handler: failed to read body: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	if err := h.security.ValidateIPAddress(c.ClientIP()); err != nil {
		h.l.Warnf(ctx, "webhook.handler: %v", err)
		h.observe(model.KindUnknown, OutcomeForbidden)
		pkgResponse.Forbidden(c)
		return
	}

	// Verify signature before looking at anything else in the request
	if err := h.security.ValidateGitHubSignature(body, c.GetHeader(HeaderSignature)); err != nil {
		h.l.Warnf(ctx, "webhook.handler: signature verification failed: %v", err)
		h.observe(model.KindUnknown, OutcomeUnauthorized)
		pkgResponse.Unauthorized(c)
		return
	}

	kind := c.GetHeader(HeaderEvent)
	if kind == "" {
		kind = model.KindUnknown
	}
	deliveryID := c.GetHeader(HeaderDelivery)

	h.l.Infof(ctx, "webhook.handler: received %s delivery %s", kind, deliveryID)

	if !h.replay.Claim(deliveryID) {
		h.l.Infof(ctx, "webhook.handler: delivery %s already relayed, skipping", deliveryID)
		h.observe(kind, OutcomeDuplicate)
		pkgResponse.OK(c, gin.H{"status": OutcomeDuplicate})
		return
	}

	event, err := h.parser.Parse(ctx, kind, body)
	if err != nil {
		h.l.Errorf(ctx, "webhook.handler: failed to parse %s event: %v", kind, err)
		h.observe(kind, OutcomeMalformed)
		h.replay.Release(deliveryID)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Deliveries outlive a client that hangs up mid fan-out.
	out := h.router.Route(context.WithoutCancel(ctx), event)

	outcome := routeOutcome(out)
	h.observe(kind, outcome)

	if out.AllFailed() {
		h.l.Errorf(ctx, "webhook.handler: all %d deliveries failed for %s", out.Matched, out.EventKey)
		h.replay.Release(deliveryID)
		pkgResponse.InternalError(c, router.ErrAllDeliveriesFailed)
		return
	}

	pkgResponse.OK(c, gin.H{
		"status":    outcome,
		"event":     out.EventKey,
		"matched":   out.Matched,
		"delivered": out.Delivered,
		"failed":    out.Failed,
	})
}

func routeOutcome(out router.RouteOutput) string {
	switch {
	case out.Matched == 0:
		return OutcomeNoRoute
	case out.Failed == 0:
		return OutcomeDelivered
	case out.Delivered == 0:
		return OutcomeFailed
	default:
		return OutcomePartial
	}
}
