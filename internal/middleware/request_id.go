package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gh-telegram-relay/pkg/log"
)

const (
	HeaderRequestID      = "X-Request-ID"
	headerGitHubDelivery = "X-GitHub-Delivery"
)

// RequestID tags the request context with an id for log correlation. GitHub's
// delivery id is preferred so logs line up with the hook's delivery history.
func (mw Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerGitHubDelivery)
		if id == "" {
			id = c.GetHeader(HeaderRequestID)
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Request = c.Request.WithContext(log.WithRequestID(c.Request.Context(), id))
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
