package stream

import (
	"context"

	"github.com/gin-gonic/gin"

	"invoiceflow/internal/domain"
)

// SSESink writes events to a gin response as server-sent "data" events,
// flushing after each one.
type SSESink struct {
	c *gin.Context
}

// NewSSESink prepares the response headers for an event stream.
func NewSSESink(c *gin.Context) *SSESink {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	return &SSESink{c: c}
}

func (s *SSESink) Write(ctx context.Context, event domain.StreamEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.c.Request.Context().Err(); err != nil {
		return err
	}
	s.c.SSEvent("data", event)
	s.c.Writer.Flush()
	return nil
}
