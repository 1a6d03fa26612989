package handlers

import (
	"bufio"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// StreamHandler serves live event streams over SSE. Each connection
// subscribes to one topic on the hub and forwards frames until the
// client disconnects.
type StreamHandler struct {
	hub     *events.Hub
	tickets *service.TicketService
}

// NewStreamHandler constructs handler.
func NewStreamHandler(hub *events.Hub, tickets *service.TicketService) *StreamHandler {
	return &StreamHandler{hub: hub, tickets: tickets}
}

// TicketStream GET /tickets/:id/stream.
func (h *StreamHandler) TicketStream(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.tickets.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if principal.Tenant != nil && principal.Tenant.ID != ticket.TenantID {
		return apperrors.NewForbidden("access denied")
	}
	return h.stream(c, events.TicketTopic(ticket.ID))
}

// DashboardStream GET /staff/dashboard/stream.
func (h *StreamHandler) DashboardStream(c *fiber.Ctx) error {
	return h.stream(c, events.TopicAdminDashboard)
}

func (h *StreamHandler) stream(c *fiber.Ctx, topic string) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	sub := h.hub.Subscribe(topic)
	done := c.Context().Done()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer h.hub.Unsubscribe(topic, sub)
		for {
			select {
			case frame, open := <-sub:
				if !open {
					return
				}
				if _, err := fmt.Fprintf(w, "data: %s\n\n", frame); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}))
	return nil
}
