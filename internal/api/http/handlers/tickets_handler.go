package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sakalaundry/laundry-api/internal/api/dto"
	"github.com/sakalaundry/laundry-api/internal/domain"
	"github.com/sakalaundry/laundry-api/internal/service"
	apperrors "github.com/sakalaundry/laundry-api/pkg/util"
)

// TicketsHandler exposes the support ticket endpoints. Intake is public;
// the rest is admin-only.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService}
}

// Create handles POST /api/tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.TicketCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid JSON in request body", nil)
	}

	ticket, err := h.tickets.CreateTicket(c.UserContext(), service.TicketCreateInput{
		UserName: req.UserName,
		Mobile:   req.Mobile,
		OrderID:  req.OrderID,
		Issue:    req.Issue,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.ToTicketView(ticket))
}

// List handles GET /api/tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	tickets, err := h.tickets.AdminListTickets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.ToTicketViews(tickets))
}

// Reply handles POST /api/tickets/:id/reply.
func (h *TicketsHandler) Reply(c *fiber.Ctx) error {
	var req dto.TicketReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid JSON in request body", nil)
	}

	ticket, err := h.tickets.AdminReply(c.UserContext(), c.Params("id"), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToTicketView(ticket))
}

// Close handles POST /api/tickets/:id/close.
func (h *TicketsHandler) Close(c *fiber.Ctx) error {
	ticket, err := h.tickets.AdminClose(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ToTicketView(ticket))
}

// SetStatus handles PUT /api/tickets/:id.
func (h *TicketsHandler) SetStatus(c *fiber.Ctx) error {
	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid JSON in request body", nil)
	}

	ticket, err := h.tickets.AdminSetStatus(c.UserContext(), c.Params("id"), domain.TicketStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(dto.ToTicketView(ticket))
}
