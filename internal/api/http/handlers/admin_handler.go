package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sakalaundry/laundry-api/internal/api/dto"
	"github.com/sakalaundry/laundry-api/internal/domain"
	"github.com/sakalaundry/laundry-api/internal/service"
	apperrors "github.com/sakalaundry/laundry-api/pkg/util"
)

// AdminHandler exposes the operations dashboard endpoints. Every route is
// gated by the auth middleware plus the admin role guard.
type AdminHandler struct {
	orders *service.OrderService
	auth   *service.AuthService
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(orderService *service.OrderService, authService *service.AuthService) *AdminHandler {
	return &AdminHandler{orders: orderService, auth: authService}
}

// ListOrders handles GET /admin/orders.
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.orders.AdminListAllOrders(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.ToOrderViews(orders))
}

// SetOrderStatus handles PATCH /admin/orders/:id/status.
func (h *AdminHandler) SetOrderStatus(c *fiber.Ctx) error {
	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid JSON in request body", nil)
	}

	order, err := h.orders.AdminSetStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToOrderView(order))
}

// DeleteOrder handles DELETE /admin/orders/:id.
func (h *AdminHandler) DeleteOrder(c *fiber.Ctx) error {
	if err := h.orders.AdminDeleteOrder(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Order deleted"})
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.auth.AdminListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.ToUserViews(users))
}

// SetUserRole handles PATCH /admin/users/:id/role.
func (h *AdminHandler) SetUserRole(c *fiber.Ctx) error {
	var req dto.RoleUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid JSON in request body", nil)
	}

	user, err := h.auth.AdminSetRole(c.UserContext(), c.Params("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(dto.ToUserView(user))
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	counts, err := h.orders.AdminStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.ToStatsResponse(counts))
}
