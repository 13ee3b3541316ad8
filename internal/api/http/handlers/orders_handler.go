package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/sakalaundry/laundry-api/internal/api/dto"
	"github.com/sakalaundry/laundry-api/internal/auth"
	"github.com/sakalaundry/laundry-api/internal/service"
	apperrors "github.com/sakalaundry/laundry-api/pkg/util"
)

// OrdersHandler exposes the customer-facing order endpoints.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs the handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orderService}
}

// Create handles POST /orders.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no access token", apperrors.ReasonNoToken)
	}

	var req dto.OrderCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid JSON in request body", nil)
	}

	order, err := h.orders.CreateOrder(c.UserContext(), claims.UserID, service.OrderCreateInput{
		Service:       req.Service,
		ClothTypes:    req.ClothTypes,
		PickupAddress: req.PickupAddress,
		Lat:           req.Lat,
		Lng:           req.Lng,
		Phone:         req.Phone,
		Notes:         req.Notes,
		PickupDate:    req.PickupDate,
		PickupTime:    req.PickupTime,
		Delivery:      req.Delivery,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.ToOrderView(order))
}

// ListOwn handles GET /orders.
func (h *OrdersHandler) ListOwn(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no access token", apperrors.ReasonNoToken)
	}

	orders, err := h.orders.ListOwnOrders(c.UserContext(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dto.ToOrderViews(orders))
}

// Cancel handles DELETE /orders/:id.
func (h *OrdersHandler) Cancel(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no access token", apperrors.ReasonNoToken)
	}

	if err := h.orders.CancelOrder(c.UserContext(), claims.UserID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Order canceled"})
}
