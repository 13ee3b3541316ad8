package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sakalaundry/laundry-api/internal/domain"
	"github.com/sakalaundry/laundry-api/internal/events"
	"github.com/sakalaundry/laundry-api/internal/repository"
	apperrors "github.com/sakalaundry/laundry-api/pkg/util"
)

// OrderService coordinates the order lifecycle.
type OrderService struct {
	orders     repository.OrderRepository
	sequences  repository.SequenceRepository
	dispatcher events.Dispatcher
}

// OrderDependencies bundles requirements for the order service.
type OrderDependencies struct {
	OrderRepo    repository.OrderRepository
	SequenceRepo repository.SequenceRepository
	Dispatcher   events.Dispatcher
}

// OrderCreateInput describes the order creation payload.
type OrderCreateInput struct {
	Service       string
	ClothTypes    []string
	PickupAddress string
	Lat           *float64
	Lng           *float64
	Phone         string
	Notes         string
	PickupDate    string
	PickupTime    string
	Delivery      string
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	return &OrderService{
		orders:     deps.OrderRepo,
		sequences:  deps.SequenceRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateOrder validates the request, assigns the next order number and
// persists the order with status forced to Pending regardless of client
// input. If the sequence increment fails the order is not created; there
// is no fallback numbering. The created order is announced on the admin
// channel after the write commits.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, input OrderCreateInput) (*domain.Order, error) {
	service := domain.ServiceType(strings.TrimSpace(input.Service))
	if service == "" {
		return nil, apperrors.NewValidationError("service is required", map[string]any{"field": "service"})
	}
	if !domain.ValidServiceType(service) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("service must be one of: %s", joinServiceTypes()),
			map[string]any{"field": "service"})
	}

	delivery := domain.DeliveryClass(input.Delivery)
	if delivery != domain.DeliveryExpress {
		delivery = domain.DeliveryRegular
	}

	orderNumber, err := s.sequences.Next(ctx, repository.SequenceOrderNumber)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		OrderNumber:   orderNumber,
		UserID:        userID,
		Service:       service,
		ClothTypes:    input.ClothTypes,
		PickupAddress: input.PickupAddress,
		Lat:           input.Lat,
		Lng:           input.Lng,
		Phone:         input.Phone,
		Notes:         input.Notes,
		PickupDate:    input.PickupDate,
		PickupTime:    input.PickupTime,
		Delivery:      delivery,
		Status:        domain.OrderStatusPending,
	}
	if order.ClothTypes == nil {
		order.ClothTypes = []string{}
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, events.OrderEvent(events.EventOrderCreated, order))
	return order, nil
}

// ListOwnOrders returns the caller's orders newest-first. There is no
// cross-user visibility.
func (s *OrderService) ListOwnOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// CancelOrder deletes an order owned by the caller. Cancelling another
// user's order is indistinguishable from cancelling a missing one.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID string) error {
	if err := s.orders.DeleteByIDAndUser(ctx, orderID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("order")
		}
		return err
	}
	return nil
}

// AdminListAllOrders returns every order with owner display fields.
func (s *OrderService) AdminListAllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListAllWithOwners(ctx)
}

// AdminSetStatus normalizes the requested status onto the canonical set
// and applies it. Any canonical target is accepted at any time; this is an
// operator override, not a forward-only state machine. The updated order
// is announced on the admin channel.
func (s *OrderService) AdminSetStatus(ctx context.Context, orderID, requestedStatus string) (*domain.Order, error) {
	status, ok := domain.NormalizeOrderStatus(requestedStatus)
	if !ok {
		return nil, apperrors.NewInvalidStatus(domain.OrderStatusNames())
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order")
		}
		return nil, err
	}

	s.publish(ctx, events.OrderEvent(events.EventOrderUpdated, order))
	return order, nil
}

// AdminDeleteOrder hard-deletes an order and announces the removal.
func (s *OrderService) AdminDeleteOrder(ctx context.Context, orderID string) error {
	if err := s.orders.DeleteByID(ctx, orderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("order")
		}
		return err
	}

	s.publish(ctx, events.OrderDeletedEvent(orderID))
	return nil
}

// AdminStats returns order totals per status for the dashboard.
func (s *OrderService) AdminStats(ctx context.Context) (*repository.StatusCounts, error) {
	return s.orders.CountByStatus(ctx)
}

func (s *OrderService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func joinServiceTypes() string {
	names := make([]string, len(domain.ServiceTypes))
	for i, st := range domain.ServiceTypes {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}
