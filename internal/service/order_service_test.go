package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakalaundry/laundry-api/internal/domain"
	"github.com/sakalaundry/laundry-api/internal/events"
	"github.com/sakalaundry/laundry-api/internal/repository"
	apperrors "github.com/sakalaundry/laundry-api/pkg/util"
)

// fakeOrderRepo keeps orders in memory and mimics the store's ErrNoRows
// behavior on misses.
type fakeOrderRepo struct {
	mu     sync.Mutex
	nextID int
	orders map[string]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	order.ID = fmt.Sprintf("order-%d", r.nextID)
	stored := *order
	r.orders[order.ID] = &stored
	return nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (r *fakeOrderRepo) DeleteByIDAndUser(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok || order.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) ListAllWithOwners(_ context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Order
	for _, order := range r.orders {
		result = append(result, *order)
	}
	return result, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	order.Status = status
	updated := *order
	return &updated, nil
}

func (r *fakeOrderRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) CountByStatus(_ context.Context) (*repository.StatusCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := &repository.StatusCounts{}
	for _, order := range r.orders {
		counts.Total++
		switch order.Status {
		case domain.OrderStatusPending:
			counts.Pending++
		case domain.OrderStatusInProgress:
			counts.InProgress++
		case domain.OrderStatusDelivering:
			counts.Delivering++
		case domain.OrderStatusCompleted:
			counts.Completed++
		}
	}
	return counts, nil
}

// fakeSequenceRepo hands out strictly increasing numbers under a lock.
type fakeSequenceRepo struct {
	mu    sync.Mutex
	value int64
	fail  error
}

func (r *fakeSequenceRepo) Next(_ context.Context, _ string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return 0, r.fail
	}
	r.value++
	return r.value, nil
}

// eventRecorder captures everything published during a test.
type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) subscribe(dispatcher events.Dispatcher, types ...events.EventType) {
	for _, eventType := range types {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			r.mu.Lock()
			r.events = append(r.events, event)
			r.mu.Unlock()
			return nil
		})
	}
}

func (r *eventRecorder) all() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event{}, r.events...)
}

func newOrderFixture(t *testing.T) (*OrderService, *fakeOrderRepo, *fakeSequenceRepo, *eventRecorder) {
	t.Helper()
	orders := newFakeOrderRepo()
	sequences := &fakeSequenceRepo{}
	dispatcher := events.NewInMemoryDispatcher()
	recorder := &eventRecorder{}
	recorder.subscribe(dispatcher, events.EventOrderCreated, events.EventOrderUpdated, events.EventOrderDeleted)

	svc := NewOrderService(OrderDependencies{
		OrderRepo:    orders,
		SequenceRepo: sequences,
		Dispatcher:   dispatcher,
	})
	return svc, orders, sequences, recorder
}

func validOrderInput() OrderCreateInput {
	return OrderCreateInput{
		Service:       "Wash and Fold",
		ClothTypes:    []string{"shirts", "trousers"},
		PickupAddress: "12 Laundry Lane",
		Phone:         "09123456789",
		PickupDate:    "2026-09-01",
		PickupTime:    "10:00",
		Delivery:      "express",
	}
}

func TestCreateOrderAssignsNumberAndForcesPending(t *testing.T) {
	svc, _, _, recorder := newOrderFixture(t)

	order, err := svc.CreateOrder(context.Background(), "user-1", validOrderInput())
	require.NoError(t, err)

	assert.EqualValues(t, 1, order.OrderNumber)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.DeliveryExpress, order.Delivery)

	published := recorder.all()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventOrderCreated, published[0].Type)
}

func TestCreateOrderRejectsUnknownService(t *testing.T) {
	svc, _, _, recorder := newOrderFixture(t)

	input := validOrderInput()
	input.Service = "Fold and Run"
	_, err := svc.CreateOrder(context.Background(), "user-1", input)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Empty(t, recorder.all())
}

func TestCreateOrderDefaultsDeliveryAndClothTypes(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t)

	input := validOrderInput()
	input.Delivery = "overnight"
	input.ClothTypes = nil
	order, err := svc.CreateOrder(context.Background(), "user-1", input)
	require.NoError(t, err)

	assert.Equal(t, domain.DeliveryRegular, order.Delivery)
	assert.NotNil(t, order.ClothTypes)
	assert.Empty(t, order.ClothTypes)
}

func TestCreateOrderFailsClosedWhenSequenceUnavailable(t *testing.T) {
	svc, orders, sequences, recorder := newOrderFixture(t)
	sequences.fail = fmt.Errorf("sequence store down")

	_, err := svc.CreateOrder(context.Background(), "user-1", validOrderInput())
	require.Error(t, err)

	all, _ := orders.ListAllWithOwners(context.Background())
	assert.Empty(t, all, "no order may be written without a number")
	assert.Empty(t, recorder.all())
}

func TestCreateOrderConcurrentNumbersAreDistinct(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t)

	const n = 32
	numbers := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order, err := svc.CreateOrder(context.Background(), "user-1", validOrderInput())
			if assert.NoError(t, err) {
				numbers <- order.OrderNumber
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[int64]bool)
	for number := range numbers {
		assert.False(t, seen[number], "order number %d issued twice", number)
		seen[number] = true
	}
	assert.Len(t, seen, n)
}

func TestCancelOrderIsOwnerScoped(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t)

	order, err := svc.CreateOrder(context.Background(), "user-1", validOrderInput())
	require.NoError(t, err)

	// Another user cancelling looks exactly like a missing order.
	err = svc.CancelOrder(context.Background(), "user-2", order.ID)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)

	require.NoError(t, svc.CancelOrder(context.Background(), "user-1", order.ID))

	remaining, err := svc.ListOwnOrders(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestAdminSetStatusNormalizesAliases(t *testing.T) {
	svc, _, _, recorder := newOrderFixture(t)

	order, err := svc.CreateOrder(context.Background(), "user-1", validOrderInput())
	require.NoError(t, err)

	updated, err := svc.AdminSetStatus(context.Background(), order.ID, "delivered")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, updated.Status)

	// Backwards moves are allowed; this is an operator override.
	updated, err = svc.AdminSetStatus(context.Background(), order.ID, "progress")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusInProgress, updated.Status)

	published := recorder.all()
	require.Len(t, published, 3)
	assert.Equal(t, events.EventOrderUpdated, published[1].Type)
	assert.Equal(t, events.EventOrderUpdated, published[2].Type)
}

func TestAdminSetStatusRejectsUnknownAlias(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t)

	order, err := svc.CreateOrder(context.Background(), "user-1", validOrderInput())
	require.NoError(t, err)

	_, err = svc.AdminSetStatus(context.Background(), order.ID, "shipped")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)
	assert.Contains(t, domainErr.Message, "Pending")
}

func TestAdminSetStatusMissingOrder(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t)

	_, err := svc.AdminSetStatus(context.Background(), "no-such-order", "pending")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestAdminDeleteOrderAnnouncesRemoval(t *testing.T) {
	svc, _, _, recorder := newOrderFixture(t)

	order, err := svc.CreateOrder(context.Background(), "user-1", validOrderInput())
	require.NoError(t, err)

	require.NoError(t, svc.AdminDeleteOrder(context.Background(), order.ID))

	published := recorder.all()
	require.Len(t, published, 2)
	assert.Equal(t, events.EventOrderDeleted, published[1].Type)
	payload, ok := published[1].Payload.(events.DeletedPayload)
	require.True(t, ok)
	assert.Equal(t, order.ID, payload.ID)

	err = svc.AdminDeleteOrder(context.Background(), order.ID)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestAdminStatsCountsPerStatus(t *testing.T) {
	svc, _, _, _ := newOrderFixture(t)

	first, err := svc.CreateOrder(context.Background(), "user-1", validOrderInput())
	require.NoError(t, err)
	_, err = svc.CreateOrder(context.Background(), "user-2", validOrderInput())
	require.NoError(t, err)

	_, err = svc.AdminSetStatus(context.Background(), first.ID, "Delivering")
	require.NoError(t, err)

	counts, err := svc.AdminStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts.Total)
	assert.EqualValues(t, 1, counts.Pending)
	assert.EqualValues(t, 1, counts.Delivering)
	assert.EqualValues(t, 0, counts.Completed)
}
