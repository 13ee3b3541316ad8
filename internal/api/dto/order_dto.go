package dto

import (
	"time"

	"github.com/sakalaundry/laundry-api/internal/domain"
	"github.com/sakalaundry/laundry-api/internal/repository"
)

// OrderCreateRequest payload for a pickup request.
type OrderCreateRequest struct {
	Service       string   `json:"service"`
	ClothTypes    []string `json:"clothTypes"`
	PickupAddress string   `json:"pickupAddress"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	Phone         string   `json:"phone"`
	Notes         string   `json:"notes"`
	PickupDate    string   `json:"pickupDate"`
	PickupTime    string   `json:"pickupTime"`
	Delivery      string   `json:"delivery"`
}

// StatusUpdateRequest payload for admin status changes.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// OrderOwnerView carries owner display fields on admin listings.
type OrderOwnerView struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone string  `json:"phone"`
}

// OrderView is the order representation returned to clients.
type OrderView struct {
	ID            string          `json:"id"`
	OrderNumber   int64           `json:"orderNumber"`
	UserID        string          `json:"userId"`
	Service       string          `json:"service"`
	ClothTypes    []string        `json:"clothTypes"`
	PickupAddress string          `json:"pickupAddress"`
	Lat           *float64        `json:"lat,omitempty"`
	Lng           *float64        `json:"lng,omitempty"`
	Phone         string          `json:"phone"`
	Notes         string          `json:"notes"`
	PickupDate    string          `json:"pickupDate"`
	PickupTime    string          `json:"pickupTime"`
	Delivery      string          `json:"delivery"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	User          *OrderOwnerView `json:"user,omitempty"`
}

// StatsResponse carries order totals for the admin dashboard.
type StatsResponse struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Delivering int64 `json:"delivering"`
	Completed  int64 `json:"completed"`
}

// ToOrderView maps a domain order; owner fields are included when present.
func ToOrderView(order *domain.Order) OrderView {
	view := OrderView{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		Service:       string(order.Service),
		ClothTypes:    order.ClothTypes,
		PickupAddress: order.PickupAddress,
		Lat:           order.Lat,
		Lng:           order.Lng,
		Phone:         order.Phone,
		Notes:         order.Notes,
		PickupDate:    order.PickupDate,
		PickupTime:    order.PickupTime,
		Delivery:      string(order.Delivery),
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if view.ClothTypes == nil {
		view.ClothTypes = []string{}
	}
	if order.OwnerName != "" || order.OwnerPhone != "" {
		view.User = &OrderOwnerView{
			Name:  order.OwnerName,
			Email: order.OwnerEmail,
			Phone: order.OwnerPhone,
		}
	}
	return view
}

// ToOrderViews maps a slice of orders.
func ToOrderViews(orders []domain.Order) []OrderView {
	views := make([]OrderView, len(orders))
	for i := range orders {
		views[i] = ToOrderView(&orders[i])
	}
	return views
}

// ToStatsResponse maps repository counts.
func ToStatsResponse(counts *repository.StatusCounts) StatsResponse {
	return StatsResponse{
		Total:      counts.Total,
		Pending:    counts.Pending,
		InProgress: counts.InProgress,
		Delivering: counts.Delivering,
		Completed:  counts.Completed,
	}
}
