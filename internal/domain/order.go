package domain

import (
	"strings"
	"time"
)

// ServiceType enumerates the laundry services a customer can order.
type ServiceType string

const (
	ServiceWashAndFold ServiceType = "Wash and Fold"
	ServiceWashAndIron ServiceType = "Wash and Iron"
	ServiceIron        ServiceType = "Iron"
	ServiceDryClean    ServiceType = "Dry Clean"
)

// ServiceTypes lists the closed set of orderable services.
var ServiceTypes = []ServiceType{ServiceWashAndFold, ServiceWashAndIron, ServiceIron, ServiceDryClean}

// ValidServiceType reports whether s is an orderable service.
func ValidServiceType(s ServiceType) bool {
	for _, st := range ServiceTypes {
		if s == st {
			return true
		}
	}
	return false
}

// DeliveryClass selects the turnaround for an order.
type DeliveryClass string

const (
	DeliveryRegular DeliveryClass = "regular"
	DeliveryExpress DeliveryClass = "express"
)

// OrderStatus enumerates canonical order lifecycle states.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusInProgress OrderStatus = "In Progress"
	OrderStatusDelivering OrderStatus = "Delivering"
	OrderStatusCompleted  OrderStatus = "Completed"
)

// OrderStatuses lists the canonical statuses in lifecycle order.
var OrderStatuses = []OrderStatus{OrderStatusPending, OrderStatusInProgress, OrderStatusDelivering, OrderStatusCompleted}

// OrderStatusNames returns the canonical status names for error messages.
func OrderStatusNames() []string {
	names := make([]string, len(OrderStatuses))
	for i, s := range OrderStatuses {
		names[i] = string(s)
	}
	return names
}

// NormalizeOrderStatus maps free-form status input onto the canonical set.
// Recognized aliases: "delivered"/"complete"/"completed" for Completed,
// anything containing "deliver" for Delivering, "in progress"/"progress"
// for In Progress, and "pending" for Pending. Unrecognized input returns
// ok=false rather than falling through to a guess.
func NormalizeOrderStatus(input string) (OrderStatus, bool) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return "", false
	}
	switch {
	case s == "delivered" || s == "complete" || s == "completed":
		return OrderStatusCompleted, true
	case strings.Contains(s, "deliver"):
		return OrderStatusDelivering, true
	case s == "in progress" || s == "progress":
		return OrderStatusInProgress, true
	case s == "pending":
		return OrderStatusPending, true
	}

	title := titleCase(s)
	for _, canonical := range OrderStatuses {
		if OrderStatus(title) == canonical {
			return canonical, true
		}
	}
	return "", false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Order is the aggregate for a pickup request. OrderNumber is assigned once
// from the shared sequence and never reused.
type Order struct {
	ID            string        `json:"id"`
	OrderNumber   int64         `json:"orderNumber"`
	UserID        string        `json:"userId"`
	Service       ServiceType   `json:"service"`
	ClothTypes    []string      `json:"clothTypes"`
	PickupAddress string        `json:"pickupAddress"`
	Lat           *float64      `json:"lat,omitempty"`
	Lng           *float64      `json:"lng,omitempty"`
	Phone         string        `json:"phone"`
	Notes         string        `json:"notes"`
	PickupDate    string        `json:"pickupDate"`
	PickupTime    string        `json:"pickupTime"`
	Delivery      DeliveryClass `json:"delivery"`
	Status        OrderStatus   `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	// Owner display fields, populated on admin listings.
	OwnerName  string  `json:"-"`
	OwnerEmail *string `json:"-"`
	OwnerPhone string  `json:"-"`
}
