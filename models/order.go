package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle status of an order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPackaging      OrderStatus = "packaging"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusReturned       OrderStatus = "returned"
	OrderStatusFailed         OrderStatus = "failed"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// PaymentStatus tracks the payment side of an order independently of
// fulfilment.
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// allowedTransitions maps each status to the set of statuses reachable from
// it. cancelled is terminal. There are no self-loops: requesting the current
// status is always rejected.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusPackaging, OrderStatusCancelled},
	OrderStatusPackaging:      {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusFailed},
	OrderStatusDelivered:      {OrderStatusReturned},
	OrderStatusFailed:         {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusReturned:       {OrderStatusConfirmed},
	OrderStatusCancelled:      {},
}

// ValidOrderStatus reports whether s is one of the enumerated statuses.
func ValidOrderStatus(s OrderStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether the order may move from its current status
// to next.
func (o *Order) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range allowedTransitions[o.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedNextStatuses returns the statuses reachable from the order's current
// status.
func (o *Order) AllowedNextStatuses() []OrderStatus {
	next := allowedTransitions[o.Status]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// IsEditable reports whether the order may still be modified. Orders are
// editable only before they leave the store.
func (o *Order) IsEditable() bool {
	switch o.Status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPackaging:
		return true
	}
	return false
}

// IsCancellable mirrors IsEditable: an order can be cancelled while pending,
// confirmed or packaging.
func (o *Order) IsCancellable() bool {
	return o.IsEditable()
}

// Order is a customer order against a single store.
type Order struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber string      `gorm:"type:varchar(40);uniqueIndex;not null" json:"order_number"`
	UserID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	StoreID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"store_id"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`

	// Monetary fields. Invariants:
	//   Total = Subtotal + Tax + Shipping - Discount
	//   VendorPayout = Total - Commission
	Subtotal     float64 `gorm:"not null" json:"subtotal"`
	Tax          float64 `gorm:"not null;default:0" json:"tax"`
	Shipping     float64 `gorm:"not null;default:0" json:"shipping"`
	Discount     float64 `gorm:"not null;default:0" json:"discount"`
	Total        float64 `gorm:"not null" json:"total"`
	Commission   float64 `gorm:"not null;default:0" json:"commission"`
	VendorPayout float64 `gorm:"not null;default:0" json:"vendor_payout"`

	ShippingAddress Address `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	BillingAddress  Address `gorm:"embedded;embeddedPrefix:billing_" json:"billing_address"`

	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

// OrderItem is a single product line on an order. Price is the unit selling
// price captured at checkout time.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
}

// Address is a structured shipping/billing address embedded on the order row.
type Address struct {
	Line1   string `gorm:"type:varchar(255)" json:"line1"`
	Line2   string `gorm:"type:varchar(255)" json:"line2,omitempty"`
	City    string `gorm:"type:varchar(100)" json:"city"`
	State   string `gorm:"type:varchar(100)" json:"state"`
	Country string `gorm:"type:varchar(100)" json:"country"`
	Pincode string `gorm:"type:varchar(20)" json:"pincode"`
	Phone   string `gorm:"type:varchar(20)" json:"phone,omitempty"`
}

// CreateOrderItemRequest is one requested line at checkout.
type CreateOrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest is the checkout payload. All items must belong to the
// same store.
type CreateOrderRequest struct {
	StoreID         string                   `json:"store_id" binding:"required,uuid"`
	Items           []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress Address                  `json:"shipping_address" binding:"required"`
	BillingAddress  Address                  `json:"billing_address"`
	Shipping        float64                  `json:"shipping" binding:"gte=0"`
	Discount        float64                  `json:"discount" binding:"gte=0"`
}

// UpdateStatusRequest is the payload for PATCH /orders/:id/status.
type UpdateStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}

// PaymentCallbackRequest is the payload posted by the payment layer after a
// gateway callback.
type PaymentCallbackRequest struct {
	PaymentStatus PaymentStatus `json:"payment_status" binding:"required,oneof=paid refunded failed"`
	Reference     string        `json:"reference"`
}

// OrderStatusChangedEvent is published to Kafka/SNS after a successful
// transition.
type OrderStatusChangedEvent struct {
	EventType   string      `json:"event_type"`
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	StoreID     string      `json:"store_id"`
	FromStatus  OrderStatus `json:"from_status"`
	ToStatus    OrderStatus `json:"to_status"`
	Timestamp   time.Time   `json:"timestamp"`
}
