package domain

import "time"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderProcessing OrderStatus = "processing"
	OrderPaid       OrderStatus = "paid"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus converts s to an OrderStatus, reporting whether it is known.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderProcessing, OrderPaid, OrderShipped, OrderDelivered, OrderCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// OrderLine is a requested product and quantity when placing an order.
type OrderLine struct {
	ProductID string
	Qty       int
}

// OrderItem is a persisted order line with the product name resolved.
type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
}

// Order is a placed order with its line items.
type Order struct {
	ID           string      `json:"id"`
	UserID       uint        `json:"userId"`
	PaymentID    int         `json:"paymentId"`
	DeliveryID   int         `json:"deliveryId"`
	Status       OrderStatus `json:"status"`
	Subtotal     float64     `json:"subtotal"`
	Tax          float64     `json:"tax"`
	ShippingCost float64     `json:"shippingCost"`
	GrandTotal   float64     `json:"grandTotal"`
	Items        []OrderItem `json:"items"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}
