package domain

import "time"

// OrderStatus is the lifecycle state of a placed order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderItem is a single line item of a historical order.
type OrderItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Image     string  `json:"image,omitempty"`
}

// Order is a historical order as fetched from the commerce backend. Orders
// are immutable once fetched; they are replaced wholesale on refetch, never
// mutated locally. Amounts are EUR.
type Order struct {
	ID              string      `json:"id"`
	OrderNumber     string      `json:"order_number"`
	Date            time.Time   `json:"date"`
	Status          OrderStatus `json:"status"`
	Total           float64     `json:"total"`
	Items           []OrderItem `json:"items"`
	ShippingAddress Address     `json:"shipping_address"`
	TrackingCode    string      `json:"tracking_code,omitempty"`
}

// CartItem is a line item ready to be re-added to a cart, priced at current
// catalog rates rather than historical ones.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Image     string  `json:"image,omitempty"`
}
