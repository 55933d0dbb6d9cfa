package backend

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wasgeurtjeNL/storefront-session/internal/domain"
)

type wireOrderItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Image     struct {
		Src string `json:"src"`
	} `json:"image"`
}

type wireOrder struct {
	ID          int64            `json:"id"`
	Number      string           `json:"number"`
	DateCreated string           `json:"date_created"`
	Status      string           `json:"status"`
	Total       string           `json:"total"`
	LineItems   []wireOrderItem  `json:"line_items"`
	Shipping    wireAddressBlock `json:"shipping"`
	MetaData    []wireMeta       `json:"meta_data"`
}

// OrderClient reads the commerce backend's orders sub-resource.
type OrderClient struct {
	baseURL string
	key     string
	secret  string
	client  Doer
	logger  *slog.Logger
}

func NewOrderClient(baseURL, key, secret string, client Doer, logger *slog.Logger) *OrderClient {
	return &OrderClient{
		baseURL: baseURL,
		key:     key,
		secret:  secret,
		client:  client,
		logger:  logger,
	}
}

// ListByCustomer fetches the customer's order history, newest first.
func (c *OrderClient) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	reqURL := c.baseURL + "/orders?customer=" + url.QueryEscape(customerID) + "&per_page=50&orderby=date&order=desc"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create orders request: %w", err)
	}
	req.SetBasicAuth(c.key, c.secret)

	var wireOrders []wireOrder
	if err := doJSON(ctx, c.client, req, "orders", &wireOrders); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(wireOrders))
	for _, w := range wireOrders {
		orders = append(orders, w.toOrder())
	}

	c.logger.DebugContext(ctx, "orders fetched",
		slog.String("customer_id", customerID),
		slog.Int("count", len(orders)),
	)
	return orders, nil
}

func (w wireOrder) toOrder() domain.Order {
	order := domain.Order{
		ID:           strconv.FormatInt(w.ID, 10),
		OrderNumber:  w.Number,
		Status:       orderStatusFromWire(w.Status),
		Items:        make([]domain.OrderItem, 0, len(w.LineItems)),
		TrackingCode: metaString(w.MetaData, metaKeyTracking),
	}

	// The backend emits naive local timestamps; fall back to RFC 3339 for
	// records written by newer backend versions.
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, w.DateCreated); err == nil {
			order.Date = t
			break
		}
	}

	if total, err := strconv.ParseFloat(w.Total, 64); err == nil {
		order.Total = total
	}

	for _, item := range w.LineItems {
		order.Items = append(order.Items, domain.OrderItem{
			ID:        strconv.FormatInt(item.ProductID, 10),
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			Image:     item.Image.Src,
		})
	}

	if shipping := w.Shipping.toAddress("shipping"); shipping != nil {
		order.ShippingAddress = *shipping
	}
	return order
}

func orderStatusFromWire(status string) domain.OrderStatus {
	switch status {
	case "processing":
		return domain.OrderProcessing
	case "shipped":
		return domain.OrderShipped
	case "completed":
		return domain.OrderDelivered
	case "cancelled", "refunded", "failed":
		return domain.OrderCancelled
	default:
		return domain.OrderPending
	}
}

func metaString(meta []wireMeta, key string) string {
	for _, m := range meta {
		if m.Key == key {
			if s, ok := m.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}
