package backend

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// ProductPrice is the current catalog pricing for one product. A nil field
// means the backend did not supply that price.
type ProductPrice struct {
	Price        *float64
	RegularPrice *float64
}

// CatalogClient reads current product pricing from the commerce backend.
// Used only for reorder price rehydration.
type CatalogClient struct {
	baseURL string
	key     string
	secret  string
	client  Doer
	logger  *slog.Logger
}

func NewCatalogClient(baseURL, key, secret string, client Doer, logger *slog.Logger) *CatalogClient {
	return &CatalogClient{
		baseURL: baseURL,
		key:     key,
		secret:  secret,
		client:  client,
		logger:  logger,
	}
}

// PricesByIDs fetches current pricing for all ids in a single batched call.
// Products the catalog no longer knows are simply absent from the result.
func (c *CatalogClient) PricesByIDs(ctx context.Context, ids []string) (map[string]ProductPrice, error) {
	if len(ids) == 0 {
		return map[string]ProductPrice{}, nil
	}

	reqURL := c.baseURL + "/products?include=" + strings.Join(ids, ",") +
		"&per_page=" + strconv.Itoa(len(ids))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create products request: %w", err)
	}
	req.SetBasicAuth(c.key, c.secret)

	var products []struct {
		ID           int64  `json:"id"`
		Price        string `json:"price"`
		RegularPrice string `json:"regular_price"`
	}
	if err := doJSON(ctx, c.client, req, "catalog", &products); err != nil {
		return nil, err
	}

	prices := make(map[string]ProductPrice, len(products))
	for _, p := range products {
		prices[strconv.FormatInt(p.ID, 10)] = ProductPrice{
			Price:        parsePrice(p.Price),
			RegularPrice: parsePrice(p.RegularPrice),
		}
	}

	c.logger.DebugContext(ctx, "catalog prices fetched",
		slog.Int("requested", len(ids)),
		slog.Int("found", len(prices)),
	)
	return prices, nil
}

// parsePrice converts the backend's string-encoded price. Empty and malformed
// values map to nil rather than zero so the caller can distinguish "no price"
// from "free".
func parsePrice(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
