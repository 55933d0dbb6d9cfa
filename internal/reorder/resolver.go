// Package reorder re-derives current pricing for a historical order before
// its items go back into a cart. A repeat order must not silently inherit a
// one-time promotional price.
package reorder

import (
	"context"
	"log/slog"

	"github.com/wasgeurtjeNL/storefront-session/internal/backend"
	"github.com/wasgeurtjeNL/storefront-session/internal/domain"
)

// CatalogService reads current product pricing in one batched call.
type CatalogService interface {
	PricesByIDs(ctx context.Context, ids []string) (map[string]backend.ProductPrice, error)
}

// Resolver turns a historical order into cart items priced at current
// catalog rates.
type Resolver struct {
	catalog CatalogService
	logger  *slog.Logger
}

func NewResolver(catalog CatalogService, logger *slog.Logger) *Resolver {
	return &Resolver{
		catalog: catalog,
		logger:  logger,
	}
}

// Resolve prices each line item of order for re-purchase. The unit price is
// the current regular price, falling back to the current price, falling back
// to the historical price when the product is no longer in the catalog.
// Quantities are preserved. When the catalog cannot be reached at all, the
// whole order degrades to historical prices rather than failing.
func (r *Resolver) Resolve(ctx context.Context, order *domain.Order) []domain.CartItem {
	ids := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ID)
	}

	prices, err := r.catalog.PricesByIDs(ctx, ids)
	if err != nil {
		r.logger.WarnContext(ctx, "catalog pricing unavailable, using historical prices",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		prices = nil
	}

	items := make([]domain.CartItem, 0, len(order.Items))
	for _, item := range order.Items {
		unitPrice := item.UnitPrice
		if current, ok := prices[item.ID]; ok {
			switch {
			case current.RegularPrice != nil:
				unitPrice = *current.RegularPrice
			case current.Price != nil:
				unitPrice = *current.Price
			}
		}
		items = append(items, domain.CartItem{
			ProductID: item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			Image:     item.Image,
		})
	}
	return items
}
