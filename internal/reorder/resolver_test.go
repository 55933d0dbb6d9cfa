package reorder

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wasgeurtjeNL/storefront-session/internal/backend"
	"github.com/wasgeurtjeNL/storefront-session/internal/domain"
	"github.com/wasgeurtjeNL/storefront-session/pkg/logger"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) PricesByIDs(ctx context.Context, ids []string) (map[string]backend.ProductPrice, error) {
	args := m.Called(ctx, ids)
	prices, _ := args.Get(0).(map[string]backend.ProductPrice)
	return prices, args.Error(1)
}

func price(v float64) *float64 { return &v }

func historicalOrder() *domain.Order {
	return &domain.Order{
		ID: "1001",
		Items: []domain.OrderItem{
			{ID: "55", Name: "Wasparfum Full Moon", Quantity: 2, UnitPrice: 10.00},
			{ID: "56", Name: "Wasparfum Blossom", Quantity: 1, UnitPrice: 8.50},
		},
	}
}

func newResolver(catalog CatalogService) *Resolver {
	return NewResolver(catalog, logger.NewWithWriter("test", "error", io.Discard))
}

func TestResolve_PrefersCurrentRegularPrice(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("PricesByIDs", mock.Anything, []string{"55", "56"}).
		Return(map[string]backend.ProductPrice{
			"55": {Price: price(12.50), RegularPrice: price(14.95)},
			"56": {Price: price(7.95)},
		}, nil)

	items := newResolver(catalog).Resolve(context.Background(), historicalOrder())

	require.Len(t, items, 2)
	// A historical 10.00 priced at a current regular 14.95 re-adds at 14.95.
	assert.Equal(t, 14.95, items[0].UnitPrice)
	assert.Equal(t, 2, items[0].Quantity)
	// No regular price falls back to the current price.
	assert.Equal(t, 7.95, items[1].UnitPrice)
}

func TestResolve_MissingProductKeepsHistoricalPrice(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("PricesByIDs", mock.Anything, mock.Anything).
		Return(map[string]backend.ProductPrice{
			"56": {Price: price(7.95)},
		}, nil)

	items := newResolver(catalog).Resolve(context.Background(), historicalOrder())

	require.Len(t, items, 2)
	assert.Equal(t, 10.00, items[0].UnitPrice)
}

func TestResolve_CatalogFailureDegradesToHistoricalPrices(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("PricesByIDs", mock.Anything, mock.Anything).
		Return(nil, errors.New("catalog unreachable"))

	items := newResolver(catalog).Resolve(context.Background(), historicalOrder())

	require.Len(t, items, 2)
	assert.Equal(t, 10.00, items[0].UnitPrice)
	assert.Equal(t, 8.50, items[1].UnitPrice)
}

func TestResolve_BatchesAllIDsInOneCall(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("PricesByIDs", mock.Anything, []string{"55", "56"}).
		Return(map[string]backend.ProductPrice{}, nil)

	newResolver(catalog).Resolve(context.Background(), historicalOrder())

	catalog.AssertNumberOfCalls(t, "PricesByIDs", 1)
}
