package session

import (
	"context"
	"log/slog"

	"github.com/wasgeurtjeNL/storefront-session/internal/backend"
	"github.com/wasgeurtjeNL/storefront-session/internal/domain"
	apperrors "github.com/wasgeurtjeNL/storefront-session/pkg/errors"
)

// Orders returns the user's order history through the fetch cache. Orders
// are lazy: nothing is fetched until the first consumer asks. force refreshes
// regardless of TTL.
func (l *Lifecycle) Orders(ctx context.Context, force bool) ([]domain.Order, error) {
	user, err := l.currentUser()
	if err != nil {
		return nil, err
	}

	key := ordersKey(user.ID)
	if force {
		l.deps.OrdersCache.Invalidate(key)
	}

	orders, err := l.deps.OrdersCache.Get(ctx, key, func(ctx context.Context) ([]domain.Order, error) {
		return l.deps.Orders.ListByCustomer(ctx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if l.user != nil && l.user.ID == user.ID {
		l.orders = orders
	}
	l.mu.Unlock()

	out := make([]domain.Order, len(orders))
	copy(out, orders)
	return out, nil
}

// FindOrder returns one order from the fetched history.
func (l *Lifecycle) FindOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	orders, err := l.Orders(ctx, false)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == orderID {
			return &orders[i], nil
		}
	}
	return nil, apperrors.NotFound("order", orderID)
}

// Loyalty returns the loyalty snapshot through the fetch cache and merges it
// into the session's user.
func (l *Lifecycle) Loyalty(ctx context.Context, force bool) (*domain.LoyaltySnapshot, error) {
	user, err := l.currentUser()
	if err != nil {
		return nil, err
	}

	key := loyaltyKey(user.Email)
	if force {
		l.deps.LoyaltyCache.Invalidate(key)
	}

	snapshot, err := l.deps.LoyaltyCache.Get(ctx, key, func(ctx context.Context) (*domain.LoyaltySnapshot, error) {
		return l.deps.Loyalty.Balance(ctx, user.Email)
	})
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if l.user != nil && l.user.Email == user.Email {
		s := *snapshot
		l.user.Loyalty = &s
	}
	l.mu.Unlock()

	s := *snapshot
	return &s, nil
}

// RedeemPoints converts redeemable points into a coupon. The local balance
// is decremented optimistically from the service's answer and the cache is
// invalidated so the next read reconciles with server truth.
func (l *Lifecycle) RedeemPoints(ctx context.Context) (*backend.RedeemResult, error) {
	user, err := l.currentUser()
	if err != nil {
		return nil, err
	}

	result, err := l.deps.Loyalty.Redeem(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	if result.Success {
		l.mu.Lock()
		if l.user != nil && l.user.Email == user.Email && l.user.Loyalty != nil {
			l.user.Loyalty.Points = result.RemainingPoints
		}
		l.mu.Unlock()
		l.deps.LoyaltyCache.Invalidate(loyaltyKey(user.Email))
	}

	return result, nil
}

// Eligibility asks the loyalty service whether the user can redeem.
func (l *Lifecycle) Eligibility(ctx context.Context) (*backend.Eligibility, error) {
	user, err := l.currentUser()
	if err != nil {
		return nil, err
	}
	return l.deps.Loyalty.CheckEligibility(ctx, user.Email)
}

// OfferDismissed reports whether the promotional offer was dismissed on this
// device. The read goes through the fetch cache so concurrent checks share
// one store read.
func (l *Lifecycle) OfferDismissed(ctx context.Context, offerID string) (bool, error) {
	return l.deps.OfferCache.Get(ctx, offerKey(offerID), func(ctx context.Context) (bool, error) {
		return l.deps.Store.OfferDismissed(ctx, offerID)
	})
}

// DismissOffer records a device-local dismissal of the promotional offer.
func (l *Lifecycle) DismissOffer(ctx context.Context, offerID string) error {
	if err := l.deps.Store.DismissOffer(ctx, offerID); err != nil {
		return err
	}
	l.deps.OfferCache.Invalidate(offerKey(offerID))
	l.deps.Logger.InfoContext(ctx, "offer dismissed", slog.String("offer_id", offerID))
	return nil
}
