// Package session owns the in-memory customer session: who is logged in,
// their orders, and their loyalty balance. The Lifecycle is the single writer
// of that state; every other component reads copies through its accessors.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wasgeurtjeNL/storefront-session/internal/backend"
	"github.com/wasgeurtjeNL/storefront-session/internal/cache"
	"github.com/wasgeurtjeNL/storefront-session/internal/domain"
	"github.com/wasgeurtjeNL/storefront-session/internal/identity"
	"github.com/wasgeurtjeNL/storefront-session/internal/store"
	apperrors "github.com/wasgeurtjeNL/storefront-session/pkg/errors"
)

// State is the lifecycle phase of the session. Consumers must not make
// login-state decisions while the session is still Unrestored.
type State string

const (
	StateUnrestored State = "unrestored"
	StateLoggedOut  State = "logged_out"
	StateLoggedIn   State = "logged_in"
)

// SessionStore persists the identity, token, and offer dismissals across
// process restarts.
type SessionStore interface {
	Save(ctx context.Context, user *domain.User, token string) error
	Load(ctx context.Context) (*domain.User, string, error)
	Clear(ctx context.Context) error
	DismissOffer(ctx context.Context, offerID string) error
	OfferDismissed(ctx context.Context, offerID string) (bool, error)
}

// AuthService exchanges credentials for tokens and introspects them.
type AuthService interface {
	IssueToken(ctx context.Context, email, password string) (string, error)
	Introspect(ctx context.Context, token string) (bool, error)
}

// CustomerService reads and writes the commerce backend's customer record.
type CustomerService interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetAccountFallback(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Create(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error)
}

// OrderService reads the customer's order history.
type OrderService interface {
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
}

// LoyaltyService reads and redeems loyalty points.
type LoyaltyService interface {
	Balance(ctx context.Context, email string) (*domain.LoyaltySnapshot, error)
	Redeem(ctx context.Context, email string) (*backend.RedeemResult, error)
	CheckEligibility(ctx context.Context, email string) (*backend.Eligibility, error)
}

// AddressRegistry is the device-local soft-delete set for addresses.
type AddressRegistry interface {
	MarkDeleted(ctx context.Context, a domain.Address) error
	Filter(ctx context.Context, addrs []domain.Address) ([]domain.Address, error)
}

// Deps are the collaborators a Lifecycle orchestrates.
type Deps struct {
	Store     SessionStore
	Auth      AuthService
	Customers CustomerService
	Orders    OrderService
	Loyalty   LoyaltyService
	Registry  AddressRegistry

	OrdersCache  *cache.Cache[[]domain.Order]
	LoyaltyCache *cache.Cache[*domain.LoyaltySnapshot]
	OfferCache   *cache.Cache[bool]

	Logger *slog.Logger
}

// Lifecycle orchestrates restore, login, logout, and profile and address
// mutations. It holds the only mutable User; the mutex makes every state
// transition a single atomic step and readers receive deep copies.
type Lifecycle struct {
	deps Deps

	mu     sync.RWMutex
	state  State
	user   *domain.User
	orders []domain.Order
	token  string
}

func NewLifecycle(deps Deps) *Lifecycle {
	return &Lifecycle{
		deps:  deps,
		state: StateUnrestored,
	}
}

// Restore loads the persisted session. A valid identity is adopted
// immediately with no network call; orders and loyalty stay unfetched until a
// consumer asks for them. A missing or corrupt record leaves the session
// logged out without error.
func (l *Lifecycle) Restore(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, token, err := l.deps.Store.Load(ctx)
	if err != nil {
		l.state = StateLoggedOut
		if errors.Is(err, store.ErrNoSession) {
			l.deps.Logger.InfoContext(ctx, "no persisted session")
			return nil
		}
		return fmt.Errorf("restore session: %w", err)
	}

	normalizeAddresses(user)
	l.user = user
	l.token = token
	l.state = StateLoggedIn

	l.deps.Logger.InfoContext(ctx, "session restored",
		slog.String("user_id", user.ID),
	)
	return nil
}

// Login exchanges credentials for a token, loads the customer record (falling
// back to the bare auth account when no commerce profile exists), persists
// the session, and kicks off a background loyalty fetch. Orders are deferred
// to first use.
func (l *Lifecycle) Login(ctx context.Context, email, password string) (*domain.User, error) {
	token, err := l.deps.Auth.IssueToken(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user, err := l.deps.Customers.GetByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrNotFound) {
		// Customer exists in the auth system without a commerce profile.
		user, err = l.deps.Customers.GetAccountFallback(ctx, email)
	}
	if err != nil {
		return nil, err
	}

	return l.adopt(ctx, user, token), nil
}

// Register creates the customer at the backend, then follows the same tail
// as Login.
func (l *Lifecycle) Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	user, err := l.deps.Customers.Create(ctx, email, password, firstName, lastName)
	if err != nil {
		return nil, err
	}

	token, err := l.deps.Auth.IssueToken(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return l.adopt(ctx, user, token), nil
}

// adopt commits a freshly authenticated user as the session state and starts
// the background loyalty merge.
func (l *Lifecycle) adopt(ctx context.Context, user *domain.User, token string) *domain.User {
	normalizeAddresses(user)

	// Local persistence failure does not fail a successful login; the
	// session just won't survive a restart.
	if err := l.deps.Store.Save(ctx, user, token); err != nil {
		l.deps.Logger.WarnContext(ctx, "failed to persist session",
			slog.String("error", err.Error()),
		)
	}

	l.mu.Lock()
	l.user = user
	l.orders = nil
	l.token = token
	l.state = StateLoggedIn
	l.mu.Unlock()

	l.deps.Logger.InfoContext(ctx, "logged in",
		slog.String("user_id", user.ID),
	)

	go l.mergeLoyalty(context.WithoutCancel(ctx), user.Email)

	return user.Clone()
}

// mergeLoyalty hydrates the loyalty snapshot after login. Loyalty data is
// supplementary to a successful login: a failure here is logged and
// swallowed, never surfaced.
func (l *Lifecycle) mergeLoyalty(ctx context.Context, email string) {
	snapshot, err := l.deps.LoyaltyCache.Get(ctx, loyaltyKey(email), func(ctx context.Context) (*domain.LoyaltySnapshot, error) {
		return l.deps.Loyalty.Balance(ctx, email)
	})
	if err != nil {
		l.deps.Logger.WarnContext(ctx, "loyalty hydration failed",
			slog.String("error", err.Error()),
		)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// The session may have changed hands while the fetch was in flight.
	if l.user != nil && l.user.Email == email {
		s := *snapshot
		l.user.Loyalty = &s
	}
}

// Logout clears the in-memory state and the persisted session. Cache entries
// are not invalidated: the next login uses different keys, so stale entries
// are orphaned, never read.
func (l *Lifecycle) Logout(ctx context.Context) error {
	l.mu.Lock()
	userID := ""
	if l.user != nil {
		userID = l.user.ID
	}
	l.user = nil
	l.orders = nil
	l.token = ""
	l.state = StateLoggedOut
	l.mu.Unlock()

	if err := l.deps.Store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session store: %w", err)
	}

	l.deps.Logger.InfoContext(ctx, "logged out", slog.String("user_id", userID))
	return nil
}

// State returns the current lifecycle phase.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// CurrentUser returns a deep copy of the logged-in user, or nil.
func (l *Lifecycle) CurrentUser() *domain.User {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.user.Clone()
}

// TokenMatches reports whether token is the active session's bearer token.
func (l *Lifecycle) TokenMatches(token string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateLoggedIn && token != "" && token == l.token
}

// ValidateToken introspects the active token against the auth service. Used
// defensively; restore does not depend on it.
func (l *Lifecycle) ValidateToken(ctx context.Context) (bool, error) {
	l.mu.RLock()
	token := l.token
	l.mu.RUnlock()
	if token == "" {
		return false, nil
	}
	return l.deps.Auth.Introspect(ctx, token)
}

func (l *Lifecycle) currentUser() (*domain.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.state != StateLoggedIn || l.user == nil {
		return nil, apperrors.Unauthorized("no active session")
	}
	return l.user.Clone(), nil
}

func ordersKey(userID string) string { return "orders:" + userID }
func loyaltyKey(email string) string { return "loyalty:" + email }
func offerKey(offerID string) string { return "offer:" + offerID }

// normalizeAddresses assigns content-derived ids to addresses the backend
// did not identify and enforces the single-default invariant.
func normalizeAddresses(user *domain.User) {
	if user == nil {
		return
	}
	seenDefault := false
	for i := range user.Addresses {
		if user.Addresses[i].ID == "" {
			user.Addresses[i].ID = identity.ID(user.Addresses[i])
		}
		if user.Addresses[i].IsDefault {
			if seenDefault {
				user.Addresses[i].IsDefault = false
			}
			seenDefault = true
		}
	}
}
