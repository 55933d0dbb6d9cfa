package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wasgeurtjeNL/storefront-session/pkg/httputil"
	"github.com/wasgeurtjeNL/storefront-session/pkg/pagination"
)

// ListOrders handles GET /api/v1/users/me/orders. ?refresh=1 bypasses the
// cache; ?page= and ?per_page= slice the history.
func (h *SessionHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.lifecycle.Orders(r.Context(), refreshRequested(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	page := pagination.Paginate(orders, pagination.FromRequest(r))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: page})
}

// GetLoyalty handles GET /api/v1/users/me/loyalty. ?refresh=1 bypasses the
// cache.
func (h *SessionHandler) GetLoyalty(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.lifecycle.Loyalty(r.Context(), refreshRequested(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: snapshot})
}

// RedeemPoints handles POST /api/v1/users/me/loyalty/redeem
func (h *SessionHandler) RedeemPoints(w http.ResponseWriter, r *http.Request) {
	result, err := h.lifecycle.RedeemPoints(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetEligibility handles GET /api/v1/users/me/loyalty/eligibility
func (h *SessionHandler) GetEligibility(w http.ResponseWriter, r *http.Request) {
	eligibility, err := h.lifecycle.Eligibility(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: eligibility})
}

// Reorder handles POST /api/v1/orders/{id}/reorder. It returns the order's
// line items as cart items priced at current catalog rates.
func (h *SessionHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	order, err := h.lifecycle.FindOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	items := h.resolver.Resolve(r.Context(), order)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: items})
}

// OfferDismissed handles GET /api/v1/offers/{id}/dismissed
func (h *SessionHandler) OfferDismissed(w http.ResponseWriter, r *http.Request) {
	dismissed, err := h.lifecycle.OfferDismissed(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"dismissed": dismissed}})
}

// DismissOffer handles POST /api/v1/offers/{id}/dismiss
func (h *SessionHandler) DismissOffer(w http.ResponseWriter, r *http.Request) {
	if err := h.lifecycle.DismissOffer(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func refreshRequested(r *http.Request) bool {
	return r.URL.Query().Get("refresh") == "1"
}
