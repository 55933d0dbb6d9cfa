package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wasgeurtjeNL/storefront-session/internal/domain"
	"github.com/wasgeurtjeNL/storefront-session/internal/session"
	apperrors "github.com/wasgeurtjeNL/storefront-session/pkg/errors"
	"github.com/wasgeurtjeNL/storefront-session/pkg/httputil"
	"github.com/wasgeurtjeNL/storefront-session/pkg/validator"
)

// UpdateProfileRequest is the JSON request body for a partial profile
// update. Absent fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	DisplayName *string `json:"display_name"`
	Phone       *string `json:"phone"`
	Newsletter  *bool   `json:"newsletter"`
	SMSUpdates  *bool   `json:"sms_updates"`
}

// AddressRequest is the JSON request body for adding or updating an address.
type AddressRequest struct {
	Label         string `json:"label"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Street        string `json:"street" validate:"required"`
	HouseNumber   string `json:"house_number"`
	HouseAddition string `json:"house_addition"`
	City          string `json:"city" validate:"required"`
	PostalCode    string `json:"postal_code" validate:"required"`
	Country       string `json:"country" validate:"required"`
	IsDefault     bool   `json:"is_default"`
}

func (req AddressRequest) toDomain() domain.Address {
	return domain.Address{
		Label:         req.Label,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Street:        req.Street,
		HouseNumber:   req.HouseNumber,
		HouseAddition: req.HouseAddition,
		City:          req.City,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		IsDefault:     req.IsDefault,
	}
}

// GetProfile handles GET /api/v1/users/me
func (h *SessionHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := h.lifecycle.CurrentUser()
	if user == nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("no active session"), h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// UpdateProfile handles PATCH /api/v1/users/me
func (h *SessionHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}

	user, err := h.lifecycle.UpdateProfile(r.Context(), session.ProfileUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Newsletter:  req.Newsletter,
		SMSUpdates:  req.SMSUpdates,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// ListAddresses handles GET /api/v1/users/me/addresses
func (h *SessionHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.lifecycle.Addresses(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: addresses})
}

// AddAddress handles POST /api/v1/users/me/addresses
func (h *SessionHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	var req AddressRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}

	user, err := h.lifecycle.AddAddress(r.Context(), req.toDomain())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: user})
}

// UpdateAddress handles PUT /api/v1/users/me/addresses/{id}
func (h *SessionHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	var req AddressRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}

	user, err := h.lifecycle.UpdateAddress(r.Context(), chi.URLParam(r, "id"), req.toDomain())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// DeleteAddress handles DELETE /api/v1/users/me/addresses/{id}
func (h *SessionHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	user, err := h.lifecycle.DeleteAddress(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// SetDefaultAddress handles POST /api/v1/users/me/addresses/{id}/default
func (h *SessionHandler) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	user, err := h.lifecycle.SetDefaultAddress(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}
