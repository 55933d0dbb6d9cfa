package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/wasgeurtjeNL/storefront-session/internal/domain"
	apperrors "github.com/wasgeurtjeNL/storefront-session/pkg/errors"
)

const (
	metaKeyNewsletter = "newsletter_optin"
	metaKeySMS        = "sms_optin"
	metaKeyTracking   = "tracking_code"
)

// wireAddressBlock is the commerce backend's billing/shipping sub-record.
// Street and house number arrive combined in address_1.
type wireAddressBlock struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address_1"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone,omitempty"`
}

type wireMeta struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type wireCustomer struct {
	ID        int64            `json:"id"`
	Email     string           `json:"email"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Username  string           `json:"username"`
	Role      string           `json:"role"`
	AvatarURL string           `json:"avatar_url"`
	Billing   wireAddressBlock `json:"billing"`
	Shipping  wireAddressBlock `json:"shipping"`
	MetaData  []wireMeta       `json:"meta_data"`
}

// CustomerClient reads and writes the commerce backend's customer
// sub-resource. Requests authenticate with the storefront's API key pair.
type CustomerClient struct {
	baseURL string
	key     string
	secret  string
	client  Doer
	logger  *slog.Logger
}

func NewCustomerClient(baseURL, key, secret string, client Doer, logger *slog.Logger) *CustomerClient {
	return &CustomerClient{
		baseURL: baseURL,
		key:     key,
		secret:  secret,
		client:  client,
		logger:  logger,
	}
}

// GetByEmail looks a customer up by email. The backend only supports a list
// query; the first match wins. Returns ErrNotFound when no customer record
// exists, which callers treat as "bare account" rather than a failure.
func (c *CustomerClient) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	reqURL := c.baseURL + "/customers?email=" + url.QueryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create customer request: %w", err)
	}
	req.SetBasicAuth(c.key, c.secret)

	var customers []wireCustomer
	if err := doJSON(ctx, c.client, req, "customer", &customers); err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, apperrors.NotFound("customer", email)
	}
	return customers[0].toUser(), nil
}

// GetByID fetches a single customer record.
func (c *CustomerClient) GetByID(ctx context.Context, id string) (*domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/customers/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("create customer request: %w", err)
	}
	req.SetBasicAuth(c.key, c.secret)

	var customer wireCustomer
	if err := doJSON(ctx, c.client, req, "customer", &customer); err != nil {
		return nil, err
	}
	return customer.toUser(), nil
}

// GetAccountFallback fetches the bare account record for customers that exist
// in the auth system without a commerce profile. The result carries identity
// only, no addresses or preferences.
func (c *CustomerClient) GetAccountFallback(ctx context.Context, email string) (*domain.User, error) {
	reqURL := c.baseURL + "/account?email=" + url.QueryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create account request: %w", err)
	}
	req.SetBasicAuth(c.key, c.secret)

	var account struct {
		ID          int64  `json:"id"`
		Email       string `json:"email"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		DisplayName string `json:"display_name"`
	}
	if err := doJSON(ctx, c.client, req, "customer", &account); err != nil {
		return nil, err
	}

	return &domain.User{
		ID:          strconv.FormatInt(account.ID, 10),
		Email:       account.Email,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		DisplayName: account.DisplayName,
		Role:        domain.RoleCustomer,
	}, nil
}

// Update writes the customer-owned fields of user back to the backend and
// returns the backend's view of the record after the write.
func (c *CustomerClient) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	body, err := json.Marshal(customerWriteBody(user))
	if err != nil {
		return nil, fmt.Errorf("marshal customer update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/customers/"+url.PathEscape(user.ID), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create customer update request: %w", err)
	}
	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Content-Type", "application/json")

	var customer wireCustomer
	if err := doJSON(ctx, c.client, req, "customer", &customer); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "customer updated", slog.String("customer_id", user.ID))
	return customer.toUser(), nil
}

// Create registers a new customer record.
func (c *CustomerClient) Create(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	type createRequest struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	body, err := json.Marshal(createRequest{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal customer create: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/customers", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create customer create request: %w", err)
	}
	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Content-Type", "application/json")

	var customer wireCustomer
	if err := doJSON(ctx, c.client, req, "customer", &customer); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "customer created", slog.String("email", email))
	return customer.toUser(), nil
}

func (w wireCustomer) toUser() *domain.User {
	user := &domain.User{
		ID:          strconv.FormatInt(w.ID, 10),
		Email:       w.Email,
		FirstName:   w.FirstName,
		LastName:    w.LastName,
		DisplayName: w.Username,
		AvatarURL:   w.AvatarURL,
		Phone:       w.Billing.Phone,
		Role:        roleFromWire(w.Role),
		Preferences: domain.Preferences{
			Newsletter: metaFlag(w.MetaData, metaKeyNewsletter),
			SMSUpdates: metaFlag(w.MetaData, metaKeySMS),
		},
	}

	if billing := w.Billing.toAddress("billing"); billing != nil {
		billing.IsDefault = true
		user.Addresses = append(user.Addresses, *billing)
	}
	if shipping := w.Shipping.toAddress("shipping"); shipping != nil {
		user.Addresses = append(user.Addresses, *shipping)
	}
	return user
}

// toAddress maps a billing/shipping block to an Address, or nil when the
// block is empty. The address has no id of its own; the session layer derives
// one from its content.
func (b wireAddressBlock) toAddress(label string) *domain.Address {
	if b.Address1 == "" && b.City == "" && b.Postcode == "" {
		return nil
	}
	street, number, addition := SplitStreet(b.Address1)
	return &domain.Address{
		Label:         label,
		FirstName:     b.FirstName,
		LastName:      b.LastName,
		Street:        street,
		HouseNumber:   number,
		HouseAddition: addition,
		City:          b.City,
		PostalCode:    b.Postcode,
		Country:       b.Country,
	}
}

func customerWriteBody(user *domain.User) wireCustomer {
	w := wireCustomer{
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		MetaData: []wireMeta{
			{Key: metaKeyNewsletter, Value: user.Preferences.Newsletter},
			{Key: metaKeySMS, Value: user.Preferences.SMSUpdates},
		},
	}
	for _, addr := range user.Addresses {
		block := wireAddressBlock{
			FirstName: addr.FirstName,
			LastName:  addr.LastName,
			Address1:  strings.TrimSpace(addr.Street + " " + addr.HouseNumber + addr.HouseAddition),
			City:      addr.City,
			Postcode:  addr.PostalCode,
			Country:   addr.Country,
		}
		if addr.IsDefault {
			block.Phone = user.Phone
			w.Billing = block
		} else if w.Shipping.Address1 == "" {
			w.Shipping = block
		}
	}
	return w
}

func roleFromWire(role string) string {
	if role == "administrator" || role == "admin" {
		return domain.RoleAdmin
	}
	return domain.RoleCustomer
}

// metaFlag reads a boolean meta value, tolerating the string encodings older
// records carry.
func metaFlag(meta []wireMeta, key string) bool {
	for _, m := range meta {
		if m.Key != key {
			continue
		}
		switch v := m.Value.(type) {
		case bool:
			return v
		case string:
			return v == "1" || v == "true" || v == "yes"
		case float64:
			return v != 0
		}
	}
	return false
}

var streetNumberPattern = regexp.MustCompile(`^(.*?)\s*(\d+)\s*([A-Za-z-]*)$`)

// SplitStreet parses the backend's combined street field into street, house
// number, and addition. The trailing run of digits, optionally followed by
// letters or hyphens, is the number and addition; everything before it is the
// street. A value that does not fit the pattern is kept whole as the street,
// never dropped.
func SplitStreet(combined string) (street, number, addition string) {
	combined = strings.TrimSpace(combined)
	m := streetNumberPattern.FindStringSubmatch(combined)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return combined, "", ""
	}
	return strings.TrimSpace(m[1]), m[2], m[3]
}
