package backend

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/wasgeurtjeNL/storefront-session/internal/domain"
)

// RedeemResult is the loyalty service's answer to a points redemption.
type RedeemResult struct {
	Success         bool   `json:"success"`
	RemainingPoints int    `json:"remaining_points"`
	CouponCode      string `json:"coupon_code"`
}

// Eligibility reports whether the customer may redeem points right now.
type Eligibility struct {
	Eligible       bool `json:"eligible"`
	CanRedeemTimes int  `json:"can_redeem_times"`
	CurrentPoints  int  `json:"current_points"`
}

// LoyaltyClient talks to the loyalty collaborator, keyed by customer email.
type LoyaltyClient struct {
	baseURL string
	client  Doer
	logger  *slog.Logger
}

func NewLoyaltyClient(baseURL string, client Doer, logger *slog.Logger) *LoyaltyClient {
	return &LoyaltyClient{
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

// Balance fetches the customer's loyalty snapshot.
func (c *LoyaltyClient) Balance(ctx context.Context, email string) (*domain.LoyaltySnapshot, error) {
	reqURL := c.baseURL + "/points?email=" + url.QueryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create points request: %w", err)
	}

	var balance struct {
		Points           int    `json:"points"`
		Earned           int    `json:"earned"`
		RewardsAvailable int    `json:"rewards_available"`
		ReferCode        string `json:"refer_code"`
		LevelID          string `json:"level_id"`
	}
	if err := doJSON(ctx, c.client, req, "loyalty", &balance); err != nil {
		return nil, err
	}

	return &domain.LoyaltySnapshot{
		Points:           balance.Points,
		TotalEarned:      balance.Earned,
		RewardsAvailable: balance.RewardsAvailable,
		ReferCode:        balance.ReferCode,
		LevelID:          balance.LevelID,
	}, nil
}

// Redeem converts the customer's redeemable points into a coupon.
func (c *LoyaltyClient) Redeem(ctx context.Context, email string) (*RedeemResult, error) {
	reqURL := c.baseURL + "/redeem?email=" + url.QueryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create redeem request: %w", err)
	}

	var result RedeemResult
	if err := doJSON(ctx, c.client, req, "loyalty", &result); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "points redeemed",
		slog.String("email", email),
		slog.Bool("success", result.Success),
		slog.Int("remaining_points", result.RemainingPoints),
	)
	return &result, nil
}

// CheckEligibility asks whether the customer can redeem points.
func (c *LoyaltyClient) CheckEligibility(ctx context.Context, email string) (*Eligibility, error) {
	reqURL := c.baseURL + "/eligibility?email=" + url.QueryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create eligibility request: %w", err)
	}

	var eligibility Eligibility
	if err := doJSON(ctx, c.client, req, "loyalty", &eligibility); err != nil {
		return nil, err
	}
	return &eligibility, nil
}
