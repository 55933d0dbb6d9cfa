package domain

// LoyaltySnapshot is a cached projection of the loyalty collaborator's truth.
// It is never incremented locally except optimistically right after a
// successful redemption, and is always reconciled by the next fetch.
type LoyaltySnapshot struct {
	Points           int    `json:"points"`
	TotalEarned      int    `json:"total_earned"`
	RewardsAvailable int    `json:"rewards_available"`
	ReferCode        string `json:"refer_code,omitempty"`
	LevelID          string `json:"level_id,omitempty"`
}
