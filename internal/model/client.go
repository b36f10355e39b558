package model

import "time"

type ClientTier string

const (
	TierNew      ClientTier = "New"
	TierFrequent ClientTier = "Frequent"
	TierVIP      ClientTier = "VIP"
)

// Client aggregates (purchases, spent, tier) are maintained outside this service and only
// displayed here.
type Client struct {
	ID                    string     `db:"id" json:"id"`
	FullName              string     `db:"full_name" json:"full_name"`
	Email                 string     `db:"email" json:"email"`
	Phone                 string     `db:"phone" json:"phone"`
	TotalPurchases        int64      `db:"total_purchases" json:"total_purchases"`
	ActiveDiscountPercent int64      `db:"active_discount_percent" json:"active_discount_percent"`
	ReferralCount         int64      `db:"referral_count" json:"referral_count"`
	ReferralCode          string     `db:"referral_code" json:"referral_code"`
	Tier                  ClientTier `db:"tier" json:"tier"`
	TotalSpent            int64      `db:"total_spent" json:"total_spent"`
	PendingBalances       int64      `db:"pending_balances" json:"pending_balances"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
}

type Referral struct {
	ID               string    `db:"id" json:"id"`
	ReferrerClientID string    `db:"referrer_client_id" json:"referrer_client_id"`
	ReferredEmail    string    `db:"referred_email" json:"referred_email"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
