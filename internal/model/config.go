package model

import (
	"errors"
	"time"
)

var ErrInvalidConfig = errors.New("invalid global configuration")

// GlobalConfig holds the storefront-wide payment thresholds.
type GlobalConfig struct {
	FullPaymentThreshold    int64     `db:"full_payment_threshold" json:"full_payment_threshold"`
	FixedPartialAmount      int64     `db:"fixed_partial_amount" json:"fixed_partial_amount"`
	ReferralDiscountPercent int64     `db:"referral_discount_percent" json:"referral_discount_percent"`
	UpdatedAt               time.Time `db:"updated_at" json:"updated_at"`
}

func DefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		FullPaymentThreshold:    70000,
		FixedPartialAmount:      50000,
		ReferralDiscountPercent: 10,
	}
}

// Validate rejects configurations that would let a partial payment exceed the order total.
func (c GlobalConfig) Validate() error {
	if c.FullPaymentThreshold < 0 || c.FixedPartialAmount < 0 || c.ReferralDiscountPercent < 0 {
		return ErrInvalidConfig
	}
	if c.ReferralDiscountPercent > 100 {
		return ErrInvalidConfig
	}
	if c.FixedPartialAmount >= c.FullPaymentThreshold {
		return ErrInvalidConfig
	}
	return nil
}
