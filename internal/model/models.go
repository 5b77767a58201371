package model

import "time"

// Campaign is a promotional entity. Its prefix is cosmetic: it is joined onto
// voucher codes at read time and never stored on the voucher row.
type Campaign struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Prefix    string    `gorm:"not null;size:10" json:"prefix"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Currency  string    `gorm:"not null;size:3" json:"currency"`
	ValidFrom time.Time `gorm:"not null" json:"validFrom"`
	ValidTo   time.Time `gorm:"not null" json:"validTo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Voucher is a single redemption code. The unique index is on code alone, so
// codes are unique across all campaigns, which is what lets batch inserts
// rely on the database to drop collisions.
type Voucher struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CampaignID uint       `gorm:"index;not null" json:"campaignId"`
	Code       string     `gorm:"uniqueIndex;not null;size:6" json:"code"`
	IsUsed     bool       `gorm:"not null;default:false;index" json:"isUsed"`
	UsedAt     *time.Time `json:"usedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
