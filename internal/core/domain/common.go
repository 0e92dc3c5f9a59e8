package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// AssetPrecision is the number of decimal places an Aurum amount carries.
// One Aurum unit represents one troy ounce of gold held for the account.
const AssetPrecision = 4

// USDPrecision is the number of decimal places a USD amount carries.
const USDPrecision = 2
