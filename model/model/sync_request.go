package model

// Object types carried on sync requests and webhook card lookups.
const (
	ObjectTypeCompany = "COMPANY"
	ObjectTypeDeal    = "DEAL"
)

// PricingTier is the closed set of deal pricing tiers. An empty tier on a
// line item sync request means the deal's line items should be cleared.
type PricingTier string

const (
	PricingTierOne   PricingTier = "A"
	PricingTierTwo   PricingTier = "B"
	PricingTierThree PricingTier = "C"
)

// CompanySyncRequest is the task payload for one company reconciliation
// pass. It carries denormalized fields from the emerge customer record so
// the worker does not need a second directory lookup.
type CompanySyncRequest struct {
	ObjectID            int64  `json:"object_id,omitempty"`
	Type                string `json:"type"`
	Year                int    `json:"year,omitempty"`
	Month               int    `json:"month,omitempty"`
	EmergeCompanyID     int64  `json:"emerge_company_id,omitempty"`
	DaysFromLastReport  *int64 `json:"days_from_last_report,omitempty"`
	AccountManagerEmail string `json:"account_manager_email,omitempty"`
	// Epoch milliseconds of the customer's last status change.
	StatusChangeDate *int64 `json:"status_change_date,omitempty"`
}

// DealSyncRequest is the task payload for associating a customer deal with
// its company and original closed won deal.
type DealSyncRequest struct {
	ObjectID int64 `json:"object_id"`
}

// LineItemSyncRequest is the task payload for reconciling a deal's line
// items against the product catalog at the requested pricing tier.
type LineItemSyncRequest struct {
	ObjectID    int64       `json:"object_id"`
	PricingTier PricingTier `json:"pricing_tier,omitempty"`
}
