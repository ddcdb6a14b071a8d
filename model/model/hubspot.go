package model

import "time"

// HubspotWebhookEvent is one entry of a hubspot webhook event batch.
type HubspotWebhookEvent struct {
	ObjectID         int64  `json:"objectId"`
	PropertyName     string `json:"propertyName"`
	PropertyValue    string `json:"propertyValue"`
	ChangeSource     string `json:"changeSource"`
	EventID          int64  `json:"eventId"`
	SubscriptionID   int64  `json:"subscriptionId"`
	PortalID         int64  `json:"portalId"`
	AppID            int64  `json:"appId"`
	OccurredAt       int64  `json:"occurredAt"`
	SubscriptionType string `json:"subscriptionType"`
	AttemptNumber    int    `json:"attemptNumber"`
}

// Webhook event subscription types and property names this service reacts to.
const (
	SubscriptionTypeDealPropertyChange = "deal.propertyChange"
	PropertyNameCustomerDeal           = "customer_deal"
	PropertyNamePricingTier            = "pricing_tier"
)

type HubspotCompanyProperties struct {
	Name            string `json:"name,omitempty"`
	EmergeCompanyID string `json:"emerge_company_id,omitempty"`
}

type HubspotCompany struct {
	ID         string                   `json:"id"`
	Properties HubspotCompanyProperties `json:"properties"`
}

type HubspotCompanySearchResponse struct {
	Total   int              `json:"total"`
	Results []HubspotCompany `json:"results"`
}

type HubspotDealProperties struct {
	DealName              string `json:"dealname,omitempty"`
	OriginalClosedWonDeal string `json:"original_closed_won_deal,omitempty"`
}

type HubspotAssociationEdge struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type HubspotAssociationEdgeList struct {
	Results []HubspotAssociationEdge `json:"results"`
}

// HubspotDealAssociations holds the association lists returned inline on a
// deal record fetched with the associations query parameter. The line item
// key does contain a space on the wire.
type HubspotDealAssociations struct {
	LineItems HubspotAssociationEdgeList `json:"line items"`
}

type HubspotDeal struct {
	ID           string                   `json:"id"`
	Properties   HubspotDealProperties    `json:"properties"`
	Associations *HubspotDealAssociations `json:"associations,omitempty"`
}

// LineItemIDs returns the ids of the line items associated with the deal.
func (d *HubspotDeal) LineItemIDs() []string {
	if d.Associations == nil {
		return nil
	}
	ids := make([]string, 0, len(d.Associations.LineItems.Results))
	for i := range d.Associations.LineItems.Results {
		ids = append(ids, d.Associations.LineItems.Results[i].ID)
	}
	return ids
}

type HubspotDealSearchResponse struct {
	Total   int           `json:"total"`
	Results []HubspotDeal `json:"results"`
}

type HubspotDealUpdate struct {
	OriginalClosedWonDeal string `json:"original_closed_won_deal,omitempty"`
}

type HubspotAssociation struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type HubspotAssociationFrom struct {
	ID string `json:"id"`
}

type HubspotAssociationResult struct {
	From HubspotAssociationFrom `json:"from"`
	To   []HubspotAssociation   `json:"to"`
}

// HubspotAssociationBatchReadResponse is the v4 associations batch read
// response shape.
type HubspotAssociationBatchReadResponse struct {
	Status      string                     `json:"status"`
	Results     []HubspotAssociationResult `json:"results"`
	StartedAt   time.Time                  `json:"startedAt"`
	CompletedAt time.Time                  `json:"completedAt"`
}

// First returns the first associated record, or nil when there is none.
func (r *HubspotAssociationBatchReadResponse) First() *HubspotAssociation {
	if len(r.Results) == 0 || len(r.Results[0].To) == 0 {
		return nil
	}
	return &r.Results[0].To[0]
}

type HubspotLineItemProperties struct {
	Name      string `json:"name,omitempty"`
	ProductID string `json:"hs_product_id,omitempty"`
	SKU       string `json:"hs_sku,omitempty"`
	Price     string `json:"price,omitempty"`
	Quantity  string `json:"quantity,omitempty"`
}

type HubspotLineItem struct {
	ID         string                    `json:"id"`
	Properties HubspotLineItemProperties `json:"properties"`
}

type HubspotProductProperties struct {
	Name  string `json:"name,omitempty"`
	Price string `json:"price,omitempty"`
	Tier2 string `json:"tier_2,omitempty"`
	Tier3 string `json:"tier_3,omitempty"`
	SKU   string `json:"hs_sku,omitempty"`
}

// PriceForTier returns the product's price column for the pricing tier.
// Tier one uses the base price column. A blank price marks the product as
// ineligible at that tier.
func (p *HubspotProductProperties) PriceForTier(tier PricingTier) string {
	switch tier {
	case PricingTierTwo:
		return p.Tier2
	case PricingTierThree:
		return p.Tier3
	default:
		return p.Price
	}
}

type HubspotProduct struct {
	ID         string                   `json:"id"`
	Properties HubspotProductProperties `json:"properties"`
}

type HubspotPagingNext struct {
	After string `json:"after"`
}

type HubspotPaging struct {
	Next HubspotPagingNext `json:"next"`
}

type HubspotProductListResponse struct {
	Results []HubspotProduct `json:"results"`
	Paging  *HubspotPaging   `json:"paging,omitempty"`
}

type HubspotOwner struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type HubspotOwnerListResponse struct {
	Results []HubspotOwner `json:"results"`
}

// HubspotCompanyUpdate is the full property set written onto a company
// record from an emerge billing snapshot. Date properties are epoch
// milliseconds. Absent optional values are omitted from the payload.
type HubspotCompanyUpdate struct {
	Name                     string  `json:"name,omitempty"`
	EmergeCompanyID          int64   `json:"emerge_company_id,omitempty"`
	DateOpened               *int64  `json:"date_opened,omitempty"`
	NumberOfLocations        int64   `json:"of_locations"`
	CompanyStatus            string  `json:"company_status,omitempty"`
	NumberOfUsers            int64   `json:"of_users"`
	SalesLastMonth           float64 `json:"sales_last_month"`
	VolumeLastMonth          int64   `json:"volume_last_month"`
	SalesCurrentMonth        float64 `json:"sales_current_month"`
	VolumeCurrentMonth       int64   `json:"volume_current_month"`
	SalesYTD                 float64 `json:"sales_ytd"`
	VolumeYTD                int64   `json:"volume_ytd"`
	ChangeInSales            string  `json:"change_in_sales,omitempty"`
	ChangeInVolume           string  `json:"change_in_volume,omitempty"`
	ProductTypesLastMonth    string  `json:"product_types_last_month,omitempty"`
	ProductTypesCurrentMonth string  `json:"product_types_current_month,omitempty"`
	ProductTypesYTD          string  `json:"product_types_ytd,omitempty"`
	LastReportRun            *int64  `json:"last_report_run,omitempty"`
	CustomerDealStagesSync   bool    `json:"customer_deal_stages_sync"`
	DaysFromLastReport       *int64  `json:"days_from_last_report,omitempty"`
	OwnerID                  string  `json:"hubspot_owner_id,omitempty"`
	LastStatusChangeDate     *int64  `json:"last_status_change_date,omitempty"`
}
