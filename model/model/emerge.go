package model

import (
	"fmt"
	"strings"
	"time"

	U "intellifi/util"
)

// StarVolumeThreshold is the current month volume above which a company
// name carries the star marker on the CRM side.
const StarVolumeThreshold = 499

const starMarker = " ⭐"

// EmergeTime unmarshals the timestamp formats the emerge API emits, with
// or without a zone offset or a time component.
type EmergeTime struct {
	time.Time
}

var emergeTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (t *EmergeTime) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	var err error
	for _, layout := range emergeTimeLayouts {
		var parsed time.Time
		parsed, err = time.Parse(layout, value)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return err
}

// EmergeSales is a volume and dollar sales pair for one billing window.
type EmergeSales struct {
	Volume int64   `json:"Volume"`
	Sales  float64 `json:"Sales"`
}

func (s *EmergeSales) String() string {
	star := ""
	if s.Volume > StarVolumeThreshold {
		star = starMarker
	}
	return fmt.Sprintf("Volume: %d%s, Sales: $%s", s.Volume, star,
		U.FormatFloatWithCommas(s.Sales, 2))
}

// EmergeProductTypes is the package and individual report mix for one
// billing window.
type EmergeProductTypes struct {
	NumberOfPackages          int64 `json:"NumberOfPackages"`
	NumberOfIndividualReports int64 `json:"NumberOfIndividualReports"`
}

func (p *EmergeProductTypes) String() string {
	return fmt.Sprintf("%d Packages, %d Individual Reports",
		p.NumberOfPackages, p.NumberOfIndividualReports)
}

// EmergeCompanyInfo is one customer record from the emerge directory
// listing.
type EmergeCompanyInfo struct {
	EmergeCompanyID     int64       `json:"EmergeCompanyId"`
	EmergeCompanyName   string      `json:"EmergeCompanyName"`
	HubspotObjectID     int64       `json:"HubSpotObjectId"`
	AccountStatus       string      `json:"AccountStatus"`
	DateOpened          *EmergeTime `json:"DateOpened"`
	NumberOfUsers       int64       `json:"NumberOfUsers"`
	NumberOfLocations   int64       `json:"NumberOfLocations"`
	DaysFromLastReport  *int64      `json:"DaysFromLastReport"`
	AccountManagerEmail string      `json:"AccountManagerEmail"`
	StatusChangeDate    *EmergeTime `json:"StatusChangeDate"`
	LastModifiedDate    *EmergeTime `json:"LastModifiedDate"`
}

// EmergeCompanyBillingInfo is the per customer billing snapshot for a
// reporting month.
type EmergeCompanyBillingInfo struct {
	EmergeCompanyID          int64               `json:"EmergeCompanyId"`
	EmergeCompanyName        string              `json:"EmergeCompanyName"`
	AccountStatus            string              `json:"AccountStatus"`
	DateOpened               *EmergeTime         `json:"DateOpened"`
	NumberOfUsers            int64               `json:"NumberOfUsers"`
	NumberOfLocations        int64               `json:"NumberOfLocations"`
	SalesLastMonth           *EmergeSales        `json:"SalesLastMonth"`
	SalesCurrentMonth        *EmergeSales        `json:"SalesCurrentMonth"`
	SalesYTD                 *EmergeSales        `json:"SalesYTD"`
	ProductTypesLastMonth    *EmergeProductTypes `json:"ProductsTypeLastMonth"`
	ProductTypesCurrentMonth *EmergeProductTypes `json:"ProductsTypeCurrentMonth"`
	ProductTypesYTD          *EmergeProductTypes `json:"ProductsTypeYTD"`
	LastReportRun            *EmergeTime         `json:"LastReportRun"`
}

// changeWithIndicator formats the month over month change as a percentage
// with a direction marker outside the 20 percent band. Returns "N/A" when
// the prior month has no baseline.
func changeWithIndicator(current, prior float64) string {
	if prior <= 0 {
		return "N/A"
	}

	change := (current - prior) / prior * 100
	formatted := U.FormatFloatWithCommas(change, 0) + "%"
	if change < -20 {
		formatted += " 🔻"
	} else if change > 20 {
		formatted += " ▲"
	}
	return formatted
}

// ToCompanyUpdate builds the hubspot company property payload for this
// billing snapshot. The star marker is recomputed from the current month
// volume so stale markers get stripped.
func (b *EmergeCompanyBillingInfo) ToCompanyUpdate(daysFromLastReport *int64,
	ownerID string, statusChangeDate *int64) *HubspotCompanyUpdate {

	update := &HubspotCompanyUpdate{
		Name:                   strings.Trim(b.EmergeCompanyName, starMarker),
		EmergeCompanyID:        b.EmergeCompanyID,
		NumberOfLocations:      b.NumberOfLocations,
		CompanyStatus:          strings.ToUpper(b.AccountStatus),
		NumberOfUsers:          b.NumberOfUsers,
		CustomerDealStagesSync: true,
		DaysFromLastReport:     daysFromLastReport,
		OwnerID:                ownerID,
		LastStatusChangeDate:   statusChangeDate,
	}

	if b.DateOpened != nil {
		update.DateOpened = U.MillisFromTime(&b.DateOpened.Time)
	}
	if b.LastReportRun != nil {
		update.LastReportRun = U.MillisFromTime(&b.LastReportRun.Time)
	}

	if b.SalesLastMonth != nil {
		update.SalesLastMonth = b.SalesLastMonth.Sales
		update.VolumeLastMonth = b.SalesLastMonth.Volume
	}
	if b.SalesCurrentMonth != nil {
		update.SalesCurrentMonth = b.SalesCurrentMonth.Sales
		update.VolumeCurrentMonth = b.SalesCurrentMonth.Volume
	}
	if b.SalesYTD != nil {
		update.SalesYTD = b.SalesYTD.Sales
		update.VolumeYTD = b.SalesYTD.Volume
	}

	update.ChangeInSales = "N/A"
	update.ChangeInVolume = "N/A"
	if b.SalesCurrentMonth != nil && b.SalesLastMonth != nil {
		update.ChangeInSales = changeWithIndicator(
			b.SalesCurrentMonth.Sales, b.SalesLastMonth.Sales)

		// The volume composite and the star marker both need a prior
		// month baseline.
		if b.SalesLastMonth.Volume > 0 {
			volumeChange := changeWithIndicator(
				float64(b.SalesCurrentMonth.Volume), float64(b.SalesLastMonth.Volume))
			update.ChangeInVolume = fmt.Sprintf("%d | %d | %s",
				b.SalesCurrentMonth.Volume, b.SalesLastMonth.Volume, volumeChange)

			if b.SalesCurrentMonth.Volume > StarVolumeThreshold {
				update.Name = update.Name + starMarker
			}
		}
	}

	if b.ProductTypesLastMonth != nil {
		update.ProductTypesLastMonth = b.ProductTypesLastMonth.String()
	}
	if b.ProductTypesCurrentMonth != nil {
		update.ProductTypesCurrentMonth = b.ProductTypesCurrentMonth.String()
	}
	if b.ProductTypesYTD != nil {
		update.ProductTypesYTD = b.ProductTypesYTD.String()
	}

	return update
}

// CRMCardProperties is the read only billing summary rendered on the
// hubspot company card.
type CRMCardProperties struct {
	EmergeCompanyID          int64   `json:"emerge_company_id,omitempty"`
	EmergeCompanyName        string  `json:"emerge_company_name,omitempty"`
	AccountStatus            string  `json:"account_status,omitempty"`
	NumberOfUsers            *int64  `json:"number_of_users,omitempty"`
	NumberOfLocations        *int64  `json:"number_of_locations,omitempty"`
	SalesLastMonth           string  `json:"sales_last_month,omitempty"`
	SalesCurrentMonth        string  `json:"sales_current_month,omitempty"`
	SalesYTD                 string  `json:"sales_ytd,omitempty"`
	ChangeInSales            string  `json:"change_in_sales,omitempty"`
	ProductTypesLastMonth    string  `json:"product_types_last_month,omitempty"`
	ProductTypesCurrentMonth string  `json:"product_types_current_month,omitempty"`
	ProductTypesYTD          string  `json:"product_types_ytd,omitempty"`
	LastReportRun            *string `json:"last_report_run,omitempty"`
	Link                     string  `json:"link,omitempty"`
}

// CRMCardResponse is the envelope hubspot expects from a card fetch.
type CRMCardResponse struct {
	Results []*CRMCardProperties `json:"results"`
}

// ToCRMCard builds the card summary for this billing snapshot.
func (b *EmergeCompanyBillingInfo) ToCRMCard() *CRMCardProperties {
	card := &CRMCardProperties{
		EmergeCompanyID:   b.EmergeCompanyID,
		EmergeCompanyName: b.EmergeCompanyName,
		AccountStatus:     strings.ToUpper(b.AccountStatus),
	}
	if b.EmergeCompanyID == 0 {
		return card
	}

	card.NumberOfUsers = &b.NumberOfUsers
	card.NumberOfLocations = &b.NumberOfLocations
	card.Link = fmt.Sprintf("https://emerge.intelifi.com/companies/%d",
		b.EmergeCompanyID)

	if b.SalesLastMonth != nil {
		card.SalesLastMonth = b.SalesLastMonth.String()
	}
	if b.SalesCurrentMonth != nil {
		card.SalesCurrentMonth = b.SalesCurrentMonth.String()
	}
	if b.SalesYTD != nil {
		card.SalesYTD = b.SalesYTD.String()
	}
	if b.SalesCurrentMonth != nil && b.SalesLastMonth != nil {
		card.ChangeInSales = changeWithIndicator(
			b.SalesCurrentMonth.Sales, b.SalesLastMonth.Sales)
	}

	if b.ProductTypesLastMonth != nil {
		card.ProductTypesLastMonth = b.ProductTypesLastMonth.String()
	}
	if b.ProductTypesCurrentMonth != nil {
		card.ProductTypesCurrentMonth = b.ProductTypesCurrentMonth.String()
	}
	if b.ProductTypesYTD != nil {
		card.ProductTypesYTD = b.ProductTypesYTD.String()
	}

	if b.LastReportRun != nil {
		lastRun := b.LastReportRun.Format("01/02/2006")
		card.LastReportRun = &lastRun
	}

	return card
}
