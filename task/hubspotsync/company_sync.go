package hubspotsync

import (
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"intellifi/model/model"
)

// SyncCompany reconciles one company record against its emerge billing
// snapshot. Duplicate companies carrying the same emerge id get merged
// into one before the property update, so exactly one record is written.
func (e *Engine) SyncCompany(request *model.CompanySyncRequest) error {
	logCtx := log.WithFields(log.Fields{"object_id": request.ObjectID,
		"emerge_company_id": request.EmergeCompanyID})

	if request.EmergeCompanyID == 0 {
		logCtx.Debug("Skipped company sync without an emerge company id.")
		return nil
	}

	companyID, err := e.resolveCompanyID(request, logCtx)
	if err != nil {
		return err
	}
	if companyID == "" {
		return nil
	}

	ownerID, err := e.ownerIDByEmail(request.AccountManagerEmail)
	if err != nil {
		return err
	}

	year, month := request.Year, request.Month
	if year == 0 || month == 0 {
		now := e.now()
		year, month = now.Year(), int(now.Month())
	}

	billing, err := e.billing.GetCustomerBillingInfo(request.EmergeCompanyID, year, month)
	if err != nil {
		return err
	}

	update := billing.ToCompanyUpdate(request.DaysFromLastReport, ownerID,
		request.StatusChangeDate)
	if err := e.crm.UpdateCompany(companyID, update); err != nil {
		return err
	}

	logCtx.WithFields(log.Fields{"company_id": companyID}).
		Info("Synced company billing properties.")
	return nil
}

// resolveCompanyID finds the single company record the request targets.
// An empty id with a nil error means there is nothing to sync.
func (e *Engine) resolveCompanyID(request *model.CompanySyncRequest,
	logCtx *log.Entry) (string, error) {

	if request.ObjectID != 0 && request.Type == model.ObjectTypeCompany {
		return strconv.FormatInt(request.ObjectID, 10), nil
	}

	// A deal scoped request resolves through the deal's existing company
	// association before any search, so an already linked company wins
	// over whatever carries the emerge id property.
	if request.ObjectID != 0 && request.Type == model.ObjectTypeDeal {
		associations, err := e.crm.GetCompaniesForDeal(
			strconv.FormatInt(request.ObjectID, 10))
		if err != nil {
			return "", err
		}
		if associated := associations.First(); associated != nil {
			return associated.ID, nil
		}
	}

	searchResponse, err := e.crm.SearchCompaniesByEmergeID(request.EmergeCompanyID)
	if err != nil {
		return "", err
	}

	if len(searchResponse.Results) == 0 {
		if request.ObjectID == 0 {
			logCtx.Info("No hubspot company found for the emerge company id.")
			return "", nil
		}
		return "", errors.Wrapf(model.CompanyNotResolvedError,
			"No company association on deal %d", request.ObjectID)
	}

	keeper := searchResponse.Results[0]
	for _, duplicate := range searchResponse.Results[1:] {
		if err := e.crm.MergeCompanies(duplicate.ID, keeper.ID); err != nil {
			return "", errors.Wrapf(err,
				"Failed to merge duplicate company %s into %s", duplicate.ID, keeper.ID)
		}
		logCtx.WithFields(log.Fields{"merged_company_id": duplicate.ID,
			"company_id": keeper.ID}).Info("Merged duplicate company.")
	}

	return keeper.ID, nil
}
