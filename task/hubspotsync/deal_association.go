package hubspotsync

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"intellifi/model/model"
)

const customerDealNamePrefix = "Customer Deal - "

// AssociateCustomerDeal links a customer deal to its company and to the
// original closed won deal it was derived from. When the deal already has
// a company association only the customer deal label is refreshed.
func (e *Engine) AssociateCustomerDeal(request *model.DealSyncRequest) error {
	dealID := strconv.FormatInt(request.ObjectID, 10)
	logCtx := log.WithFields(log.Fields{"deal_id": dealID})

	associations, err := e.crm.GetCompaniesForDeal(dealID)
	if err != nil {
		return err
	}

	var companyID string
	if associated := associations.First(); associated != nil {
		companyID = associated.ID
	} else {
		deal, err := e.crm.GetDeal(dealID,
			[]string{"original_closed_won_deal", "dealname"}, nil)
		if err != nil {
			return err
		}
		companyName := strings.TrimSpace(
			strings.ReplaceAll(deal.Properties.DealName, customerDealNamePrefix, ""))

		originalDealID, err := e.resolveOriginalDeal(deal, companyName, logCtx)
		if err != nil {
			return err
		}

		companyID, err = e.getOrCreateCompanyByName(companyName, logCtx)
		if err != nil {
			return err
		}

		if err := e.crm.AssociateCompanyWithDeal(originalDealID, companyID); err != nil {
			return err
		}
	}

	if err := e.crm.AssociateCustomerCompanyWithDeal(dealID, companyID); err != nil {
		return err
	}

	logCtx.WithFields(log.Fields{"company_id": companyID}).
		Info("Associated customer deal with company.")
	return nil
}

// resolveOriginalDeal returns the id of the closed won deal this customer
// deal was cloned from. A stored reference wins; otherwise the original is
// looked up by the derived name and the reference is persisted back onto
// the customer deal.
func (e *Engine) resolveOriginalDeal(deal *model.HubspotDeal, companyName string,
	logCtx *log.Entry) (string, error) {

	if deal.Properties.OriginalClosedWonDeal != "" {
		return deal.Properties.OriginalClosedWonDeal, nil
	}

	searchResponse, err := e.crm.SearchDealsByName(companyName)
	if err != nil {
		return "", err
	}

	if len(searchResponse.Results) == 0 {
		return "", errors.Wrapf(model.OriginalDealNotFoundError,
			"Deal name %s", companyName)
	}
	if len(searchResponse.Results) > 1 {
		return "", errors.Wrapf(model.AmbiguousOriginalDealError,
			"Deal name %s matched %d deals", companyName, len(searchResponse.Results))
	}

	originalDealID := searchResponse.Results[0].ID
	err = e.crm.UpdateDeal(deal.ID,
		&model.HubspotDealUpdate{OriginalClosedWonDeal: originalDealID})
	if err != nil {
		return "", err
	}

	logCtx.WithFields(log.Fields{"original_deal_id": originalDealID}).
		Info("Resolved original closed won deal by name.")
	return originalDealID, nil
}

// getOrCreateCompanyByName finds the company with exactly the given name,
// creating it when missing and merging duplicates when the name matches
// more than one record.
func (e *Engine) getOrCreateCompanyByName(name string, logCtx *log.Entry) (string, error) {
	searchResponse, err := e.crm.SearchCompaniesByName(name)
	if err != nil {
		return "", err
	}

	if len(searchResponse.Results) == 0 {
		company, err := e.crm.CreateCompany(name)
		if err != nil {
			return "", err
		}
		logCtx.WithFields(log.Fields{"company_id": company.ID,
			"company_name": name}).Info("Created company for customer deal.")
		return company.ID, nil
	}

	keeper := searchResponse.Results[0]
	for _, duplicate := range searchResponse.Results[1:] {
		if err := e.crm.MergeCompanies(duplicate.ID, keeper.ID); err != nil {
			return "", errors.Wrapf(err,
				"Failed to merge duplicate company %s into %s", duplicate.ID, keeper.ID)
		}
	}

	return keeper.ID, nil
}
