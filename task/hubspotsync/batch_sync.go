package hubspotsync

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"intellifi/model/model"
	U "intellifi/util"
)

const (
	syncCursorLayout = "01-02-2006"

	// Cursor used when no sync has run yet or a full resync is forced.
	fullSyncCursor = "01-01-2000"
)

// SyncAllCompanies enqueues one company sync task per emerge customer
// modified since the last run, then advances the cursor. A failed enqueue
// is logged and skipped so one bad customer does not stall the run.
func (e *Engine) SyncAllCompanies(force bool) error {
	startTime := e.now()

	lastRunDate, err := e.store.GetLastRunDate()
	if err != nil {
		return err
	}
	if force || lastRunDate == "" {
		lastRunDate = fullSyncCursor
	}

	since, err := time.Parse(syncCursorLayout, lastRunDate)
	if err != nil {
		return errors.Wrapf(err, "Invalid sync cursor date %s", lastRunDate)
	}

	customers, err := e.billing.GetCustomersSince(since)
	if err != nil {
		return err
	}

	enqueued := 0
	for index := range customers {
		customer := &customers[index]

		var statusChangeDate *int64
		if customer.StatusChangeDate != nil {
			statusChangeDate = U.MillisFromTime(&customer.StatusChangeDate.Time)
		}

		request := &model.CompanySyncRequest{
			ObjectID:            customer.HubspotObjectID,
			Type:                model.ObjectTypeDeal,
			EmergeCompanyID:     customer.EmergeCompanyID,
			DaysFromLastReport:  customer.DaysFromLastReport,
			AccountManagerEmail: customer.AccountManagerEmail,
			StatusChangeDate:    statusChangeDate,
		}

		if err := e.tasks.Enqueue(CompanySyncWorkerURI, request); err != nil {
			log.WithError(err).WithFields(log.Fields{"index": index + 1,
				"company_name":      customer.EmergeCompanyName,
				"emerge_company_id": customer.EmergeCompanyID}).
				Error("Failed to enqueue company sync task.")
			continue
		}
		enqueued++
	}

	if err := e.store.SetLastRunDate(startTime.Format(syncCursorLayout)); err != nil {
		return err
	}

	log.WithFields(log.Fields{"customers": len(customers),
		"enqueued": enqueued, "since": since.Format(syncCursorLayout)}).
		Info("Enqueued company sync tasks.")
	return nil
}

// GetCompanyBillingInfo returns the billing snapshot backing the CRM card
// for a company. A zero emerge id returns an empty snapshot so the card
// renders blank instead of erroring.
func (e *Engine) GetCompanyBillingInfo(request *model.CompanySyncRequest) (*model.EmergeCompanyBillingInfo, error) {
	if request.EmergeCompanyID == 0 {
		return &model.EmergeCompanyBillingInfo{}, nil
	}

	year, month := request.Year, request.Month
	if year == 0 || month == 0 {
		now := e.now()
		year, month = now.Year(), int(now.Month())
	}

	return e.billing.GetCustomerBillingInfo(request.EmergeCompanyID, year, month)
}
