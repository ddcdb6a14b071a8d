package handler

import (
	"intellifi/model/model"
	"intellifi/task/hubspotsync"
)

// SyncEngine is the sync surface the handlers dispatch to.
type SyncEngine interface {
	SyncCompany(request *model.CompanySyncRequest) error
	AssociateCustomerDeal(request *model.DealSyncRequest) error
	SyncLineItems(request *model.LineItemSyncRequest) error
	SyncAllCompanies(force bool) error
	GetCompanyBillingInfo(request *model.CompanySyncRequest) (*model.EmergeCompanyBillingInfo, error)
}

// Dependencies wires the handlers to the engine and the queue.
type Dependencies struct {
	Engine SyncEngine
	Tasks  hubspotsync.TaskEnqueuer
	Store  hubspotsync.SettingsStore

	// Shared secret for verifying hubspot webhook signatures.
	WebhookSecret string
	// Expected job name header value on scheduler triggered requests.
	SchedulerJobName string
}

var deps *Dependencies

func Init(d *Dependencies) {
	deps = d
}
