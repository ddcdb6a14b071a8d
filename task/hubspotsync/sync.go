package hubspotsync

import (
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"intellifi/model/model"
)

// Worker endpoints reached through the task queue.
const (
	CompanySyncWorkerURI  = "hubspot/v1/company-sync/worker"
	DealSyncWorkerURI     = "hubspot/v1/deal-sync/worker"
	LineItemSyncWorkerURI = "hubspot/v1/line-item-sync/worker"
)

const defaultOwnerCacheSize = 512

// CRMClient is the hubspot surface the sync engine needs.
type CRMClient interface {
	SearchCompaniesByEmergeID(emergeCompanyID int64) (*model.HubspotCompanySearchResponse, error)
	SearchCompaniesByName(name string) (*model.HubspotCompanySearchResponse, error)
	SearchDealsByName(name string) (*model.HubspotDealSearchResponse, error)
	CreateCompany(name string) (*model.HubspotCompany, error)
	UpdateCompany(companyID string, update *model.HubspotCompanyUpdate) error
	MergeCompanies(mergeID, keepID string) error
	GetDeal(dealID string, properties, associations []string) (*model.HubspotDeal, error)
	UpdateDeal(dealID string, update *model.HubspotDealUpdate) error
	GetCompaniesForDeal(dealID string) (*model.HubspotAssociationBatchReadResponse, error)
	AssociateCompanyWithDeal(dealID, companyID string) error
	AssociateCustomerCompanyWithDeal(dealID, companyID string) error
	GetLineItems(lineItemIDs []string) ([]model.HubspotLineItem, error)
	CreateLineItems(lineItems []model.HubspotLineItemProperties) ([]model.HubspotLineItem, error)
	UpdateLineItems(lineItems []model.HubspotLineItem) error
	DeleteLineItems(lineItemIDs []string) error
	AssociateLineItemsWithDeal(lineItemIDs []string, dealID string) error
	GetAllProducts() ([]model.HubspotProduct, error)
	GetOwnerByEmail(email string) (*model.HubspotOwner, error)
}

// BillingClient is the emerge surface the sync engine needs.
type BillingClient interface {
	GetCustomersSince(since time.Time) ([]model.EmergeCompanyInfo, error)
	GetCustomerBillingInfo(emergeCompanyID int64, year, month int) (*model.EmergeCompanyBillingInfo, error)
}

// TaskEnqueuer pushes worker payloads onto the task queue.
type TaskEnqueuer interface {
	Enqueue(relativeURI string, payload interface{}) error
}

// SettingsStore holds the sync feature flags and the incremental cursor.
type SettingsStore interface {
	LineItemSyncEnabled() (bool, error)
	GetLastRunDate() (string, error)
	SetLastRunDate(date string) error
}

// Engine runs the hubspot sync operations. One engine is shared across
// worker requests, so the owner cache amortizes owner lookups over a sync
// run.
type Engine struct {
	crm        CRMClient
	billing    BillingClient
	tasks      TaskEnqueuer
	store      SettingsStore
	ownerCache *lru.Cache
	now        func() time.Time
}

func NewEngine(crm CRMClient, billing BillingClient, tasks TaskEnqueuer,
	store SettingsStore) (*Engine, error) {

	ownerCache, err := lru.New(defaultOwnerCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create owner cache.")
	}

	return &Engine{
		crm:        crm,
		billing:    billing,
		tasks:      tasks,
		store:      store,
		ownerCache: ownerCache,
		now:        time.Now,
	}, nil
}

// ownerIDByEmail resolves the hubspot owner id for an account manager
// email. Unknown owners resolve to empty and are not cached, so a later
// provisioned owner gets picked up.
func (e *Engine) ownerIDByEmail(email string) (string, error) {
	if email == "" {
		return "", nil
	}

	if cached, ok := e.ownerCache.Get(email); ok {
		return cached.(string), nil
	}

	owner, err := e.crm.GetOwnerByEmail(email)
	if err != nil {
		return "", err
	}
	if owner == nil {
		return "", nil
	}

	e.ownerCache.Add(email, owner.ID)
	return owner.ID, nil
}
