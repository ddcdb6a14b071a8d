package hubspotsync

import (
	"fmt"
	"time"

	"intellifi/model/model"
)

// fakeCRM is an in-memory hubspot with call recorders for write paths.
type fakeCRM struct {
	companiesByEmergeID map[int64]*model.HubspotCompanySearchResponse
	companiesByName     map[string]*model.HubspotCompanySearchResponse
	dealsByName         map[string]*model.HubspotDealSearchResponse
	deals               map[string]*model.HubspotDeal
	dealCompanies       map[string]*model.HubspotAssociationBatchReadResponse
	lineItems           map[string]model.HubspotLineItem
	products            []model.HubspotProduct
	owners              map[string]*model.HubspotOwner

	mergeErr error

	ownerLookups   int
	productFetches int

	companyUpdates map[string][]*model.HubspotCompanyUpdate
	dealUpdates    map[string][]*model.HubspotDealUpdate
	merges         [][2]string
	createdNames   []string

	companyDealLinks  [][2]string
	customerDealLinks [][2]string

	createdLineItems  []model.HubspotLineItemProperties
	updatedLineItems  []model.HubspotLineItem
	deletedLineItems  []string
	lineItemDealLinks [][]string
}

func newFakeCRM() *fakeCRM {
	return &fakeCRM{
		companiesByEmergeID: make(map[int64]*model.HubspotCompanySearchResponse),
		companiesByName:     make(map[string]*model.HubspotCompanySearchResponse),
		dealsByName:         make(map[string]*model.HubspotDealSearchResponse),
		deals:               make(map[string]*model.HubspotDeal),
		dealCompanies:       make(map[string]*model.HubspotAssociationBatchReadResponse),
		lineItems:           make(map[string]model.HubspotLineItem),
		owners:              make(map[string]*model.HubspotOwner),
		companyUpdates:      make(map[string][]*model.HubspotCompanyUpdate),
		dealUpdates:         make(map[string][]*model.HubspotDealUpdate),
	}
}

func (f *fakeCRM) SearchCompaniesByEmergeID(emergeCompanyID int64) (*model.HubspotCompanySearchResponse, error) {
	if response, exists := f.companiesByEmergeID[emergeCompanyID]; exists {
		return response, nil
	}
	return &model.HubspotCompanySearchResponse{}, nil
}

func (f *fakeCRM) SearchCompaniesByName(name string) (*model.HubspotCompanySearchResponse, error) {
	if response, exists := f.companiesByName[name]; exists {
		return response, nil
	}
	return &model.HubspotCompanySearchResponse{}, nil
}

func (f *fakeCRM) SearchDealsByName(name string) (*model.HubspotDealSearchResponse, error) {
	if response, exists := f.dealsByName[name]; exists {
		return response, nil
	}
	return &model.HubspotDealSearchResponse{}, nil
}

func (f *fakeCRM) CreateCompany(name string) (*model.HubspotCompany, error) {
	f.createdNames = append(f.createdNames, name)
	return &model.HubspotCompany{
		ID:         fmt.Sprintf("new-company-%d", len(f.createdNames)),
		Properties: model.HubspotCompanyProperties{Name: name},
	}, nil
}

func (f *fakeCRM) UpdateCompany(companyID string, update *model.HubspotCompanyUpdate) error {
	f.companyUpdates[companyID] = append(f.companyUpdates[companyID], update)
	return nil
}

func (f *fakeCRM) MergeCompanies(mergeID, keepID string) error {
	if f.mergeErr != nil {
		return f.mergeErr
	}
	f.merges = append(f.merges, [2]string{mergeID, keepID})
	return nil
}

func (f *fakeCRM) GetDeal(dealID string, properties, associations []string) (*model.HubspotDeal, error) {
	if deal, exists := f.deals[dealID]; exists {
		return deal, nil
	}
	return &model.HubspotDeal{ID: dealID}, nil
}

func (f *fakeCRM) UpdateDeal(dealID string, update *model.HubspotDealUpdate) error {
	f.dealUpdates[dealID] = append(f.dealUpdates[dealID], update)
	if deal, exists := f.deals[dealID]; exists {
		deal.Properties.OriginalClosedWonDeal = update.OriginalClosedWonDeal
	}
	return nil
}

func (f *fakeCRM) GetCompaniesForDeal(dealID string) (*model.HubspotAssociationBatchReadResponse, error) {
	if response, exists := f.dealCompanies[dealID]; exists {
		return response, nil
	}
	return &model.HubspotAssociationBatchReadResponse{}, nil
}

func (f *fakeCRM) AssociateCompanyWithDeal(dealID, companyID string) error {
	f.companyDealLinks = append(f.companyDealLinks, [2]string{dealID, companyID})
	return nil
}

func (f *fakeCRM) AssociateCustomerCompanyWithDeal(dealID, companyID string) error {
	f.customerDealLinks = append(f.customerDealLinks, [2]string{dealID, companyID})
	return nil
}

func (f *fakeCRM) GetLineItems(lineItemIDs []string) ([]model.HubspotLineItem, error) {
	items := make([]model.HubspotLineItem, 0, len(lineItemIDs))
	for _, id := range lineItemIDs {
		if item, exists := f.lineItems[id]; exists {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeCRM) CreateLineItems(lineItems []model.HubspotLineItemProperties) ([]model.HubspotLineItem, error) {
	created := make([]model.HubspotLineItem, 0, len(lineItems))
	for i := range lineItems {
		f.createdLineItems = append(f.createdLineItems, lineItems[i])
		created = append(created, model.HubspotLineItem{
			ID:         fmt.Sprintf("new-line-item-%d", len(f.createdLineItems)),
			Properties: lineItems[i],
		})
	}
	return created, nil
}

func (f *fakeCRM) UpdateLineItems(lineItems []model.HubspotLineItem) error {
	f.updatedLineItems = append(f.updatedLineItems, lineItems...)
	return nil
}

func (f *fakeCRM) DeleteLineItems(lineItemIDs []string) error {
	f.deletedLineItems = append(f.deletedLineItems, lineItemIDs...)
	return nil
}

func (f *fakeCRM) AssociateLineItemsWithDeal(lineItemIDs []string, dealID string) error {
	f.lineItemDealLinks = append(f.lineItemDealLinks, lineItemIDs)
	return nil
}

func (f *fakeCRM) GetAllProducts() ([]model.HubspotProduct, error) {
	f.productFetches++
	return f.products, nil
}

func (f *fakeCRM) GetOwnerByEmail(email string) (*model.HubspotOwner, error) {
	f.ownerLookups++
	return f.owners[email], nil
}

type fakeBilling struct {
	customers []model.EmergeCompanyInfo
	billing   map[int64]*model.EmergeCompanyBillingInfo

	sinceDates []time.Time
}

func (f *fakeBilling) GetCustomersSince(since time.Time) ([]model.EmergeCompanyInfo, error) {
	f.sinceDates = append(f.sinceDates, since)
	return f.customers, nil
}

func (f *fakeBilling) GetCustomerBillingInfo(emergeCompanyID int64,
	year, month int) (*model.EmergeCompanyBillingInfo, error) {

	if billing, exists := f.billing[emergeCompanyID]; exists {
		return billing, nil
	}
	return &model.EmergeCompanyBillingInfo{EmergeCompanyID: emergeCompanyID}, nil
}

type enqueuedTask struct {
	uri     string
	payload interface{}
}

type fakeTasks struct {
	enqueued []enqueuedTask

	// Indexes of Enqueue calls that should fail, zero based.
	failAt map[int]error
	calls  int
}

func (f *fakeTasks) Enqueue(relativeURI string, payload interface{}) error {
	call := f.calls
	f.calls++
	if err, exists := f.failAt[call]; exists {
		return err
	}
	f.enqueued = append(f.enqueued, enqueuedTask{uri: relativeURI, payload: payload})
	return nil
}

type fakeStore struct {
	lineItemSyncEnabled bool
	lastRunDate         string
	setDates            []string
}

func (f *fakeStore) LineItemSyncEnabled() (bool, error) {
	return f.lineItemSyncEnabled, nil
}

func (f *fakeStore) GetLastRunDate() (string, error) {
	return f.lastRunDate, nil
}

func (f *fakeStore) SetLastRunDate(date string) error {
	f.setDates = append(f.setDates, date)
	f.lastRunDate = date
	return nil
}

var testNow = time.Date(2023, time.June, 15, 10, 0, 0, 0, time.UTC)

func newTestEngine(crm *fakeCRM, billing *fakeBilling, tasks *fakeTasks,
	store *fakeStore) *Engine {

	if billing == nil {
		billing = &fakeBilling{billing: make(map[int64]*model.EmergeCompanyBillingInfo)}
	}
	if tasks == nil {
		tasks = &fakeTasks{}
	}
	if store == nil {
		store = &fakeStore{}
	}

	engine, err := NewEngine(crm, billing, tasks, store)
	if err != nil {
		panic(err)
	}
	engine.now = func() time.Time { return testNow }
	return engine
}
