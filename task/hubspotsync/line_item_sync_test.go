package hubspotsync

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"intellifi/model/model"
)

func dealWithLineItems(dealID string, lineItemIDs ...string) *model.HubspotDeal {
	associations := &model.HubspotDealAssociations{}
	for _, id := range lineItemIDs {
		associations.LineItems.Results = append(associations.LineItems.Results,
			model.HubspotAssociationEdge{ID: id})
	}
	return &model.HubspotDeal{ID: dealID, Associations: associations}
}

func tieredProduct(id, name, sku, price, tier2, tier3 string) model.HubspotProduct {
	return model.HubspotProduct{ID: id, Properties: model.HubspotProductProperties{
		Name: name, SKU: sku, Price: price, Tier2: tier2, Tier3: tier3}}
}

func TestSyncLineItemsClearsDealWithoutTier(t *testing.T) {
	crm := newFakeCRM()
	crm.deals["42"] = dealWithLineItems("42", "li-1", "li-2", "li-3")
	engine := newTestEngine(crm, nil, nil, nil)

	err := engine.SyncLineItems(&model.LineItemSyncRequest{ObjectID: 42})
	assert.Nil(t, err)

	assert.Equal(t, []string{"li-1", "li-2", "li-3"}, crm.deletedLineItems)
	assert.Len(t, crm.createdLineItems, 0)
	assert.Len(t, crm.updatedLineItems, 0)
	assert.Equal(t, 0, crm.productFetches)
}

func TestSyncLineItemsNoTierNoItemsIsNoop(t *testing.T) {
	crm := newFakeCRM()
	crm.deals["42"] = &model.HubspotDeal{ID: "42"}
	engine := newTestEngine(crm, nil, nil, nil)

	err := engine.SyncLineItems(&model.LineItemSyncRequest{ObjectID: 42})
	assert.Nil(t, err)
	assert.Len(t, crm.deletedLineItems, 0)
}

func TestSyncLineItemsDiffsAgainstCatalog(t *testing.T) {
	crm := newFakeCRM()
	crm.deals["42"] = dealWithLineItems("42", "li-1", "li-2")
	crm.lineItems["li-1"] = model.HubspotLineItem{ID: "li-1",
		Properties: model.HubspotLineItemProperties{ProductID: "p-1", Price: "10"}}
	crm.lineItems["li-2"] = model.HubspotLineItem{ID: "li-2",
		Properties: model.HubspotLineItemProperties{ProductID: "p-2", Price: "20"}}
	crm.products = []model.HubspotProduct{
		tieredProduct("p-1", "Basic Check", "SKU-1", "10", "15", ""),
		tieredProduct("p-2", "Drug Panel", "SKU-2", "20", "", "30"),
		tieredProduct("p-3", "MVR Report", "SKU-3", "5", "8", "12"),
	}
	engine := newTestEngine(crm, nil, nil, nil)

	err := engine.SyncLineItems(&model.LineItemSyncRequest{ObjectID: 42,
		PricingTier: model.PricingTierTwo})
	assert.Nil(t, err)

	// p-1 keeps its line item at the tier price, p-2 has no tier price
	// and gets removed, p-3 is missing and gets created.
	assert.Len(t, crm.updatedLineItems, 1)
	assert.Equal(t, "li-1", crm.updatedLineItems[0].ID)
	assert.Equal(t, "15", crm.updatedLineItems[0].Properties.Price)

	assert.Equal(t, []string{"li-2"}, crm.deletedLineItems)

	assert.Len(t, crm.createdLineItems, 1)
	assert.Equal(t, "p-3", crm.createdLineItems[0].ProductID)
	assert.Equal(t, "8", crm.createdLineItems[0].Price)
	assert.Equal(t, "1", crm.createdLineItems[0].Quantity)
	assert.Equal(t, "MVR Report", crm.createdLineItems[0].Name)

	assert.Len(t, crm.lineItemDealLinks, 1)
	assert.Equal(t, []string{"new-line-item-1"}, crm.lineItemDealLinks[0])
}

func TestSyncLineItemsCreatesAllOnEmptyDeal(t *testing.T) {
	crm := newFakeCRM()
	crm.deals["42"] = &model.HubspotDeal{ID: "42"}
	crm.products = []model.HubspotProduct{
		tieredProduct("p-1", "Basic Check", "SKU-1", "10", "15", ""),
		tieredProduct("p-2", "Drug Panel", "SKU-2", "20", "25", "30"),
		tieredProduct("p-4", "No SKU", "", "9", "9", "9"),
	}
	engine := newTestEngine(crm, nil, nil, nil)

	err := engine.SyncLineItems(&model.LineItemSyncRequest{ObjectID: 42,
		PricingTier: model.PricingTierOne})
	assert.Nil(t, err)

	assert.Len(t, crm.updatedLineItems, 0)
	assert.Len(t, crm.deletedLineItems, 0)

	// Products without a sku never become line items.
	createdProducts := make([]string, 0)
	for _, item := range crm.createdLineItems {
		createdProducts = append(createdProducts, item.ProductID)
	}
	sort.Strings(createdProducts)
	assert.Equal(t, []string{"p-1", "p-2"}, createdProducts)

	assert.Len(t, crm.lineItemDealLinks, 1)
	assert.Len(t, crm.lineItemDealLinks[0], 2)
}
