package hubspotsync

import (
	"strconv"

	log "github.com/sirupsen/logrus"

	"intellifi/model/model"
)

// SyncLineItems reconciles a deal's line items against the product
// catalog at the requested pricing tier. A line item is eligible when its
// product has a sku and a price for the tier. An empty tier clears all
// line items from the deal.
func (e *Engine) SyncLineItems(request *model.LineItemSyncRequest) error {
	dealID := strconv.FormatInt(request.ObjectID, 10)
	logCtx := log.WithFields(log.Fields{"deal_id": dealID,
		"pricing_tier": request.PricingTier})

	deal, err := e.crm.GetDeal(dealID, nil, []string{"line_item"})
	if err != nil {
		return err
	}
	lineItemIDs := deal.LineItemIDs()

	if request.PricingTier == "" {
		if len(lineItemIDs) == 0 {
			return nil
		}
		if err := e.crm.DeleteLineItems(lineItemIDs); err != nil {
			return err
		}
		logCtx.WithFields(log.Fields{"deleted": len(lineItemIDs)}).
			Info("Cleared line items for deal without a pricing tier.")
		return nil
	}

	products, err := e.crm.GetAllProducts()
	if err != nil {
		return err
	}

	// Price by product id for products sellable at this tier.
	tierPrices := make(map[string]string)
	productNames := make(map[string]string)
	for i := range products {
		product := &products[i]
		price := product.Properties.PriceForTier(request.PricingTier)
		if product.Properties.SKU == "" || price == "" {
			continue
		}
		tierPrices[product.ID] = price
		productNames[product.ID] = product.Properties.Name
	}

	var currentItems []model.HubspotLineItem
	if len(lineItemIDs) > 0 {
		currentItems, err = e.crm.GetLineItems(lineItemIDs)
		if err != nil {
			return err
		}
	}

	updates := make([]model.HubspotLineItem, 0)
	deletions := make([]string, 0)
	presentProducts := make(map[string]bool)
	for i := range currentItems {
		item := &currentItems[i]
		price, eligible := tierPrices[item.Properties.ProductID]
		if !eligible {
			deletions = append(deletions, item.ID)
			continue
		}
		presentProducts[item.Properties.ProductID] = true
		updates = append(updates, model.HubspotLineItem{
			ID:         item.ID,
			Properties: model.HubspotLineItemProperties{Price: price},
		})
	}

	creations := make([]model.HubspotLineItemProperties, 0)
	for productID, price := range tierPrices {
		if presentProducts[productID] {
			continue
		}
		creations = append(creations, model.HubspotLineItemProperties{
			Name:      productNames[productID],
			ProductID: productID,
			Quantity:  "1",
			Price:     price,
		})
	}

	if len(updates) > 0 {
		if err := e.crm.UpdateLineItems(updates); err != nil {
			return err
		}
	}
	if len(deletions) > 0 {
		if err := e.crm.DeleteLineItems(deletions); err != nil {
			return err
		}
	}
	if len(creations) > 0 {
		created, err := e.crm.CreateLineItems(creations)
		if err != nil {
			return err
		}

		createdIDs := make([]string, 0, len(created))
		for i := range created {
			createdIDs = append(createdIDs, created[i].ID)
		}
		if err := e.crm.AssociateLineItemsWithDeal(createdIDs, dealID); err != nil {
			return err
		}
	}

	logCtx.WithFields(log.Fields{"updated": len(updates),
		"deleted": len(deletions), "created": len(creations)}).
		Info("Synced line items for deal.")
	return nil
}
