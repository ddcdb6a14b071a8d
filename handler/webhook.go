package handler

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"intellifi/handler/helpers"
	"intellifi/model/model"
	"intellifi/task/hubspotsync"
)

// HubspotEventsHandler receives hubspot webhook event batches and fans
// them out to the worker queue. Events land here at least once, so the
// workers behind the queue are written to be idempotent.
func HubspotEventsHandler(c *gin.Context) {
	body, err := ioutil.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"error": "Failed to read the webhook request body."})
		return
	}

	if !helpers.VerifySignatureV3(c.Request, body, deps.WebhookSecret) {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			gin.H{"error": "Invalid webhook signature."})
		return
	}

	var events []model.HubspotWebhookEvent
	if err := json.Unmarshal(body, &events); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"error": "Invalid webhook payload."})
		return
	}

	for i := range events {
		event := &events[i]
		if event.SubscriptionType != model.SubscriptionTypeDealPropertyChange {
			continue
		}

		logCtx := log.WithFields(log.Fields{"object_id": event.ObjectID,
			"property_name": event.PropertyName})

		switch event.PropertyName {
		case model.PropertyNameCustomerDeal:
			request := &model.DealSyncRequest{ObjectID: event.ObjectID}
			if err := deps.Tasks.Enqueue(hubspotsync.DealSyncWorkerURI, request); err != nil {
				logCtx.WithError(err).Error("Failed to enqueue deal sync task.")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					gin.H{"error": "Failed to process the hubspot deal event."})
				return
			}

		case model.PropertyNamePricingTier:
			enabled, err := deps.Store.LineItemSyncEnabled()
			if err != nil {
				logCtx.WithError(err).Error("Failed to read line item sync setting.")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					gin.H{"error": "Failed to process the hubspot deal event."})
				return
			}
			if !enabled {
				logCtx.Debug("Skipped pricing tier event. Line item sync is disabled.")
				continue
			}

			request := &model.LineItemSyncRequest{
				ObjectID:    event.ObjectID,
				PricingTier: model.PricingTier(event.PropertyValue),
			}
			if err := deps.Tasks.Enqueue(hubspotsync.LineItemSyncWorkerURI, request); err != nil {
				logCtx.WithError(err).Error("Failed to enqueue line item sync task.")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					gin.H{"error": "Failed to process the hubspot deal event."})
				return
			}
		}
	}

	c.Status(http.StatusNoContent)
}
