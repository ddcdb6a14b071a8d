package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"intellifi/model/model"
)

// CompanySyncWorkerHandler runs one queued company sync task.
func CompanySyncWorkerHandler(c *gin.Context) {
	var request model.CompanySyncRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"error": "Invalid company sync payload."})
		return
	}

	if err := deps.Engine.SyncCompany(&request); err != nil {
		log.WithError(err).WithFields(log.Fields{"object_id": request.ObjectID,
			"emerge_company_id": request.EmergeCompanyID}).
			Error("Failed to sync company.")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"error": "Failed to sync the company."})
		return
	}

	c.Status(http.StatusNoContent)
}

// DealSyncWorkerHandler runs one queued customer deal association task.
func DealSyncWorkerHandler(c *gin.Context) {
	var request model.DealSyncRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"error": "Invalid deal sync payload."})
		return
	}

	if err := deps.Engine.AssociateCustomerDeal(&request); err != nil {
		log.WithError(err).WithFields(log.Fields{"object_id": request.ObjectID}).
			Error("Failed to associate customer deal.")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"error": "Failed to associate the customer deal."})
		return
	}

	c.Status(http.StatusNoContent)
}

// LineItemSyncWorkerHandler runs one queued line item sync task.
func LineItemSyncWorkerHandler(c *gin.Context) {
	var request model.LineItemSyncRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"error": "Invalid line item sync payload."})
		return
	}

	if err := deps.Engine.SyncLineItems(&request); err != nil {
		log.WithError(err).WithFields(log.Fields{"object_id": request.ObjectID,
			"pricing_tier": request.PricingTier}).
			Error("Failed to sync line items.")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"error": "Failed to sync the line items."})
		return
	}

	c.Status(http.StatusNoContent)
}

// ScheduledCompaniesSyncHandler triggers the incremental company sync.
// Only the configured cloud scheduler job may call it.
func ScheduledCompaniesSyncHandler(c *gin.Context) {
	jobName := c.GetHeader("x-cloudscheduler-jobname")
	if jobName == "" || jobName != deps.SchedulerJobName {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			gin.H{"error": "Unauthorized scheduler request."})
		return
	}

	force := c.Query("force") == "true"
	if err := deps.Engine.SyncAllCompanies(force); err != nil {
		log.WithError(err).Error("Failed to run scheduled companies sync.")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"error": "Failed to run the companies sync."})
		return
	}

	c.Status(http.StatusNoContent)
}
