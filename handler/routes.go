package handler

import (
	"github.com/gin-gonic/gin"
)

// InitRoutes registers all service routes on the engine.
func InitRoutes(r *gin.Engine) {
	r.GET("/intellifi/v1/companies", CompanyCardHandler)
	r.POST("/intellifi/v1/companies/sync", ScheduledCompaniesSyncHandler)

	r.POST("/hubspot/v1/events", HubspotEventsHandler)
	r.POST("/hubspot/v1/company-sync/worker", CompanySyncWorkerHandler)
	r.POST("/hubspot/v1/deal-sync/worker", DealSyncWorkerHandler)
	r.POST("/hubspot/v1/line-item-sync/worker", LineItemSyncWorkerHandler)
}
