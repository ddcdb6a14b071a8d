package handler

import (
	"io/ioutil"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"intellifi/handler/helpers"
	"intellifi/model/model"
	"intellifi/task/hubspotsync"
)

// CompanyCardHandler serves the billing summary rendered on the hubspot
// company card. A company scoped lookup also enqueues a fresh sync so the
// record catches up while the card is being viewed.
func CompanyCardHandler(c *gin.Context) {
	body, err := ioutil.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"error": "Failed to read the card request body."})
		return
	}

	if !helpers.VerifySignatureV3(c.Request, body, deps.WebhookSecret) {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			gin.H{"error": "Invalid card request signature."})
		return
	}

	objectID, _ := strconv.ParseInt(c.Query("associatedObjectId"), 10, 64)
	emergeCompanyID, _ := strconv.ParseInt(c.Query("emerge_company_id"), 10, 64)
	objectType := c.Query("associatedObjectType")

	request := &model.CompanySyncRequest{
		ObjectID:        objectID,
		Type:            objectType,
		EmergeCompanyID: emergeCompanyID,
	}

	if objectType == model.ObjectTypeCompany && emergeCompanyID != 0 {
		if err := deps.Tasks.Enqueue(hubspotsync.CompanySyncWorkerURI, request); err != nil {
			log.WithError(err).WithFields(log.Fields{"object_id": objectID}).
				Error("Failed to enqueue company sync task from card lookup.")
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"error": "Failed to refresh the company record."})
			return
		}
	}

	billing, err := deps.Engine.GetCompanyBillingInfo(request)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"object_id": objectID,
			"emerge_company_id": emergeCompanyID}).
			Error("Failed to get company billing info for card.")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"error": "Failed to get the company billing info."})
		return
	}

	c.JSON(http.StatusOK, &model.CRMCardResponse{
		Results: []*model.CRMCardProperties{billing.ToCRMCard()},
	})
}
