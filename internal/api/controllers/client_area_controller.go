package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"immoportal/internal/services"
	"immoportal/pkg/middleware"
	"immoportal/pkg/utils"
)

// ClientAreaController serves the subscriber side: matched listings and own requests.
type ClientAreaController struct {
	criteriaService services.CriteriaServiceInterface
	requestService  services.ContactRequestServiceInterface
}

func NewClientAreaController(
	criteriaService services.CriteriaServiceInterface,
	requestService services.ContactRequestServiceInterface,
) *ClientAreaController {
	return &ClientAreaController{
		criteriaService: criteriaService,
		requestService:  requestService,
	}
}

// Listings godoc
// @Summary Listings matching my criteria
// @Description Active listings filtered by the caller's saved criteria. Empty while the subscription is inactive.
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /client/listings [get]
func (ctl *ClientAreaController) Listings(c *gin.Context) {
	resp, err := ctl.criteriaService.MatchedListings(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// SubmitRequest godoc
// @Summary Ask for an owner's contact
// @Description Records a pending contact request. Asking twice is not an error.
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Param propertyId path string true "Property ID"
// @Success 200 {object} utils.APIResponse
// @Success 201 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /client/requests/{propertyId} [post]
func (ctl *ClientAreaController) SubmitRequest(c *gin.Context) {
	propertyID, ok := parseIDParam(c, "propertyId")
	if !ok {
		return
	}

	created, err := ctl.requestService.Submit(c.Request.Context(), middleware.PrincipalFrom(c), propertyID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	data := gin.H{"property_id": propertyID.String(), "created": created}
	if created {
		utils.RespondWithStatus(c, http.StatusCreated, data, "Request sent")
		return
	}
	utils.RespondSuccess(c, data, "Request already sent")
}

// MyRequests godoc
// @Summary My contact requests
// @Description Own requests, newest first. Owner contact is included once approved.
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /client/requests [get]
func (ctl *ClientAreaController) MyRequests(c *gin.Context) {
	resp, err := ctl.requestService.ListForClient(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}
