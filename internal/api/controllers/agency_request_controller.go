package controllers

import (
	"github.com/gin-gonic/gin"
	"immoportal/internal/models/request_models"
	"immoportal/internal/services"
	"immoportal/pkg/middleware"
	"immoportal/pkg/utils"
)

type AgencyRequestController struct {
	requestService services.ContactRequestServiceInterface
}

func NewAgencyRequestController(requestService services.ContactRequestServiceInterface) *AgencyRequestController {
	return &AgencyRequestController{requestService: requestService}
}

// List godoc
// @Summary Contact requests across clients
// @Description Latest requests split into pending and decided
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /agent/requests [get]
func (ctl *AgencyRequestController) List(c *gin.Context) {
	resp, err := ctl.requestService.ListForAgency(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// Decide godoc
// @Summary Approve or reject a contact request
// @Description A request is decided once; a second decision returns 409.
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param requestId path string true "Request ID"
// @Param request body request_models.DecideRequest true "Decision"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /agent/requests/{requestId}/decision [post]
func (ctl *AgencyRequestController) Decide(c *gin.Context) {
	requestID, ok := parseIDParam(c, "requestId")
	if !ok {
		return
	}
	var req request_models.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	resp, err := ctl.requestService.Decide(c.Request.Context(), middleware.PrincipalFrom(c), requestID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Request "+resp.Status)
}
