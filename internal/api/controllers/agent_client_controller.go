package controllers

import (
	"github.com/gin-gonic/gin"
	"immoportal/internal/models/request_models"
	"immoportal/internal/services"
	"immoportal/pkg/middleware"
	"immoportal/pkg/utils"
)

type AgentClientController struct {
	clientService       services.ClientServiceInterface
	criteriaService     services.CriteriaServiceInterface
	subscriptionService services.SubscriptionServiceInterface
}

func NewAgentClientController(
	clientService services.ClientServiceInterface,
	criteriaService services.CriteriaServiceInterface,
	subscriptionService services.SubscriptionServiceInterface,
) *AgentClientController {
	return &AgentClientController{
		clientService:       clientService,
		criteriaService:     criteriaService,
		subscriptionService: subscriptionService,
	}
}

// List godoc
// @Summary List clients
// @Tags Agent
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /agent/clients [get]
func (ctl *AgentClientController) List(c *gin.Context) {
	resp, err := ctl.clientService.ListClients(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// Create godoc
// @Summary Create a client account
// @Description Creates the login, client profile, default subscription and empty criteria together
// @Tags Agent
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.CreateAccountRequest true "Client account"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /agent/clients [post]
func (ctl *AgentClientController) Create(c *gin.Context) {
	var req request_models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	resp, err := ctl.clientService.CreateClientAccount(c.Request.Context(), middleware.PrincipalFrom(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	respondCreated(c, resp, "Client created")
}

// Get godoc
// @Summary Client detail
// @Tags Agent
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /agent/clients/{clientId} [get]
func (ctl *AgentClientController) Get(c *gin.Context) {
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	resp, err := ctl.clientService.GetClient(c.Request.Context(), middleware.PrincipalFrom(c), clientID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// GetCriteria godoc
// @Summary Get a client's search criteria
// @Tags Agent
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {object} utils.APIResponse
// @Router /agent/clients/{clientId}/criteria [get]
func (ctl *AgentClientController) GetCriteria(c *gin.Context) {
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	resp, err := ctl.criteriaService.Get(c.Request.Context(), middleware.PrincipalFrom(c), clientID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// UpsertCriteria godoc
// @Summary Replace a client's search criteria
// @Tags Agent
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Param request body request_models.UpsertCriteriaRequest true "Criteria"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /agent/clients/{clientId}/criteria [put]
func (ctl *AgentClientController) UpsertCriteria(c *gin.Context) {
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}
	var req request_models.UpsertCriteriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	resp, err := ctl.criteriaService.Upsert(c.Request.Context(), middleware.PrincipalFrom(c), clientID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Criteria saved")
}

// ListSubscriptions godoc
// @Summary Latest subscriptions of a client
// @Tags Agent
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {object} utils.APIResponse
// @Router /agent/clients/{clientId}/subscriptions [get]
func (ctl *AgentClientController) ListSubscriptions(c *gin.Context) {
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	resp, err := ctl.subscriptionService.History(c.Request.Context(), middleware.PrincipalFrom(c), clientID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// RecordSubscription godoc
// @Summary Record a subscription window
// @Description Appends a subscription record set manually by staff
// @Tags Agent
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Param request body request_models.RecordSubscriptionRequest true "Subscription"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /agent/clients/{clientId}/subscriptions [post]
func (ctl *AgentClientController) RecordSubscription(c *gin.Context) {
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}
	var req request_models.RecordSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	resp, err := ctl.subscriptionService.Record(c.Request.Context(), middleware.PrincipalFrom(c), clientID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	respondCreated(c, resp, "Subscription recorded")
}
