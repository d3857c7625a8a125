package controllers

import (
	"github.com/gin-gonic/gin"
	"immoportal/internal/models/request_models"
	"immoportal/internal/services"
	"immoportal/pkg/middleware"
	"immoportal/pkg/utils"
)

type AdminController struct {
	clientService services.ClientServiceInterface
}

func NewAdminController(clientService services.ClientServiceInterface) *AdminController {
	return &AdminController{clientService: clientService}
}

// CreateAgent godoc
// @Summary Create an agent account
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.CreateAccountRequest true "Agent account"
// @Success 201 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /admin/agents [post]
func (ctl *AdminController) CreateAgent(c *gin.Context) {
	var req request_models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	resp, err := ctl.clientService.CreateAgentAccount(c.Request.Context(), middleware.PrincipalFrom(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	respondCreated(c, resp, "Agent created")
}
