package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"immoportal/internal/models/request_models"
	"immoportal/internal/services"
	"immoportal/pkg/middleware"
	"immoportal/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
}

func NewAccountController(accountService services.AccountServiceInterface) *AccountController {
	return &AccountController{
		accountService: accountService,
	}
}

// Login godoc
// @Summary Login to an account
// @Description Authenticate with email and password and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /auth/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	resp, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Login successful")
}

// SignOut godoc
// @Summary Sign out
// @Description Revoke the bearer token used for this call
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /auth/signout [post]
func (a *AccountController) SignOut(c *gin.Context) {
	a.accountService.SignOut(middleware.ClaimsFrom(c))
	utils.RespondSuccess(c, nil, "Signed out")
}

// Me godoc
// @Summary Current principal
// @Description Identity, resolved role and the landing area for that role
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /me [get]
func (a *AccountController) Me(c *gin.Context) {
	resp, err := a.accountService.Me(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// parseIDParam reads a uuid path parameter, answering 400 when malformed.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondValidationError(c, utils.InvalidField(name, "must be a valid id"))
		return uuid.Nil, false
	}
	return id, true
}

func respondCreated(c *gin.Context, data interface{}, message string) {
	utils.RespondWithStatus(c, http.StatusCreated, data, message)
}
