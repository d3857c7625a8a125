package controllers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"immoportal/internal/models/request_models"
	"immoportal/internal/services"
	"immoportal/pkg/middleware"
	"immoportal/pkg/utils"
)

const maxPropertyUpload = 64 << 20

type PropertyController struct {
	listingService services.ListingServiceInterface
}

func NewPropertyController(listingService services.ListingServiceInterface) *PropertyController {
	return &PropertyController{listingService: listingService}
}

// List godoc
// @Summary List properties
// @Description Newest properties first, public fields and cover image
// @Tags Properties
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /agent/properties [get]
func (ctl *PropertyController) List(c *gin.Context) {
	resp, err := ctl.listingService.ListPublic(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// Create godoc
// @Summary Create a property
// @Description Multipart form: `payload` holds the property JSON, `images` the files in display order.
// @Description Each image reports its own outcome; a failed image does not fail the property.
// @Tags Properties
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param payload formData string true "Property JSON (request_models.PropertyRequest)"
// @Param images formData file false "Images, cover first"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /agent/properties [post]
func (ctl *PropertyController) Create(c *gin.Context) {
	var req request_models.PropertyRequest
	var files []*multipart.FileHeader

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPropertyUpload)
		form, err := c.MultipartForm()
		if err != nil {
			utils.RespondValidationError(c, utils.InvalidField("body", "invalid multipart form"))
			return
		}
		payload := form.Value["payload"]
		if len(payload) == 0 || json.Unmarshal([]byte(payload[0]), &req) != nil {
			utils.RespondValidationError(c, utils.InvalidField("payload", "must be a JSON property object"))
			return
		}
		files = form.File["images"]
	} else if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	resp, err := ctl.listingService.Create(c.Request.Context(), middleware.PrincipalFrom(c), req, toImageUploads(files))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	respondCreated(c, resp, "Property created")
}

// Get godoc
// @Summary Property detail
// @Description Full record including owner contact and images
// @Tags Properties
// @Produce json
// @Security BearerAuth
// @Param propertyId path string true "Property ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /agent/properties/{propertyId} [get]
func (ctl *PropertyController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "propertyId")
	if !ok {
		return
	}

	resp, err := ctl.listingService.GetFull(c.Request.Context(), middleware.PrincipalFrom(c), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// Update godoc
// @Summary Edit a property
// @Tags Properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param propertyId path string true "Property ID"
// @Param request body request_models.PropertyRequest true "Property"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /agent/properties/{propertyId} [put]
func (ctl *PropertyController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "propertyId")
	if !ok {
		return
	}
	var req request_models.PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	resp, err := ctl.listingService.Update(c.Request.Context(), middleware.PrincipalFrom(c), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "Property updated")
}

// SetStatus godoc
// @Summary Change a property's status
// @Tags Properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param propertyId path string true "Property ID"
// @Param request body request_models.SetPropertyStatusRequest true "Status"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /agent/properties/{propertyId}/status [patch]
func (ctl *PropertyController) SetStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "propertyId")
	if !ok {
		return
	}
	var req request_models.SetPropertyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	if err := ctl.listingService.SetStatus(c.Request.Context(), middleware.PrincipalFrom(c), id, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"id": id.String(), "status": req.Status}, "Status updated")
}

func toImageUploads(files []*multipart.FileHeader) []services.ImageUpload {
	out := make([]services.ImageUpload, 0, len(files))
	for _, fh := range files {
		out = append(out, services.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return out
}
