package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teadealer/teadealer-api/internal/models"
	"github.com/teadealer/teadealer-api/internal/services"
	"github.com/teadealer/teadealer-api/internal/storage"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
	storage         *storage.LocalStorage
}

func NewSettingsHandler(settingsService *services.SettingsService, storage *storage.LocalStorage) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, storage: storage}
}

// @Summary List settings
// @Description Get every stored application setting
// @Tags Settings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /settings [get]
func (h *SettingsHandler) Index(c *gin.Context) {
	settings, err := h.settingsService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

type settingRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

// @Summary Update setting
// @Description Set one application setting. Invoice generation re-reads
// @Description settings on every call, so changes apply immediately.
// @Tags Settings
// @Accept json
// @Produce json
// @Param setting body settingRequest true "Setting"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req settingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settingsService.Set(c.Request.Context(), req.Key, req.Value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": req.Key, "value": req.Value})
}

// @Summary Upload invoice template
// @Description Upload the stationery image used as the invoice PDF background
// @Tags Settings
// @Accept multipart/form-data
// @Produce json
// @Param template formData file true "Template image (PNG or JPEG)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /settings/invoice-template [post]
func (h *SettingsHandler) UploadInvoiceTemplate(c *gin.Context) {
	file, header, err := c.Request.FormFile("template")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "template file is required"})
		return
	}
	defer file.Close()

	if header.Size > storage.MaxUploadSize() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}
	if !storage.ValidTemplateContentTypes()[header.Header.Get("Content-Type")] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "template must be a PNG or JPEG image"})
		return
	}

	relPath, err := h.storage.Upload(file, header, "templates")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.settingsService.Set(c.Request.Context(), models.SettingInvoiceTemplate, relPath); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": relPath})
}
