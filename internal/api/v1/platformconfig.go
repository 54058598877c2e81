package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sellerdesk/backoffice/internal/api/dto"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/logger"
	"github.com/sellerdesk/backoffice/internal/service"
	"github.com/sellerdesk/backoffice/internal/types"
)

type PlatformConfigHandler struct {
	service service.PlatformConfigService
	log     *logger.Logger
}

func NewPlatformConfigHandler(service service.PlatformConfigService, log *logger.Logger) *PlatformConfigHandler {
	return &PlatformConfigHandler{
		service: service,
		log:     log,
	}
}

// @Summary Get a platform config entry
// @Tags PlatformConfig
// @Produce json
// @Param key path string true "Config key"
// @Success 200 {object} dto.PlatformConfigResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /admin/config/{key} [get]
func (h *PlatformConfigHandler) GetConfig(c *gin.Context) {
	resp, err := h.service.GetConfig(c.Request.Context(), types.ConfigKey(c.Param("key")))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Set a platform config entry
// @Description Create or overwrite a platform config entry
// @Tags PlatformConfig
// @Accept json
// @Produce json
// @Param config body dto.SetPlatformConfigRequest true "Config entry"
// @Success 200 {object} dto.PlatformConfigResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /admin/config [put]
func (h *PlatformConfigHandler) SetConfig(c *gin.Context) {
	var req dto.SetPlatformConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.SetConfig(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List platform config entries
// @Tags PlatformConfig
// @Produce json
// @Success 200 {array} dto.PlatformConfigResponse
// @Router /admin/config [get]
func (h *PlatformConfigHandler) ListConfigs(c *gin.Context) {
	resp, err := h.service.ListConfigs(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a platform config entry
// @Tags PlatformConfig
// @Produce json
// @Param key path string true "Config key"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /admin/config/{key} [delete]
func (h *PlatformConfigHandler) DeleteConfig(c *gin.Context) {
	if err := h.service.DeleteConfig(c.Request.Context(), types.ConfigKey(c.Param("key"))); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
