package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sellerdesk/backoffice/internal/logger"
	"github.com/sellerdesk/backoffice/internal/service"
)

type EntitlementHandler struct {
	service service.EntitlementService
	log     *logger.Logger
}

func NewEntitlementHandler(service service.EntitlementService, log *logger.Logger) *EntitlementHandler {
	return &EntitlementHandler{
		service: service,
		log:     log,
	}
}

// @Summary Get tenant entitlements
// @Description Resolve the feature set the tenant is currently entitled to
// @Tags Entitlements
// @Produce json
// @Success 200 {object} dto.EntitlementResponse
// @Router /entitlements [get]
func (h *EntitlementHandler) GetEntitlements(c *gin.Context) {
	resp, err := h.service.GetEntitlements(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
