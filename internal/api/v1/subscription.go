package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sellerdesk/backoffice/internal/api/dto"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/logger"
	"github.com/sellerdesk/backoffice/internal/service"
)

type SubscriptionHandler struct {
	service service.SubscriptionService
	log     *logger.Logger
}

func NewSubscriptionHandler(service service.SubscriptionService, log *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
		log:     log,
	}
}

// @Summary Get the current subscription
// @Description Get the tenant's live subscription, if any
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /subscription [get]
func (h *SubscriptionHandler) GetCurrent(c *gin.Context) {
	resp, err := h.service.GetCurrent(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Create a pending subscription
// @Description Create a subscription awaiting payment confirmation
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param subscription body dto.CreatePendingSubscriptionRequest true "Pending subscription"
// @Success 201 {object} dto.SubscriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /subscription/pending [post]
func (h *SubscriptionHandler) CreatePending(c *gin.Context) {
	var req dto.CreatePendingSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreatePending(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Activate a subscription
// @Description Activate, renew, upgrade or downgrade the tenant's subscription
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param subscription body dto.ActivateSubscriptionRequest true "Activation request"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /subscription/activate [post]
func (h *SubscriptionHandler) Activate(c *gin.Context) {
	var req dto.ActivateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Activate(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Deactivate the current subscription
// @Description Cancel the tenant's live subscription
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param subscription body dto.DeactivateSubscriptionRequest true "Deactivation request"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /subscription/deactivate [post]
func (h *SubscriptionHandler) Deactivate(c *gin.Context) {
	var req dto.DeactivateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Deactivate(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Suspend the current subscription
// @Description Suspend an active subscription, e.g. after a failed charge
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param subscription body dto.SuspendSubscriptionRequest true "Suspension request"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /subscription/suspend [post]
func (h *SubscriptionHandler) Suspend(c *gin.Context) {
	var req dto.SuspendSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Suspend(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Expire the current subscription
// @Description Mark the tenant's live subscription as expired
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /subscription/expire [post]
func (h *SubscriptionHandler) Expire(c *gin.Context) {
	resp, err := h.service.Expire(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get subscription history
// @Description List the tenant's subscription transition history
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} dto.SubscriptionHistoryResponse
// @Router /subscription/history [get]
func (h *SubscriptionHandler) GetHistory(c *gin.Context) {
	resp, err := h.service.GetHistory(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
