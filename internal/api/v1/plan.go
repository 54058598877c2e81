package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sellerdesk/backoffice/internal/api/dto"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/logger"
	"github.com/sellerdesk/backoffice/internal/service"
)

type PlanHandler struct {
	service service.PlanService
	log     *logger.Logger
}

func NewPlanHandler(service service.PlanService, log *logger.Logger) *PlanHandler {
	return &PlanHandler{
		service: service,
		log:     log,
	}
}

// @Summary Create a new plan
// @Description Create a new plan with the specified configuration
// @Tags Plans
// @Accept json
// @Produce json
// @Param plan body dto.CreatePlanRequest true "Plan configuration"
// @Success 201 {object} dto.PlanResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreatePlan(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a plan
// @Description Get a plan by ID
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} dto.PlanResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /plans/{id} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	resp, err := h.service.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List plans
// @Description List all plans, optionally filtered to active ones
// @Tags Plans
// @Produce json
// @Param active query bool false "Only return active plans"
// @Success 200 {object} dto.ListPlansResponse
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	resp, err := h.service.ListPlans(c.Request.Context(), activeOnly)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a plan
// @Description Update a plan by ID
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param plan body dto.UpdatePlanRequest true "Plan update"
// @Success 200 {object} dto.PlanResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /plans/{id} [put]
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdatePlan(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Mark a plan as the standard plan
// @Description Atomically moves the standard flag to the given plan
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} dto.PlanResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /plans/{id}/standard [post]
func (h *PlanHandler) SetStandardPlan(c *gin.Context) {
	resp, err := h.service.SetStandardPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get the standard plan
// @Description Get the plan currently flagged as standard
// @Tags Plans
// @Produce json
// @Success 200 {object} dto.PlanResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /plans/standard [get]
func (h *PlanHandler) GetStandardPlan(c *gin.Context) {
	resp, err := h.service.GetStandardPlan(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Create a premium feature
// @Description Create a premium feature that plans can grant
// @Tags Features
// @Accept json
// @Produce json
// @Param feature body dto.CreateFeatureRequest true "Feature configuration"
// @Success 201 {object} dto.FeatureResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /features [post]
func (h *PlanHandler) CreateFeature(c *gin.Context) {
	var req dto.CreateFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateFeature(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a feature
// @Tags Features
// @Produce json
// @Param id path string true "Feature ID"
// @Success 200 {object} dto.FeatureResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /features/{id} [get]
func (h *PlanHandler) GetFeature(c *gin.Context) {
	resp, err := h.service.GetFeature(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List features
// @Tags Features
// @Produce json
// @Success 200 {object} dto.ListFeaturesResponse
// @Router /features [get]
func (h *PlanHandler) ListFeatures(c *gin.Context) {
	resp, err := h.service.ListFeatures(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a feature
// @Tags Features
// @Accept json
// @Produce json
// @Param id path string true "Feature ID"
// @Param feature body dto.UpdateFeatureRequest true "Feature update"
// @Success 200 {object} dto.FeatureResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /features/{id} [put]
func (h *PlanHandler) UpdateFeature(c *gin.Context) {
	var req dto.UpdateFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateFeature(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
