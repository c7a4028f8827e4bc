package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradelink_backend/internal/analytics"
	"tradelink_backend/internal/appErrors"
	"tradelink_backend/internal/middleware"
	"tradelink_backend/internal/repositories"
	"tradelink_backend/internal/services"
	"tradelink_backend/internal/services/dto"
	"tradelink_backend/internal/validator"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// actorFromContext reads the authenticated caller set by the auth
// middleware. Nil means the request carried no valid token; authorization
// decisions stay in the service layer.
func actorFromContext(c *gin.Context) *dto.Actor {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return nil
	}
	return &dto.Actor{ID: userID, Role: middleware.GetUserRole(c)}
}

func parseReportQuery(c *gin.Context) (analytics.DateRangeSpec, repositories.SegmentFilter, error) {
	var query dto.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return analytics.DateRangeSpec{}, repositories.SegmentFilter{}, appErrors.ValidationError(err.Error())
	}
	if details := validator.Struct(query); details != nil {
		return analytics.DateRangeSpec{}, repositories.SegmentFilter{}, appErrors.ValidationError(details)
	}

	spec := analytics.DateRangeSpec{
		Preset:         analytics.RangePreset(query.Preset),
		CompareEnabled: query.Compare,
	}
	if spec.Preset == "" {
		spec.Preset = analytics.PresetLast30Days
	}
	if spec.Preset == analytics.PresetCustom {
		start, err := time.Parse(time.RFC3339, query.StartDate)
		if err != nil {
			return analytics.DateRangeSpec{}, repositories.SegmentFilter{}, appErrors.InvalidDateRange(err)
		}
		end, err := time.Parse(time.RFC3339, query.EndDate)
		if err != nil {
			return analytics.DateRangeSpec{}, repositories.SegmentFilter{}, appErrors.InvalidDateRange(err)
		}
		spec.StartDate, spec.EndDate = start, end
	}

	segment := repositories.SegmentFilter{
		Role:               query.Role,
		SubscriptionStatus: query.SubscriptionStatus,
		Location:           query.Location,
		EmployerType:       query.EmployerType,
	}
	return spec, segment, nil
}

// GetActiveUsers handles GET /api/v1/analytics/active-users.
func (h *AnalyticsHandler) GetActiveUsers(c *gin.Context) {
	spec, segment, err := parseReportQuery(c)
	if err != nil {
		appErrors.HandleError(c, err)
		return
	}

	result, err := h.analyticsService.GetActiveUsers(c.Request.Context(), actorFromContext(c), spec, segment)
	if err != nil {
		appErrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetConversionFunnel handles GET /api/v1/analytics/funnel.
func (h *AnalyticsHandler) GetConversionFunnel(c *gin.Context) {
	spec, segment, err := parseReportQuery(c)
	if err != nil {
		appErrors.HandleError(c, err)
		return
	}

	result, err := h.analyticsService.GetConversionFunnel(c.Request.Context(), actorFromContext(c), spec, segment)
	if err != nil {
		appErrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSubscriptionMetrics handles GET /api/v1/analytics/subscriptions.
func (h *AnalyticsHandler) GetSubscriptionMetrics(c *gin.Context) {
	spec, _, err := parseReportQuery(c)
	if err != nil {
		appErrors.HandleError(c, err)
		return
	}

	result, err := h.analyticsService.GetSubscriptionMetrics(c.Request.Context(), actorFromContext(c), spec)
	if err != nil {
		appErrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetOperationalLoad handles GET /api/v1/analytics/operational.
func (h *AnalyticsHandler) GetOperationalLoad(c *gin.Context) {
	spec, _, err := parseReportQuery(c)
	if err != nil {
		appErrors.HandleError(c, err)
		return
	}

	result, err := h.analyticsService.GetOperationalLoad(c.Request.Context(), actorFromContext(c), spec)
	if err != nil {
		appErrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
