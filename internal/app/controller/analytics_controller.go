package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaduna-connect/directory-backend/internal/app/service"
	apperrors "github.com/kaduna-connect/directory-backend/internal/errors"
	"github.com/kaduna-connect/directory-backend/internal/middleware"
)

type AnalyticsController struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsController(analyticsService service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

func (ctrl *AnalyticsController) GetBusinessAnalytics(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	analytics, err := ctrl.analyticsService.BusinessAnalytics()
	if err != nil {
		log.Error("Failed to load business analytics", err)
		apperrors.InternalError(c, "Failed to fetch analytics")
		return
	}
	c.JSON(http.StatusOK, analytics)
}

func (ctrl *AnalyticsController) GetSearchAnalytics(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	analytics, err := ctrl.analyticsService.SearchAnalytics()
	if err != nil {
		log.Error("Failed to load search analytics", err)
		apperrors.InternalError(c, "Failed to fetch analytics")
		return
	}
	c.JSON(http.StatusOK, analytics)
}

func (ctrl *AnalyticsController) GetTimeSeries(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	analytics, err := ctrl.analyticsService.TimeSeries()
	if err != nil {
		log.Error("Failed to load analytics time series", err)
		apperrors.InternalError(c, "Failed to fetch analytics")
		return
	}
	c.JSON(http.StatusOK, analytics)
}
