package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaduna-connect/directory-backend/internal/app/model"
	"github.com/kaduna-connect/directory-backend/internal/app/service"
	apperrors "github.com/kaduna-connect/directory-backend/internal/errors"
	"github.com/kaduna-connect/directory-backend/internal/middleware"
)

// DirectoryController serves the public, read-only directory.
type DirectoryController struct {
	directoryService service.DirectoryService
}

func NewDirectoryController(directoryService service.DirectoryService) *DirectoryController {
	return &DirectoryController{directoryService: directoryService}
}

// SearchBusinesses handles GET /api/v1/businesses?q=&lga=&category=&verified=&page=&limit=
func (ctrl *DirectoryController) SearchBusinesses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	params := service.SearchParams{
		Query:        c.Query("q"),
		LGA:          c.Query("lga"),
		Categories:   parseCategories(c.Query("category")),
		Verified:     parseVerified(c.Query("verified")),
		Page:         queryInt(c.Query("page")),
		Limit:        queryInt(c.Query("limit")),
		UserAgent:    c.Request.UserAgent(),
		ForwardedFor: c.GetHeader("X-Forwarded-For"),
	}

	result, err := ctrl.directoryService.Search(params)
	if err != nil {
		log.Error("Failed to search businesses", err, map[string]interface{}{
			"query": params.Query,
			"lga":   params.LGA,
		})
		apperrors.InternalError(c, "Failed to fetch businesses")
		return
	}

	log.Info("Businesses searched", map[string]interface{}{
		"count": len(result.Businesses),
		"total": result.Total,
		"page":  result.Page,
	})

	c.JSON(http.StatusOK, result)
}

func (ctrl *DirectoryController) GetBusiness(c *gin.Context) {
	ctrl.respondWithProfile(c, "business_id", c.Param("id"), ctrl.directoryService.GetByID)
}

func (ctrl *DirectoryController) GetBusinessBySlug(c *gin.Context) {
	ctrl.respondWithProfile(c, "slug", c.Param("slug"), ctrl.directoryService.GetBySlug)
}

func (ctrl *DirectoryController) respondWithProfile(
	c *gin.Context,
	field, value string,
	find func(string) (*model.PublicBusinessProfile, error),
) {
	log := middleware.GetLoggerFromContext(c)

	profile, err := find(value)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			log.Warn("Business not found", map[string]interface{}{
				field: value,
			})
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
			return
		}
		log.Error("Failed to fetch business", err, map[string]interface{}{
			field: value,
		})
		apperrors.InternalError(c, "Failed to fetch business")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": profile,
	})
}

func (ctrl *DirectoryController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.directoryService.Categories(c.Request.Context())
	if err != nil {
		log.Error("Failed to list categories", err)
		apperrors.InternalError(c, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

func (ctrl *DirectoryController) ListLGAs(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	lgas, err := ctrl.directoryService.LGAs(c.Request.Context())
	if err != nil {
		log.Error("Failed to list LGAs", err)
		apperrors.InternalError(c, "Failed to fetch LGAs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lgas": lgas,
	})
}

func (ctrl *DirectoryController) GetStats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.directoryService.Stats(c.Request.Context())
	if err != nil {
		log.Error("Failed to load directory stats", err)
		apperrors.InternalError(c, "Failed to fetch stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
