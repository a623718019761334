package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaduna-connect/directory-backend/internal/app/service"
	apperrors "github.com/kaduna-connect/directory-backend/internal/errors"
	"github.com/kaduna-connect/directory-backend/internal/middleware"
)

// BusinessController is the admin CRUD surface over full business records.
type BusinessController struct {
	businessService service.BusinessAdminService
}

func NewBusinessController(businessService service.BusinessAdminService) *BusinessController {
	return &BusinessController{businessService: businessService}
}

// respondBusinessError maps admin business errors to HTTP responses.
func respondBusinessError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrBusinessNotFound):
		apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
	case errors.Is(err, service.ErrBusinessFieldsMissing):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Please fill in all required fields.")
	case errors.Is(err, service.ErrInvalidBusinessStatus):
		apperrors.BadRequest(c, apperrors.ValidationInvalidStatus, "Invalid business status")
	case errors.Is(err, errInvalidDateOfBirth):
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, err.Error())
	default:
		apperrors.ParseAndRespond(c, err, context)
	}
}

func (ctrl *BusinessController) ListBusinesses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	result, err := ctrl.businessService.List(
		c.Request.Context(),
		c.Query("search"),
		c.Query("status"),
		queryInt(c.Query("page")),
		queryInt(c.Query("limit")),
	)
	if err != nil {
		log.Warn("Failed to list businesses", map[string]interface{}{
			"error": err.Error(),
		})
		respondBusinessError(c, err, "list businesses")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ctrl *BusinessController) GetBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	business, err := ctrl.businessService.Get(id)
	if err != nil {
		log.Warn("Failed to fetch business", map[string]interface{}{
			"business_id": id,
			"error":       err.Error(),
		})
		respondBusinessError(c, err, "get business")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": business,
	})
}

func (ctrl *BusinessController) CreateBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid business creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondBusinessError(c, err, "create business")
		return
	}

	business, err := ctrl.businessService.Create(c.Request.Context(), input)
	if err != nil {
		log.Warn("Failed to create business", map[string]interface{}{
			"error": err.Error(),
		})
		respondBusinessError(c, err, "create business")
		return
	}

	log.Info("Business created", map[string]interface{}{
		"business_id": business.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Business created successfully",
		"business": business,
	})
}

func (ctrl *BusinessController) UpdateBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid business update request", map[string]interface{}{
			"business_id": id,
			"error":       err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondBusinessError(c, err, "update business")
		return
	}

	business, err := ctrl.businessService.Update(c.Request.Context(), id, input)
	if err != nil {
		log.Warn("Failed to update business", map[string]interface{}{
			"business_id": id,
			"error":       err.Error(),
		})
		respondBusinessError(c, err, "update business")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Business updated successfully",
		"business": business,
	})
}

func (ctrl *BusinessController) DeleteBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	if err := ctrl.businessService.Delete(c.Request.Context(), id); err != nil {
		log.Warn("Failed to delete business", map[string]interface{}{
			"business_id": id,
			"error":       err.Error(),
		})
		respondBusinessError(c, err, "delete business")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Business deleted successfully",
	})
}
