package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaduna-connect/directory-backend/internal/app/service"
	apperrors "github.com/kaduna-connect/directory-backend/internal/errors"
	"github.com/kaduna-connect/directory-backend/internal/middleware"
)

const requiredFieldsMessage = "Please fill in all required fields."

type RegistrationController struct {
	registrationService service.RegistrationService
}

func NewRegistrationController(registrationService service.RegistrationService) *RegistrationController {
	return &RegistrationController{registrationService: registrationService}
}

// RegistrationRequest accepts the public form either url-encoded or as JSON.
type RegistrationRequest struct {
	BusinessName       string `json:"businessName" form:"businessName"`
	BusinessRegCatType string `json:"businessRegCatType" form:"businessRegCatType"`
	BusinessLGA        string `json:"businessLGA" form:"businessLGA"`
	BusinessWard       string `json:"businessWard" form:"businessWard"`
	BusinessAddress    string `json:"businessAddress" form:"businessAddress"`
	Phone              string `json:"phone" form:"phone"`
	Email              string `json:"email" form:"email"`
	OwnerFirstName     string `json:"ownerFirstName" form:"ownerFirstName"`
	OwnerSurname       string `json:"ownerSurname" form:"ownerSurname"`
}

type RegistrationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func respondRegistrationError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrRegistrationNotFound):
		apperrors.NotFound(c, apperrors.RegistrationNotFound, "Registration not found")
	case errors.Is(err, service.ErrRegistrationFinalized):
		apperrors.Conflict(c, apperrors.RegistrationFinalized, "Registration has already been approved or rejected")
	case errors.Is(err, service.ErrInvalidRegistrationStatus):
		apperrors.BadRequest(c, apperrors.ValidationInvalidStatus, "Invalid registration status")
	case errors.Is(err, service.ErrRegistrationFieldsMissing):
		apperrors.BadRequest(c, apperrors.ValidationRequired, requiredFieldsMessage)
	default:
		respondBusinessError(c, err, context)
	}
}

// SubmitRegistration handles the public "list your business" form.
func (ctrl *RegistrationController) SubmitRegistration(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegistrationRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationRequired, requiredFieldsMessage)
		return
	}

	registration, err := ctrl.registrationService.Submit(service.RegistrationInput{
		BusinessName:   req.BusinessName,
		Category:       req.BusinessRegCatType,
		LGA:            req.BusinessLGA,
		Ward:           req.BusinessWard,
		Address:        req.BusinessAddress,
		Phone:          req.Phone,
		Email:          req.Email,
		OwnerFirstName: req.OwnerFirstName,
		OwnerSurname:   req.OwnerSurname,
	})
	if err != nil {
		if errors.Is(err, service.ErrRegistrationFieldsMissing) {
			log.Debug("Registration missing required fields", map[string]interface{}{
				"business_name": req.BusinessName,
			})
			apperrors.BadRequest(c, apperrors.ValidationRequired, requiredFieldsMessage)
			return
		}
		log.Error("Failed to submit registration", err)
		apperrors.InternalError(c, "Failed to submit registration. Please try again.")
		return
	}

	log.Info("Registration submitted", map[string]interface{}{
		"registration_id": registration.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Registration submitted successfully!",
		"registration": registration,
	})
}

// ListRegistrations defaults to Pending; status=All lists everything.
func (ctrl *RegistrationController) ListRegistrations(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	result, err := ctrl.registrationService.List(
		c.Query("status"),
		queryInt(c.Query("page")),
		queryInt(c.Query("limit")),
	)
	if err != nil {
		log.Warn("Failed to list registrations", map[string]interface{}{
			"error": err.Error(),
		})
		respondRegistrationError(c, err, "list registrations")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ctrl *RegistrationController) GetRegistration(c *gin.Context) {
	id := c.Param("id")

	registration, err := ctrl.registrationService.Get(id)
	if err != nil {
		respondRegistrationError(c, err, "get registration")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"registration": registration,
	})
}

func (ctrl *RegistrationController) UpdateRegistrationStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	var req RegistrationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidStatus, "Invalid registration status")
		return
	}

	registration, err := ctrl.registrationService.UpdateStatus(id, req.Status)
	if err != nil {
		log.Warn("Failed to update registration status", map[string]interface{}{
			"registration_id": id,
			"status":          req.Status,
			"error":           err.Error(),
		})
		respondRegistrationError(c, err, "update registration")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Registration status updated",
		"registration": registration,
	})
}

// ConvertRegistration publishes a registration as a business. The body is an
// optional BusinessRequest overlay on the submitted fields.
func (ctrl *RegistrationController) ConvertRegistration(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	// an empty body, chunked or not, means no overlay
	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondBusinessError(c, err, "convert registration")
		return
	}

	business, err := ctrl.registrationService.Convert(c.Request.Context(), id, input)
	if err != nil {
		log.Warn("Failed to convert registration", map[string]interface{}{
			"registration_id": id,
			"error":           err.Error(),
		})
		respondRegistrationError(c, err, "convert registration")
		return
	}

	log.Info("Registration converted", map[string]interface{}{
		"registration_id": id,
		"business_id":     business.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Registration converted to business",
		"business": business,
	})
}
