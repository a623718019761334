package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kaduna-connect/directory-backend/config"
	"github.com/kaduna-connect/directory-backend/internal/app/controller"
	"github.com/kaduna-connect/directory-backend/internal/middleware"
)

type Router struct {
	directoryController    *controller.DirectoryController
	registrationController *controller.RegistrationController
	businessController     *controller.BusinessController
	analyticsController    *controller.AnalyticsController
	authController         *controller.AuthController
	sitemapController      *controller.SitemapController
	sessionGuard           gin.HandlerFunc
	config                 *config.Config
}

func NewRouter(
	directoryController *controller.DirectoryController,
	registrationController *controller.RegistrationController,
	businessController *controller.BusinessController,
	analyticsController *controller.AnalyticsController,
	authController *controller.AuthController,
	sitemapController *controller.SitemapController,
	sessionGuard gin.HandlerFunc,
	cfg *config.Config,
) *Router {
	return &Router{
		directoryController:    directoryController,
		registrationController: registrationController,
		businessController:     businessController,
		analyticsController:    analyticsController,
		authController:         authController,
		sitemapController:      sitemapController,
		sessionGuard:           sessionGuard,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Kaduna business directory API is running",
		})
	})

	router.GET("/sitemap.xml", r.sitemapController.GetSitemap)

	v1 := router.Group("/api/v1")
	{
		businesses := v1.Group("/businesses")
		{
			businesses.GET("", r.directoryController.SearchBusinesses)
			businesses.GET("/slug/:slug", r.directoryController.GetBusinessBySlug)
			businesses.GET("/:id", r.directoryController.GetBusiness)
		}

		v1.GET("/categories", r.directoryController.ListCategories)
		v1.GET("/lgas", r.directoryController.ListLGAs)
		v1.GET("/stats", r.directoryController.GetStats)

		v1.POST("/registrations", r.registrationController.SubmitRegistration)

		admin := v1.Group("/admin")
		{
			admin.POST("/login", r.authController.Login)
			admin.POST("/logout", r.authController.Logout)

			guarded := admin.Group("", r.sessionGuard)
			{
				guarded.GET("/me", r.authController.Me)

				guarded.GET("/businesses", r.businessController.ListBusinesses)
				guarded.POST("/businesses", r.businessController.CreateBusiness)
				guarded.GET("/businesses/:id", r.businessController.GetBusiness)
				guarded.PUT("/businesses/:id", r.businessController.UpdateBusiness)
				guarded.DELETE("/businesses/:id", r.businessController.DeleteBusiness)

				guarded.GET("/registrations", r.registrationController.ListRegistrations)
				guarded.GET("/registrations/:id", r.registrationController.GetRegistration)
				guarded.PATCH("/registrations/:id/status", r.registrationController.UpdateRegistrationStatus)
				guarded.POST("/registrations/:id/convert", r.registrationController.ConvertRegistration)

				analytics := guarded.Group("/analytics")
				{
					analytics.GET("/businesses", r.analyticsController.GetBusinessAnalytics)
					analytics.GET("/searches", r.analyticsController.GetSearchAnalytics)
					analytics.GET("/timeseries", r.analyticsController.GetTimeSeries)
				}
			}
		}
	}

	return router
}
