package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaduna-connect/directory-backend/config"
	"github.com/kaduna-connect/directory-backend/internal/app/model"
	"github.com/kaduna-connect/directory-backend/internal/app/repository"
	"github.com/kaduna-connect/directory-backend/internal/app/service"
	"github.com/kaduna-connect/directory-backend/internal/db"
	"github.com/kaduna-connect/directory-backend/internal/middleware"
	"github.com/kaduna-connect/directory-backend/pkg/rabbitmq"
	"github.com/kaduna-connect/directory-backend/pkg/redis"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "correct-horse"
)

var testAdminConfig = config.AdminConfig{
	Username:      testAdminUser,
	Password:      testAdminPassword,
	SessionSecret: "controller-test-secret",
	SessionTTL:    time.Hour,
	CookieName:    "admin_session",
	LoginURL:      "/admin/login",
}

type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (r *memoryRevoker) Revoke(_ context.Context, token string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[token] = true
	return nil
}

func (r *memoryRevoker) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revoked[token], nil
}

type controllerFixture struct {
	db           *gorm.DB
	router       *gin.Engine
	searchLogger service.SearchLogger
	authService  service.AuthService
	adminToken   string
}

// setupControllerTest wires the real services over an in-memory database and
// mounts the routes the way the production router does.
func setupControllerTest(t *testing.T) *controllerFixture {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	cache := redis.NewNoopCache()
	businessRepo := repository.NewBusinessRepository(testDB)
	registrationRepo := repository.NewRegistrationRepository(testDB)

	searchLogger := service.NewSearchLogger(repository.NewSearchLogRepository(testDB), time.Second)
	t.Cleanup(searchLogger.Flush)

	directoryService := service.NewDirectoryService(businessRepo, searchLogger, cache, service.PageLimits{})
	businessService := service.NewBusinessAdminService(businessRepo, cache)
	registrationService := service.NewRegistrationService(testDB, registrationRepo, cache, rabbitmq.FallbackPublisher{})
	analyticsService := service.NewAnalyticsService(repository.NewAnalyticsRepository(testDB), registrationRepo)
	authService, err := service.NewAuthService(testAdminConfig, &memoryRevoker{revoked: map[string]bool{}})
	require.NoError(t, err)

	directory := NewDirectoryController(directoryService)
	registrations := NewRegistrationController(registrationService)
	businesses := NewBusinessController(businessService)
	analytics := NewAnalyticsController(analyticsService)
	auth := NewAuthController(authService, testAdminConfig)
	sitemap := NewSitemapController(directoryService, "https://kadunaconnect.ng")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/sitemap.xml", sitemap.GetSitemap)

	v1 := router.Group("/api/v1")
	v1.GET("/businesses", directory.SearchBusinesses)
	v1.GET("/businesses/slug/:slug", directory.GetBusinessBySlug)
	v1.GET("/businesses/:id", directory.GetBusiness)
	v1.GET("/categories", directory.ListCategories)
	v1.GET("/lgas", directory.ListLGAs)
	v1.GET("/stats", directory.GetStats)
	v1.POST("/registrations", registrations.SubmitRegistration)

	admin := v1.Group("/admin")
	admin.POST("/login", auth.Login)
	admin.POST("/logout", auth.Logout)

	guarded := admin.Group("", middleware.AdminSessionGuard(authService, testAdminConfig.CookieName, testAdminConfig.LoginURL))
	guarded.GET("/me", auth.Me)
	guarded.GET("/businesses", businesses.ListBusinesses)
	guarded.POST("/businesses", businesses.CreateBusiness)
	guarded.GET("/businesses/:id", businesses.GetBusiness)
	guarded.PUT("/businesses/:id", businesses.UpdateBusiness)
	guarded.DELETE("/businesses/:id", businesses.DeleteBusiness)
	guarded.GET("/registrations", registrations.ListRegistrations)
	guarded.GET("/registrations/:id", registrations.GetRegistration)
	guarded.PATCH("/registrations/:id/status", registrations.UpdateRegistrationStatus)
	guarded.POST("/registrations/:id/convert", registrations.ConvertRegistration)
	guarded.GET("/analytics/businesses", analytics.GetBusinessAnalytics)
	guarded.GET("/analytics/searches", analytics.GetSearchAnalytics)
	guarded.GET("/analytics/timeseries", analytics.GetTimeSeries)

	return &controllerFixture{
		db:           testDB,
		router:       router,
		searchLogger: searchLogger,
		authService:  authService,
	}
}

func (f *controllerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *controllerFixture) get(path string) *httptest.ResponseRecorder {
	return f.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// adminRequest builds a request that carries a valid admin session cookie.
func (f *controllerFixture) adminRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	if f.adminToken == "" {
		session, err := f.authService.Login(testAdminUser, testAdminPassword)
		require.NoError(t, err)
		f.adminToken = session.Token
	}

	var req *http.Request
	if body != nil {
		req = jsonRequest(t, method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.AddCookie(&http.Cookie{Name: testAdminConfig.CookieName, Value: f.adminToken})
	return req
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func seedBusiness(t *testing.T, testDB *gorm.DB, b model.Business) *model.Business {
	t.Helper()
	if b.Phone == "" {
		b.Phone = "08030000000"
	}
	if b.Category == "" {
		b.Category = "Retail"
	}
	if b.LGA == "" {
		b.LGA = "Zaria"
	}
	if b.Status == "" {
		b.Status = model.BusinessStatusEligible
	}
	require.NoError(t, testDB.Create(&b).Error)
	return &b
}

func strPtr(s string) *string { return &s }
