package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"rentroll-server/models"
	"rentroll-server/storage"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// buildTestApp wires an in-memory sqlite database into storage.DB and
// returns a minimal Iris app with the entity routes mounted without the
// token verifier (the handlers themselves never read claims).
func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	storage.PerformMigrations(db)
	storage.DB = db

	app := iris.New()
	app.Validator = validator.New()

	properties := app.Party("/api/properties")
	{
		properties.Get("/", GetProperties)
		properties.Post("/", CreateProperty)
		properties.Get("/{id:uint}", GetProperty)
		properties.Put("/{id:uint}", UpdateProperty)
		properties.Delete("/{id:uint}", DeleteProperty)
	}

	tenants := app.Party("/api/tenants")
	{
		tenants.Get("/", GetTenants)
		tenants.Post("/", CreateTenant)
		tenants.Get("/{id:uint}", GetTenant)
		tenants.Put("/{id:uint}", UpdateTenant)
		tenants.Delete("/{id:uint}", DeleteTenant)
	}

	payments := app.Party("/api/payments")
	{
		payments.Get("/", GetPayments)
		payments.Post("/", CreatePayment)
		payments.Post("/bulk", BulkGeneratePayments)
		payments.Get("/{id:uint}", GetPayment)
		payments.Put("/{id:uint}", UpdatePayment)
		payments.Delete("/{id:uint}", DeletePayment)
	}

	dashboard := app.Party("/api/dashboard")
	{
		dashboard.Get("/stats", GetDashboardStats)
		dashboard.Get("/revenue", GetRevenueAnalytics)
	}

	return app
}

func doJSON(t *testing.T, app *iris.Application, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	return serveRequest(app, req)
}

func newAuthedRequest(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func serveRequest(app *iris.Application, req *http.Request) *httptest.ResponseRecorder {
	app.Build()
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func decodeJSON(t *testing.T, resp *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), out))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func createTestProperty(t *testing.T, name string, units int, status string) models.Property {
	t.Helper()
	property := models.Property{
		Name:    name,
		Type:    "apartment",
		Address: "123 Main St",
		Units:   units,
		Status:  status,
	}
	require.NoError(t, storage.DB.Create(&property).Error)
	return property
}

func createTestTenant(t *testing.T, propertyID uint, unit, email, status string, rent float64) models.Tenant {
	t.Helper()
	now := time.Now()
	tenant := models.Tenant{
		Name:       "Tenant " + unit,
		Email:      email,
		Phone:      "+15551234567",
		PropertyID: propertyID,
		Unit:       unit,
		RentAmount: rent,
		LeaseStart: now.AddDate(0, -1, 0),
		LeaseEnd:   now.AddDate(1, 0, 0),
		Status:     status,
	}
	require.NoError(t, storage.DB.Create(&tenant).Error)
	return tenant
}

func TestMain(m *testing.M) {
	os.Setenv("ACCESS_TOKEN_SECRET", "testaccesssecret")
	os.Setenv("REFRESH_TOKEN_SECRET", "testrefreshsecret")
	storage.InitializeRedis()
	os.Exit(m.Run())
}
