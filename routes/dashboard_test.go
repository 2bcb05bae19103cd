package routes

import (
	"net/http"
	"testing"
	"time"

	"rentroll-server/models"
	"rentroll-server/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	app := buildTestApp(t)
	property := createTestProperty(t, "Sunset Apartments", 10, "active")
	tenantA := createTestTenant(t, property.ID, "A1", "a1@test.com", "active", 1200)
	tenantB := createTestTenant(t, property.ID, "B2", "b2@test.com", "active", 1300)
	createTestTenant(t, property.ID, "C3", "c3@test.com", "inactive", 900)

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	paidDate := monthStart.AddDate(0, 0, 2)
	require.NoError(t, storage.DB.Create(&models.Payment{
		TenantID: tenantA.ID, Amount: 1200,
		DueDate: monthStart, PaidDate: &paidDate, Status: "paid",
	}).Error)
	require.NoError(t, storage.DB.Create(&models.Payment{
		TenantID: tenantB.ID, Amount: 1300,
		DueDate: monthStart, Status: "pending",
	}).Error)
	require.NoError(t, storage.DB.Create(&models.Payment{
		TenantID: tenantB.ID, Amount: 1300,
		DueDate: monthStart.AddDate(0, -1, 0), Status: "overdue",
	}).Error)

	resp := doJSON(t, app, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var stats struct {
		Overview struct {
			TotalProperties  int     `json:"totalProperties"`
			TotalTenants     int     `json:"totalTenants"`
			ActiveTenants    int     `json:"activeTenants"`
			MonthlyIncome    float64 `json:"monthlyIncome"`
			MonthlyCollected float64 `json:"monthlyCollected"`
			MonthlyPending   float64 `json:"monthlyPending"`
			OverdueAmount    float64 `json:"overdueAmount"`
			TotalRevenue     float64 `json:"totalRevenue"`
			OccupancyRate    float64 `json:"occupancyRate"`
		} `json:"overview"`
		Payments struct {
			Total   int `json:"total"`
			Paid    int `json:"paid"`
			Pending int `json:"pending"`
			Overdue int `json:"overdue"`
		} `json:"payments"`
	}
	decodeJSON(t, resp, &stats)

	assert.Equal(t, 1, stats.Overview.TotalProperties)
	assert.Equal(t, 3, stats.Overview.TotalTenants)
	assert.Equal(t, 2, stats.Overview.ActiveTenants)
	assert.Equal(t, 2500.0, stats.Overview.MonthlyIncome, "sum of active tenants' rent")
	assert.Equal(t, 1200.0, stats.Overview.MonthlyCollected)
	assert.Equal(t, 1300.0, stats.Overview.MonthlyPending)
	assert.Equal(t, 1300.0, stats.Overview.OverdueAmount)
	assert.Equal(t, 1200.0, stats.Overview.TotalRevenue, "only paid payments count toward revenue")

	// 2 active tenants across 10 units, rounded to one decimal
	assert.Equal(t, 20.0, stats.Overview.OccupancyRate)

	assert.Equal(t, 2, stats.Payments.Total, "current month only")
	assert.Equal(t, 1, stats.Payments.Paid)
	assert.Equal(t, 1, stats.Payments.Pending)
	assert.Equal(t, 1, stats.Payments.Overdue)
}

func TestDashboardStatsEmptyDatabase(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var stats struct {
		Overview struct {
			MonthlyIncome float64 `json:"monthlyIncome"`
			TotalRevenue  float64 `json:"totalRevenue"`
			OccupancyRate float64 `json:"occupancyRate"`
		} `json:"overview"`
	}
	decodeJSON(t, resp, &stats)
	assert.Zero(t, stats.Overview.MonthlyIncome)
	assert.Zero(t, stats.Overview.TotalRevenue)
	assert.Zero(t, stats.Overview.OccupancyRate)
}

func TestRevenueAnalyticsZeroFills(t *testing.T) {
	app := buildTestApp(t)
	property := createTestProperty(t, "Sunset Apartments", 10, "active")
	tenant := createTestTenant(t, property.ID, "A1", "a1@test.com", "active", 1200)

	march := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	june := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	juneAgain := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	for _, paidAt := range []time.Time{march, june, juneAgain} {
		paidDate := paidAt
		require.NoError(t, storage.DB.Create(&models.Payment{
			TenantID: tenant.ID, Amount: 1200,
			DueDate: paidAt, PaidDate: &paidDate, Status: "paid",
		}).Error)
	}
	// pending payments never count toward revenue
	require.NoError(t, storage.DB.Create(&models.Payment{
		TenantID: tenant.ID, Amount: 1200,
		DueDate: time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), Status: "pending",
	}).Error)

	resp := doJSON(t, app, http.MethodGet, "/api/dashboard/revenue?year=2024", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var report struct {
		Year   int `json:"year"`
		Months []struct {
			Month   int     `json:"month"`
			Revenue float64 `json:"revenue"`
			Count   int     `json:"count"`
		} `json:"months"`
		Total float64 `json:"total"`
	}
	decodeJSON(t, resp, &report)

	assert.Equal(t, 2024, report.Year)
	require.Len(t, report.Months, 12, "every month appears even with no payments")
	assert.Equal(t, 3600.0, report.Total)

	for _, month := range report.Months {
		switch month.Month {
		case 3:
			assert.Equal(t, 1200.0, month.Revenue)
			assert.Equal(t, 1, month.Count)
		case 6:
			assert.Equal(t, 2400.0, month.Revenue)
			assert.Equal(t, 2, month.Count)
		default:
			assert.Zero(t, month.Revenue)
			assert.Zero(t, month.Count)
		}
	}
}

func TestRevenueAnalyticsOtherYearEmpty(t *testing.T) {
	app := buildTestApp(t)
	property := createTestProperty(t, "Sunset Apartments", 10, "active")
	tenant := createTestTenant(t, property.ID, "A1", "a1@test.com", "active", 1200)

	paidDate := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, storage.DB.Create(&models.Payment{
		TenantID: tenant.ID, Amount: 1200,
		DueDate: paidDate, PaidDate: &paidDate, Status: "paid",
	}).Error)

	resp := doJSON(t, app, http.MethodGet, "/api/dashboard/revenue?year=2023", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var report struct {
		Total  float64                  `json:"total"`
		Months []map[string]interface{} `json:"months"`
	}
	decodeJSON(t, resp, &report)
	assert.Zero(t, report.Total)
	require.Len(t, report.Months, 12)
}
