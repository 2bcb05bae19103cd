package routes

import (
	"math"
	"time"

	"rentroll-server/models"
	"rentroll-server/storage"
	"rentroll-server/utils"

	"github.com/kataras/iris/v12"
)

// GetDashboardStats aggregates the overview for the current calendar month:
// expected vs collected vs pending income, overdue exposure (not bounded to
// the month), year-to-date revenue, occupancy, and recent records.
func GetDashboardStats(ctx iris.Context) {
	now := time.Now()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonthStart := monthStart.AddDate(0, 1, 0)

	var totalProperties int64
	storage.DB.Model(&models.Property{}).Where("status = ?", "active").Count(&totalProperties)

	var totalTenants int64
	storage.DB.Model(&models.Tenant{}).Count(&totalTenants)

	var activeTenants int64
	storage.DB.Model(&models.Tenant{}).Where("status = ?", "active").Count(&activeTenants)

	var monthlyIncome float64
	storage.DB.Model(&models.Tenant{}).Where("status = ?", "active").
		Select("COALESCE(SUM(rent_amount), 0)").Scan(&monthlyIncome)

	var monthlyPayments []models.Payment
	storage.DB.Where("due_date >= ? AND due_date < ?", monthStart, nextMonthStart).
		Find(&monthlyPayments)

	var monthlyCollected, monthlyPending float64
	var paidCount, pendingCount int
	for _, payment := range monthlyPayments {
		switch payment.Status {
		case "paid":
			monthlyCollected += payment.Amount
			paidCount++
		case "pending":
			monthlyPending += payment.Amount
			pendingCount++
		}
	}

	var overduePayments []models.Payment
	storage.DB.Preload("Tenant").Preload("Tenant.Property").
		Where("status = ? AND due_date < ?", "overdue", now).
		Order("due_date ASC").
		Find(&overduePayments)

	var overdueAmount float64
	for _, payment := range overduePayments {
		overdueAmount += payment.Amount
	}

	var totalRevenue float64
	storage.DB.Model(&models.Payment{}).
		Where("status = ? AND paid_date >= ? AND paid_date < ?", "paid", yearStart, yearStart.AddDate(1, 0, 0)).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalRevenue)

	var totalUnits int64
	storage.DB.Model(&models.Property{}).Where("status = ?", "active").
		Select("COALESCE(SUM(units), 0)").Scan(&totalUnits)

	occupancyRate := 0.0
	if totalUnits > 0 {
		occupancyRate = math.Round(float64(activeTenants)/float64(totalUnits)*1000) / 10
	}

	var recentProperties []models.Property
	storage.DB.Where("status = ?", "active").Order("created_at DESC").Limit(5).
		Find(&recentProperties)

	var recentTenants []models.Tenant
	storage.DB.Preload("Property").Where("status = ?", "active").
		Order("created_at DESC").Limit(5).
		Find(&recentTenants)

	recentOverdue := overduePayments
	if len(recentOverdue) > 5 {
		recentOverdue = recentOverdue[:5]
	}

	ctx.JSON(iris.Map{
		"overview": iris.Map{
			"totalProperties":  totalProperties,
			"totalTenants":     totalTenants,
			"activeTenants":    activeTenants,
			"monthlyIncome":    monthlyIncome,
			"monthlyCollected": monthlyCollected,
			"monthlyPending":   monthlyPending,
			"overdueAmount":    overdueAmount,
			"totalRevenue":     totalRevenue,
			"occupancyRate":    occupancyRate,
		},
		"payments": iris.Map{
			"total":   len(monthlyPayments),
			"paid":    paidCount,
			"pending": pendingCount,
			"overdue": len(overduePayments),
		},
		"recent": iris.Map{
			"properties":      recentProperties,
			"tenants":         recentTenants,
			"overduePayments": recentOverdue,
		},
	})
}

type monthRevenue struct {
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

// GetRevenueAnalytics buckets paid payments by calendar month of paidDate
// for the requested year, zero-filling months with no payments. Bucketing
// happens in Go so the query stays portable across drivers.
func GetRevenueAnalytics(ctx iris.Context) {
	year := ctx.URLParamIntDefault("year", time.Now().Year())

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	var paidPayments []models.Payment
	err := storage.DB.
		Where("status = ? AND paid_date >= ? AND paid_date < ?", "paid", yearStart, yearEnd).
		Find(&paidPayments).Error
	if err != nil {
		utils.CreateInternalServerError(err, ctx)
		return
	}

	months := make([]monthRevenue, 12)
	for i := range months {
		months[i].Month = i + 1
	}

	total := 0.0
	for _, payment := range paidPayments {
		if payment.PaidDate == nil {
			continue
		}
		bucket := &months[int(payment.PaidDate.Month())-1]
		bucket.Revenue += payment.Amount
		bucket.Count++
		total += payment.Amount
	}

	ctx.JSON(iris.Map{
		"year":   year,
		"months": months,
		"total":  total,
	})
}
