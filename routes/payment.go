package routes

import (
	"fmt"
	"strings"
	"time"

	"rentroll-server/models"
	"rentroll-server/storage"
	"rentroll-server/utils"

	"github.com/kataras/iris/v12"
)

// GetPayments lists payments with tenant and property join-fetched, most
// recent due date first. status/tenantId/startDate/endDate filter in the
// query; search matches tenant name, property name or unit after the join.
func GetPayments(ctx iris.Context) {
	search := ctx.URLParam("search")
	status := ctx.URLParam("status")
	tenantID := ctx.URLParam("tenantId")
	startDate := ctx.URLParam("startDate")
	endDate := ctx.URLParam("endDate")

	query := storage.DB.Preload("Tenant").Preload("Tenant.Property")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if tenantID != "" {
		query = query.Where("tenant_id = ?", tenantID)
	}
	if startDate != "" {
		if from, err := time.Parse(time.RFC3339, startDate); err == nil {
			query = query.Where("due_date >= ?", from)
		}
	}
	if endDate != "" {
		if to, err := time.Parse(time.RFC3339, endDate); err == nil {
			query = query.Where("due_date <= ?", to)
		}
	}

	var payments []models.Payment
	if err := query.Order("due_date DESC").Find(&payments).Error; err != nil {
		utils.CreateInternalServerError(err, ctx)
		return
	}

	if search != "" {
		needle := strings.ToLower(search)
		filtered := make([]models.Payment, 0, len(payments))
		for _, payment := range payments {
			if strings.Contains(strings.ToLower(payment.Tenant.Name), needle) ||
				strings.Contains(strings.ToLower(payment.Tenant.Property.Name), needle) ||
				strings.Contains(strings.ToLower(payment.Tenant.Unit), needle) {
				filtered = append(filtered, payment)
			}
		}
		payments = filtered
	}

	ctx.JSON(payments)
}

func GetPayment(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var payment models.Payment
	rows := storage.DB.Preload("Tenant").Preload("Tenant.Property").Find(&payment, id).RowsAffected
	if rows == 0 {
		utils.CreateNotFound("Payment", ctx)
		return
	}

	ctx.JSON(payment)
}

func CreatePayment(ctx iris.Context) {
	var input PaymentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var tenant models.Tenant
	if rows := storage.DB.Find(&tenant, input.TenantID).RowsAffected; rows == 0 {
		utils.CreateNotFound("Tenant", ctx)
		return
	}

	payment := models.Payment{
		TenantID:      input.TenantID,
		Amount:        input.Amount,
		DueDate:       input.DueDate,
		PaidDate:      input.PaidDate,
		Status:        input.Status,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
		LateFee:       input.LateFee,
	}
	if payment.Status == "" {
		payment.Status = "pending"
	}
	if payment.PaymentMethod == "" {
		payment.PaymentMethod = "cash"
	}

	// Status derivation: a paid date always wins, a past due date forces
	// overdue, anything else stays as the client sent it
	if payment.PaidDate != nil {
		payment.Status = "paid"
	} else if payment.DueDate.Before(time.Now()) {
		payment.Status = "overdue"
	}

	applyReceiptNumber(&payment)

	if err := storage.DB.Create(&payment).Error; err != nil {
		utils.CreateInternalServerError(err, ctx)
		return
	}

	storage.DB.Preload("Tenant").Preload("Tenant.Property").First(&payment, payment.ID)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(payment)
}

// UpdatePayment replaces the full document and re-derives the status. The
// derivation compares against the client-supplied status: partial and
// pending are never auto-assigned and never auto-cleared.
func UpdatePayment(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var input PaymentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var payment models.Payment
	if rows := storage.DB.Find(&payment, id).RowsAffected; rows == 0 {
		utils.CreateNotFound("Payment", ctx)
		return
	}

	status := input.Status
	if status == "" {
		status = "pending"
	}
	if input.PaidDate != nil && status != "paid" {
		status = "paid"
	} else if input.PaidDate == nil && input.DueDate.Before(time.Now()) {
		status = "overdue"
	}

	payment.TenantID = input.TenantID
	payment.Amount = input.Amount
	payment.DueDate = input.DueDate
	payment.PaidDate = input.PaidDate
	payment.Status = status
	payment.PaymentMethod = input.PaymentMethod
	payment.Notes = input.Notes
	payment.LateFee = input.LateFee
	if payment.PaymentMethod == "" {
		payment.PaymentMethod = "cash"
	}

	applyReceiptNumber(&payment)

	if err := storage.DB.Save(&payment).Error; err != nil {
		utils.CreateInternalServerError(err, ctx)
		return
	}

	payment.Tenant = models.Tenant{}
	storage.DB.Preload("Tenant").Preload("Tenant.Property").First(&payment, payment.ID)
	ctx.JSON(payment)
}

func DeletePayment(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var payment models.Payment
	if rows := storage.DB.Find(&payment, id).RowsAffected; rows == 0 {
		utils.CreateNotFound("Payment", ctx)
		return
	}

	if err := storage.DB.Delete(&payment).Error; err != nil {
		utils.CreateInternalServerError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Payment deleted successfully"})
}

// BulkGeneratePayments creates one pending payment, due the first of the
// requested month, for every active tenant that does not already have a
// payment due within that month. Re-invoking for the same month is a no-op
// for tenants already covered. Not atomic across tenants: the first insert
// error stops the batch and only the count inserted so far is reported.
func BulkGeneratePayments(ctx iris.Context) {
	var input BulkPaymentsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	monthStart := time.Date(input.Year, time.Month(input.Month), 1, 0, 0, 0, 0, time.UTC)
	nextMonthStart := monthStart.AddDate(0, 1, 0)

	var tenants []models.Tenant
	if err := storage.DB.Where("status = ?", "active").Find(&tenants).Error; err != nil {
		utils.CreateInternalServerError(err, ctx)
		return
	}

	created := 0
	for _, tenant := range tenants {
		var existing int64
		storage.DB.Model(&models.Payment{}).
			Where("tenant_id = ? AND due_date >= ? AND due_date < ?", tenant.ID, monthStart, nextMonthStart).
			Count(&existing)
		if existing > 0 {
			continue
		}

		payment := models.Payment{
			TenantID: tenant.ID,
			Amount:   tenant.RentAmount,
			DueDate:  monthStart,
			Status:   "pending",
		}
		if err := storage.DB.Create(&payment).Error; err != nil {
			utils.CreateInternalServerError(err, ctx)
			return
		}
		created++
	}

	ctx.JSON(iris.Map{
		"message": fmt.Sprintf("Created %d payment records for %d/%d", created, input.Month, input.Year),
		"count":   created,
	})
}

// applyReceiptNumber generates a receipt the first time a payment reaches
// paid; an existing receipt is never replaced
func applyReceiptNumber(payment *models.Payment) {
	if payment.Status == "paid" && payment.ReceiptNumber == nil {
		receipt := utils.GenerateReceiptNumber()
		payment.ReceiptNumber = &receipt
	}
}

type PaymentInput struct {
	TenantID      uint       `json:"tenantId" validate:"required"`
	Amount        float64    `json:"amount" validate:"gte=0"`
	DueDate       time.Time  `json:"dueDate" validate:"required"`
	PaidDate      *time.Time `json:"paidDate"`
	Status        string     `json:"status" validate:"omitempty,oneof=pending paid partial overdue"`
	PaymentMethod string     `json:"paymentMethod" validate:"omitempty,oneof=cash check bank_transfer credit_card online"`
	Notes         string     `json:"notes" validate:"omitempty,max=200"`
	LateFee       float64    `json:"lateFee" validate:"omitempty,gte=0"`
}

type BulkPaymentsInput struct {
	Month int `json:"month" validate:"required,min=1,max=12"`
	Year  int `json:"year" validate:"required,min=2000,max=2100"`
}
