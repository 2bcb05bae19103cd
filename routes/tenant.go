package routes

import (
	"encoding/json"
	"strings"
	"time"

	"rentroll-server/models"
	"rentroll-server/storage"
	"rentroll-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetTenants lists tenants with their property join-fetched, newest first,
// with optional search/status/propertyId filters
func GetTenants(ctx iris.Context) {
	search := ctx.URLParam("search")
	status := ctx.URLParam("status")
	propertyID := ctx.URLParam("propertyId")

	query := storage.DB.Preload("Property")
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"lower(name) LIKE lower(?) OR lower(email) LIKE lower(?) OR lower(unit) LIKE lower(?)",
			pattern, pattern, pattern)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if propertyID != "" {
		query = query.Where("property_id = ?", propertyID)
	}

	var tenants []models.Tenant
	if err := query.Order("created_at DESC").Find(&tenants).Error; err != nil {
		utils.CreateInternalServerError(err, ctx)
		return
	}

	ctx.JSON(tenants)
}

func GetTenant(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var tenant models.Tenant
	if rows := storage.DB.Preload("Property").Find(&tenant, id).RowsAffected; rows == 0 {
		utils.CreateNotFound("Tenant", ctx)
		return
	}

	ctx.JSON(tenant)
}

func CreateTenant(ctx iris.Context) {
	var input TenantInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !validateTenantInput(&input, 0, ctx) {
		return
	}

	tenant := models.Tenant{
		Name:             input.Name,
		Email:            strings.ToLower(input.Email),
		Phone:            input.Phone,
		PropertyID:       input.PropertyID,
		Unit:             input.Unit,
		RentAmount:       input.RentAmount,
		LeaseStart:       input.LeaseStart,
		LeaseEnd:         input.LeaseEnd,
		Status:           input.Status,
		SecurityDeposit:  input.SecurityDeposit,
		EmergencyContact: marshalEmergencyContact(input.EmergencyContact),
	}
	if tenant.Status == "" {
		tenant.Status = "active"
	}

	if err := storage.DB.Create(&tenant).Error; err != nil {
		utils.CreateInternalServerError(err, ctx)
		return
	}

	storage.DB.Preload("Property").First(&tenant, tenant.ID)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(tenant)
}

// UpdateTenant replaces the full document; the occupancy check excludes the
// tenant being updated
func UpdateTenant(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var input TenantInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var tenant models.Tenant
	if rows := storage.DB.Find(&tenant, id).RowsAffected; rows == 0 {
		utils.CreateNotFound("Tenant", ctx)
		return
	}

	if !validateTenantInput(&input, tenant.ID, ctx) {
		return
	}

	tenant.Name = input.Name
	tenant.Email = strings.ToLower(input.Email)
	tenant.Phone = input.Phone
	tenant.PropertyID = input.PropertyID
	tenant.Unit = input.Unit
	tenant.RentAmount = input.RentAmount
	tenant.LeaseStart = input.LeaseStart
	tenant.LeaseEnd = input.LeaseEnd
	tenant.Status = input.Status
	tenant.SecurityDeposit = input.SecurityDeposit
	tenant.EmergencyContact = marshalEmergencyContact(input.EmergencyContact)
	if tenant.Status == "" {
		tenant.Status = "active"
	}

	if err := storage.DB.Save(&tenant).Error; err != nil {
		utils.CreateInternalServerError(err, ctx)
		return
	}

	tenant.Property = models.Property{}
	storage.DB.Preload("Property").First(&tenant, tenant.ID)
	ctx.JSON(tenant)
}

// DeleteTenant removes the tenant and all of its payments in one transaction
func DeleteTenant(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var tenant models.Tenant
	if rows := storage.DB.Find(&tenant, id).RowsAffected; rows == 0 {
		utils.CreateNotFound("Tenant", ctx)
		return
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", tenant.ID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tenant).Error
	})
	if err != nil {
		utils.CreateInternalServerError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Tenant and associated payments deleted successfully"})
}

// validateTenantInput runs the referential and business checks shared by
// create and update: property must exist, email must be free, lease dates
// must be ordered, and the (property, unit) pair must not be held by another
// active tenant. excludeID is the tenant being updated, 0 on create.
func validateTenantInput(input *TenantInput, excludeID uint, ctx iris.Context) bool {
	var property models.Property
	if rows := storage.DB.Find(&property, input.PropertyID).RowsAffected; rows == 0 {
		utils.CreateNotFound("Property", ctx)
		return false
	}

	emailQuery := storage.DB.Model(&models.Tenant{}).Where("email = ?", strings.ToLower(input.Email))
	if excludeID > 0 {
		emailQuery = emailQuery.Where("id <> ?", excludeID)
	}
	var emailCount int64
	emailQuery.Count(&emailCount)
	if emailCount > 0 {
		utils.CreateError(iris.StatusBadRequest, "Email already exists", ctx)
		return false
	}

	if !input.LeaseEnd.After(input.LeaseStart) {
		utils.CreateError(iris.StatusBadRequest, "Lease end date must be after lease start date", ctx)
		return false
	}

	occupancyQuery := storage.DB.Model(&models.Tenant{}).
		Where("property_id = ? AND unit = ? AND status = ?", input.PropertyID, input.Unit, "active")
	if excludeID > 0 {
		occupancyQuery = occupancyQuery.Where("id <> ?", excludeID)
	}
	var occupied int64
	occupancyQuery.Count(&occupied)
	if occupied > 0 {
		utils.CreateError(iris.StatusBadRequest, "Unit is already occupied by an active tenant", ctx)
		return false
	}

	return true
}

func marshalEmergencyContact(contact *models.EmergencyContact) datatypes.JSON {
	if contact == nil {
		return nil
	}
	contactJSON, _ := json.Marshal(contact)
	return datatypes.JSON(contactJSON)
}

type TenantInput struct {
	Name             string                   `json:"name" validate:"required,max=100"`
	Email            string                   `json:"email" validate:"required,email"`
	Phone            string                   `json:"phone" validate:"required,max=20"`
	PropertyID       uint                     `json:"propertyId" validate:"required"`
	Unit             string                   `json:"unit" validate:"required,max=20"`
	RentAmount       float64                  `json:"rentAmount" validate:"gte=0"`
	LeaseStart       time.Time                `json:"leaseStart" validate:"required"`
	LeaseEnd         time.Time                `json:"leaseEnd" validate:"required"`
	Status           string                   `json:"status" validate:"omitempty,oneof=active inactive pending"`
	SecurityDeposit  float64                  `json:"securityDeposit" validate:"omitempty,gte=0"`
	EmergencyContact *models.EmergencyContact `json:"emergencyContact"`
}
