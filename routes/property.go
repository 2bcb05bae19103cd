package routes

import (
	"rentroll-server/models"
	"rentroll-server/storage"
	"rentroll-server/utils"

	"github.com/kataras/iris/v12"
)

// GetProperties lists properties, newest first, with optional search/type/status filters
func GetProperties(ctx iris.Context) {
	search := ctx.URLParam("search")
	propertyType := ctx.URLParam("type")
	status := ctx.URLParam("status")

	query := storage.DB
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("lower(name) LIKE lower(?) OR lower(address) LIKE lower(?)", pattern, pattern)
	}
	if propertyType != "" {
		query = query.Where("type = ?", propertyType)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var properties []models.Property
	if err := query.Order("created_at DESC").Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(err, ctx)
		return
	}

	ctx.JSON(properties)
}

func GetProperty(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var property models.Property
	if rows := storage.DB.Find(&property, id).RowsAffected; rows == 0 {
		utils.CreateNotFound("Property", ctx)
		return
	}

	ctx.JSON(property)
}

func CreateProperty(ctx iris.Context) {
	var input PropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	property := models.Property{
		Name:        input.Name,
		Type:        input.Type,
		Address:     input.Address,
		Units:       input.Units,
		Image:       input.Image,
		Description: input.Description,
		MonthlyRent: input.MonthlyRent,
		Status:      input.Status,
	}
	if property.Image == "" {
		property.Image = models.DefaultPropertyImage
	}
	if property.Status == "" {
		property.Status = "active"
	}

	if err := storage.DB.Create(&property).Error; err != nil {
		utils.CreateInternalServerError(err, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(property)
}

// UpdateProperty replaces the full document; omitted optional fields reset
func UpdateProperty(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var input PropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var property models.Property
	if rows := storage.DB.Find(&property, id).RowsAffected; rows == 0 {
		utils.CreateNotFound("Property", ctx)
		return
	}

	property.Name = input.Name
	property.Type = input.Type
	property.Address = input.Address
	property.Units = input.Units
	property.Image = input.Image
	property.Description = input.Description
	property.MonthlyRent = input.MonthlyRent
	property.Status = input.Status
	if property.Image == "" {
		property.Image = models.DefaultPropertyImage
	}
	if property.Status == "" {
		property.Status = "active"
	}

	if err := storage.DB.Save(&property).Error; err != nil {
		utils.CreateInternalServerError(err, ctx)
		return
	}

	ctx.JSON(property)
}

// DeleteProperty removes a property unless any tenant still references it
func DeleteProperty(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var property models.Property
	if rows := storage.DB.Find(&property, id).RowsAffected; rows == 0 {
		utils.CreateNotFound("Property", ctx)
		return
	}

	var tenantCount int64
	storage.DB.Model(&models.Tenant{}).Where("property_id = ?", property.ID).Count(&tenantCount)
	if tenantCount > 0 {
		utils.CreateError(iris.StatusBadRequest,
			"Cannot delete property with active tenants. Please remove all tenants first.", ctx)
		return
	}

	if err := storage.DB.Delete(&property).Error; err != nil {
		utils.CreateInternalServerError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Property deleted successfully"})
}

type PropertyInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Type        string  `json:"type" validate:"required,oneof=apartment house commercial"`
	Address     string  `json:"address" validate:"required,max=200"`
	Units       int     `json:"units" validate:"required,min=1,max=1000"`
	Image       string  `json:"image" validate:"omitempty,url"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	MonthlyRent float64 `json:"monthlyRent" validate:"omitempty,gte=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=active inactive maintenance"`
}
