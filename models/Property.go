package models

import (
	"gorm.io/gorm"
)

const DefaultPropertyImage = "https://images.pexels.com/photos/1396122/pexels-photo-1396122.jpeg?auto=compress&cs=tinysrgb&w=500"

type Property struct {
	gorm.Model
	Name        string  `json:"name" gorm:"type:varchar(100)"`
	Type        string  `json:"type" gorm:"type:varchar(20);index"` // apartment, house, commercial
	Address     string  `json:"address" gorm:"type:varchar(200)"`
	Units       int     `json:"units"`
	Image       string  `json:"image"`
	Description string  `json:"description" gorm:"type:varchar(500)"`
	MonthlyRent float64 `json:"monthlyRent"`
	Status      string  `json:"status" gorm:"type:varchar(20);default:'active';index"` // active, inactive, maintenance
}
