package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

type Tenant struct {
	gorm.Model
	Name       string    `json:"name" gorm:"type:varchar(100)"`
	Email      string    `json:"email" gorm:"uniqueIndex"`
	Phone      string    `json:"phone"`
	PropertyID uint      `json:"propertyId" gorm:"index:idx_tenants_property_unit"`
	Property   Property  `json:"property" gorm:"foreignKey:PropertyID;references:ID"`
	Unit       string    `json:"unit" gorm:"type:varchar(20);index:idx_tenants_property_unit"`
	RentAmount float64   `json:"rentAmount"`
	LeaseStart time.Time `json:"leaseStart"`
	LeaseEnd   time.Time `json:"leaseEnd"`
	// Occupancy of (property, unit) is enforced at the API layer for active
	// tenants only, so the composite index above is deliberately non-unique.
	Status           string         `json:"status" gorm:"type:varchar(20);default:'active';index"` // active, inactive, pending
	SecurityDeposit  float64        `json:"securityDeposit" gorm:"default:0"`
	EmergencyContact datatypes.JSON `json:"emergencyContact"`
}

// Custom JSON marshaling to expand the emergency contact JSON column and to
// drop the property association when it was not join-fetched
func (t *Tenant) MarshalJSON() ([]byte, error) {
	type Alias Tenant
	aux := &struct {
		EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
		Property         *Property         `json:"property,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(t),
	}

	if t.EmergencyContact != nil {
		var contact EmergencyContact
		if err := json.Unmarshal(t.EmergencyContact, &contact); err == nil {
			aux.EmergencyContact = &contact
		}
	}

	if t.Property.ID > 0 {
		propertyCopy := t.Property
		aux.Property = &propertyCopy
	}

	return json.Marshal(aux)
}
