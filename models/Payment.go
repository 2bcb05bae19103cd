package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type Payment struct {
	gorm.Model
	TenantID      uint       `json:"tenantId" gorm:"index:idx_payments_tenant_due"`
	Tenant        Tenant     `json:"tenant" gorm:"foreignKey:TenantID;references:ID"`
	Amount        float64    `json:"amount"`
	DueDate       time.Time  `json:"dueDate" gorm:"index:idx_payments_tenant_due;index:idx_payments_status_due"`
	PaidDate      *time.Time `json:"paidDate"`
	Status        string     `json:"status" gorm:"type:varchar(20);default:'pending';index:idx_payments_status_due"` // pending, paid, partial, overdue
	PaymentMethod string     `json:"paymentMethod" gorm:"type:varchar(20);default:'cash'"`                          // cash, check, bank_transfer, credit_card, online
	Notes         string     `json:"notes" gorm:"type:varchar(200)"`
	LateFee       float64    `json:"lateFee" gorm:"default:0"`
	ReceiptNumber *string    `json:"receiptNumber" gorm:"uniqueIndex"`
}

// Custom JSON marshaling to drop the tenant association when it was not
// join-fetched
func (p *Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	aux := &struct {
		Tenant *Tenant `json:"tenant,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(p),
	}

	if p.Tenant.ID > 0 {
		tenantCopy := p.Tenant
		aux.Tenant = &tenantCopy
	}

	return json.Marshal(aux)
}
