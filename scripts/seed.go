package main

import (
	"fmt"
	"log"
	"time"

	"rentroll-server/models"
	"rentroll-server/storage"
	"rentroll-server/utils"

	"golang.org/x/crypto/bcrypt"
)

// Seeds the database with demo data: an admin user, three properties, three
// tenants and a couple of months of payment history.
func main() {
	db := storage.InitializeDB()

	if err := db.Exec("DELETE FROM payments").Error; err != nil {
		log.Fatalf("Error clearing payments: %v", err)
	}
	db.Exec("DELETE FROM tenants")
	db.Exec("DELETE FROM properties")
	db.Exec("DELETE FROM users")
	fmt.Println("Cleared existing data")

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error hashing admin password: %v", err)
	}
	admin := models.User{
		Name:     "Admin User",
		Email:    "admin@rentroll.com",
		Password: string(hashed),
		Role:     "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Error creating admin user: %v", err)
	}
	fmt.Println("Created admin user")

	properties := []models.Property{
		{
			Name:        "Sunset Apartments",
			Type:        "apartment",
			Address:     "123 Main St, Springfield, IL 62701",
			Units:       12,
			Image:       models.DefaultPropertyImage,
			Description: "Modern apartment complex with amenities",
			MonthlyRent: 1200,
			Status:      "active",
		},
		{
			Name:        "Oak House",
			Type:        "house",
			Address:     "456 Oak Ave, Springfield, IL 62702",
			Units:       1,
			Image:       "https://images.pexels.com/photos/106399/pexels-photo-106399.jpeg?auto=compress&cs=tinysrgb&w=500",
			Description: "Beautiful single family home",
			MonthlyRent: 1800,
			Status:      "active",
		},
		{
			Name:        "Downtown Commercial Plaza",
			Type:        "commercial",
			Address:     "789 Business Blvd, Springfield, IL 62703",
			Units:       6,
			Image:       "https://images.pexels.com/photos/269077/pexels-photo-269077.jpeg?auto=compress&cs=tinysrgb&w=500",
			Description: "Prime commercial space downtown",
			MonthlyRent: 2500,
			Status:      "active",
		},
	}
	if err := db.Create(&properties).Error; err != nil {
		log.Fatalf("Error creating properties: %v", err)
	}
	fmt.Printf("Created %d properties\n", len(properties))

	now := time.Now()
	leaseStart := now.AddDate(0, -6, 0)
	leaseEnd := leaseStart.AddDate(1, 0, 0)

	tenants := []models.Tenant{
		{
			Name:       "John Smith",
			Email:      "john.smith@email.com",
			Phone:      "+15551234567",
			PropertyID: properties[0].ID,
			Unit:       "A1",
			RentAmount: 1200,
			LeaseStart: leaseStart,
			LeaseEnd:   leaseEnd,
			Status:     "active",
		},
		{
			Name:       "Sarah Johnson",
			Email:      "sarah.johnson@email.com",
			Phone:      "+15552345678",
			PropertyID: properties[0].ID,
			Unit:       "B2",
			RentAmount: 1250,
			LeaseStart: leaseStart,
			LeaseEnd:   leaseEnd,
			Status:     "active",
		},
		{
			Name:       "Mike Wilson",
			Email:      "mike.wilson@email.com",
			Phone:      "+15553456789",
			PropertyID: properties[1].ID,
			Unit:       "Main",
			RentAmount: 1800,
			LeaseStart: leaseStart,
			LeaseEnd:   leaseEnd,
			Status:     "active",
		},
	}
	if err := db.Create(&tenants).Error; err != nil {
		log.Fatalf("Error creating tenants: %v", err)
	}
	fmt.Printf("Created %d tenants\n", len(tenants))

	lastMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	thisMonth := lastMonth.AddDate(0, 1, 0)

	var payments []models.Payment
	for _, tenant := range tenants {
		paidDate := lastMonth.AddDate(0, 0, 2)
		receipt := utils.GenerateReceiptNumber()
		payments = append(payments, models.Payment{
			TenantID:      tenant.ID,
			Amount:        tenant.RentAmount,
			DueDate:       lastMonth,
			PaidDate:      &paidDate,
			Status:        "paid",
			PaymentMethod: "bank_transfer",
			ReceiptNumber: &receipt,
		})
		payments = append(payments, models.Payment{
			TenantID: tenant.ID,
			Amount:   tenant.RentAmount,
			DueDate:  thisMonth,
			Status:   "pending",
		})
	}
	if err := db.Create(&payments).Error; err != nil {
		log.Fatalf("Error creating payments: %v", err)
	}
	fmt.Printf("Created %d payments\n", len(payments))

	fmt.Println("Seeding completed successfully!")
}
