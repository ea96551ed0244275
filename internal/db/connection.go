package db

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Blackfireoff/Incident-Factory/internal/models"
)

var DB *gorm.DB

// Connect initializes the database connection
func Connect() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Reduce logging to avoid issues
	})

	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("✅ Database connected successfully")
}

// AutoMigrate runs database migrations
func AutoMigrate() {
	log.Println("Migrating Person model...")
	if err := DB.AutoMigrate(&models.Person{}); err != nil {
		log.Printf("Person migration failed: %v", err)
		return
	}
	log.Println("✅ Person table migrated successfully")

	log.Println("Migrating OrganizationalUnit model...")
	if err := DB.AutoMigrate(&models.OrganizationalUnit{}); err != nil {
		log.Printf("OrganizationalUnit migration failed: %v", err)
		return
	}
	log.Println("✅ OrganizationalUnit table migrated successfully")

	log.Println("Migrating Risk model...")
	if err := DB.AutoMigrate(&models.Risk{}); err != nil {
		log.Printf("Risk migration failed: %v", err)
		return
	}
	log.Println("✅ Risk table migrated successfully")

	log.Println("Migrating CorrectiveMeasure model...")
	if err := DB.AutoMigrate(&models.CorrectiveMeasure{}); err != nil {
		log.Printf("CorrectiveMeasure migration failed: %v", err)
		return
	}
	log.Println("✅ CorrectiveMeasure table migrated successfully")

	log.Println("Migrating Incident model...")
	if err := DB.AutoMigrate(&models.Incident{}); err != nil {
		log.Printf("Incident migration failed: %v", err)
		return
	}
	log.Println("✅ Incident table migrated successfully")

	log.Println("Migrating LinkedEmployee model...")
	if err := DB.AutoMigrate(&models.LinkedEmployee{}); err != nil {
		log.Printf("LinkedEmployee migration failed: %v", err)
		return
	}
	log.Println("✅ LinkedEmployee table migrated successfully")

	log.Println("✅ All database migrations completed successfully")
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
