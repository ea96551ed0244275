package main

import (
	"log"

	"github.com/joho/godotenv"
	"gorm.io/gorm/clause"

	"github.com/Blackfireoff/Incident-Factory/internal/db"
	"github.com/Blackfireoff/Incident-Factory/internal/models"
	"github.com/Blackfireoff/Incident-Factory/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Connect to database
	db.Connect()
	db.AutoMigrate()

	log.Println("🌱 Seeding database with sample incidents...")
	if err := seedIncidents(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Println("✅ Database seeding completed successfully!")
}

func seedIncidents() error {
	for _, incident := range services.DemoIncidents() {
		// Check if incident already exists
		var existing models.Incident
		if err := db.DB.First(&existing, incident.ID).Error; err == nil {
			log.Printf("⚠️  Incident already exists: %d", incident.ID)
			continue
		}

		// Persons and units are shared across incidents, so association
		// inserts must tolerate rows created by an earlier iteration.
		if err := db.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&incident).Error; err != nil {
			log.Printf("Error creating incident %d: %v", incident.ID, err)
			continue
		}
		log.Printf("✅ Created incident: %d (%s / %s)", incident.ID, incident.Type, incident.Classification)
	}

	return nil
}
