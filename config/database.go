package config

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"occupancy/models"
)

func dsn(s Settings) string {
	out := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		s.DBHost, s.DBUser, s.DBPassword, s.DBName, s.DBPort, s.DBSSLMode)
	if loc := s.Location(); loc != time.Local {
		out += " TimeZone=" + loc.String()
	}
	return out
}

// ConnectDB opens Postgres and migrates the state_records table.
func ConnectDB(s Settings) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn(s)), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	if err := db.AutoMigrate(&models.StateRecord{}); err != nil {
		return nil, fmt.Errorf("migrate state_records: %w", err)
	}

	log.Println("Successfully connected to db")
	return db, nil
}
