package models

import (
	"log"

	"gorm.io/gorm"
)

// AutoMigrate создает таблицы в БД
func AutoMigrate(db *gorm.DB) error {
	// Сначала мигрируем спальни — apartment_environment ссылается на них по bedroom_id
	if err := db.AutoMigrate(&Bedroom{}); err != nil {
		log.Printf("❌ AutoMigrate для Bedroom failed: %v", err)
		return err
	}
	log.Println("✅ Bedroom table migrated successfully")

	if err := db.AutoMigrate(&EnvironmentReading{}); err != nil {
		log.Printf("❌ AutoMigrate для EnvironmentReading failed: %v", err)
		return err
	}
	log.Println("✅ EnvironmentReading table migrated successfully")

	return nil
}
