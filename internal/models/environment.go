package models

import (
	"time"
)

// EnvironmentReading - одно измерение температуры/влажности для спальни
// ВАЖНО: bedroom_id может быть NULL (комната удалена после записи),
// room_name хранит снимок имени на момент вставки и НЕ обновляется при переименовании
type EnvironmentReading struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	BedroomID   *uint     `json:"bedroom_id" gorm:"column:bedroom_id;index"`
	RoomName    string    `json:"room_name" gorm:"type:varchar(255);not null;index"`
	Temperature float64   `json:"temperature" gorm:"type:decimal(5,2);not null"`
	Humidity    float64   `json:"humidity" gorm:"type:decimal(5,2);not null"`
	Timestamp   time.Time `json:"timestamp" gorm:"column:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

// TableName возвращает имя таблицы
func (EnvironmentReading) TableName() string {
	return "apartment_environment"
}
