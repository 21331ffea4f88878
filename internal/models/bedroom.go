package models

// Bedroom представляет спальню в квартире
// ID генерируется базой, Name уникально — симуляция ищет комнаты по имени
type Bedroom struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
}

// TableName указывает имя таблицы
func (Bedroom) TableName() string {
	return "bedrooms"
}
