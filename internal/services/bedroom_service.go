package services

import (
	"errors"
	"fmt"

	"smartapartment/server/internal/models"

	"gorm.io/gorm"
)

// BedroomService управляет реестром спален
type BedroomService struct {
	db *gorm.DB
}

// NewBedroomService создает новый экземпляр BedroomService
func NewBedroomService(db *gorm.DB) *BedroomService {
	return &BedroomService{db: db}
}

// GetAllBedrooms возвращает список всех спален, отсортированный по ID
func (s *BedroomService) GetAllBedrooms() ([]models.Bedroom, error) {
	var bedrooms []models.Bedroom
	if err := s.db.Order("id ASC").Find(&bedrooms).Error; err != nil {
		return nil, fmt.Errorf("ошибка получения спален: %w", err)
	}
	return bedrooms, nil
}

// GetBedroomByID возвращает спальню по ID
func (s *BedroomService) GetBedroomByID(id uint) (*models.Bedroom, error) {
	var bedroom models.Bedroom
	if err := s.db.First(&bedroom, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("спальня с ID %d: %w", id, ErrBedroomNotFound)
		}
		return nil, fmt.Errorf("ошибка получения спальни %d: %w", id, err)
	}
	return &bedroom, nil
}

// CreateBedroom создает новую спальню
func (s *BedroomService) CreateBedroom(name string) (*models.Bedroom, error) {
	bedroom := models.Bedroom{Name: name}
	if err := s.db.Create(&bedroom).Error; err != nil {
		return nil, fmt.Errorf("ошибка создания спальни %q: %w", name, err)
	}
	return &bedroom, nil
}

// UpdateBedroom переименовывает спальню
// Снимки room_name в старых показаниях НЕ трогаем — это исторические данные
func (s *BedroomService) UpdateBedroom(id uint, name string) (*models.Bedroom, error) {
	var bedroom models.Bedroom
	if err := s.db.First(&bedroom, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("спальня с ID %d: %w", id, ErrBedroomNotFound)
		}
		return nil, fmt.Errorf("ошибка получения спальни %d: %w", id, err)
	}

	if err := s.db.Model(&bedroom).Update("name", name).Error; err != nil {
		return nil, fmt.Errorf("ошибка обновления спальни %d: %w", id, err)
	}

	return &bedroom, nil
}

// DeleteBedroom удаляет спальню
// Показания в apartment_environment остаются с "висячим" bedroom_id —
// каскадного удаления нет, история показаний сохраняется
func (s *BedroomService) DeleteBedroom(id uint) (*models.Bedroom, error) {
	var bedroom models.Bedroom
	if err := s.db.First(&bedroom, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("спальня с ID %d: %w", id, ErrBedroomNotFound)
		}
		return nil, fmt.Errorf("ошибка получения спальни %d: %w", id, err)
	}

	if err := s.db.Delete(&bedroom).Error; err != nil {
		return nil, fmt.Errorf("ошибка удаления спальни %d: %w", id, err)
	}

	return &bedroom, nil
}
