package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"smartapartment/server/internal/models"
	"smartapartment/server/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const EnvironmentUpdateChannel = "environment:readings" // Канал Pub/Sub для новых показаний

// latestReadingKey - ключ кэша последнего показания комнаты
func latestReadingKey(roomName string) string {
	return "environment:latest:" + roomName
}

// ReadingEvent - событие о новом показании для Kafka и WebSocket подписчиков
type ReadingEvent struct {
	EventID     string    `json:"event_id"`
	BedroomID   *uint     `json:"bedroom_id,omitempty"`
	RoomName    string    `json:"room_name"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Timestamp   time.Time `json:"timestamp"`
}

// EnvironmentService управляет показаниями температуры/влажности
// Redis и Kafka опциональны: без них остаются только записи в PostgreSQL
type EnvironmentService struct {
	db        *gorm.DB
	redisUtil *utils.RedisClient
	publisher *ReadingPublisher
}

// NewEnvironmentService создает новый экземпляр EnvironmentService
func NewEnvironmentService(db *gorm.DB, redisUtil *utils.RedisClient, publisher *ReadingPublisher) *EnvironmentService {
	return &EnvironmentService{
		db:        db,
		redisUtil: redisUtil,
		publisher: publisher,
	}
}

// resolveBedroom находит спальню по ID или по имени
// Единая точка резолва для всех путей записи: комната задается либо
// половиной пары (id), либо другой (name), но вставка всегда идет
// с актуальной парой (id, name) из реестра
func (s *EnvironmentService) resolveBedroom(id *uint, name *string) (*models.Bedroom, error) {
	query := s.db
	switch {
	case id != nil:
		query = query.Where("id = ?", *id)
	case name != nil:
		query = query.Where("name = ?", *name)
	default:
		return nil, fmt.Errorf("bedroom id or name is required")
	}

	var bedroom models.Bedroom
	if err := query.First(&bedroom).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBedroomNotFound
		}
		return nil, fmt.Errorf("ошибка резолва спальни: %w", err)
	}
	return &bedroom, nil
}

// ListByBedroom возвращает все показания спальни, новые первыми
func (s *EnvironmentService) ListByBedroom(bedroomID uint) ([]models.EnvironmentReading, error) {
	var readings []models.EnvironmentReading
	err := s.db.
		Where("bedroom_id = ?", bedroomID).
		Order("timestamp DESC").
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("ошибка получения показаний для спальни %d: %w", bedroomID, err)
	}
	return readings, nil
}

// InsertExplicit вставляет показание по ID спальни
// Имя комнаты берется из реестра непосредственно перед вставкой, чтобы
// снимок room_name не разъезжался с актуальным именем
func (s *EnvironmentService) InsertExplicit(bedroomID uint, temperature, humidity float64) (*models.EnvironmentReading, error) {
	bedroom, err := s.resolveBedroom(&bedroomID, nil)
	if err != nil {
		return nil, err
	}

	reading := models.EnvironmentReading{
		BedroomID:   &bedroom.ID,
		RoomName:    bedroom.Name,
		Temperature: temperature,
		Humidity:    humidity,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.db.Create(&reading).Error; err != nil {
		return nil, fmt.Errorf("ошибка вставки показания для спальни %d: %w", bedroomID, err)
	}

	s.afterInsert(&ReadingEvent{
		EventID:     uuid.New().String(),
		BedroomID:   reading.BedroomID,
		RoomName:    reading.RoomName,
		Temperature: reading.Temperature,
		Humidity:    reading.Humidity,
		Timestamp:   reading.Timestamp,
	})

	return &reading, nil
}

// InsertByName вставляет показание по имени комнаты одним атомарным запросом:
// id и актуальное имя подставляются из реестра в момент вставки.
// Возвращает количество вставленных строк: 0 строк (комната удалена) — не ошибка.
// Используется симуляцией
func (s *EnvironmentService) InsertByName(roomName string, temperature, humidity float64) (int64, error) {
	result := s.db.Exec(
		`INSERT INTO apartment_environment (bedroom_id, room_name, temperature, humidity)
		 SELECT id, name, ?, ? FROM bedrooms WHERE name = ?`,
		temperature, humidity, roomName,
	)
	if result.Error != nil {
		return 0, fmt.Errorf("ошибка вставки показания для комнаты %q: %w", roomName, result.Error)
	}

	if result.RowsAffected > 0 {
		s.afterInsert(&ReadingEvent{
			EventID:     uuid.New().String(),
			RoomName:    roomName,
			Temperature: temperature,
			Humidity:    humidity,
			Timestamp:   time.Now().UTC(),
		})
	}

	return result.RowsAffected, nil
}

// Update обновляет температуру/влажность одного показания
// Запись должна совпасть и по ID записи, и по ID спальни — защита от
// изменения чужого показания при коллизии ID
func (s *EnvironmentService) Update(recordID, bedroomID uint, temperature, humidity float64) (*models.EnvironmentReading, error) {
	result := s.db.
		Model(&models.EnvironmentReading{}).
		Where("id = ? AND bedroom_id = ?", recordID, bedroomID).
		Updates(map[string]interface{}{
			"temperature": temperature,
			"humidity":    humidity,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("ошибка обновления показания %d: %w", recordID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("показание %d для спальни %d: %w", recordID, bedroomID, ErrRecordNotFound)
	}

	var reading models.EnvironmentReading
	if err := s.db.First(&reading, "id = ?", recordID).Error; err != nil {
		return nil, fmt.Errorf("ошибка чтения обновленного показания %d: %w", recordID, err)
	}
	return &reading, nil
}

// Delete удаляет показание по ID и возвращает удаленную запись
func (s *EnvironmentService) Delete(recordID uint) (*models.EnvironmentReading, error) {
	var reading models.EnvironmentReading
	if err := s.db.First(&reading, "id = ?", recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("показание %d: %w", recordID, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("ошибка чтения показания %d: %w", recordID, err)
	}

	if err := s.db.Delete(&reading).Error; err != nil {
		return nil, fmt.Errorf("ошибка удаления показания %d: %w", recordID, err)
	}

	return &reading, nil
}

// DistinctRoomNames возвращает уникальные имена комнат из истории показаний
// Именно история (а не реестр спален) задает список комнат для симуляции:
// комната без единого показания симулироваться не будет
func (s *EnvironmentService) DistinctRoomNames() ([]string, error) {
	var names []string
	err := s.db.
		Model(&models.EnvironmentReading{}).
		Distinct().
		Pluck("room_name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("ошибка получения имен комнат: %w", err)
	}
	return names, nil
}

// GetLatestReading возвращает последнее показание спальни
// Сначала смотрим кэш в Redis, при промахе — БД
func (s *EnvironmentService) GetLatestReading(bedroomID uint) (*models.EnvironmentReading, error) {
	bedroom, err := s.resolveBedroom(&bedroomID, nil)
	if err != nil {
		return nil, err
	}

	if s.redisUtil != nil {
		var cached models.EnvironmentReading
		if err := s.redisUtil.GetJSON(latestReadingKey(bedroom.Name), &cached); err == nil {
			return &cached, nil
		}
	}

	var reading models.EnvironmentReading
	err = s.db.
		Where("bedroom_id = ?", bedroomID).
		Order("timestamp DESC").
		First(&reading).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("показания для спальни %d: %w", bedroomID, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("ошибка чтения последнего показания спальни %d: %w", bedroomID, err)
	}
	return &reading, nil
}

// afterInsert рассылает событие о новом показании подписчикам
// Ошибки кэша/доставки только логируются — запись в БД уже состоялась
func (s *EnvironmentService) afterInsert(event *ReadingEvent) {
	if s.redisUtil != nil {
		cached := models.EnvironmentReading{
			BedroomID:   event.BedroomID,
			RoomName:    event.RoomName,
			Temperature: event.Temperature,
			Humidity:    event.Humidity,
			Timestamp:   event.Timestamp,
		}
		if err := s.redisUtil.Set(latestReadingKey(event.RoomName), cached, 10*time.Minute); err != nil {
			log.Printf("⚠️ Ошибка кэширования показания для %s: %v", event.RoomName, err)
		}

		if payload, err := json.Marshal(event); err == nil {
			if err := s.redisUtil.Publish(EnvironmentUpdateChannel, string(payload)); err != nil {
				log.Printf("⚠️ Ошибка публикации события в Redis: %v", err)
			}
		}
	}

	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}
