package services

import (
	"log"
	"math"
	"math/rand"
	"sync"
	"time"
)

// SimulationService периодически генерирует показания для известных комнат
// Список комнат определяется ОДИН раз при старте по истории показаний:
// пустая история — симуляция не запускается до перезапуска процесса
type SimulationService struct {
	envService *EnvironmentService
	interval   time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewSimulationService создает новый экземпляр SimulationService
func NewSimulationService(envService *EnvironmentService, interval time.Duration) *SimulationService {
	return &SimulationService{
		envService: envService,
		interval:   interval,
		stop:       make(chan struct{}),
	}
}

// generateSensorData генерирует правдоподобную пару (температура, влажность)
// Температура 22.5-35.0, влажность 30-70, округление до 2 знаков
func generateSensorData() (float64, float64) {
	temperature := math.Round((22.5+rand.Float64()*(35.0-22.5))*100) / 100
	humidity := math.Round((30.0+rand.Float64()*(70.0-30.0))*100) / 100
	return temperature, humidity
}

// Start запускает цикл симуляции
// Решение о запуске принимается однократно: комнаты, получившие первое
// показание после старта, подхватятся только после перезапуска
func (s *SimulationService) Start() {
	roomNames, err := s.envService.DistinctRoomNames()
	if err != nil {
		log.Printf("⚠️ Ошибка получения имен комнат: %v. Симуляция не запущена", err)
		return
	}

	if len(roomNames) == 0 {
		log.Println("ℹ️ Нет комнат с историей показаний. Симуляция не запущена")
		return
	}

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runTick(roomNames)
			case <-s.stop:
				return
			}
		}
	}()

	log.Printf("🌡️ Симуляция запущена для комнат %v, интервал %v", roomNames, s.interval)
}

// runTick выполняет один тик: по одному показанию на каждую комнату
// Ошибка вставки одной комнаты не прерывает остальные
func (s *SimulationService) runTick(roomNames []string) {
	for _, roomName := range roomNames {
		s.insertSensorData(roomName)
	}
}

// insertSensorData генерирует и записывает показание для комнаты
func (s *SimulationService) insertSensorData(roomName string) {
	temperature, humidity := generateSensorData()

	rows, err := s.envService.InsertByName(roomName, temperature, humidity)
	if err != nil {
		log.Printf("⚠️ Ошибка вставки показания для %s: %v", roomName, err)
		return
	}
	if rows == 0 {
		// Комната удалена из реестра после старта — пропускаем без ошибки
		log.Printf("ℹ️ Комната %s больше не существует, показание не записано", roomName)
		return
	}

	log.Printf("🌡️ Inserted: %s - Temp: %.2f, Humidity: %.2f", roomName, temperature, humidity)
}

// Stop останавливает цикл симуляции
func (s *SimulationService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}
