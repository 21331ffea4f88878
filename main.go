package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"smartapartment/server/internal/api"
	"smartapartment/server/internal/config"
	"smartapartment/server/internal/database"
	"smartapartment/server/internal/models"
	"smartapartment/server/internal/services"
	"smartapartment/server/internal/utils"
)

func main() {
	// Загружаем переменные окружения из .env файла (если существует)
	// Игнорируем ошибку, если файл не найден (для production окружений)
	if err := godotenv.Load(); err != nil {
		log.Printf("ℹ️ .env файл не найден, используем переменные окружения системы")
	} else {
		log.Printf("✅ Переменные окружения загружены из .env файла")
	}

	// Загрузка конфигурации
	cfg := config.Load()

	// Подключение к PostgreSQL — без БД сервису делать нечего
	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ PostgreSQL connection failed: %v", err)
	}
	defer database.ClosePostgres(db)

	// Выполняем миграции
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Подключение к Redis (опционально: кэш последних показаний + Pub/Sub для WebSocket)
	var redisUtil *utils.RedisClient
	if cfg.RedisURL != "" {
		redisClient, err := database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Redis connection failed: %v (continuing without Redis)", err)
		} else {
			redisUtil = utils.NewRedisClient(redisClient)
			defer database.CloseRedis(redisClient)
		}
	} else {
		log.Println("ℹ️ REDIS_URL не установлен, работаем без Redis")
	}

	// Kafka producer для показаний (опционально)
	publisher := services.NewReadingPublisher(cfg.KafkaBrokers)
	if publisher == nil {
		log.Println("ℹ️ KAFKA_BROKERS не установлен, работаем без Kafka")
	} else {
		defer publisher.Close()
	}

	// Сервисы
	bedroomService := services.NewBedroomService(db)
	environmentService := services.NewEnvironmentService(db, redisUtil, publisher)
	simulationService := services.NewSimulationService(environmentService, cfg.SimulationInterval)

	// Контроллеры
	bedroomController := api.NewBedroomController(bedroomService)
	environmentController := api.NewEnvironmentController(environmentService)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Root health check
	r.GET("/", func(c *gin.Context) {
		c.String(200, "Smart Apartment backend is running.")
	})

	// Логирование всех запросов
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		log.Printf("🌐 %s %s - Status: %d - Latency: %v", method, path, status, latency)
	})

	// CORS для фронтенда
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// API routes
	apiGroup := r.Group("/api")

	bedroomGroup := apiGroup.Group("/bedrooms")
	{
		bedroomGroup.GET("", bedroomController.GetBedrooms)
		bedroomGroup.POST("", bedroomController.CreateBedroom)

		// ВАЖНО: статический маршрут должен быть ДО параметрического /:id
		bedroomGroup.DELETE("/environment/:id", environmentController.DeleteEnvironment)

		bedroomGroup.GET("/:id", bedroomController.GetBedroom)
		bedroomGroup.PUT("/:id", bedroomController.UpdateBedroom)
		bedroomGroup.DELETE("/:id", bedroomController.DeleteBedroom)

		bedroomGroup.GET("/:id/environment", environmentController.GetEnvironment)
		bedroomGroup.POST("/:id/environment", environmentController.CreateEnvironment)
		bedroomGroup.GET("/:id/environment/latest", environmentController.GetLatestEnvironment)
		bedroomGroup.PUT("/:id/environment/:recordId", environmentController.UpdateEnvironment)
	}

	// WebSocket для дашбордов: live-поток новых показаний
	apiGroup.GET("/ws", api.ServeEnvironmentWS)
	go api.EnvironmentHub.Run()

	// Мост Redis Pub/Sub -> WebSocket: события о показаниях из всех
	// инстансов попадают подключенным дашбордам
	if redisUtil != nil {
		ch, closeSub := redisUtil.Subscribe(services.EnvironmentUpdateChannel)
		defer closeSub()
		go func() {
			for msg := range ch {
				api.EnvironmentHub.BroadcastMessage([]byte(msg.Payload))
			}
		}()
		log.Println("📡 Redis Pub/Sub мост для WebSocket запущен")
	}

	// Запускаем симуляцию показаний
	simulationService.Start()
	defer simulationService.Stop()

	log.Printf("🚀 Backend listening on http://localhost:%s", cfg.ServerPort)
	if err := r.Run("0.0.0.0:" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
