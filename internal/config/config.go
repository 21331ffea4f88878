package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL        string
	RedisURL           string        // Пустая строка = работаем без Redis
	KafkaBrokers       string        // Пустая строка = работаем без Kafka
	ServerPort         string
	Environment        string
	SimulationInterval time.Duration // Интервал между тиками симуляции
}

func Load() *Config {
	// Полный URL имеет приоритет, иначе собираем из отдельных переменных
	// (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)
	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL == "" {
		dbHost := getEnv("DB_HOST", "localhost")
		dbPort := getEnv("DB_PORT", "5432")
		dbUser := getEnv("DB_USER", "postgres")
		dbPassword := getEnv("DB_PASSWORD", "")
		dbName := getEnv("DB_NAME", "smart_apartment")

		if dbPassword != "" {
			databaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
				dbUser, dbPassword, dbHost, dbPort, dbName)
		} else {
			databaseURL = fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=disable",
				dbUser, dbHost, dbPort, dbName)
		}
	}

	return &Config{
		DatabaseURL:        databaseURL,
		RedisURL:           getEnv("REDIS_URL", ""),
		KafkaBrokers:       getEnv("KAFKA_BROKERS", ""),
		ServerPort:         getEnv("PORT", "3001"),
		Environment:        getEnv("ENV", "development"),
		SimulationInterval: time.Duration(getEnvInt("SIMULATION_INTERVAL_SECONDS", 60)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
