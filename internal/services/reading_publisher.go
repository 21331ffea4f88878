package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
)

// ReadingPublisher отправляет события о показаниях в Kafka
// Создается только при заданном KAFKA_BROKERS
type ReadingPublisher struct {
	writer    *kafka.Writer
	sentCount int64 // Счетчик отправленных сообщений
}

// NewReadingPublisher создает Kafka producer для показаний
// Возвращает nil, если брокеры не настроены
func NewReadingPublisher(kafkaBrokers string) *ReadingPublisher {
	if kafkaBrokers == "" {
		return nil
	}

	brokers := strings.Split(kafkaBrokers, ",")
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    "environment-readings",
		Balancer: &kafka.LeastBytes{},
		Async:    true, // Асинхронная отправка, вставка в БД не ждет Kafka
	}
	log.Printf("✅ Kafka producer подключен к %s", kafkaBrokers)

	return &ReadingPublisher{writer: writer}
}

// Publish асинхронно отправляет событие в топик environment-readings
// Ошибки доставки не влияют на запись в БД — только логируются
func (p *ReadingPublisher) Publish(event *ReadingEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("⚠️ Ошибка сериализации события %s: %v", event.EventID, err)
		return
	}

	go func() {
		// Background context с таймаутом: контекст запроса может быть уже отменен
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := p.writer.WriteMessages(bgCtx, kafka.Message{
			Key:   []byte(event.EventID),
			Value: payload,
		})
		if err != nil {
			// Топик создастся автоматически — "Unknown Topic Or Partition" не страшен
			errStr := err.Error()
			if !strings.Contains(errStr, "Unknown Topic Or Partition") &&
				!strings.Contains(errStr, "context canceled") {
				log.Printf("⚠️ Kafka error при отправке события %s: %v", event.EventID, err)
			}
			return
		}

		// Логируем только первые отправки для проверки
		if atomic.AddInt64(&p.sentCount, 1) <= 10 {
			log.Printf("✅ Kafka: отправлено показание %s (%s)", event.EventID, event.RoomName)
		}
	}()
}

// Close закрывает Kafka writer
func (p *ReadingPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
