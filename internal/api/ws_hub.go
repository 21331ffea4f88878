package api

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Hub управляет WebSocket соединениями дашбордов
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	mutex     sync.RWMutex
}

// EnvironmentHub - глобальный хаб для подписчиков на показания
var EnvironmentHub = &Hub{
	clients:   make(map[*websocket.Conn]bool),
	broadcast: make(chan []byte, 256), // Буферизованный канал, чтобы не блокировать вставки
}

// Run запускает хаб для обработки сообщений
func (h *Hub) Run() {
	for {
		msg := <-h.broadcast
		h.mutex.RLock()
		for client := range h.clients {
			err := client.WriteMessage(websocket.TextMessage, msg)
			if err != nil {
				// Удаляем клиента при ошибке записи
				h.mutex.RUnlock()
				h.RemoveClient(client)
				h.mutex.RLock()
			}
		}
		h.mutex.RUnlock()
	}
}

// AddClient добавляет нового клиента
func (h *Hub) AddClient(conn *websocket.Conn) {
	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()
}

// RemoveClient удаляет клиента
func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mutex.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mutex.Unlock()
}

// BroadcastMessage отправляет сообщение всем подключенным клиентам
func (h *Hub) BroadcastMessage(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		// Канал переполнен — пропускаем сообщение, не блокируем
	}
}

// GetClientsCount возвращает количество подключенных клиентов
func (h *Hub) GetClientsCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
