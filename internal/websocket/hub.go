package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// AcknowledgmentEvent — событие живой ленты портала аудита: только что
// зафиксированное решение пользователя по документу.
type AcknowledgmentEvent struct {
	UserID       uint      `json:"user_id"`
	DocumentID   uint      `json:"document_id"`
	DocumentType string    `json:"document_type"`
	Version      string    `json:"version"`
	Status       string    `json:"status"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// Hub рассылает события подтверждений подключенным администраторам портала
// аудита. Один хаб на процесс; вся синхронизация идет через каналы.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

// NewHub создает новый хаб
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		broadcast:  make(chan []byte, 256),
	}
}

// Run запускает цикл обработки хаба до отмены контекста
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.close()
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("[AuditFeed] Клиент %s подключен (всего: %d)", client.id, len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
				log.Printf("[AuditFeed] Клиент %s отключен (всего: %d)", client.id, len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Переполненный буфер клиента — отключаем, не блокируя рассылку
					delete(h.clients, client)
					client.close()
					log.Printf("[AuditFeed] Клиент %s отключен: переполнен буфер отправки", client.id)
				}
			}
		}
	}
}

// PublishAcknowledgment отправляет событие всем подключенным клиентам.
// Вызов не блокирует поток записи: при переполненном канале событие отбрасывается.
func (h *Hub) PublishAcknowledgment(event AcknowledgmentEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[AuditFeed] Ошибка сериализации события: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Printf("[AuditFeed] Канал рассылки переполнен, событие отброшено")
	}
}
