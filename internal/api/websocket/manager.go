package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// MessageType - тип события справочника
type MessageType string

const (
	MessageTypeEmployeeCreated MessageType = "employee_created"
	MessageTypeEmployeeUpdated MessageType = "employee_updated"
	MessageTypeEmployeeDeleted MessageType = "employee_deleted"
)

// Message структура WebSocket сообщения
type Message struct {
	Type       MessageType `json:"type"`
	EmployeeID int         `json:"employee_id"`
	Payload    interface{} `json:"payload,omitempty"`
}

// Client представляет WebSocket клиента
type Client struct {
	ID         string
	Conn       *websocket.Conn
	Send       chan Message
	EmployeeID int // 0 - подписка на все изменения
}

const (
	defaultWriteWait = 10 * time.Second
	defaultPongWait  = 60 * time.Second
)

// Manager управляет WebSocket соединениями
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	done       chan struct{}

	// writeWait - сколько ждать записи одного сообщения
	writeWait time.Duration
	// pongWait - сколько ждать pong, ping уходит каждые 9/10 этого времени
	pongWait time.Duration
}

// NewManager создает новый WebSocket manager
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 256),
		done:       make(chan struct{}),
		writeWait:  defaultWriteWait,
		pongWait:   defaultPongWait,
	}
}

func (m *Manager) pingPeriod() time.Duration {
	return m.pongWait * 9 / 10
}

// Run обслуживает клиентов до отмены ctx (должен работать в отдельной горутине)
// Карта clients принадлежит только этой горутине
func (m *Manager) Run(ctx context.Context) error {
	defer close(m.done)

	for {
		select {
		case <-ctx.Done():
			for id, client := range m.clients {
				close(client.Send)
				delete(m.clients, id)
			}
			return nil

		case client := <-m.register:
			m.clients[client.ID] = client
			log.Debug().Str("client_id", client.ID).Int("employee_id", client.EmployeeID).Msg("WebSocket: клиент подключен")

		case client := <-m.unregister:
			if _, ok := m.clients[client.ID]; ok {
				delete(m.clients, client.ID)
				close(client.Send)
				log.Debug().Str("client_id", client.ID).Msg("WebSocket: клиент отключен")
			}

		case message := <-m.broadcast:
			for _, client := range m.clients {
				// Клиент, подписанный на конкретного сотрудника, получает только его события
				if client.EmployeeID != 0 && client.EmployeeID != message.EmployeeID {
					continue
				}

				select {
				case client.Send <- message:
				default:
					// Если канал переполнен - отключаем клиента
					close(client.Send)
					delete(m.clients, client.ID)
				}
			}
		}
	}
}

// RegisterClient регистрирует нового клиента
// После остановки менеджера канал клиента сразу закрывается
func (m *Manager) RegisterClient(client *Client) {
	select {
	case m.register <- client:
	case <-m.done:
		close(client.Send)
	}
}

// UnregisterClient отключает клиента
func (m *Manager) UnregisterClient(client *Client) {
	select {
	case m.unregister <- client:
	case <-m.done:
	}
}

// Broadcast отправляет сообщение клиентам, при переполненной очереди сообщение теряется
func (m *Manager) Broadcast(message Message) {
	select {
	case m.broadcast <- message:
	default:
		log.Warn().Str("type", string(message.Type)).Msg("WebSocket: очередь переполнена, событие пропущено")
	}
}

// BroadcastEmployeeEvent отправляет событие об изменении сотрудника
func (m *Manager) BroadcastEmployeeEvent(messageType MessageType, employeeID int, payload interface{}) {
	m.Broadcast(Message{
		Type:       messageType,
		EmployeeID: employeeID,
		Payload:    payload,
	})
}

// ReadPump читает сообщения от клиента, пока соединение живо
// Клиент, не ответивший на ping за pongWait, отключается
func (c *Client) ReadPump(manager *Manager) {
	defer func() {
		manager.UnregisterClient(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(manager.pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(manager.pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.ID).Msg("WebSocket error")
			}
			break
		}
	}
}

// WritePump отправляет сообщения и ping клиенту
// Каждая запись ограничена writeWait
func (c *Client) WritePump(manager *Manager) {
	ticker := time.NewTicker(manager.pingPeriod())
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(manager.writeWait))
			if !ok {
				// Менеджер закрыл канал
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(message)
			if err != nil {
				log.Error().Err(err).Msg("Error marshaling message")
				continue
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Str("client_id", c.ID).Msg("WebSocket: запись не удалась")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(manager.writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
