package websocket

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler обрабатывает WebSocket подключения
type Handler struct {
	manager *Manager
}

// NewHandler создает новый WebSocket handler
func NewHandler(manager *Manager) *Handler {
	return &Handler{
		manager: manager,
	}
}

// HandleWebSocket подписывает клиента на изменения справочника
// ?employee_id= ограничивает поток одним сотрудником
func (h *Handler) HandleWebSocket(c *gin.Context) {
	employeeID := 0
	if raw := c.Query("employee_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный employee_id"})
			return
		}
		employeeID = id
	}

	// Апгрейдим HTTP соединение до WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to upgrade to WebSocket")
		return
	}

	client := &Client{
		ID:         uuid.New().String(),
		Conn:       conn,
		Send:       make(chan Message, 256),
		EmployeeID: employeeID,
	}

	h.manager.RegisterClient(client)

	// Запускаем горутины для чтения и записи
	go client.WritePump(h.manager)
	go client.ReadPump(h.manager)
}
