package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yourusername/testing-platform-api/internal/session"
)

// WSHandler отдает поток тиков таймера сессии по WebSocket
type WSHandler struct {
	manager  *session.Manager
	upgrader websocket.Upgrader
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(manager *session.Manager) *WSHandler {
	return &WSHandler{
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Происхождение проверяет CORS-слой HTTP API; сам тикерный
			// поток не несет чувствительных данных
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// StreamTicks обрабатывает GET /api/sessions/:id/ws.
// Клиент получает текущее состояние отсчета и затем каждый тик таймера;
// после истечения или отправки сессии соединение закрывается сервером.
func (h *WSHandler) StreamTicks(c *gin.Context) {
	sessionID := c.Param("id")
	userID := c.MustGet("user_id").(uint)

	s, err := h.manager.Get(sessionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WSHandler] Ошибка апгрейда соединения для сессии %s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	ticks, unsubscribe := s.Subscribe()
	defer unsubscribe()

	// Читающая горутина нужна только для обнаружения закрытия клиентом
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Сразу отдаем текущее состояние, не дожидаясь первого тика
	snap := s.Snapshot()
	if err := conn.WriteJSON(session.Tick{
		RemainingSeconds: snap.RemainingSeconds,
		PercentRemaining: snap.PercentRemaining,
		Expired:          snap.WasTimedOut,
	}); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case tick, ok := <-ticks:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(tick); err != nil {
				return
			}
			if tick.Expired {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "time expired"))
				return
			}
		}
	}
}
