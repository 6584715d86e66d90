package ws

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"

	"sphere-hills/backend/internal/game"
	"sphere-hills/backend/internal/world"
)

// DefaultUpdateInterval - интервал отправки обновлений клиентам
const DefaultUpdateInterval = 50 * time.Millisecond

// WSServer - WebSocket граница между симуляцией и рендерером/вводом.
// Наружу уходят снапшоты сущностей, чанки и камера; внутрь приходят
// клавиши, выстрелы и луч курсора.
type WSServer struct {
	upgrader   websocket.Upgrader
	serializer *WorldSerializer

	manager   *world.Manager
	input     *game.InputState
	targeting *game.TargetingSystem
	camera    *game.CameraSystem

	updateInterval time.Duration

	mu      sync.RWMutex
	clients map[*SafeWriter]struct{}

	// Сущности, о которых клиенты уже знают; новые получают create,
	// пропавшие - remove
	known map[string]struct{}
}

// NewWSServer создает новый экземпляр WebSocket сервера
func NewWSServer(manager *world.Manager, serializer *WorldSerializer, input *game.InputState, targeting *game.TargetingSystem, camera *game.CameraSystem) *WSServer {
	return &WSServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		serializer:     serializer,
		manager:        manager,
		input:          input,
		targeting:      targeting,
		camera:         camera,
		updateInterval: DefaultUpdateInterval,
		clients:        make(map[*SafeWriter]struct{}),
		known:          make(map[string]struct{}),
	}
}

// SetUpdateInterval устанавливает интервал рассылки обновлений
func (s *WSServer) SetUpdateInterval(interval time.Duration) {
	if interval > 0 {
		s.updateInterval = interval
	}
}

// HandleWS обрабатывает входящие WebSocket соединения
func (s *WSServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Ошибка апгрейда соединения: %v", err)
		return
	}

	safeConn := NewSafeWriter(conn)
	defer func() {
		s.removeClient(safeConn)
		safeConn.Close()
	}()

	log.Printf("[WS] Новое соединение: %s", conn.RemoteAddr())

	if err := safeConn.WriteJSON(NewInfoMessage("connected to sphere-hills server")); err != nil {
		log.Printf("[WS] Ошибка отправки приветствия: %v", err)
		return
	}

	// Новому клиенту отправляем все текущее состояние мира
	if err := s.serializer.SendAllState(safeConn); err != nil {
		log.Printf("[WS] Ошибка отправки состояния мира: %v", err)
		return
	}

	s.addClient(safeConn)
	s.readLoop(safeConn)
}

func (s *WSServer) addClient(conn *SafeWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[conn] = struct{}{}
}

func (s *WSServer) removeClient(conn *SafeWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, conn)
}

// readLoop читает и применяет сообщения клиента до разрыва соединения
func (s *WSServer) readLoop(conn *SafeWriter) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[WS] Соединение закрыто: %v", err)
			return
		}

		msg, err := ParseMessage(data)
		if err != nil {
			log.Printf("[WS] Непонятное сообщение: %v", err)
			continue
		}

		switch m := msg.(type) {
		case *InputMessage:
			s.input.SetKeys(m.Forward, m.Back, m.Left, m.Right)
			if m.Jump {
				s.input.QueueJump()
			}
			if m.Fire {
				s.input.QueueFire()
			}

		case *PointerMessage:
			s.input.SetPointerRay(
				mgl32.Vec3{m.OX, m.OY, m.OZ},
				mgl32.Vec3{m.DX, m.DY, m.DZ},
			)

		case *PingMessage:
			pong := &PongMessage{
				Type:       MessageTypePong,
				ClientTime: m.ClientTime,
				ServerTime: nowMillis(),
			}
			if err := conn.WriteJSON(pong); err != nil {
				log.Printf("[WS] Ошибка отправки pong: %v", err)
			}
		}
	}
}

// Run рассылает обновления всем клиентам до отмены контекста
func (s *WSServer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcastState()
		}
	}
}

// broadcastState отправляет снапшоты сущностей, камеру и курсор
func (s *WSServer) broadcastState() {
	snapshots := s.manager.Snapshots()

	// Вычисляем диф известных сущностей под замком, рассылаем без него
	var messages []interface{}

	s.mu.Lock()
	seen := make(map[string]struct{}, len(snapshots))
	for _, snap := range snapshots {
		seen[snap.ID] = struct{}{}

		if _, ok := s.known[snap.ID]; !ok {
			s.known[snap.ID] = struct{}{}
			messages = append(messages, EntityCreateMessage(snap))
		}
		messages = append(messages, EntityUpdateMessage(snap))
	}

	// Сущности, пропавшие из мира (истекшие снаряды)
	for id := range s.known {
		if _, ok := seen[id]; !ok {
			delete(s.known, id)
			messages = append(messages, &RemoveMessage{Type: MessageTypeRemove, ID: id})
		}
	}
	s.mu.Unlock()

	for _, msg := range messages {
		s.broadcast(msg)
	}

	camState := s.camera.State()
	s.broadcast(CameraStateMessage(camState.Position, camState.Rotation))

	if cursor, ok := s.targeting.CursorPosition(); ok {
		s.broadcast(&CursorMessage{
			Type:    MessageTypeCursor,
			X:       cursor.X(),
			Y:       cursor.Y(),
			Z:       cursor.Z(),
			Visible: true,
		})
	}
}

// broadcast отправляет сообщение всем подключенным клиентам
func (s *WSServer) broadcast(msg interface{}) {
	s.mu.RLock()
	clients := make([]*SafeWriter, 0, len(s.clients))
	for conn := range s.clients {
		clients = append(clients, conn)
	}
	s.mu.RUnlock()

	for _, conn := range clients {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("[WS] Ошибка отправки клиенту: %v", err)
		}
	}
}

// ChunkLoaded реализует world.ChunkListener: новый чанк уходит клиентам
func (s *WSServer) ChunkLoaded(chunk *world.TerrainChunk) {
	s.broadcast(ChunkCreateMessage(chunk))
}

// ChunkEvicted реализует world.ChunkListener
func (s *WSServer) ChunkEvicted(coord world.ChunkCoord) {
	s.broadcast(&RemoveMessage{Type: MessageTypeRemove, ID: ChunkID(coord)})
}

// ProjectileRemoved реализует game.ProjectileListener
func (s *WSServer) ProjectileRemoved(id string) {
	s.mu.Lock()
	delete(s.known, id)
	s.mu.Unlock()
	s.broadcast(&RemoveMessage{Type: MessageTypeRemove, ID: id})
}
