package ws

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"sphere-hills/backend/internal/world"
)

// Цвета сущностей для рендерера
const (
	playerColor     = "#4488ff"
	projectileColor = "#666666"
)

// WorldSerializer отвечает за сериализацию состояния мира для клиента
type WorldSerializer struct {
	manager *world.Manager
	chunks  *world.ChunkManager
}

// NewWorldSerializer создает новый экземпляр WorldSerializer
func NewWorldSerializer(manager *world.Manager, chunks *world.ChunkManager) *WorldSerializer {
	return &WorldSerializer{
		manager: manager,
		chunks:  chunks,
	}
}

// Вспомогательная функция для проверки и замены NaN
func safeFloat32(val float32, defaultVal float32) float32 {
	if math.IsNaN(float64(val)) {
		return defaultVal
	}
	return val
}

func nowMillis() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

// ChunkCreateMessage собирает create-сообщение для чанка
func ChunkCreateMessage(chunk *world.TerrainChunk) *CreateChunkMessage {
	return &CreateChunkMessage{
		Type:       MessageTypeCreate,
		ID:         ChunkID(chunk.Coord),
		ObjectType: "terrain_chunk",
		ChunkX:     chunk.Coord.X,
		ChunkZ:     chunk.Coord.Z,
		OriginX:    chunk.OriginX,
		OriginZ:    chunk.OriginZ,
		Positions:  chunk.Mesh.Positions,
		Normals:    chunk.Mesh.Normals,
		UVs:        chunk.Mesh.UVs,
		Indices:    chunk.Mesh.Indices,
		ServerTime: nowMillis(),
	}
}

// EntityCreateMessage собирает create-сообщение для сущности
func EntityCreateMessage(snap world.EntitySnapshot) *CreateEntityMessage {
	color := projectileColor
	radius := snap.Radius
	if snap.Kind == "player" {
		color = playerColor
	}
	if radius == 0 {
		radius = 0.15 // размер валуна катапульты
	}

	return &CreateEntityMessage{
		Type:       MessageTypeCreate,
		ID:         snap.ID,
		ObjectType: "sphere",
		X:          safeFloat32(snap.Position.X(), 0),
		Y:          safeFloat32(snap.Position.Y(), 0),
		Z:          safeFloat32(snap.Position.Z(), 0),
		Radius:     radius,
		Color:      color,
		ServerTime: nowMillis(),
	}
}

// EntityUpdateMessage собирает update-сообщение для сущности
func EntityUpdateMessage(snap world.EntitySnapshot) *UpdateMessage {
	return &UpdateMessage{
		Type:       MessageTypeUpdate,
		ID:         snap.ID,
		X:          safeFloat32(snap.Position.X(), 0),
		Y:          safeFloat32(snap.Position.Y(), 0),
		Z:          safeFloat32(snap.Position.Z(), 0),
		QX:         safeFloat32(snap.Rotation.V[0], 0),
		QY:         safeFloat32(snap.Rotation.V[1], 0),
		QZ:         safeFloat32(snap.Rotation.V[2], 0),
		QW:         safeFloat32(snap.Rotation.W, 1),
		ServerTime: nowMillis(),
	}
}

// CameraStateMessage собирает camera-сообщение
func CameraStateMessage(position mgl32.Vec3, rotation mgl32.Quat) *CameraMessage {
	return &CameraMessage{
		Type: MessageTypeCamera,
		X:    safeFloat32(position.X(), 0),
		Y:    safeFloat32(position.Y(), 0),
		Z:    safeFloat32(position.Z(), 0),
		QX:   safeFloat32(rotation.V[0], 0),
		QY:   safeFloat32(rotation.V[1], 0),
		QZ:   safeFloat32(rotation.V[2], 0),
		QW:   safeFloat32(rotation.W, 1),
	}
}

// ChunkID возвращает стабильный идентификатор чанка для клиента,
// вида chunk_3_-2
func ChunkID(coord world.ChunkCoord) string {
	return fmt.Sprintf("chunk_%d_%d", coord.X, coord.Z)
}

// SendAllState отправляет новому клиенту все чанки и сущности
func (s *WorldSerializer) SendAllState(conn *SafeWriter) error {
	for _, chunk := range s.chunks.Loaded() {
		if err := conn.WriteJSON(ChunkCreateMessage(chunk)); err != nil {
			return err
		}
	}
	for _, snap := range s.manager.Snapshots() {
		if err := conn.WriteJSON(EntityCreateMessage(snap)); err != nil {
			return err
		}
	}
	return nil
}
