package ws

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Константы для WebSocket сообщений
const (
	// Сервер -> клиент
	MessageTypeCreate = "create" // Создание объекта (чанк или сущность)
	MessageTypeUpdate = "update" // Обновление позиции/ориентации
	MessageTypeRemove = "remove" // Удаление объекта
	MessageTypeCamera = "camera" // Состояние камеры
	MessageTypeCursor = "cursor" // Маркер прицеливания
	MessageTypeInfo   = "info"   // Информационное сообщение
	MessageTypePong   = "pong"   // Ответ на пинг

	// Клиент -> сервер
	MessageTypeInput   = "input"   // Состояние клавиш и одноразовые события
	MessageTypePointer = "pointer" // Луч курсора из камеры клиента
	MessageTypePing    = "ping"    // Пинг для измерения задержки
)

// ErrInvalidMessage возвращается при сообщении неожиданной структуры
var ErrInvalidMessage = errors.New("invalid message")

// CreateEntityMessage - создание сферической сущности (игрок, снаряд)
type CreateEntityMessage struct {
	Type       string  `json:"type"`
	ID         string  `json:"id"`
	ObjectType string  `json:"object_type"`
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Z          float32 `json:"z"`
	Radius     float32 `json:"radius,omitempty"`
	Color      string  `json:"color,omitempty"`
	ServerTime int64   `json:"server_time"`
}

// CreateChunkMessage - создание чанка террейна с полной геометрией
type CreateChunkMessage struct {
	Type       string       `json:"type"`
	ID         string       `json:"id"`
	ObjectType string       `json:"object_type"`
	ChunkX     int32        `json:"chunk_x"`
	ChunkZ     int32        `json:"chunk_z"`
	OriginX    float32      `json:"origin_x"`
	OriginZ    float32      `json:"origin_z"`
	Positions  [][3]float32 `json:"positions"`
	Normals    [][3]float32 `json:"normals"`
	UVs        [][2]float32 `json:"uvs"`
	Indices    []uint32     `json:"indices"`
	ServerTime int64        `json:"server_time"`
}

// UpdateMessage - обновление позиции и ориентации сущности
type UpdateMessage struct {
	Type       string  `json:"type"`
	ID         string  `json:"id"`
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Z          float32 `json:"z"`
	QX         float32 `json:"qx"`
	QY         float32 `json:"qy"`
	QZ         float32 `json:"qz"`
	QW         float32 `json:"qw"`
	ServerTime int64   `json:"server_time"`
}

// RemoveMessage - удаление сущности или чанка
type RemoveMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// CameraMessage - снимок следящей камеры
type CameraMessage struct {
	Type string  `json:"type"`
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	Z    float32 `json:"z"`
	QX   float32 `json:"qx"`
	QY   float32 `json:"qy"`
	QZ   float32 `json:"qz"`
	QW   float32 `json:"qw"`
}

// CursorMessage - позиция маркера прицеливания
type CursorMessage struct {
	Type    string  `json:"type"`
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Z       float32 `json:"z"`
	Visible bool    `json:"visible"`
}

// InfoMessage - информационное сообщение сервера
type InfoMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewInfoMessage создает информационное сообщение
func NewInfoMessage(message string) *InfoMessage {
	return &InfoMessage{Type: MessageTypeInfo, Message: message}
}

// InputMessage - состояние клавиш движения и одноразовые события.
// Jump и Fire - фронты нажатий, клиент шлет их однократно.
type InputMessage struct {
	Type    string `json:"type"`
	Forward bool   `json:"forward"`
	Back    bool   `json:"back"`
	Left    bool   `json:"left"`
	Right   bool   `json:"right"`
	Jump    bool   `json:"jump,omitempty"`
	Fire    bool   `json:"fire,omitempty"`
}

// PointerMessage - луч курсора: начало и направление в мировых координатах
type PointerMessage struct {
	Type string  `json:"type"`
	OX   float32 `json:"ox"`
	OY   float32 `json:"oy"`
	OZ   float32 `json:"oz"`
	DX   float32 `json:"dx"`
	DY   float32 `json:"dy"`
	DZ   float32 `json:"dz"`
}

// PingMessage - пинг от клиента
type PingMessage struct {
	Type       string `json:"type"`
	ClientTime int64  `json:"client_time"`
}

// PongMessage - ответ сервера на пинг
type PongMessage struct {
	Type       string `json:"type"`
	ClientTime int64  `json:"client_time"`
	ServerTime int64  `json:"server_time"`
}

// ParseMessage разбирает входящее сообщение клиента в соответствующий тип
func ParseMessage(data []byte) (interface{}, error) {
	var baseMessage struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &baseMessage); err != nil {
		return nil, fmt.Errorf("error parsing message: %w", err)
	}

	switch baseMessage.Type {
	case MessageTypeInput:
		var msg InputMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("error parsing input message: %w", err)
		}
		return &msg, nil

	case MessageTypePointer:
		var msg PointerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("error parsing pointer message: %w", err)
		}
		return &msg, nil

	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("error parsing ping message: %w", err)
		}
		return &msg, nil

	default:
		return nil, errors.New("unknown message type: " + baseMessage.Type)
	}
}
