package game

import (
	"time"

	"sphere-hills/backend/internal/world"
)

// Приоритеты систем задают строгий порядок внутри тика:
// ввод -> прицеливание -> физика -> снаряды -> чанки -> камера
const (
	PriorityInput       = 10
	PriorityTargeting   = 20
	PriorityPhysics     = 30
	PriorityProjectiles = 40
	PriorityChunks      = 50
	PriorityCamera      = 60
)

// InputSystem забирает снимок ввода ровно один раз за тик.
// Остальные системы читают снимок этого тика через Frame().
type InputSystem struct {
	state *InputState
	frame InputFrame
}

// NewInputSystem создает систему ввода поверх разделяемого состояния
func NewInputSystem(state *InputState) *InputSystem {
	return &InputSystem{state: state}
}

func (s *InputSystem) GetName() string { return "input" }

func (s *InputSystem) GetPriority() int { return PriorityInput }

// Update фиксирует снимок ввода на текущий тик
func (s *InputSystem) Update(_ time.Duration) error {
	s.frame = s.state.ConsumeFrame()
	return nil
}

// Frame возвращает снимок ввода текущего тика
func (s *InputSystem) Frame() InputFrame {
	return s.frame
}

// ChunkSystem держит окно чанков вокруг игрока
type ChunkSystem struct {
	manager *world.Manager
	chunks  *world.ChunkManager
}

// NewChunkSystem создает систему стриминга чанков
func NewChunkSystem(manager *world.Manager, chunks *world.ChunkManager) *ChunkSystem {
	return &ChunkSystem{manager: manager, chunks: chunks}
}

func (s *ChunkSystem) GetName() string { return "chunks" }

func (s *ChunkSystem) GetPriority() int { return PriorityChunks }

// Update догружает чанки вокруг текущей позиции игрока
func (s *ChunkSystem) Update(_ time.Duration) error {
	player := s.manager.Player()
	if player == nil {
		return nil
	}
	s.chunks.EnsureChunksNear(player.Position.X(), player.Position.Z())
	return nil
}
