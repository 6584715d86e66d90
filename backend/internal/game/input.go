package game

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// PointerRay - луч из камеры клиента под курсором мыши
type PointerRay struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
	Valid     bool
}

// InputFrame - снимок ввода на один кадр симуляции.
// Direction - единичный горизонтальный вектор (или ноль), Jump и Fire -
// одноразовые события, потребляются одним кадром.
type InputFrame struct {
	Direction mgl32.Vec3
	Jump      bool
	Fire      bool
	Ray       PointerRay
}

// InputState - состояние ввода между транспортом и симуляцией.
// Транспорт пишет из горутины соединения, симуляция забирает снимок
// один раз за кадр. Единственная точка разделяемой записи ввода.
type InputState struct {
	mu sync.Mutex

	forward, back, left, right bool

	jumpQueued bool
	fireQueued bool

	ray PointerRay
}

// NewInputState создает пустое состояние ввода
func NewInputState() *InputState {
	return &InputState{}
}

// SetKeys обновляет зажатые клавиши движения
func (s *InputState) SetKeys(forward, back, left, right bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forward = forward
	s.back = back
	s.left = left
	s.right = right
}

// QueueJump фиксирует нажатие прыжка до следующего кадра
func (s *InputState) QueueJump() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jumpQueued = true
}

// QueueFire фиксирует нажатие кнопки выстрела до следующего кадра
func (s *InputState) QueueFire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fireQueued = true
}

// SetPointerRay обновляет луч курсора
func (s *InputState) SetPointerRay(origin, direction mgl32.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ray = PointerRay{Origin: origin, Direction: direction, Valid: true}
}

// ConsumeFrame возвращает снимок ввода и сбрасывает одноразовые события
func (s *InputState) ConsumeFrame() InputFrame {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dir mgl32.Vec3
	if s.forward {
		dir[2] -= 1
	}
	if s.back {
		dir[2] += 1
	}
	if s.left {
		dir[0] -= 1
	}
	if s.right {
		dir[0] += 1
	}
	// Нормализуем только ненулевой ввод
	if dir.LenSqr() > 0 {
		dir = dir.Normalize()
	}

	frame := InputFrame{
		Direction: dir,
		Jump:      s.jumpQueued,
		Fire:      s.fireQueued,
		Ray:       s.ray,
	}
	s.jumpQueued = false
	s.fireQueued = false
	return frame
}
