package game

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// HeightSampler - то, что умеет отвечать высотой ландшафта в точке.
// Реализуется world.HeightField; в тестах подменяется плоским полем.
type HeightSampler interface {
	HeightAt(x, z float32) float32
}

// TargetPick - последняя точка попадания луча курсора в ландшафт.
// Пока не случился первый валидный пик, выстрелы подавляются, а камера
// смотрит на игрока.
type TargetPick struct {
	Position mgl32.Vec3
	Valid    bool
}

// Параметры марша луча по ландшафту (как в оригинальном прототипе:
// старт с отступом от камеры, фиксированный шаг, первый сэмпл ниже
// поверхности - попадание)
const (
	rayStartOffset = 5.0
	rayStepLength  = 2.0
	rayStepCount   = 20
)

// TargetingSystem превращает луч курсора в мировую точку прицеливания
type TargetingSystem struct {
	sampler HeightSampler
	input   *InputSystem

	mu   sync.RWMutex
	pick TargetPick
}

// NewTargetingSystem создает систему прицеливания
func NewTargetingSystem(sampler HeightSampler, input *InputSystem) *TargetingSystem {
	return &TargetingSystem{
		sampler: sampler,
		input:   input,
	}
}

func (s *TargetingSystem) GetName() string { return "targeting" }

func (s *TargetingSystem) GetPriority() int { return PriorityTargeting }

// Update выполняет рейкаст курсора против поля высот
func (s *TargetingSystem) Update(_ time.Duration) error {
	ray := s.input.Frame().Ray
	if !ray.Valid {
		return nil
	}

	if hit, ok := MarchRay(s.sampler, ray.Origin, ray.Direction); ok {
		s.mu.Lock()
		s.pick = TargetPick{Position: hit, Valid: true}
		s.mu.Unlock()
	}
	return nil
}

// Pick возвращает последний валидный пик
func (s *TargetingSystem) Pick() TargetPick {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pick
}

// CursorPosition возвращает точку для маркера курсора: чуть выше
// ландшафта, чтобы маркер не тонул в поверхности
func (s *TargetingSystem) CursorPosition() (mgl32.Vec3, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.pick.Valid {
		return mgl32.Vec3{}, false
	}
	return s.pick.Position.Add(mgl32.Vec3{0, 0.1, 0}), true
}

// MarchRay сэмплирует точки вдоль луча с фиксированным шагом и
// возвращает первую точку на поверхности ландшафта или ниже нее.
// Попадание прижимается к высоте ландшафта.
func MarchRay(sampler HeightSampler, origin, direction mgl32.Vec3) (mgl32.Vec3, bool) {
	if direction.LenSqr() == 0 {
		return mgl32.Vec3{}, false
	}
	dir := direction.Normalize()
	start := origin.Add(dir.Mul(rayStartOffset))

	for i := 0; i < rayStepCount; i++ {
		sample := start.Add(dir.Mul(float32(i) * rayStepLength))
		height := sampler.HeightAt(sample.X(), sample.Z())
		if sample.Y() <= height {
			return mgl32.Vec3{sample.X(), height, sample.Z()}, true
		}
	}
	return mgl32.Vec3{}, false
}
