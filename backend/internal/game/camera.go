package game

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"sphere-hills/backend/internal/config"
	"sphere-hills/backend/internal/world"
)

// CameraState - снимок позиции и ориентации камеры для рендерера
type CameraState struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// CameraSystem плавно ведет камеру за игроком и доворачивает взгляд к
// смешанной точке между игроком и курсором. Единственный писатель
// состояния камеры; транспорт читает снапшоты.
type CameraSystem struct {
	manager   *world.Manager
	targeting *TargetingSystem
	cfg       config.CameraConfig

	mu    sync.RWMutex
	state CameraState
}

// NewCameraSystem создает следящую камеру
func NewCameraSystem(manager *world.Manager, targeting *TargetingSystem, cfg config.CameraConfig) *CameraSystem {
	return &CameraSystem{
		manager:   manager,
		targeting: targeting,
		cfg:       cfg,
		state: CameraState{
			Position: mgl32.Vec3{cfg.OffsetX, cfg.OffsetY, cfg.OffsetZ},
			Rotation: mgl32.QuatIdent(),
		},
	}
}

func (s *CameraSystem) GetName() string { return "camera" }

func (s *CameraSystem) GetPriority() int { return PriorityCamera }

// State возвращает текущий снимок камеры
func (s *CameraSystem) State() CameraState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Update сдвигает камеру к цели и поворачивает взгляд
func (s *CameraSystem) Update(delta time.Duration) error {
	player := s.manager.Player()
	if player == nil {
		return nil
	}

	dt := float32(delta.Seconds())
	s.mu.Lock()
	defer s.mu.Unlock()

	offset := mgl32.Vec3{s.cfg.OffsetX, s.cfg.OffsetY, s.cfg.OffsetZ}
	desired := player.Position.Add(offset)

	// Экспоненциальное сглаживание позиции
	moveT := clamp01(s.cfg.MoveRate * dt)
	s.state.Position = lerpVec(s.state.Position, desired, moveT)

	eye := player.Position.Add(mgl32.Vec3{0, s.cfg.EyeHeight, 0})
	pick := s.targeting.Pick()

	if pick.Valid {
		// Смешанная точка взгляда: игрок остается в кадре, камера
		// доворачивается к курсору
		lookTarget := lerpVec(eye, pick.Position, s.cfg.CursorWeight)
		targetRotation := lookAtRotation(s.state.Position, lookTarget)
		turnT := clamp01(s.cfg.TurnRate * dt)
		s.state.Rotation = mgl32.QuatSlerp(s.state.Rotation, targetRotation, turnT)
	} else {
		// До первого пика просто смотрим на игрока
		s.state.Rotation = lookAtRotation(s.state.Position, eye)
	}
	return nil
}

// lookAtRotation возвращает ориентацию камеры в eye, смотрящей на center
func lookAtRotation(eye, center mgl32.Vec3) mgl32.Quat {
	if center.Sub(eye).LenSqr() == 0 {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatLookAtV(eye, center, mgl32.Vec3{0, 1, 0}).Normalize()
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
