package game

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"sphere-hills/backend/internal/config"
	"sphere-hills/backend/internal/world"
)

// lerpVec - линейная интерполяция векторов
func lerpVec(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// PlayerPhysicsSystem - интегратор катящегося шара. Работает с
// фиксированным шагом: кадровое время накапливается и разбивается на
// целое число шагов длиной 1/PhysicsHz (ноль или несколько за кадр).
// Ориентация интегрируется на той же фиксированной частоте, что и
// физика - интегрирование малых углов чувствительно к частоте тиков.
type PlayerPhysicsSystem struct {
	manager *world.Manager
	sampler HeightSampler
	input   *InputSystem
	cfg     config.PlayerConfig

	stepDuration float32
	accumulator  float32
	steps        uint64
}

// NewPlayerPhysicsSystem создает систему физики игрока
func NewPlayerPhysicsSystem(manager *world.Manager, sampler HeightSampler, input *InputSystem, cfg config.PlayerConfig) *PlayerPhysicsSystem {
	hz := cfg.PhysicsHz
	if hz <= 0 {
		hz = 60
	}
	return &PlayerPhysicsSystem{
		manager:      manager,
		sampler:      sampler,
		input:        input,
		cfg:          cfg,
		stepDuration: 1.0 / float32(hz),
	}
}

func (s *PlayerPhysicsSystem) GetName() string { return "player-physics" }

func (s *PlayerPhysicsSystem) GetPriority() int { return PriorityPhysics }

// Update набирает кадровое время и прогоняет накопленные фиксированные шаги
func (s *PlayerPhysicsSystem) Update(delta time.Duration) error {
	body := s.manager.Player()
	if body == nil {
		return nil
	}

	frame := s.input.Frame()

	s.accumulator += float32(delta.Seconds())
	for s.accumulator >= s.stepDuration {
		s.accumulator -= s.stepDuration
		StepRollingBody(body, s.sampler, frame, s.cfg, s.stepDuration)
		// Прыжок - одноразовое событие, второй подшаг его не видит
		frame.Jump = false
		s.steps++
	}
	return nil
}

// StepRollingBody продвигает тело на один фиксированный шаг dt.
// Порядок стадий повторяет исходную модель: гравитация/приземление,
// уклон и трение, прыжок, ввод, моментум, ограничение скорости,
// интеграция позиции, прижим к поверхности, угловая скорость, вращение.
func StepRollingBody(body *world.RollingBody, sampler HeightSampler, frame InputFrame, cfg config.PlayerConfig, dt float32) {
	body.PrevPosition = body.Position

	pos := body.Position
	vel := body.Velocity

	// Высота и уклон ландшафта в текущей точке (центральные разности)
	currentHeight := sampler.HeightAt(pos.X(), pos.Z())
	d := cfg.SlopeSampleDist
	gradient := mgl32.Vec3{
		(sampler.HeightAt(pos.X()-d, pos.Z()) - sampler.HeightAt(pos.X()+d, pos.Z())) / (2 * d),
		0,
		(sampler.HeightAt(pos.X(), pos.Z()-d) - sampler.HeightAt(pos.X(), pos.Z()+d)) / (2 * d),
	}
	gradientStrength := gradient.Len()

	// Предиктивная проверка земли с допуском против дребезга состояния
	wasGrounded := body.Grounded
	body.Grounded = pos.Y() <= currentHeight+body.Radius+cfg.GroundEpsilon

	effectiveMass := body.Mass * cfg.MassFactor

	// Подмешиваем запаздывающий моментум: на земле только горизонталь,
	// в воздухе целиком
	if body.Momentum.LenSqr() > 0.001 {
		target := body.Momentum.Mul(1.0 / effectiveMass)
		if body.Grounded {
			yVel := vel.Y()
			vel = lerpVec(vel, target, cfg.MomentumBlend)
			vel[1] = yVel
		} else {
			vel = lerpVec(vel, target, cfg.MomentumBlend)
		}
	}

	if !body.Grounded {
		vel[1] -= cfg.Gravity * dt
	} else if !wasGrounded {
		// Только что приземлились: сильный удар отскакивает, слабый гасится
		impact := vel.Y()
		if impact < 0 {
			impact = -impact
		}
		if impact > cfg.BounceThreshold {
			vel[1] = impact * cfg.Restitution
		} else {
			// Мягкая посадка: осаживаем тело на поверхность, иначе оно
			// зависнет внутри допуска и гравитация больше не сработает
			vel[1] = 0
			pos[1] = currentHeight + body.Radius
		}
	} else {
		// Катимся по земле: уклон разгоняет вниз по склону
		if gradientStrength > 0.001 {
			slopeForce := gradient.Normalize().Mul(gradientStrength * cfg.TerrainSensitivity)
			slopeAccel := slopeForce.Mul(cfg.Gravity / effectiveMass)
			vel[0] += slopeAccel.X() * dt * cfg.SlopeDampening
			vel[2] += slopeAccel.Z() * dt * cfg.SlopeDampening
		}

		// Трение качения
		vel[0] *= cfg.Friction
		vel[2] *= cfg.Friction

		if vel[1] < 0 {
			vel[1] = 0
		}
	}

	jumped := false
	if body.Grounded && frame.Jump {
		vel[1] = cfg.JumpForce
		body.Grounded = false
		jumped = true
	}

	// Ускорение от ввода, с учетом эффективной массы
	if body.Grounded && frame.Direction.LenSqr() > 0 {
		inputForce := frame.Direction.Mul(cfg.MoveSpeed / effectiveMass)
		vel[0] += inputForce.X() * dt * cfg.InputMultiplier
		vel[2] += inputForce.Z() * dt * cfg.InputMultiplier

		// Ввод не должен добавлять вертикальную скорость на земле
		if vel[1] > 0 && !jumped {
			vel[1] = 0
		}
	}

	// Обновляем моментум: на земле вертикальная составляющая не копится
	if body.Grounded {
		newMomentum := mgl32.Vec3{vel.X(), body.Momentum.Y(), vel.Z()}
		body.Momentum = lerpVec(body.Momentum, newMomentum, 1.0-cfg.MomentumFactor)
		body.Momentum[1] = 0
	} else {
		body.Momentum = lerpVec(body.Momentum, vel, 1.0-cfg.MomentumFactor)
	}

	// Ограничение горизонтальной скорости с сохранением направления
	horizSqr := vel.X()*vel.X() + vel.Z()*vel.Z()
	if horizSqr > cfg.MaxSpeed*cfg.MaxSpeed {
		scale := cfg.MaxSpeed / sqrt32(horizSqr)
		vel[0] *= scale
		vel[2] *= scale
	}

	pos = pos.Add(vel.Mul(dt))

	// Корректирующий прижим к поверхности в НОВОЙ точке: за один шаг шар
	// может протуннелировать сквозь ступеньку склона, поэтому проверка
	// земли существует и до, и после интеграции
	minHeight := sampler.HeightAt(pos.X(), pos.Z()) + body.Radius
	if pos.Y() < minHeight {
		pos[1] = minHeight
		body.Grounded = true
		if vel[1] < 0 {
			vel[1] = 0
		}
	}

	// Угловая скорость качения без проскальзывания: ось перпендикулярна
	// горизонтальной скорости, знак дает верхнее вращение в сторону движения
	if body.Grounded && vel.Len() > 0.1 {
		moveDir := mgl32.Vec3{vel.X(), 0, vel.Z()}
		if moveDir.LenSqr() > 0 {
			moveDir = moveDir.Normalize()
			rightAxis := mgl32.Vec3{-moveDir.Z(), 0, moveDir.X()}
			body.AngularVelocity = rightAxis.Mul(-vel.Len() / body.Radius)
		}
	} else {
		body.AngularVelocity = body.AngularVelocity.Mul(cfg.SpinDecay)
	}

	// Интеграция ориентации малым поворотом вокруг оси вращения
	if body.AngularVelocity.LenSqr() > 0.001 {
		axis := body.AngularVelocity.Normalize()
		angle := body.AngularVelocity.Len() * dt
		body.Rotation = mgl32.QuatRotate(angle, axis).Mul(body.Rotation).Normalize()
	}

	body.Position = pos
	body.Velocity = vel
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
