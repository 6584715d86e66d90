package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"sphere-hills/backend/internal/config"
	"sphere-hills/backend/internal/world"
)

// LaunchSolver подбирает начальную скорость так, чтобы замкнутая
// баллистическая траектория прошла примерно через цель.
type LaunchSolver interface {
	SolveLaunchVelocity(from, target mgl32.Vec3) mgl32.Vec3
}

// TimeSolver - решатель с параметризацией по времени полета: сначала
// выбираем желаемую высоту дуги и время полета, затем восстанавливаем
// скорость. Дает медленные высокие дуги в духе катапульты.
//
// Альтернативный решатель (фиксированный угол + уравнение дальности)
// мог бы стоять за тем же интерфейсом, но константы у них разные и не
// смешиваются.
type TimeSolver struct {
	cfg config.ProjectileConfig
}

// NewTimeSolver создает решатель по настройкам снарядов
func NewTimeSolver(cfg config.ProjectileConfig) *TimeSolver {
	return &TimeSolver{cfg: cfg}
}

// SolveLaunchVelocity возвращает начальную скорость для выстрела из
// from в target
func (s *TimeSolver) SolveLaunchVelocity(from, target mgl32.Vec3) mgl32.Vec3 {
	horizontal := mgl32.Vec3{target.X() - from.X(), 0, target.Z() - from.Z()}
	dist := horizontal.Len()
	heightDiff := target.Y() - from.Y()

	var dir mgl32.Vec3
	if horizontal.LenSqr() > 0 {
		dir = horizontal.Normalize()
	}

	// На дальних дистанциях уменьшаем фактор высоты дуги, иначе апекс
	// растет линейно с дальностью и выстрел вырождается
	heightFactor := s.cfg.HeightFactor
	if s.cfg.TaperDistance > 0 && dist > s.cfg.TaperDistance {
		heightFactor *= s.cfg.TaperDistance / dist
	}

	// Апекс над большей из точек вылета/попадания
	apex := dist * heightFactor

	travelTime := dist / s.cfg.Speed
	if travelTime < s.cfg.MinTravel {
		travelTime = s.cfg.MinTravel
	}

	horizontalVelocity := dir.Mul(dist / travelTime)

	// v_y = (Δh + апекс + g*t^2/2) / t
	verticalVelocity := (heightDiff + apex + 0.5*s.cfg.Gravity*travelTime*travelTime) / travelTime

	velocity := mgl32.Vec3{
		horizontalVelocity.X(),
		verticalVelocity,
		horizontalVelocity.Z(),
	}

	// Ограничиваем каждую компоненту против вырожденных скоростных
	// выстрелов на экстремальной дальности
	limit := s.cfg.MaxComponentSpeed
	if limit > 0 {
		for i := 0; i < 3; i++ {
			if velocity[i] > limit {
				velocity[i] = limit
			} else if velocity[i] < -limit {
				velocity[i] = -limit
			}
		}
	}

	return velocity
}

// ProjectileListener получает события удаления снарядов
type ProjectileListener interface {
	ProjectileRemoved(id string)
}

// ProjectileSystem спавнит снаряды по событию выстрела и продвигает их
// по замкнутой баллистической формуле до попадания в ландшафт или
// истечения времени жизни.
type ProjectileSystem struct {
	manager   *world.Manager
	sampler   HeightSampler
	input     *InputSystem
	targeting *TargetingSystem
	solver    LaunchSolver
	cfg       config.ProjectileConfig
	rng       *rand.Rand

	listeners []ProjectileListener
}

// NewProjectileSystem создает систему снарядов
func NewProjectileSystem(manager *world.Manager, sampler HeightSampler, input *InputSystem, targeting *TargetingSystem, cfg config.ProjectileConfig) *ProjectileSystem {
	return &ProjectileSystem{
		manager:   manager,
		sampler:   sampler,
		input:     input,
		targeting: targeting,
		solver:    NewTimeSolver(cfg),
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// AddListener подписывает получателя событий снарядов
func (s *ProjectileSystem) AddListener(l ProjectileListener) {
	s.listeners = append(s.listeners, l)
}

func (s *ProjectileSystem) GetName() string { return "projectiles" }

func (s *ProjectileSystem) GetPriority() int { return PriorityProjectiles }

// Update обрабатывает выстрел текущего кадра и продвигает все снаряды
func (s *ProjectileSystem) Update(delta time.Duration) error {
	frame := s.input.Frame()

	// Выстрел только при валидном пике: до первого попадания курсора в
	// ландшафт стрелять некуда
	if frame.Fire {
		pick := s.targeting.Pick()
		player := s.manager.Player()
		if pick.Valid && player != nil {
			s.spawn(player.Position, pick.Position)
		}
	}

	dt := float32(delta.Seconds())
	for _, p := range s.manager.Projectiles() {
		s.advance(p, dt)
	}
	return nil
}

// spawn создает снаряд из позиции игрока в точку прицеливания
func (s *ProjectileSystem) spawn(playerPos, target mgl32.Vec3) {
	start := playerPos.Add(mgl32.Vec3{0, s.cfg.LaunchOffset, 0})

	velocity := s.solver.SolveLaunchVelocity(start, target)

	// Небольшой случайный разброс для живости, с легким уклоном вверх.
	// Чисто косметика: величина мала и на попадание в окрестность цели
	// не влияет.
	j := s.cfg.JitterAmount
	velocity = velocity.Add(mgl32.Vec3{
		(s.rng.Float32() - 0.5) * j,
		s.rng.Float32() * j,
		(s.rng.Float32() - 0.5) * j,
	})

	projectile := &world.Projectile{
		Start:           start,
		Target:          target,
		InitialVelocity: velocity,
		Lifetime:        s.cfg.Lifetime,
		Speed:           s.cfg.Speed,
		Position:        start,
		Rotation:        mgl32.QuatIdent(),
	}
	s.manager.AddProjectile(projectile)
}

// advance продвигает один снаряд на dt секунд
func (s *ProjectileSystem) advance(p *world.Projectile, dt float32) {
	p.Age += dt

	if p.Age >= p.Lifetime {
		s.manager.RemoveProjectile(p.ID)
		for _, l := range s.listeners {
			l.ProjectileRemoved(p.ID)
		}
		return
	}

	// Воткнувшийся снаряд лежит на месте и ждет конца продленного
	// времени жизни
	if p.Stuck() {
		return
	}

	t := p.Age
	p.Position = p.PositionAt(t, s.cfg.Gravity)

	// Ориентация по мгновенной скорости плюс легкий осциллирующий крен
	velocity := p.VelocityAt(t, s.cfg.Gravity)
	if velocity.LenSqr() > 0.001 {
		forward := velocity.Normalize()
		roll := float32(math.Sin(float64(t*2.0))) * 0.2
		p.Rotation = mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, 1}, forward).
			Mul(mgl32.QuatRotate(roll, mgl32.Vec3{0, 0, 1})).Normalize()
	}

	// Попадание в ландшафт: прижимаем к поверхности, "втыкаем" нос на
	// полпути к вертикали, один раз продлеваем время жизни
	ground := s.sampler.HeightAt(p.Position.X(), p.Position.Z())
	if p.Position.Y() <= ground {
		p.Position = mgl32.Vec3{p.Position.X(), ground, p.Position.Z()}

		forward := velocity
		if forward.LenSqr() > 0 {
			forward = forward.Normalize()
		} else {
			forward = mgl32.Vec3{0, -1, 0}
		}
		stuckDir := lerpVec(forward, mgl32.Vec3{0, 1, 0}, 0.5)
		if stuckDir.LenSqr() > 0 {
			p.Rotation = mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, 1}, stuckDir.Normalize())
		}

		p.Lifetime = p.Age + s.cfg.StuckGrace
		p.Speed = 0
	}
}
