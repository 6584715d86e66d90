package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"sphere-hills/backend/internal/config"
)

// RollingBody - катящийся шар с полным физическим состоянием.
// Мутируется ровно один раз за фиксированный шаг симуляции,
// конкурентного доступа к полям нет (снапшоты берутся через Manager).
type RollingBody struct {
	ID     string
	Radius float32
	Mass   float32

	Position mgl32.Vec3
	Rotation mgl32.Quat

	Velocity        mgl32.Vec3
	AngularVelocity mgl32.Vec3

	// Momentum - намеренно запаздывающая, затухающая копия скорости.
	// Сглаживает резкие изменения управления, это не физический импульс.
	Momentum mgl32.Vec3

	PrevPosition mgl32.Vec3
	Grounded     bool
}

// NewPlayerBody создает шар игрока над ландшафтом в точке (0, 0).
// Спавним с запасом по высоте, чтобы гравитация видимо опустила шар.
func NewPlayerBody(id string, field *HeightField, cfg config.PlayerConfig) *RollingBody {
	const spawnX, spawnZ = 0.0, 0.0
	ground := field.HeightAt(spawnX, spawnZ)
	start := mgl32.Vec3{spawnX, ground + cfg.Radius + 2.0, spawnZ}

	return &RollingBody{
		ID:           id,
		Radius:       cfg.Radius,
		Mass:         cfg.Mass,
		Position:     start,
		Rotation:     mgl32.QuatIdent(),
		PrevPosition: start,
	}
}
