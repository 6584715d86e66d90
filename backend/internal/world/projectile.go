package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Projectile - снаряд катапульты. Позиция в любой момент - чистая
// функция возраста (замкнутая форма баллистики), промежуточная скорость
// не хранится.
type Projectile struct {
	ID string

	Start  mgl32.Vec3
	Target mgl32.Vec3 // информационно: куда целились при выстреле

	InitialVelocity mgl32.Vec3

	Lifetime float32
	Age      float32

	// Speed обнуляется, когда снаряд воткнулся в землю
	Speed float32

	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// Stuck сообщает, воткнулся ли снаряд в ландшафт
func (p *Projectile) Stuck() bool {
	return p.Speed == 0
}

// PositionAt возвращает позицию снаряда в возрасте t (замкнутая форма):
// start + v0*t + (0, -g*t^2/2, 0)
func (p *Projectile) PositionAt(t, gravity float32) mgl32.Vec3 {
	return mgl32.Vec3{
		p.Start.X() + p.InitialVelocity.X()*t,
		p.Start.Y() + p.InitialVelocity.Y()*t - 0.5*gravity*t*t,
		p.Start.Z() + p.InitialVelocity.Z()*t,
	}
}

// VelocityAt возвращает мгновенную скорость в возрасте t
func (p *Projectile) VelocityAt(t, gravity float32) mgl32.Vec3 {
	return mgl32.Vec3{
		p.InitialVelocity.X(),
		p.InitialVelocity.Y() - gravity*t,
		p.InitialVelocity.Z(),
	}
}
