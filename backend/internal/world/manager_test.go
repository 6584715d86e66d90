package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sphere-hills/backend/internal/config"
)

func TestManager_PlayerRegistration(t *testing.T) {
	m := NewManager()
	assert.Nil(t, m.Player())

	field := NewHeightField(testTerrainConfig())
	body := NewPlayerBody("player-1", field, config.Default().Player)
	m.SetPlayer(body)

	assert.Same(t, body, m.Player())
}

func TestManager_ProjectileLifecycle(t *testing.T) {
	m := NewManager()

	id1 := m.AddProjectile(&Projectile{Rotation: mgl32.QuatIdent()})
	id2 := m.AddProjectile(&Projectile{Rotation: mgl32.QuatIdent()})

	// Идентификаторы стабильные и не переиспользуются
	assert.Equal(t, "boulder-1", id1)
	assert.Equal(t, "boulder-2", id2)
	assert.Equal(t, 2, m.ProjectileCount())

	m.RemoveProjectile(id1)
	assert.Equal(t, 1, m.ProjectileCount())

	id3 := m.AddProjectile(&Projectile{Rotation: mgl32.QuatIdent()})
	assert.Equal(t, "boulder-3", id3)
}

func TestManager_Snapshots(t *testing.T) {
	m := NewManager()
	field := NewHeightField(testTerrainConfig())
	body := NewPlayerBody("player-1", field, config.Default().Player)
	m.SetPlayer(body)
	m.AddProjectile(&Projectile{Position: mgl32.Vec3{1, 2, 3}, Rotation: mgl32.QuatIdent()})

	snaps := m.Snapshots()
	require.Len(t, snaps, 2)

	assert.Equal(t, "player", snaps[0].Kind)
	assert.Equal(t, "player-1", snaps[0].ID)
	assert.Equal(t, body.Radius, snaps[0].Radius)

	assert.Equal(t, "projectile", snaps[1].Kind)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, snaps[1].Position)
}

func TestNewPlayerBody_SpawnsAboveTerrain(t *testing.T) {
	cfg := config.Default().Player
	field := NewHeightField(testTerrainConfig())

	body := NewPlayerBody("player-1", field, cfg)

	ground := field.HeightAt(0, 0)
	assert.InDelta(t, float64(ground+cfg.Radius+2.0), float64(body.Position.Y()), 1e-5)
	assert.Equal(t, float32(0), body.Position.X())
	assert.Equal(t, float32(0), body.Position.Z())
	assert.False(t, body.Grounded)
	assert.Equal(t, body.Position, body.PrevPosition)
}

func TestProjectile_ClosedFormBallistics(t *testing.T) {
	p := &Projectile{
		Start:           mgl32.Vec3{0, 0, 0},
		InitialVelocity: mgl32.Vec3{1, 5, 0},
	}
	const g = 19.6

	// t=0: позиция в старте, скорость начальная
	assert.Equal(t, p.Start, p.PositionAt(0, g))
	assert.Equal(t, p.InitialVelocity, p.VelocityAt(0, g))

	// t=1: x = 1, y = 5 - 19.6/2 = -4.8
	pos := p.PositionAt(1, g)
	assert.InDelta(t, 1.0, float64(pos.X()), 1e-5)
	assert.InDelta(t, -4.8, float64(pos.Y()), 1e-4)
	assert.InDelta(t, 0.0, float64(pos.Z()), 1e-5)

	vel := p.VelocityAt(1, g)
	assert.InDelta(t, 1.0, float64(vel.X()), 1e-5)
	assert.InDelta(t, -14.6, float64(vel.Y()), 1e-4)

	// Вершина дуги в t = v0y/g, дальше падение; к t = 2*v0y/g высота
	// возвращается к стартовой
	apexTime := float32(5.0 / g)
	assert.Greater(t, p.PositionAt(apexTime, g).Y(), p.PositionAt(apexTime*2, g).Y())
	assert.InDelta(t, 0, float64(p.VelocityAt(apexTime, g).Y()), 1e-4)
	assert.InDelta(t, 0, float64(p.PositionAt(apexTime*2, g).Y()), 1e-4)
}

func TestProjectile_Stuck(t *testing.T) {
	p := &Projectile{Speed: 0.25}
	assert.False(t, p.Stuck())

	p.Speed = 0
	assert.True(t, p.Stuck())
}
