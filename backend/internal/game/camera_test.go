package game

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sphere-hills/backend/internal/config"
	"sphere-hills/backend/internal/world"
)

func newCameraTestRig() (*CameraSystem, *TargetingSystem, *world.RollingBody) {
	manager := world.NewManager()
	player := newGroundedBody(testPlayerConfig(), flatField{height: 0})
	player.Position = mgl32.Vec3{10, 2, -4}
	manager.SetPlayer(player)

	input := NewInputSystem(NewInputState())
	targeting := NewTargetingSystem(flatField{height: 0}, input)
	camera := NewCameraSystem(manager, targeting, config.Default().Camera)
	return camera, targeting, player
}

// quatDot - близость ориентаций: |dot| -> 1 при совпадении
func quatDot(a, b mgl32.Quat) float64 {
	d := a.W*b.W + a.V[0]*b.V[0] + a.V[1]*b.V[1] + a.V[2]*b.V[2]
	return math.Abs(float64(d))
}

func TestCameraSystem_ConvergesToOffset(t *testing.T) {
	camera, _, player := newCameraTestRig()
	cfg := config.Default().Camera

	for i := 0; i < 300; i++ {
		require.NoError(t, camera.Update(time.Second/60))
	}

	desired := player.Position.Add(mgl32.Vec3{cfg.OffsetX, cfg.OffsetY, cfg.OffsetZ})
	got := camera.State().Position

	assert.InDelta(t, float64(desired.X()), float64(got.X()), 0.01)
	assert.InDelta(t, float64(desired.Y()), float64(got.Y()), 0.01)
	assert.InDelta(t, float64(desired.Z()), float64(got.Z()), 0.01)
}

func TestCameraSystem_LooksAtPlayerWithoutPick(t *testing.T) {
	camera, _, player := newCameraTestRig()
	cfg := config.Default().Camera

	require.NoError(t, camera.Update(time.Second/60))

	// До первого пика взгляд направлен прямо на игрока, без сглаживания
	state := camera.State()
	eye := player.Position.Add(mgl32.Vec3{0, cfg.EyeHeight, 0})
	expected := lookAtRotation(state.Position, eye)

	assert.Greater(t, quatDot(state.Rotation, expected), 0.9999)
}

func TestCameraSystem_BlendsTowardCursor(t *testing.T) {
	camera, targeting, player := newCameraTestRig()
	cfg := config.Default().Camera

	targeting.pick = TargetPick{Position: mgl32.Vec3{50, 0, -30}, Valid: true}

	for i := 0; i < 600; i++ {
		require.NoError(t, camera.Update(time.Second/60))
	}

	// Сошлись: взгляд на смешанную точку между игроком и курсором
	state := camera.State()
	eye := player.Position.Add(mgl32.Vec3{0, cfg.EyeHeight, 0})
	lookTarget := lerpVec(eye, targeting.pick.Position, cfg.CursorWeight)
	expected := lookAtRotation(state.Position, lookTarget)

	assert.Greater(t, quatDot(state.Rotation, expected), 0.999)
}

func TestCameraSystem_NoPlayerIsNoop(t *testing.T) {
	manager := world.NewManager()
	input := NewInputSystem(NewInputState())
	targeting := NewTargetingSystem(flatField{}, input)
	camera := NewCameraSystem(manager, targeting, config.Default().Camera)

	before := camera.State()
	assert.NoError(t, camera.Update(time.Second/60))
	assert.Equal(t, before, camera.State())
}

func TestCameraSystem_FollowsMovingPlayer(t *testing.T) {
	camera, _, player := newCameraTestRig()

	require.NoError(t, camera.Update(time.Second/60))
	first := camera.State().Position

	// Игрок уехал: камера тянется следом, а не телепортируется
	player.Position = player.Position.Add(mgl32.Vec3{20, 0, 0})
	require.NoError(t, camera.Update(time.Second/60))
	second := camera.State().Position

	assert.Greater(t, second.X(), first.X())
	cfg := config.Default().Camera
	desiredX := player.Position.X() + cfg.OffsetX
	assert.Less(t, second.X(), desiredX, "камера догнала игрока мгновенно")
}
