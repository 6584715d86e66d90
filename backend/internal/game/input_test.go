package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestInputState_DirectionNormalized(t *testing.T) {
	state := NewInputState()

	// Диагональ: длина вектора остается единичной
	state.SetKeys(true, false, false, true)
	frame := state.ConsumeFrame()
	assert.InDelta(t, 1.0, float64(frame.Direction.Len()), 1e-5)
	assert.Less(t, frame.Direction.Z(), float32(0))
	assert.Greater(t, frame.Direction.X(), float32(0))

	// Противоположные клавиши взаимно гасятся
	state.SetKeys(true, true, false, false)
	frame = state.ConsumeFrame()
	assert.Equal(t, mgl32.Vec3{}, frame.Direction)
}

func TestInputState_OneShotEvents(t *testing.T) {
	state := NewInputState()

	state.QueueJump()
	state.QueueFire()

	frame := state.ConsumeFrame()
	assert.True(t, frame.Jump)
	assert.True(t, frame.Fire)

	// Одноразовые события потребляются первым снимком
	frame = state.ConsumeFrame()
	assert.False(t, frame.Jump)
	assert.False(t, frame.Fire)
}

func TestInputState_KeysPersistAcrossFrames(t *testing.T) {
	state := NewInputState()

	state.SetKeys(true, false, false, false)
	_ = state.ConsumeFrame()

	// Зажатая клавиша продолжает действовать, пока транспорт не пришлет
	// новое состояние
	frame := state.ConsumeFrame()
	assert.Less(t, frame.Direction.Z(), float32(0))

	state.SetKeys(false, false, false, false)
	frame = state.ConsumeFrame()
	assert.Equal(t, mgl32.Vec3{}, frame.Direction)
}

func TestInputState_PointerRay(t *testing.T) {
	state := NewInputState()

	// До первого сообщения луч невалиден
	assert.False(t, state.ConsumeFrame().Ray.Valid)

	origin := mgl32.Vec3{1, 10, 2}
	direction := mgl32.Vec3{0, -1, 0}
	state.SetPointerRay(origin, direction)

	frame := state.ConsumeFrame()
	assert.True(t, frame.Ray.Valid)
	assert.Equal(t, origin, frame.Ray.Origin)
	assert.Equal(t, direction, frame.Ray.Direction)

	// Луч сохраняется между кадрами, в отличие от одноразовых событий
	assert.True(t, state.ConsumeFrame().Ray.Valid)
}

func TestInputSystem_SnapshotPerTick(t *testing.T) {
	state := NewInputState()
	system := NewInputSystem(state)

	state.QueueFire()
	assert.NoError(t, system.Update(0))
	assert.True(t, system.Frame().Fire)

	// Повторные чтения в рамках тика видят тот же снимок
	assert.True(t, system.Frame().Fire)

	assert.NoError(t, system.Update(0))
	assert.False(t, system.Frame().Fire)
}
