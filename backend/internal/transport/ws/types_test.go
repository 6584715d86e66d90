package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessage_Input(t *testing.T) {
	data := []byte(`{"type":"input","forward":true,"left":true,"jump":true}`)

	msg, err := ParseMessage(data)
	require.NoError(t, err)

	input, ok := msg.(*InputMessage)
	require.True(t, ok, "ожидался *InputMessage, получен %T", msg)
	assert.True(t, input.Forward)
	assert.True(t, input.Left)
	assert.True(t, input.Jump)
	assert.False(t, input.Back)
	assert.False(t, input.Right)
	assert.False(t, input.Fire)
}

func TestParseMessage_Pointer(t *testing.T) {
	data := []byte(`{"type":"pointer","ox":1,"oy":12.5,"oz":-3,"dx":0,"dy":-1,"dz":0}`)

	msg, err := ParseMessage(data)
	require.NoError(t, err)

	pointer, ok := msg.(*PointerMessage)
	require.True(t, ok)
	assert.Equal(t, float32(1), pointer.OX)
	assert.Equal(t, float32(12.5), pointer.OY)
	assert.Equal(t, float32(-3), pointer.OZ)
	assert.Equal(t, float32(-1), pointer.DY)
}

func TestParseMessage_Ping(t *testing.T) {
	data := []byte(`{"type":"ping","client_time":1234567890}`)

	msg, err := ParseMessage(data)
	require.NoError(t, err)

	ping, ok := msg.(*PingMessage)
	require.True(t, ok)
	assert.Equal(t, int64(1234567890), ping.ClientTime)
}

func TestParseMessage_UnknownType(t *testing.T) {
	_, err := ParseMessage([]byte(`{"type":"teleport"}`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown message type")
}

func TestParseMessage_InvalidJSON(t *testing.T) {
	_, err := ParseMessage([]byte(`{not json`))
	assert.Error(t, err)
}
