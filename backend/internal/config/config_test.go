package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Sane(t *testing.T) {
	cfg := Default()

	assert.Equal(t, uint32(123), cfg.Terrain.Seed)
	assert.Equal(t, float32(8.0), cfg.Terrain.HeightScale)
	assert.Equal(t, 24, cfg.Chunks.Resolution)
	assert.Equal(t, float32(0.5), cfg.Player.Radius)
	assert.Equal(t, 60, cfg.Player.PhysicsHz)
	// Гравитация снарядов тяжелее игровой
	assert.Greater(t, cfg.Projectile.Gravity, cfg.Player.Gravity)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
terrain:
  seed: 777
player:
  max_speed: 9.5
server:
  addr: ":9000"
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Перекрытые поля берутся из файла
	assert.Equal(t, uint32(777), cfg.Terrain.Seed)
	assert.Equal(t, float32(9.5), cfg.Player.MaxSpeed)
	assert.Equal(t, ":9000", cfg.Server.Addr)

	// Непомянутые поля остаются значениями по умолчанию
	assert.Equal(t, Default().Player.Friction, cfg.Player.Friction)
	assert.Equal(t, Default().Chunks.LoadRadius, cfg.Chunks.LoadRadius)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("terrain: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestGlobalGetSet(t *testing.T) {
	original := Get()
	defer Set(original)

	modified := original
	modified.Player.JumpForce = 11

	Set(modified)
	assert.Equal(t, float32(11), Get().Player.JumpForce)
}
