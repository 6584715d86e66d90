package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// TerrainConfig содержит настройки генерации ландшафта
type TerrainConfig struct {
	Seed        uint32  `yaml:"seed"`
	HeightScale float32 `yaml:"height_scale"`

	// Масштабы шума для разных уровней детализации
	MainNoiseScale     float64 `yaml:"main_noise_scale"`
	DetailNoiseScale   float64 `yaml:"detail_noise_scale"`
	TertiaryNoiseScale float64 `yaml:"tertiary_noise_scale"`

	// Веса слоев шума
	DetailWeight   float64 `yaml:"detail_weight"`
	TertiaryWeight float64 `yaml:"tertiary_weight"`

	// Степень кривой высот: > 1 делает пики острее, долины площе
	CurveExponent float64 `yaml:"curve_exponent"`
}

// ChunkConfig содержит настройки чанков террейна
type ChunkConfig struct {
	Size       float32 `yaml:"size"`       // размер чанка в мировых координатах
	Resolution int     `yaml:"resolution"` // количество ячеек сетки по каждой оси
	LoadRadius int32   `yaml:"load_radius"`
	// Чанки за пределами LoadRadius+EvictMargin выгружаются
	EvictMargin int32 `yaml:"evict_margin"`
}

// PlayerConfig содержит физические характеристики шара игрока
type PlayerConfig struct {
	Radius             float32 `yaml:"radius"`
	Mass               float32 `yaml:"mass"`
	MassFactor         float32 `yaml:"mass_factor"`
	MoveSpeed          float32 `yaml:"move_speed"`
	InputMultiplier    float32 `yaml:"input_multiplier"`
	Gravity            float32 `yaml:"gravity"`
	Friction           float32 `yaml:"friction"`
	TerrainSensitivity float32 `yaml:"terrain_sensitivity"`
	SlopeDampening     float32 `yaml:"slope_dampening"`
	MomentumFactor     float32 `yaml:"momentum_factor"`
	MomentumBlend      float32 `yaml:"momentum_blend"`
	Restitution        float32 `yaml:"restitution"`
	BounceThreshold    float32 `yaml:"bounce_threshold"`
	MaxSpeed           float32 `yaml:"max_speed"`
	JumpForce          float32 `yaml:"jump_force"`
	GroundEpsilon      float32 `yaml:"ground_epsilon"`
	SlopeSampleDist    float32 `yaml:"slope_sample_dist"`
	SpinDecay          float32 `yaml:"spin_decay"`
	PhysicsHz          int     `yaml:"physics_hz"`
}

// ProjectileConfig содержит настройки снарядов катапульты
type ProjectileConfig struct {
	Gravity      float32 `yaml:"gravity"`
	Lifetime     float32 `yaml:"lifetime"`
	StuckGrace   float32 `yaml:"stuck_grace"` // сколько снаряд торчит в земле после попадания
	HeightFactor float32 `yaml:"height_factor"`
	Speed        float32 `yaml:"speed"`
	MinTravel    float32 `yaml:"min_travel"` // минимальное время полета, сек

	// Ограничители против вырожденных выстрелов на большие дистанции
	MaxComponentSpeed float32 `yaml:"max_component_speed"`
	TaperDistance     float32 `yaml:"taper_distance"`

	JitterAmount float32 `yaml:"jitter_amount"`
	LaunchOffset float32 `yaml:"launch_offset"` // высота точки вылета над игроком
}

// CameraConfig содержит настройки следящей камеры
type CameraConfig struct {
	OffsetX      float32 `yaml:"offset_x"`
	OffsetY      float32 `yaml:"offset_y"`
	OffsetZ      float32 `yaml:"offset_z"`
	EyeHeight    float32 `yaml:"eye_height"`
	MoveRate     float32 `yaml:"move_rate"`
	TurnRate     float32 `yaml:"turn_rate"`
	CursorWeight float32 `yaml:"cursor_weight"`
}

// ServerConfig содержит сетевые настройки
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	TargetTPS      int    `yaml:"target_tps"`
	UpdateInterval int    `yaml:"update_interval_ms"`
}

// Config объединяет все конфигурации игры
type Config struct {
	Terrain    TerrainConfig    `yaml:"terrain"`
	Chunks     ChunkConfig      `yaml:"chunks"`
	Player     PlayerConfig     `yaml:"player"`
	Projectile ProjectileConfig `yaml:"projectile"`
	Camera     CameraConfig     `yaml:"camera"`
	Server     ServerConfig     `yaml:"server"`
}

// Default возвращает конфигурацию по умолчанию
func Default() Config {
	return Config{
		Terrain: TerrainConfig{
			Seed:               123,
			HeightScale:        8.0,
			MainNoiseScale:     80.0,
			DetailNoiseScale:   30.0,
			TertiaryNoiseScale: 10.0,
			DetailWeight:       0.3,
			TertiaryWeight:     0.1,
			CurveExponent:      1.3,
		},
		Chunks: ChunkConfig{
			Size:        40.0,
			Resolution:  24,
			LoadRadius:  2,
			EvictMargin: 1,
		},
		Player: PlayerConfig{
			Radius:             0.5,
			Mass:               1.2,
			MassFactor:         0.8,
			MoveSpeed:          1.5,
			InputMultiplier:    2.5,
			Gravity:            9.8,
			Friction:           0.95,
			TerrainSensitivity: 0.3,
			SlopeDampening:     0.7,
			MomentumFactor:     0.85,
			MomentumBlend:      0.2,
			Restitution:        0.4,
			BounceThreshold:    0.5,
			MaxSpeed:           6.0,
			JumpForce:          8.0,
			GroundEpsilon:      0.05,
			SlopeSampleDist:    0.5,
			SpinDecay:          0.95,
			PhysicsHz:          60,
		},
		Projectile: ProjectileConfig{
			Gravity:           19.6, // двойная гравитация для тяжелого ощущения полета
			Lifetime:          8.0,
			StuckGrace:        10.0,
			HeightFactor:      5.0,
			Speed:             0.25,
			MinTravel:         3.0,
			MaxComponentSpeed: 40.0,
			TaperDistance:     30.0,
			JitterAmount:      0.05,
			LaunchOffset:      0.3,
		},
		Camera: CameraConfig{
			OffsetX:      -3.0,
			OffsetY:      3.5,
			OffsetZ:      6.0,
			EyeHeight:    0.5,
			MoveRate:     5.0,
			TurnRate:     8.0,
			CursorWeight: 0.6,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			TargetTPS:      60,
			UpdateInterval: 50,
		},
	}
}

// Load читает конфигурацию из yaml-файла поверх значений по умолчанию.
// Пустой путь означает конфигурацию по умолчанию.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

var (
	current     = Default()
	configMutex sync.RWMutex
)

// Get возвращает текущую глобальную конфигурацию
func Get() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return current
}

// Set устанавливает новую глобальную конфигурацию
func Set(cfg Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	current = cfg
}
