package world

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sphere-hills/backend/internal/config"
)

func testTerrainConfig() config.TerrainConfig {
	return config.Default().Terrain
}

func TestHeightField_Deterministic(t *testing.T) {
	cfg := testTerrainConfig()
	a := NewHeightField(cfg)
	b := NewHeightField(cfg)

	// Два поля с одинаковым зерном обязаны выдавать идентичные высоты
	// в любых точках, включая отрицательные координаты
	points := [][2]float32{
		{0, 0}, {1.5, -3.2}, {100, 100}, {-250.7, 999.1}, {-1, -1},
	}
	for _, p := range points {
		assert.Equal(t, a.HeightAt(p[0], p[1]), b.HeightAt(p[0], p[1]),
			"высоты разошлись в точке (%v, %v)", p[0], p[1])
	}
}

func TestHeightField_SeedChangesTerrain(t *testing.T) {
	cfgA := testTerrainConfig()
	cfgB := testTerrainConfig()
	cfgB.Seed = cfgA.Seed + 1

	a := NewHeightField(cfgA)
	b := NewHeightField(cfgB)

	// Хотя бы в одной из контрольных точек рельеф должен отличаться
	differs := false
	for x := float32(0); x < 200; x += 17 {
		if a.HeightAt(x, x*0.7) != b.HeightAt(x, x*0.7) {
			differs = true
			break
		}
	}
	assert.True(t, differs, "разные зерна дали одинаковый рельеф")
}

func TestHeightField_Bounded(t *testing.T) {
	cfg := testTerrainConfig()
	field := NewHeightField(cfg)

	// Комбинированный шум нормализуется в [-1, 1] до масштабирования,
	// поэтому |h| не может превышать heightScale с запасом на веса слоев
	limit := cfg.HeightScale * float32(1.0+cfg.DetailWeight+cfg.TertiaryWeight)
	for x := float32(-500); x <= 500; x += 13 {
		for z := float32(-500); z <= 500; z += 13 {
			h := field.HeightAt(x, z)
			assert.LessOrEqual(t, h, limit)
			assert.GreaterOrEqual(t, h, -limit)
		}
	}
}

func TestHeightField_Continuity(t *testing.T) {
	field := NewHeightField(testTerrainConfig())

	// Соседние сэмплы не должны прыгать: шум гладкий, маленький шаг по
	// координате дает маленькое изменение высоты
	const step = 0.05
	prev := field.HeightAt(-20, 7)
	for x := float32(-20 + step); x < 20; x += step {
		h := field.HeightAt(x, 7)
		assert.InDelta(t, float64(prev), float64(h), 0.5,
			"разрыв высоты возле x=%v", x)
		prev = h
	}
}

func TestHeightField_CurvePreservesOrdering(t *testing.T) {
	cfgLinear := testTerrainConfig()
	cfgLinear.CurveExponent = 1.0
	cfgCurved := testTerrainConfig()
	cfgCurved.CurveExponent = 2.0

	linear := NewHeightField(cfgLinear)
	curved := NewHeightField(cfgCurved)

	// Степенная кривая монотонна: если одна точка выше другой в линейном
	// варианте, она выше и после применения кривой
	type sample struct{ x, z float32 }
	points := []sample{{0, 0}, {11, 3}, {-40, 95}, {7.5, -22}, {200, 200}}
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			a, b := points[i], points[j]
			if linear.HeightAt(a.x, a.z) > linear.HeightAt(b.x, b.z)+1e-3 {
				assert.Greater(t, curved.HeightAt(a.x, a.z), curved.HeightAt(b.x, b.z))
			}
		}
	}
}

func TestNoiseField_Range(t *testing.T) {
	n := newNoiseField(123)

	for x := -10.0; x < 10.0; x += 0.37 {
		for z := -10.0; z < 10.0; z += 0.37 {
			v := n.At(x, z)
			assert.LessOrEqual(t, v, 1.0)
			assert.GreaterOrEqual(t, v, -1.0)
		}
	}
}

func TestNoiseField_NoDirectionalCollisions(t *testing.T) {
	n := newNoiseField(123)

	// Узлы решетки не должны коллидировать вдоль какого-либо направления:
	// слабое перемешивание осей (функция от x+k*z) превращает шум в
	// одномерные гребни
	assert.NotEqual(t, latticeValue(2, 0, n.seed), latticeValue(0, 1, n.seed))
	assert.NotEqual(t, latticeValue(1, 0, n.seed), latticeValue(0, 1, n.seed))
	assert.NotEqual(t, latticeValue(3, -1, n.seed), latticeValue(1, 0, n.seed))

	// И само поле не инвариантно относительно сдвига (2, -1)
	differs := 0
	const samples = 100
	for i := 0; i < samples; i++ {
		x := float64(i)*0.37 - 18.0
		z := float64(i)*0.61 + 4.0
		if n.At(x, z) != n.At(x+2, z-1) {
			differs++
		}
	}
	assert.Greater(t, differs, samples*9/10, "шум инвариантен вдоль (2, -1)")
}

func TestHeightField_NotRidged(t *testing.T) {
	field := NewHeightField(testTerrainConfig())

	// Масштабы слоев 80/30/10 делят сдвиг (480, -240) нацело: коллизии
	// узлов вдоль (2, -1) сделали бы рельеф периодичным с этим периодом
	differs := 0
	const samples = 50
	for i := 0; i < samples; i++ {
		x := float32(i)*7.3 - 120
		z := float32(i)*11.1 + 35
		if field.HeightAt(x, z) != field.HeightAt(x+480, z-240) {
			differs++
		}
	}
	assert.Greater(t, differs, samples*9/10, "рельеф повторяется вдоль (2, -1)")
}

func TestNoiseField_LatticeExact(t *testing.T) {
	n := newNoiseField(7)

	// В узлах решетки интерполяция вырождается и значение совпадает со
	// значением узла
	assert.Equal(t, latticeValue(3, -2, n.seed), n.At(3, -2))
	assert.Equal(t, latticeValue(0, 0, n.seed), n.At(0, 0))
}
