package world

import "math"

// Детерминированный 2D value-noise на целочисленной решетке.
// Значение зависит только от (x, z, seed), поэтому соседние чанки,
// сэмплирующие одни и те же мировые координаты, получают одинаковые высоты.

// hashLattice - стабильный целочисленный хеш в стиле SplitMix64.
// Оси перемешиваются разными нечетными константами до финализатора,
// иначе узлы с равным x+k*z коллидируют и рельеф вырождается в
// параллельные гребни.
func hashLattice(x, z int64, seed int64) uint64 {
	v := uint64(x)*0x9E3779B97F4A7C15 ^ uint64(z)*0xC2B2AE3D27D4EB4F ^ uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

// latticeValue возвращает значение узла решетки в диапазоне [-1, 1]
func latticeValue(x, z int64, seed int64) float64 {
	h := hashLattice(x, z, seed)
	return float64(h&0xFFFFFFFF)/float64(0xFFFFFFFF)*2.0 - 1.0
}

// fadeCurve - сглаживающая кривая 6t^5 - 15t^4 + 10t^3
func fadeCurve(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// lerpValue - линейная интерполяция между a и b
func lerpValue(a, b, t float64) float64 {
	return a + t*(b-a)
}

// noiseField - один слой когерентного шума с фиксированным зерном.
// Конструируется один раз на зерно и переиспользуется для всех запросов.
type noiseField struct {
	seed int64
}

func newNoiseField(seed uint32) *noiseField {
	return &noiseField{seed: int64(seed)}
}

// At возвращает значение шума в точке (x, z), диапазон [-1, 1]
func (n *noiseField) At(x, z float64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	x1 := x0 + 1
	z1 := z0 + 1

	fx := fadeCurve(x - x0)
	fz := fadeCurve(z - z0)

	v00 := latticeValue(int64(x0), int64(z0), n.seed)
	v10 := latticeValue(int64(x1), int64(z0), n.seed)
	v01 := latticeValue(int64(x0), int64(z1), n.seed)
	v11 := latticeValue(int64(x1), int64(z1), n.seed)

	i0 := lerpValue(v00, v10, fx)
	i1 := lerpValue(v01, v11, fx)
	return lerpValue(i0, i1, fz)
}
