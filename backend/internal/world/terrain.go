package world

import (
	"math"

	"sphere-hills/backend/internal/config"
)

// HeightField - детерминированная функция высоты ландшафта.
// Полностью определяется зерном и настройками: один и тот же (x, z)
// всегда дает одну и ту же высоту. Это обязательное условие для
// бесшовных стыков чанков и согласия физики с отрисовкой.
//
// Генераторы шума создаются один раз на зерно и дальше только читаются,
// поэтому HeightAt безопасно звать из любого числа горутин.
type HeightField struct {
	main     *noiseField
	detail   *noiseField
	tertiary *noiseField

	mainScale     float64
	detailScale   float64
	tertiaryScale float64

	detailWeight   float64
	tertiaryWeight float64

	curveExponent float64
	heightScale   float32
}

// NewHeightField создает поле высот по настройкам террейна
func NewHeightField(cfg config.TerrainConfig) *HeightField {
	return &HeightField{
		// Разные зерна для каждого слоя, чтобы рельеф не повторял сам себя
		main:     newNoiseField(cfg.Seed),
		detail:   newNoiseField(cfg.Seed + 42),
		tertiary: newNoiseField(cfg.Seed + 123),

		mainScale:     cfg.MainNoiseScale,
		detailScale:   cfg.DetailNoiseScale,
		tertiaryScale: cfg.TertiaryNoiseScale,

		detailWeight:   cfg.DetailWeight,
		tertiaryWeight: cfg.TertiaryWeight,

		curveExponent: cfg.CurveExponent,
		heightScale:   cfg.HeightScale,
	}
}

// HeightAt возвращает высоту ландшафта в мировой точке (x, z).
// Тотальная функция: определена для любых координат, без аллокаций.
func (f *HeightField) HeightAt(x, z float32) float32 {
	fx := float64(x)
	fz := float64(z)

	// Крупные холмы, средние детали и мелкие неровности
	mainHeight := f.main.At(fx/f.mainScale, fz/f.mainScale)
	detailHeight := f.detail.At(fx/f.detailScale, fz/f.detailScale) * f.detailWeight
	tertiaryHeight := f.tertiary.At(fx/f.tertiaryScale, fz/f.tertiaryScale) * f.tertiaryWeight

	combined := mainHeight + detailHeight + tertiaryHeight

	// Легкая степенная кривая: пики драматичнее, долины площе.
	// Нормализуем в [0,1], возводим в степень, возвращаем в [-1,1].
	normalized := (combined + 1.0) * 0.5
	if normalized < 0 {
		normalized = 0
	}
	curved := math.Pow(normalized, f.curveExponent)*2.0 - 1.0

	return float32(curved) * f.heightScale
}
