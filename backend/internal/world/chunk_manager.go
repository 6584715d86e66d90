package world

import (
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"sphere-hills/backend/internal/config"
)

// ChunkListener получает события жизненного цикла чанков.
// Транспорт подписывается, чтобы отправлять клиентам create/remove.
type ChunkListener interface {
	ChunkLoaded(chunk *TerrainChunk)
	ChunkEvicted(coord ChunkCoord)
}

// ChunkManager поддерживает набор материализованных чанков вокруг
// опорной точки (игрока). Загрузка идемпотентна: уже существующий чанк
// никогда не генерируется повторно.
type ChunkManager struct {
	field *HeightField

	size        float32
	resolution  int
	loadRadius  int32
	evictMargin int32

	mu     sync.RWMutex
	chunks map[ChunkCoord]*TerrainChunk

	listeners []ChunkListener
}

// NewChunkManager создает менеджер чанков над полем высот
func NewChunkManager(field *HeightField, cfg config.ChunkConfig) *ChunkManager {
	return &ChunkManager{
		field:       field,
		size:        cfg.Size,
		resolution:  cfg.Resolution,
		loadRadius:  cfg.LoadRadius,
		evictMargin: cfg.EvictMargin,
		chunks:      make(map[ChunkCoord]*TerrainChunk),
	}
}

// AddListener подписывает получателя событий чанков
func (m *ChunkManager) AddListener(l ChunkListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// ChunkSize возвращает размер чанка в мировых координатах
func (m *ChunkManager) ChunkSize() float32 {
	return m.size
}

// Loaded возвращает копию списка загруженных чанков
func (m *ChunkManager) Loaded() []*TerrainChunk {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*TerrainChunk, 0, len(m.chunks))
	for _, c := range m.chunks {
		result = append(result, c)
	}
	return result
}

// LoadedCount возвращает количество загруженных чанков
func (m *ChunkManager) LoadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks)
}

// Has сообщает, материализован ли чанк с данными координатами
func (m *ChunkManager) Has(coord ChunkCoord) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.chunks[coord]
	return ok
}

// EnsureChunksNear гарантирует, что все чанки в квадратном окне радиуса
// loadRadius вокруг точки (centerX, centerZ) загружены, и выгружает
// чанки за пределами loadRadius+evictMargin. Повторный вызов с тем же
// центром не выполняет никакой работы.
//
// Генерация мешей идет параллельно по чанкам: поле высот не имеет
// изменяемого состояния, а в индекс результаты вносятся уже под замком.
func (m *ChunkManager) EnsureChunksNear(centerX, centerZ float32) {
	center := ChunkCoordAt(centerX, centerZ, m.size)

	// Определяем недостающие чанки
	m.mu.RLock()
	var missing []ChunkCoord
	for z := center.Z - m.loadRadius; z <= center.Z+m.loadRadius; z++ {
		for x := center.X - m.loadRadius; x <= center.X+m.loadRadius; x++ {
			coord := ChunkCoord{X: x, Z: z}
			if _, ok := m.chunks[coord]; !ok {
				missing = append(missing, coord)
			}
		}
	}
	m.mu.RUnlock()

	var loaded []*TerrainChunk
	if len(missing) > 0 {
		built := make([]*TerrainChunk, len(missing))

		var g errgroup.Group
		for i, coord := range missing {
			i, coord := i, coord
			g.Go(func() error {
				built[i] = BuildChunk(m.field, coord, m.size, m.resolution)
				return nil
			})
		}
		// Генерация не возвращает ошибок, Wait нужен только как барьер
		_ = g.Wait()

		m.mu.Lock()
		for _, chunk := range built {
			// Кто-то мог успеть раньше между RUnlock и Lock
			if _, ok := m.chunks[chunk.Coord]; ok {
				continue
			}
			m.chunks[chunk.Coord] = chunk
			loaded = append(loaded, chunk)
		}
		m.mu.Unlock()
	}

	// Выгружаем чанки за пределами окна с запасом, чтобы не было
	// дребезга загрузка/выгрузка на границе
	evictRadius := m.loadRadius + m.evictMargin
	var evicted []ChunkCoord

	m.mu.Lock()
	for coord := range m.chunks {
		dx := coord.X - center.X
		dz := coord.Z - center.Z
		if dx < -evictRadius || dx > evictRadius || dz < -evictRadius || dz > evictRadius {
			delete(m.chunks, coord)
			evicted = append(evicted, coord)
		}
	}
	listeners := make([]ChunkListener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	if len(loaded) > 0 || len(evicted) > 0 {
		log.Printf("[World] Чанки вокруг (%d, %d): +%d / -%d, всего %d",
			center.X, center.Z, len(loaded), len(evicted), m.LoadedCount())
	}

	for _, l := range listeners {
		for _, chunk := range loaded {
			l.ChunkLoaded(chunk)
		}
		for _, coord := range evicted {
			l.ChunkEvicted(coord)
		}
	}
}
