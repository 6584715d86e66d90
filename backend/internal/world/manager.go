package world

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// EntitySnapshot - снимок позиции и ориентации сущности для отрисовки
type EntitySnapshot struct {
	ID       string
	Kind     string // "player" или "projectile"
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Radius   float32
}

// Manager - реестр сущностей мира. Виды сущностей фиксированы и
// немногочисленны, поэтому вместо фильтрации по типам храним
// типизированные коллекции: один игрок, карта снарядов.
type Manager struct {
	mu sync.RWMutex

	player      *RollingBody
	projectiles map[string]*Projectile

	nextProjectile uint64
}

// NewManager создает пустой реестр
func NewManager() *Manager {
	return &Manager{
		projectiles: make(map[string]*Projectile),
	}
}

// SetPlayer регистрирует тело игрока
func (m *Manager) SetPlayer(body *RollingBody) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.player = body
}

// Player возвращает тело игрока (nil, если не зарегистрировано)
func (m *Manager) Player() *RollingBody {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.player
}

// AddProjectile регистрирует снаряд под стабильным идентификатором
func (m *Manager) AddProjectile(p *Projectile) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextProjectile++
	p.ID = fmt.Sprintf("boulder-%d", m.nextProjectile)
	m.projectiles[p.ID] = p
	return p.ID
}

// RemoveProjectile удаляет снаряд из реестра
func (m *Manager) RemoveProjectile(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.projectiles, id)
}

// Projectiles возвращает копию списка снарядов
func (m *Manager) Projectiles() []*Projectile {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Projectile, 0, len(m.projectiles))
	for _, p := range m.projectiles {
		result = append(result, p)
	}
	return result
}

// ProjectileCount возвращает количество живых снарядов
func (m *Manager) ProjectileCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.projectiles)
}

// Snapshots возвращает снимки всех сущностей для отправки рендереру
func (m *Manager) Snapshots() []EntitySnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]EntitySnapshot, 0, 1+len(m.projectiles))
	if m.player != nil {
		result = append(result, EntitySnapshot{
			ID:       m.player.ID,
			Kind:     "player",
			Position: m.player.Position,
			Rotation: m.player.Rotation,
			Radius:   m.player.Radius,
		})
	}
	for _, p := range m.projectiles {
		result = append(result, EntitySnapshot{
			ID:       p.ID,
			Kind:     "projectile",
			Position: p.Position,
			Rotation: p.Rotation,
		})
	}
	return result
}
