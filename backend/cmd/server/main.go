package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sphere-hills/backend/internal/config"
	"sphere-hills/backend/internal/game"
	"sphere-hills/backend/internal/transport/ws"
	"sphere-hills/backend/internal/world"
)

func main() {
	configPath := flag.String("config", "", "путь к yaml конфигу (пусто = значения по умолчанию)")
	addr := flag.String("addr", "", "адрес прослушивания, перекрывает конфиг")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Ошибка загрузки конфига: %v", err)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	config.Set(cfg)

	// Мир: рельеф, чанки, сущности
	field := world.NewHeightField(cfg.Terrain)
	chunks := world.NewChunkManager(field, cfg.Chunks)
	manager := world.NewManager()

	player := world.NewPlayerBody("player-1", field, cfg.Player)
	manager.SetPlayer(player)

	// Прогреваем чанки вокруг точки спавна до запуска тикера
	chunks.EnsureChunksNear(player.Position.X(), player.Position.Z())
	log.Printf("[Main] Прогрето чанков: %d", chunks.LoadedCount())

	// Игровые системы
	inputState := game.NewInputState()
	inputSystem := game.NewInputSystem(inputState)
	targeting := game.NewTargetingSystem(field, inputSystem)
	physics := game.NewPlayerPhysicsSystem(manager, field, inputSystem, cfg.Player)
	projectiles := game.NewProjectileSystem(manager, field, inputSystem, targeting, cfg.Projectile)
	chunkSystem := game.NewChunkSystem(manager, chunks)
	camera := game.NewCameraSystem(manager, targeting, cfg.Camera)

	ticker := game.NewGameTicker(cfg.Server.TargetTPS, log.New(os.Stdout, "", log.LstdFlags))
	ticker.RegisterSystem(inputSystem)
	ticker.RegisterSystem(targeting)
	ticker.RegisterSystem(physics)
	ticker.RegisterSystem(projectiles)
	ticker.RegisterSystem(chunkSystem)
	ticker.RegisterSystem(camera)

	// Транспорт
	serializer := ws.NewWorldSerializer(manager, chunks)
	server := ws.NewWSServer(manager, serializer, inputState, targeting, camera)
	server.SetUpdateInterval(time.Duration(cfg.Server.UpdateInterval) * time.Millisecond)

	chunks.AddListener(server)
	projectiles.AddListener(server)

	if err := ticker.Start(); err != nil {
		log.Fatalf("Ошибка запуска игрового цикла: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go server.Run(ctx)

	http.HandleFunc("/ws", server.HandleWS)

	// Отладочная ручка со статистикой игрового цикла
	http.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ticker.GetStats()); err != nil {
			log.Printf("[Main] Ошибка сериализации статистики: %v", err)
		}
	})

	httpServer := &http.Server{Addr: cfg.Server.Addr}
	go func() {
		log.Printf("[Main] Сервер запущен на %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Ошибка HTTP сервера: %v", err)
		}
	}()

	// Ждем SIGINT/SIGTERM и останавливаемся аккуратно
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("[Main] Остановка сервера...")
	cancel()
	ticker.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Main] Ошибка остановки HTTP сервера: %v", err)
	}
	log.Println("[Main] Сервер остановлен")
}
