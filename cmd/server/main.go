package main

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"employee-directory/internal/api"
	"employee-directory/internal/api/handlers"
	"employee-directory/internal/api/middleware"
	"employee-directory/internal/api/websocket"
	"employee-directory/internal/config"
	"employee-directory/internal/logger"
	"employee-directory/internal/repository"
	"employee-directory/internal/service/auth"
	"employee-directory/internal/service/cache"
	"employee-directory/internal/service/storage"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Загружаем конфигурацию
	cfg := config.Load()
	logger.Init(cfg.Log.Level, cfg.Log.File)
	gin.SetMode(gin.ReleaseMode)
	log.Info().Msg("Конфигурация загружена")

	// Инициализируем базу данных
	db, err := initDatabase(rootCtx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Ошибка подключения к БД")
	}
	defer db.Close()
	log.Info().Msg("База данных подключена")

	if err := repository.Migrate(rootCtx, db); err != nil {
		log.Fatal().Err(err).Msg("Ошибка миграции БД")
	}

	// Redis кэш необязателен
	var cacheService *cache.Service
	if cfg.Redis.Addr != "" {
		cacheService, err = cache.NewService(rootCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis недоступен, работаем без кэша")
			cacheService = nil
		} else {
			defer cacheService.Close()
			log.Info().Msg("Redis кэш подключен")
		}
	}

	repo := repository.NewRepository(db)

	storageService, err := storage.NewService(cfg.Storage.ImagesDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Ошибка инициализации storage")
	}

	authService, err := auth.NewService(cfg.Auth.Username, cfg.Auth.Password, cfg.Auth.PasswordHash)
	if err != nil {
		log.Fatal().Err(err).Msg("Ошибка настройки входа (AUTH_PASSWORD или AUTH_PASSWORD_HASH)")
	}

	sessionStore := middleware.NewSessionStore(sessionSecret(cfg.Auth.SessionSecret), cfg.Auth.SecureCookie)

	wsManager := websocket.NewManager()

	handler := handlers.NewHandler(repo, storageService, cacheService, wsManager)

	router, err := api.NewRouter(api.RouterDeps{
		Handler:   handler,
		Account:   handlers.NewAccountHandler(authService, sessionStore),
		WebSocket: websocket.NewHandler(wsManager),
		Sessions:  sessionStore,
		ImagesDir: storageService.Dir(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Ошибка настройки роутера")
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, gctx := errgroup.WithContext(rootCtx)

	group.Go(func() error {
		return wsManager.Run(gctx)
	})

	group.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("HTTP сервер запущен")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Остановка сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error().Err(err).Msg("Сервер завершился с ошибкой")
		os.Exit(1)
	}
	log.Info().Msg("Сервер остановлен")
}

// initDatabase инициализирует подключение к базе данных
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.GetDSN())
	if err != nil {
		return nil, err
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	return db, nil
}

// sessionSecret возвращает секрет из конфигурации или случайный
// Случайный секрет сбрасывает все сессии при перезапуске
func sessionSecret(configured string) []byte {
	if configured != "" {
		return []byte(configured)
	}

	log.Warn().Msg("SESSION_SECRET не задан, сессии не переживут перезапуск")
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		log.Fatal().Err(err).Msg("не удалось сгенерировать секрет сессии")
	}
	return secret
}
