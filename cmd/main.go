package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"Gourmet-App/internal/config"
	"Gourmet-App/internal/domain/model"
	"Gourmet-App/internal/domain/repository"
	"Gourmet-App/internal/domain/service"
	"Gourmet-App/internal/handler"
	"Gourmet-App/internal/infrastructure/cache"
	"Gourmet-App/internal/infrastructure/database"
	"Gourmet-App/internal/infrastructure/firestore"
	"Gourmet-App/internal/infrastructure/maps"
	"Gourmet-App/internal/infrastructure/overpass"
	"Gourmet-App/internal/logger"
	repo "Gourmet-App/internal/repository"
	"Gourmet-App/internal/usecase"
)

const serviceName = "Gourmet-App"

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	log.Logger = logger.New(serviceName, "info")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ 設定の読み込みに失敗")
	}
	log.Logger = logger.New(serviceName, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	health := handler.NewHealthHandler(serviceName)

	backend, closeBackend, err := newPOIBackend(ctx, cfg, health)
	if err != nil {
		log.Fatal().Err(err).Str("poi_backend", cfg.POIBackend).Msg("❌ POIバックエンドの初期化に失敗")
	}
	defer closeBackend()

	store, closeStore, err := newRecordStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("record_store", cfg.RecordStore).Msg("❌ RecordStoreの初期化に失敗")
	}
	defer closeStore()

	clock := service.NewSystemClock()
	source := service.NewPOISource(backend, newSessionCache(cfg, health), clock)
	details := maps.NewGooglePlacesProvider(cfg.GoogleMapsAPIKey, cfg.PlacesBaseURL, cfg.DetailsReadinessTimeout)
	pipeline := service.NewEnrichmentPipeline(source, details, store, clock)
	reviews := service.NewReviewService(store, clock)

	sessions := usecase.NewSessionRegistry(cfg.SessionTTL, func(id string) *service.Session {
		return service.NewSession(id, pipeline, reviews)
	})
	restaurantUseCase := usecase.NewRestaurantUseCase(sessions)

	router := handler.NewRouter(
		health,
		handler.NewRestaurantHandler(restaurantUseCase),
		handler.NewReviewHandler(restaurantUseCase),
		[]byte(cfg.JWTSecret),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("🚀 Gourmet-App server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("❌ サーバーの起動に失敗")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("❌ シャットダウンに失敗")
	}
	log.Info().Msg("👋 サーバーを停止しました")
}

// newPOIBackend 設定に応じたPOIバックエンドを生成する
func newPOIBackend(ctx context.Context, cfg *config.Config, health *handler.HealthHandler) (repository.POIBackend, func(), error) {
	noop := func() {}

	switch cfg.POIBackend {
	case config.POIBackendPostGIS:
		dsn := cfg.PostgresDSN
		if dsn == "" {
			var err error
			dsn, err = database.SupabaseDSN(cfg.SupabaseURL, cfg.SupabaseDBPassword)
			if err != nil {
				return nil, noop, err
			}
		}
		client, err := database.NewPostgreSQLClient(ctx, dsn)
		if err != nil {
			return nil, noop, err
		}
		health.Register("postgres", client.HealthCheck)
		return repo.NewPostgresPOIBackend(client), func() { _ = client.Close() }, nil
	case config.POIBackendSupabase:
		client, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			return nil, noop, err
		}
		return repo.NewSupabasePOIBackend(client), noop, nil
	default:
		return overpass.NewBackend(cfg.OverpassURL), noop, nil
	}
}

// newRecordStore 設定に応じたRecordStoreを生成する
func newRecordStore(ctx context.Context, cfg *config.Config) (repository.RecordStore, func(), error) {
	if cfg.RecordStore == config.RecordStoreMemory {
		log.Warn().Msg("⚠️ インメモリのRecordStoreを使用します（再起動で消えます）")
		return repo.NewMemoryRecordStore(), func() {}, nil
	}

	client, err := firestore.NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.CredentialsFile)
	if err != nil {
		return nil, func() {}, err
	}
	return repo.NewFirestoreRecordStore(client.GetClient()), func() { _ = client.Close() }, nil
}

// newSessionCache 設定に応じたセッションキャッシュを生成する
func newSessionCache(cfg *config.Config, health *handler.HealthHandler) repository.SessionCache {
	switch cfg.SessionCache {
	case config.SessionCacheRedis:
		client := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		health.Register("redis", func(ctx context.Context) error { return client.Ping(ctx).Err() })
		return cache.NewRedisSessionCache(client)
	case config.SessionCacheMemcached:
		client := database.NewMemcached(cfg.MemcachedServer)
		health.Register("memcached", func(context.Context) error { return client.Ping() })
		return cache.NewMemcachedSessionCache(client)
	default:
		return cache.NewMemorySessionCache(model.POICacheTTL)
	}
}
