package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// 環境変数の接頭辞（例: GOURMET_PORT）
const envPrefix = "GOURMET"

// POIバックエンドの種類
const (
	POIBackendOverpass = "overpass"
	POIBackendPostGIS  = "postgis"
	POIBackendSupabase = "supabase"
)

// RecordStoreの種類
const (
	RecordStoreFirestore = "firestore"
	RecordStoreMemory    = "memory"
)

// セッションキャッシュの種類
const (
	SessionCacheMemory    = "memory"
	SessionCacheRedis     = "redis"
	SessionCacheMemcached = "memcached"
)

// Config アプリケーション設定
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	GinMode  string `envconfig:"GIN_MODE" default:"debug"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// POIソース
	POIBackend  string `envconfig:"POI_BACKEND" default:"overpass"`
	OverpassURL string `envconfig:"OVERPASS_URL" default:"https://overpass-api.de/api/interpreter"`

	// 詳細プロバイダ
	GoogleMapsAPIKey        string        `envconfig:"GOOGLE_MAPS_API_KEY"`
	PlacesBaseURL           string        `envconfig:"PLACES_BASE_URL" default:"https://maps.googleapis.com/maps/api/place"`
	DetailsReadinessTimeout time.Duration `envconfig:"DETAILS_READINESS_TIMEOUT" default:"5s"`

	// RecordStore
	RecordStore        string `envconfig:"RECORD_STORE" default:"firestore"`
	FirestoreProjectID string `envconfig:"FIRESTORE_PROJECT_ID"`
	CredentialsFile    string `envconfig:"CREDENTIALS_FILE"`

	// PostGIS / Supabase
	PostgresDSN        string `envconfig:"POSTGRES_DSN"`
	SupabaseURL        string `envconfig:"SUPABASE_URL"`
	SupabaseAnonKey    string `envconfig:"SUPABASE_ANON_KEY"`
	SupabaseDBPassword string `envconfig:"SUPABASE_DB_PASSWORD"`

	// セッションキャッシュ
	SessionCache    string        `envconfig:"SESSION_CACHE" default:"memory"`
	SessionTTL      time.Duration `envconfig:"SESSION_TTL" default:"2h"`
	RedisAddr       string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword   string        `envconfig:"REDIS_PASSWORD"`
	RedisDB         int           `envconfig:"REDIS_DB" default:"0"`
	MemcachedServer string        `envconfig:"MEMCACHED_SERVER" default:"localhost:11211"`

	// 認証
	JWTSecret string `envconfig:"JWT_SECRET"`
}

// ResolveDefaults 列挙値を検証し、必須項目を確認する
func (c *Config) ResolveDefaults() error {
	switch c.POIBackend {
	case POIBackendOverpass, POIBackendSupabase:
	case POIBackendPostGIS:
		if c.PostgresDSN == "" && (c.SupabaseURL == "" || c.SupabaseDBPassword == "") {
			return fmt.Errorf("POI_BACKEND=postgis にはPOSTGRES_DSNまたはSUPABASE_URLとSUPABASE_DB_PASSWORDが必要です")
		}
	default:
		return fmt.Errorf("unsupported POI_BACKEND: %s", c.POIBackend)
	}
	if c.POIBackend == POIBackendSupabase && (c.SupabaseURL == "" || c.SupabaseAnonKey == "") {
		return fmt.Errorf("POI_BACKEND=supabase にはSUPABASE_URLとSUPABASE_ANON_KEYが必要です")
	}

	switch c.RecordStore {
	case RecordStoreMemory:
	case RecordStoreFirestore:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("RECORD_STORE=firestore にはFIRESTORE_PROJECT_IDが必要です")
		}
	default:
		return fmt.Errorf("unsupported RECORD_STORE: %s", c.RecordStore)
	}

	switch c.SessionCache {
	case SessionCacheMemory, SessionCacheRedis, SessionCacheMemcached:
	default:
		return fmt.Errorf("unsupported SESSION_CACHE: %s", c.SessionCache)
	}

	if c.DetailsReadinessTimeout <= 0 {
		return fmt.Errorf("DETAILS_READINESS_TIMEOUT must be positive: %s", c.DetailsReadinessTimeout)
	}
	return nil
}

// New 環境変数から設定を読み込む（接頭辞 GOURMET_）
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("port", cfg.Port).
		Str("poi_backend", cfg.POIBackend).
		Str("record_store", cfg.RecordStore).
		Str("session_cache", cfg.SessionCache).
		Bool("maps_key_present", cfg.GoogleMapsAPIKey != "").
		Bool("jwt_secret_present", cfg.JWTSecret != "").
		Msg("⚙️ 設定を読み込みました")

	return &cfg, nil
}
