package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "bettersale"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Scheduling   SchedulingConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(cfg.FeatureFlags); err != nil {
		return nil, err
	}
	if err := cfg.Scheduling.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BETTERSALE_APP_ENV" default:"dev"`
	Port         string `envconfig:"BETTERSALE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BETTERSALE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BETTERSALE_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"BETTERSALE_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"BETTERSALE_DB_DSN"`

	MaxOpenConns    int           `envconfig:"BETTERSALE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BETTERSALE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BETTERSALE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BETTERSALE_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// OpTimeout bounds every store call before the engine declares the
	// persistent backend unavailable and falls back.
	OpTimeout time.Duration `envconfig:"BETTERSALE_DB_OP_TIMEOUT" default:"3s"`
}

func (d DBConfig) validate(flags FeatureFlagsConfig) error {
	if d.DSN == "" && !flags.UseSQLite {
		return fmt.Errorf("BETTERSALE_DB_DSN is required unless BETTERSALE_USE_SQLITE is set")
	}
	if d.OpTimeout <= 0 {
		return fmt.Errorf("BETTERSALE_DB_OP_TIMEOUT must be positive")
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"BETTERSALE_REDIS_URL"`
	PoolSize     int           `envconfig:"BETTERSALE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BETTERSALE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BETTERSALE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BETTERSALE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BETTERSALE_REDIS_WRITE_TIMEOUT" default:"5s"`
	CatalogTTL   time.Duration `envconfig:"BETTERSALE_REDIS_CATALOG_TTL" default:"5m"`
}

// Enabled reports whether a Redis catalog cache should be wired at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

type SchedulingConfig struct {
	WindowOpen  string `envconfig:"BETTERSALE_SCHEDULING_WINDOW_OPEN" default:"09:00"`
	WindowClose string `envconfig:"BETTERSALE_SCHEDULING_WINDOW_CLOSE" default:"18:00"`

	LessonSlotMinutes  int `envconfig:"BETTERSALE_SCHEDULING_LESSON_SLOT_MINUTES" default:"60"`
	TuneUpSlotMinutes  int `envconfig:"BETTERSALE_SCHEDULING_TUNEUP_SLOT_MINUTES" default:"120"`
	DefaultSlotMinutes int `envconfig:"BETTERSALE_SCHEDULING_DEFAULT_SLOT_MINUTES" default:"60"`
}

func (s SchedulingConfig) validate() error {
	if s.LessonSlotMinutes <= 0 || s.TuneUpSlotMinutes <= 0 || s.DefaultSlotMinutes <= 0 {
		return fmt.Errorf("scheduling slot minutes must be positive")
	}
	return nil
}

type FeatureFlagsConfig struct {
	UseSQLite    bool   `envconfig:"BETTERSALE_USE_SQLITE" default:"false"`
	SQLitePath   string `envconfig:"BETTERSALE_SQLITE_PATH" default:"bettersale.db"`
	AutoMigrate  bool   `envconfig:"BETTERSALE_AUTO_MIGRATE" default:"false"`
	SeedDemoData bool   `envconfig:"BETTERSALE_SEED_DEMO_DATA" default:"false"`
}
