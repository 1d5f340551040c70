package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App                App                `mapstructure:",squash"`
	Server             Server             `mapstructure:",squash"`
	Metrics            Metrics            `mapstructure:",squash"`
	Database           Database           `mapstructure:",squash"`
	Auth               Auth               `mapstructure:",squash"`
	Kafka              Kafka              `mapstructure:",squash"`
	Merge              Merge              `mapstructure:",squash"`
	CampaignMergeSync  CampaignMergeSync  `mapstructure:",squash"`
	OrderMergeSync     OrderMergeSync     `mapstructure:",squash"`
	AttributionSync    AttributionSync    `mapstructure:",squash"`
	ReconciliationSync ReconciliationSync `mapstructure:",squash"`
	CalendarSync       CalendarSync       `mapstructure:",squash"`
	Sources            map[string]Source  `mapstructure:"-"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Metrics struct {
	Enabled bool   `mapstructure:"metrics_enabled"`
	Addr    string `mapstructure:"metrics_addr"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Auth struct {
	JWTSecret      string  `mapstructure:"auth_jwt_secret"`
	APISecretHash  string  `mapstructure:"auth_api_secret_hash"`
	TokenTTLHours  int     `mapstructure:"auth_token_ttl_hours"`
	RateLimitRPS   float64 `mapstructure:"auth_rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"auth_rate_limit_burst"`
}

type Kafka struct {
	Enabled bool     `mapstructure:"kafka_enabled"`
	Brokers []string `mapstructure:"kafka_brokers"`
	GroupID string   `mapstructure:"kafka_group_id"`
	Topics  []string `mapstructure:"kafka_topics"`
}

type Merge struct {
	DefaultLookbackDays int    `mapstructure:"merge_default_lookback_days"`
	SourcesFile         string `mapstructure:"merge_sources_file"`
}

type CampaignMergeSync struct {
	CronSchedule string `mapstructure:"campaign_merge_sync_cron"`
	Enabled      bool   `mapstructure:"campaign_merge_sync_enabled"`
}

type OrderMergeSync struct {
	CronSchedule string `mapstructure:"order_merge_sync_cron"`
	Enabled      bool   `mapstructure:"order_merge_sync_enabled"`
}

type AttributionSync struct {
	CronSchedule string  `mapstructure:"attribution_sync_cron"`
	Enabled      bool    `mapstructure:"attribution_sync_enabled"`
	WindowDays   int     `mapstructure:"attribution_window_days"`
	DecayRate    float64 `mapstructure:"attribution_decay_rate"`
}

type ReconciliationSync struct {
	CronSchedule string  `mapstructure:"reconciliation_sync_cron"`
	Enabled      bool    `mapstructure:"reconciliation_sync_enabled"`
	TolerancePct float64 `mapstructure:"reconciliation_tolerance_pct"`
}

type CalendarSync struct {
	CronSchedule string `mapstructure:"calendar_sync_cron"`
	Enabled      bool   `mapstructure:"calendar_sync_enabled"`
	HorizonDays  int    `mapstructure:"calendar_horizon_days"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("METRICS_ADDR", ":9090")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/analytics")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("AUTH_JWT_SECRET", "your_jwt_secret")
	viper.SetDefault("AUTH_API_SECRET_HASH", "")
	viper.SetDefault("AUTH_TOKEN_TTL_HOURS", 12)
	viper.SetDefault("AUTH_RATE_LIMIT_RPS", 5.0)
	viper.SetDefault("AUTH_RATE_LIMIT_BURST", 10)

	viper.SetDefault("KAFKA_ENABLED", false)
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_GROUP_ID", "marketing-analytics-pipeline")
	viper.SetDefault("KAFKA_TOPICS", "ingestion.raw_records")

	// Lookback covers the platforms' late-arriving attribution updates.
	viper.SetDefault("MERGE_DEFAULT_LOOKBACK_DAYS", 3)
	viper.SetDefault("MERGE_SOURCES_FILE", "")

	viper.SetDefault("CAMPAIGN_MERGE_SYNC_CRON", "0 3 * * *")
	viper.SetDefault("CAMPAIGN_MERGE_SYNC_ENABLED", false)

	viper.SetDefault("ORDER_MERGE_SYNC_CRON", "30 3 * * *")
	viper.SetDefault("ORDER_MERGE_SYNC_ENABLED", false)

	viper.SetDefault("ATTRIBUTION_SYNC_CRON", "0 4 * * *")
	viper.SetDefault("ATTRIBUTION_SYNC_ENABLED", false)
	viper.SetDefault("ATTRIBUTION_WINDOW_DAYS", 7)
	viper.SetDefault("ATTRIBUTION_DECAY_RATE", 0.5)

	viper.SetDefault("RECONCILIATION_SYNC_CRON", "0 5 * * *")
	viper.SetDefault("RECONCILIATION_SYNC_ENABLED", false)
	viper.SetDefault("RECONCILIATION_TOLERANCE_PCT", 1.0)

	viper.SetDefault("CALENDAR_SYNC_CRON", "15 0 * * *")
	viper.SetDefault("CALENDAR_SYNC_ENABLED", false)
	viper.SetDefault("CALENDAR_HORIZON_DAYS", 365)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Using variables loaded by godotenv (viper could not read .env): ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	sources, err := LoadSources(config.Merge.SourcesFile, config.Merge.DefaultLookbackDays)
	if err != nil {
		return nil, err
	}
	config.Sources = sources

	return config, nil
}

// loadEnvFile loads the .env file for local development.
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Could not determine current directory: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Loaded .env from: ", location)
			return
		}
	}
}
