package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	commoncfg "github.com/nerufirm/appneruf/internal/common/config"
)

// ErrConfiguration 配置无效
var ErrConfiguration = errors.New("configuration error")

// Config appneruf-data（HTTP API）配置
type Config struct {
	HTTP struct {
		Addr         string `validate:"required"`
		SecureCookie bool
	}
	DBEnabled  bool
	DBMigrate  bool
	SeedDemo   bool // 仅无 DB 模式：写入演示用名册与职员
	Database   commoncfg.DatabaseConfig
	Redis      commoncfg.RedisConfig
	MQTT       commoncfg.MQTTConfig
	Log        LogConfig
	Chatwork   ChatworkConfig
	SessionTTL time.Duration `validate:"gt=0"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json console"`
}

// ChatworkConfig 外部聊天同步配置
type ChatworkConfig struct {
	WebhookSecret  string
	NameMapTTL     time.Duration `validate:"gt=0"`
	NameMapRefresh time.Duration `validate:"gte=0"` // 0 表示不定时刷新
	SyncStream     string        `validate:"required"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("SECURE_COOKIE", false)
	v.SetDefault("SESSION_TTL", "24h")

	// 本地开发默认启用；连接失败时回退到无 DB 模式
	v.SetDefault("DB_ENABLED", true)
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("SEED_DEMO", true)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "appneruf")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE", 5)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CHATWORK_WEBHOOK_SECRET", "")
	v.SetDefault("NAME_MAP_TTL", "5m")
	v.SetDefault("NAME_MAP_REFRESH", "5m")
	v.SetDefault("SYNC_STREAM", "chatwork:sync:events")

	v.SetDefault("MQTT_ENABLED", false)
	v.SetDefault("MQTT_BROKER", "tcp://localhost:1883")
	v.SetDefault("MQTT_CLIENT_ID", "appneruf-data")
	v.SetDefault("MQTT_USERNAME", "")
	v.SetDefault("MQTT_PASSWORD", "")
	v.SetDefault("MQTT_TOPIC", "appneruf/chatwork-sync")
	v.SetDefault("MQTT_QOS", 1)
}

// Load 从默认值与环境变量读取配置并校验
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("HTTP_ADDR")
	cfg.HTTP.SecureCookie = v.GetBool("SECURE_COOKIE")
	cfg.SessionTTL = v.GetDuration("SESSION_TTL")

	cfg.DBEnabled = v.GetBool("DB_ENABLED")
	cfg.DBMigrate = v.GetBool("DB_MIGRATE")
	cfg.SeedDemo = v.GetBool("SEED_DEMO")
	cfg.Database = commoncfg.DatabaseConfig{
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetInt("DB_PORT"),
		User:     v.GetString("DB_USER"),
		Password: v.GetString("DB_PASSWORD"),
		Database: v.GetString("DB_NAME"),
		SSLMode:  v.GetString("DB_SSLMODE"),
		MaxConns: v.GetInt("DB_MAX_CONNS"),
		MaxIdle:  v.GetInt("DB_MAX_IDLE"),
	}
	cfg.Redis = commoncfg.RedisConfig{
		Addr:     v.GetString("REDIS_ADDR"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}
	cfg.Log = LogConfig{
		Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
		Format: strings.ToLower(v.GetString("LOG_FORMAT")),
	}
	cfg.Chatwork = ChatworkConfig{
		WebhookSecret:  v.GetString("CHATWORK_WEBHOOK_SECRET"),
		NameMapTTL:     v.GetDuration("NAME_MAP_TTL"),
		NameMapRefresh: v.GetDuration("NAME_MAP_REFRESH"),
		SyncStream:     v.GetString("SYNC_STREAM"),
	}
	cfg.MQTT = commoncfg.MQTTConfig{
		Enabled:  v.GetBool("MQTT_ENABLED"),
		Broker:   v.GetString("MQTT_BROKER"),
		ClientID: v.GetString("MQTT_CLIENT_ID"),
		Username: v.GetString("MQTT_USERNAME"),
		Password: v.GetString("MQTT_PASSWORD"),
		Topic:    v.GetString("MQTT_TOPIC"),
		QoS:      byte(v.GetUint("MQTT_QOS")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置；DB 相关字段仅在 DB_ENABLED 时检查
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.StructExcept(c, "Database"); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if c.DBEnabled {
		if err := validate.Struct(&c.Database); err != nil {
			return fmt.Errorf("%w: database: %v", ErrConfiguration, err)
		}
	}
	return nil
}
