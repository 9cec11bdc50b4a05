package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.True(t, cfg.DBEnabled)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 5*time.Minute, cfg.Chatwork.NameMapTTL)
	assert.Equal(t, "chatwork:sync:events", cfg.Chatwork.SyncStream)
	assert.Equal(t, "appneruf/chatwork-sync", cfg.MQTT.Topic)
	assert.False(t, cfg.MQTT.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_ENABLED", "false")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("CHATWORK_WEBHOOK_SECRET", "abc")
	t.Setenv("NAME_MAP_TTL", "30s")
	t.Setenv("MQTT_ENABLED", "true")
	t.Setenv("MQTT_TOPIC", "facility/1/chat")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.False(t, cfg.DBEnabled)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "abc", cfg.Chatwork.WebhookSecret)
	assert.Equal(t, 30*time.Second, cfg.Chatwork.NameMapTTL)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "facility/1/chat", cfg.MQTT.Topic)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestLoad_InvalidDatabaseIgnoredWhenDisabled(t *testing.T) {
	t.Setenv("DB_SSLMODE", "bogus")
	_, err := Load()
	assert.ErrorIs(t, err, ErrConfiguration)

	t.Setenv("DB_ENABLED", "false")
	_, err = Load()
	assert.NoError(t, err)
}

func TestLoad_MQTTRequiresTopicWhenEnabled(t *testing.T) {
	t.Setenv("MQTT_ENABLED", "true")
	t.Setenv("MQTT_TOPIC", "")
	_, err := Load()
	assert.ErrorIs(t, err, ErrConfiguration)
}
