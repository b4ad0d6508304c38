// Package config loads process configuration from the environment.
package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	ADB       ADBConfig
	Stream    StreamConfig
	Snapshot  SnapshotConfig
	Telemetry TelemetryConfig
}

// ADBConfig controls the bridge subprocess. The command timeout bounds every
// invocation, including batched ones; there is no cancellation once a batch
// is submitted.
type ADBConfig struct {
	Binary         string        `env:"ADB_BINARY" env-default:"adb"`
	Serial         string        `env:"ADB_SERIAL"`
	CommandTimeout time.Duration `env:"ADB_COMMAND_TIMEOUT" env-default:"10s"`
	MaxOutputBytes int           `env:"ADB_MAX_OUTPUT_BYTES" env-default:"1048576"`
}

// StreamConfig controls the websocket push cadence.
type StreamConfig struct {
	Interval time.Duration `env:"STREAM_INTERVAL" env-default:"2s"`
}

// SnapshotConfig controls the Prometheus snapshot collector refresh loop.
type SnapshotConfig struct {
	Enabled         bool          `env:"SNAPSHOT_ENABLED" env-default:"true"`
	RefreshInterval time.Duration `env:"SNAPSHOT_REFRESH_INTERVAL" env-default:"15s"`
	Timeout         time.Duration `env:"SNAPSHOT_TIMEOUT" env-default:"8s"`
}

// TelemetryConfig controls the optional MQTT publisher. Leaving the broker
// empty disables it.
type TelemetryConfig struct {
	Broker   string        `env:"MQTT_BROKER"`
	Port     string        `env:"MQTT_PORT" env-default:"1883"`
	Username string        `env:"MQTT_USERNAME"`
	Password string        `env:"MQTT_PASSWORD"`
	Topic    string        `env:"MQTT_TOPIC" env-default:"droidmetrics/metrics"`
	Interval time.Duration `env:"MQTT_PUBLISH_INTERVAL" env-default:"10s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
