package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable of the server, loaded from configs/config.yml.
type Config struct {
	LogLevel string     `mapstructure:"log_level"`
	TCP      TCPConfig  `mapstructure:"tcp"`
	UDP      UDPConfig  `mapstructure:"udp"`
	HTTP     HTTPConfig `mapstructure:"http"`
	Auth     AuthConfig `mapstructure:"auth"`
	// Users is the static credential table (username -> plaintext password).
	// Passwords are hashed at service construction and never kept beyond it.
	Users map[string]string `mapstructure:"users"`
	// Devices is the fixed inventory registered at startup.
	Devices []DeviceConfig `mapstructure:"devices"`
}

// TCPConfig configures the command protocol listener.
type TCPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// UDPConfig configures the telemetry broadcaster.
type UDPConfig struct {
	Port      int           `mapstructure:"port"`
	Broadcast string        `mapstructure:"broadcast"`
	Interval  time.Duration `mapstructure:"interval"`
}

// HTTPConfig configures the JSON facade.
type HTTPConfig struct {
	Port string `mapstructure:"port"`
}

// AuthConfig configures token issuing for the HTTP facade.
type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// DeviceConfig declares one device of the startup inventory.
type DeviceConfig struct {
	ID   string `mapstructure:"id"`
	Type string `mapstructure:"type"`
}

// Load reads configs/config.yml and returns the typed configuration.
func Load() (*Config, error) {
	v := viper.New()
	v.AddConfigPath("configs")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("tcp.host", "0.0.0.0")
	v.SetDefault("tcp.port", 5000)
	v.SetDefault("udp.port", 5001)
	v.SetDefault("udp.broadcast", "255.255.255.255")
	v.SetDefault("udp.interval", "2s")
	v.SetDefault("http.port", "8080")
	v.SetDefault("auth.token_ttl", "1h")
}
