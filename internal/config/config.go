package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration. Values come from an optional
// config.yml, then environment variables override field by field.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Mongo  MongoConfig  `yaml:"mongo"`
	JWT    JWTConfig    `yaml:"jwt"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
}

type ServerConfig struct {
	Port string `yaml:"port" validate:"required"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database" validate:"required"`
}

type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

type MQTTConfig struct {
	Broker string `yaml:"broker"`
	Topic  string `yaml:"topic"`
}

// Load reads .env (if present), the optional YAML config file, and the
// environment. Environment variables win over file values.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{Port: "8080"},
		Mongo:  MongoConfig{Database: "bnovauto"},
		JWT:    JWTConfig{Expiry: 24 * time.Hour},
		MQTT:   MQTTConfig{Topic: "fleet/telemetry/+"},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("MONGO_DB"); v != "" {
		cfg.Mongo.Database = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_EXPIRY"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.JWT.Expiry = parsed
		}
	}
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		cfg.MQTT.Broker = v
	}
	if v := os.Getenv("MQTT_TOPIC"); v != "" {
		cfg.MQTT.Topic = v
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
