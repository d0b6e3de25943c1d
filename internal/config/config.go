package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the server configuration.
type Config struct {
	Port string `yaml:"port"` // HTTP listen port

	Mongo struct {
		URI      string `yaml:"uri"`      // MongoDB connection string
		Database string `yaml:"database"` // Database holding the UrbanHive collections
	} `yaml:"mongo"`

	Log struct {
		Level  string `yaml:"level"`  // logrus level name
		Format string `yaml:"format"` // "json" or "text"
	} `yaml:"log"`

	MQTT struct {
		Broker      string `yaml:"broker"`       // Empty disables event publishing
		ClientID    string `yaml:"client_id"`    // MQTT client ID prefix
		TopicPrefix string `yaml:"topic_prefix"` // Prefix for published topics
		QOS         int    `yaml:"qos"`          // MQTT QoS level for events
	} `yaml:"mqtt"`
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	cfg := &Config{Port: "5000"}
	cfg.Mongo.URI = "mongodb://localhost:27017"
	cfg.Mongo.Database = "UrbanHive"
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.MQTT.ClientID = "urbanhive"
	cfg.MQTT.TopicPrefix = "urbanhive"
	cfg.MQTT.QOS = 1
	return cfg
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order of precedence. A .env file in the working
// directory is loaded into the environment first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.Mongo.URI, "MONGO_URI")
	setString(&c.Mongo.Database, "MONGO_DB")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.MQTT.Broker, "MQTT_BROKER")
	setString(&c.MQTT.ClientID, "MQTT_CLIENT_ID")
	setString(&c.MQTT.TopicPrefix, "MQTT_TOPIC_PREFIX")

	if v := os.Getenv("MQTT_QOS"); v != "" {
		qos, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MQTT_QOS %q: %w", v, err)
		}
		c.MQTT.QOS = qos
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate checks the configuration for values the server cannot start with.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.Mongo.URI == "" {
		return errors.New("mongo uri is required")
	}
	if c.Mongo.Database == "" {
		return errors.New("mongo database is required")
	}
	if c.MQTT.QOS < 0 || c.MQTT.QOS > 2 {
		return fmt.Errorf("mqtt qos must be 0, 1 or 2, got %d", c.MQTT.QOS)
	}
	return nil
}

// EventsEnabled reports whether an MQTT broker was configured.
func (c *Config) EventsEnabled() bool {
	return c.MQTT.Broker != ""
}
