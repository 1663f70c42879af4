// Package config loads the server configuration from a YAML file with
// environment variable overrides for deployment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings for the cargo server.
type Config struct {
	HTTPAddr string `yaml:"http_addr"`
	DBPath   string `yaml:"db_path"`

	// AMQP is optional: an empty URL disables the transfer publisher.
	AMQPURL      string `yaml:"amqp_url"`
	AMQPExchange string `yaml:"amqp_exchange"`

	// HubPollMillis is the presentation poller cadence. It should stay well
	// above the tick rate: the reader is deliberately slower than the writer.
	HubPollMillis int `yaml:"hub_poll_millis"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		HTTPAddr:      ":8080",
		DBPath:        "cargo.db",
		AMQPExchange:  "cargo.transfers",
		HubPollMillis: 200,
	}
}

// Load reads the YAML file at path (missing file means defaults) and then
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()

	if cfg.HubPollMillis <= 0 {
		cfg.HubPollMillis = Default().HubPollMillis
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CARGO_HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("CARGO_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("CARGO_AMQP_URL"); v != "" {
		c.AMQPURL = v
	}
	if v := os.Getenv("CARGO_AMQP_EXCHANGE"); v != "" {
		c.AMQPExchange = v
	}
	if v := os.Getenv("CARGO_HUB_POLL_MILLIS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.HubPollMillis = n
		}
	}
}
