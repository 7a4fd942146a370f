// Package config holds the engine's runtime configuration: hash table
// size, opening book location, worker count and default search depth.
// A Config is loaded once from an optional YAML file and environment
// overrides at startup; values set later via a UCI setoption command
// always take precedence over both.
package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the engine's typed runtime configuration.
type Config struct {
	HashMB  int    `yaml:"hash_mb"`
	Book    string `yaml:"book"`
	UseBook bool   `yaml:"use_book"`
	Threads int    `yaml:"threads"`
	Depth   int    `yaml:"depth"`
}

// Default returns the configuration the engine boots with absent any
// file or environment overrides, matching the UCI option defaults named
// in the protocol handshake.
func Default() Config {
	return Config{
		HashMB:  16,
		Book:    "book.bin",
		UseBook: true,
		Threads: 1,
		Depth:   0,
	}
}

// Load reads path (if non-empty and it exists) as YAML over the default
// configuration, then applies GYRFALCON_-prefixed environment overrides.
// A missing file is not an error: the caller may not have one.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		} else if !os.IsNotExist(err) {
			return cfg, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides cfg fields from the process environment, using the
// same names as the YAML keys, upper-cased and prefixed.
func (c *Config) applyEnv() {
	if v, ok := lookupEnv("GYRFALCON_HASH_MB"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.HashMB = n
		}
	}
	if v, ok := lookupEnv("GYRFALCON_BOOK"); ok {
		c.Book = v
	}
	if v, ok := lookupEnv("GYRFALCON_USE_BOOK"); ok {
		c.UseBook = strings.EqualFold(v, "true") || v == "1"
	}
	if v, ok := lookupEnv("GYRFALCON_THREADS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Threads = n
		}
	}
	if v, ok := lookupEnv("GYRFALCON_DEPTH"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Depth = n
		}
	}
}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
