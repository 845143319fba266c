package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment controls.
const (
	EnvPrefix  = "PAINEL_"
	EnvConfig  = "PAINEL_CONFIG"
	EnvDotenv  = "PAINEL_ENV_FILE"
	dotenvFile = "config.env"
)

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. dotenv file (PAINEL_ENV_FILE, default config.env) exported to the env
//  3. YAML file if PAINEL_CONFIG is set
//  4. env (prefix PAINEL_, "__" separates nested keys)
func Load(_ context.Context) (*Config, error) {
	if err := loadDotenv(); err != nil {
		return nil, err
	}

	base := New()
	k := koanf.New(".")

	// Table defaults go through koanf so partial overrides merge field by field.
	for name, t := range base.Tables {
		if err := k.Set("tables."+name, tableMap(t)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// PAINEL_ADDR -> addr, PAINEL_TABLES__PESOS__RANGE -> tables.pesos.range
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	cfg.Tables = nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotenv exports a dotenv file without overriding variables already set.
// A missing default file is not an error.
func loadDotenv() error {
	path, explicit := os.LookupEnv(EnvDotenv)
	if !explicit || path == "" {
		path = dotenvFile
	}
	err := godotenv.Load(path)
	if err == nil || (!explicit && errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
}

func tableMap(t Table) map[string]any {
	m := map[string]any{
		"range":   t.Range,
		"key":     t.Key,
		"format":  t.Format,
		"weights": t.Weights,
	}
	if len(t.Formats) > 0 {
		formats := make(map[string]any, len(t.Formats))
		for k, v := range t.Formats {
			formats[k] = v
		}
		m["formats"] = formats
	}
	return m
}
