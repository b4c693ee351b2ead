package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Denis-Pavliha-s-p/strapi-google-auth/auth_fields"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const configSection = "google_auth"

// loadConfig reads config.yaml (and secrets.yaml when present), takes the google_auth
// section and applies environment overrides on top. A missing config file is fine:
// the environment alone can configure the service.
func loadConfig(path string) (auth_fields.AuthConfig, error) {
	var cfg auth_fields.AuthConfig

	configPath := firstExistingPath(path, "./config.yaml", "../config.yaml")
	if path != "" && configPath != path {
		return cfg, fmt.Errorf("config file %s not found", path)
	}
	if configPath != "" {
		merged, err := readYAML(configPath)
		if err != nil {
			return cfg, err
		}
		if secretsPath := firstExistingPath("./secrets.yaml", "../secrets.yaml"); secretsPath != "" {
			secrets, err := readYAML(secretsPath)
			if err != nil {
				return cfg, err
			}
			merged, _ = mergeConfig(merged, secrets).(map[string]interface{})
		}
		section := getMap(merged, configSection)
		if section == nil {
			section = map[string]interface{}{}
		}
		raw, err := yaml.Marshal(section)
		if err != nil {
			return cfg, fmt.Errorf("encode %s section: %w", configSection, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("decode %s section: %w", configSection, err)
		}
		logrusLogger.WithField("path", configPath).Debug("loaded config")
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	cfg = cfg.WithDefaults()
	if cfg.JWTKey == "" {
		return cfg, errors.New("jwt_key is required (GOOGLE_AUTH_JWT_KEY)")
	}
	return cfg, nil
}

func readYAML(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	out := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

func firstExistingPath(paths ...string) string {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// mergeConfig overlays override on base. Empty strings and empty lists keep the base value.
func mergeConfig(base, override interface{}) interface{} {
	if override == nil {
		return base
	}

	switch overrideTyped := override.(type) {
	case map[string]interface{}:
		baseMap, ok := base.(map[string]interface{})
		if !ok {
			baseMap = map[string]interface{}{}
		}
		result := map[string]interface{}{}
		for key, value := range baseMap {
			result[key] = value
		}
		for key, value := range overrideTyped {
			result[key] = mergeConfig(result[key], value)
		}
		return result
	case []interface{}:
		if len(overrideTyped) == 0 {
			return base
		}
		return overrideTyped
	case string:
		if overrideTyped == "" {
			return base
		}
		return overrideTyped
	default:
		return override
	}
}

func getMap(source map[string]interface{}, key string) map[string]interface{} {
	if source == nil {
		return nil
	}
	if typed, ok := source[key].(map[string]interface{}); ok {
		return typed
	}
	return nil
}
