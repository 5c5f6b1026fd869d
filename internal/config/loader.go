package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr         string `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel     string `json:"log_level" yaml:"log_level" toml:"log_level"`
	MaxBodyBytes int64  `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`

	// Generator backend: either a llama-server URL or a local GGUF path.
	GeneratorURL    string `json:"generator_url" yaml:"generator_url" toml:"generator_url"`
	GeneratorAPIKey string `json:"generator_api_key" yaml:"generator_api_key" toml:"generator_api_key"`
	GeneratorModel  string `json:"generator_model" yaml:"generator_model" toml:"generator_model"`
	ModelPath       string `json:"model_path" yaml:"model_path" toml:"model_path"`
	ModelCtx        int    `json:"model_ctx" yaml:"model_ctx" toml:"model_ctx"`
	ModelThreads    int    `json:"model_threads" yaml:"model_threads" toml:"model_threads"`

	TranslatorURL string `json:"translator_url" yaml:"translator_url" toml:"translator_url"`
	SourceLang    string `json:"source_lang" yaml:"source_lang" toml:"source_lang"`
	TargetLang    string `json:"target_lang" yaml:"target_lang" toml:"target_lang"`
	StopMarker    string `json:"stop_marker" yaml:"stop_marker" toml:"stop_marker"`
	BulletCount   int    `json:"bullet_count" yaml:"bullet_count" toml:"bullet_count"`

	RequestTimeoutSec int `json:"request_timeout_sec" yaml:"request_timeout_sec" toml:"request_timeout_sec"`
	ConnectTimeoutSec int `json:"connect_timeout_sec" yaml:"connect_timeout_sec" toml:"connect_timeout_sec"`
	StreamTimeoutSec  int `json:"stream_timeout_sec" yaml:"stream_timeout_sec" toml:"stream_timeout_sec"`

	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
	CORSAllowedMethods []string `json:"cors_allowed_methods" yaml:"cors_allowed_methods" toml:"cors_allowed_methods"`
	CORSAllowedHeaders []string `json:"cors_allowed_headers" yaml:"cors_allowed_headers" toml:"cors_allowed_headers"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil { return cfg, err }
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil { return cfg, err }
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil { return cfg, err }
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
