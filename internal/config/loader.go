package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envBinding maps an environment variable onto a koanf key.
type envBinding struct {
	env    string
	key    string
	isBool bool
}

// envBindings lists every environment variable the loader understands.
var envBindings = []envBinding{
	{env: "RAG_CORPUS", key: "corpus"},
	{env: "RFP_MODEL", key: "model"},
	{env: "RFP_BACKEND", key: "backend"},
	{env: "RFP_LOG_LEVEL", key: "log_level"},
	{env: "GOOGLE_CLOUD_PROJECT", key: "google.project"},
	{env: "GOOGLE_CLOUD_LOCATION", key: "google.location"},
	{env: "GOOGLE_API_KEY", key: "google.api_key"},
	{env: "GOOGLE_GENAI_USE_VERTEXAI", key: "google.use_vertexai", isBool: true},
	{env: "QDRANT_ADDR", key: "qdrant.address"},
	{env: "QDRANT_COLLECTION", key: "qdrant.collection"},
	{env: "EMBEDDING_MODEL", key: "embedding.model"},
	{env: "OTEL_EXPORTER_OTLP_ENDPOINT", key: "tracing.endpoint"},
}

// Load reads the optional YAML file at path, overlays the environment read
// through getenv and validates the result. A nil getenv uses os.Getenv.
//
// Error cases:
//   - file set but unreadable or not valid YAML
//   - environment value that cannot be parsed (boolean flags)
//   - validation failure, including ErrMissingCorpus
func Load(path string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %q: %w", path, err)
		}
	}

	for _, b := range envBindings {
		raw := strings.TrimSpace(getenv(b.env))
		if raw == "" {
			continue
		}

		var value interface{} = raw
		if b.isBool {
			parsed, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, NewConfigError(fmt.Sprintf("%s must be a boolean, got %q", b.env, raw))
			}
			value = parsed
		}
		if err := k.Set(b.key, value); err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", b.env, err)
		}
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// An explicit tracing endpoint in the environment implies tracing.
	if getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		cfg.Tracing.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE files into the process environment without
// overriding variables that are already set. With no arguments it reads ./.env
// and ignores its absence.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	}

	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env files %v: %w", files, err)
	}
	return nil
}
