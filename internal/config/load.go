package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the service reads,
// e.g. FLASHCARDS_SERVER_PORT for server.port.
const EnvPrefix = "FLASHCARDS"

// minJWTSecretLength is the shortest HS256 secret accepted in hmac mode.
const minJWTSecretLength = 32

// Load reads configuration from a local .env file (if present), optional
// config.yaml in the working directory, and FLASHCARDS_* environment
// variables. Environment variables take precedence over file values.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile behaves like Load but reads the given config file instead of
// searching for config.yaml. An empty path falls back to the search.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it, with the
// defaults used when nothing else provides a value.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("store.backend", BackendFirestore)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("firestore.project_id", "")
	v.SetDefault("firestore.credentials_file", "")

	v.SetDefault("auth.mode", AuthModeJWKS)
	v.SetDefault("auth.issuer_url", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("auth.jwks_cache_minutes", 5)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.card_count", 10)
	v.SetDefault("llm.max_input_chars", 8000)
	v.SetDefault("llm.timeout_seconds", 60)
	v.SetDefault("llm.prompt_template_path", "")
	v.SetDefault("llm.openai_api_key", "")
	v.SetDefault("llm.openai_base_url", "")
	v.SetDefault("llm.gemini_api_key", "")

	v.SetDefault("rate_limit.generations_per_minute", 6)
	v.SetDefault("rate_limit.burst", 3)

	v.SetDefault("billing.stripe_secret_key", "")
	v.SetDefault("billing.price_id", "")
}

// Validate checks struct tags and the rules that depend on which backend,
// identity mode and provider are selected.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	var problems []string

	switch cfg.Store.Backend {
	case BackendPostgres:
		if cfg.Database.URL == "" {
			problems = append(problems, "database.url is required for the postgres backend")
		}
	case BackendFirestore:
		if cfg.Firestore.ProjectID == "" {
			problems = append(problems, "firestore.project_id is required for the firestore backend")
		}
	}

	switch cfg.Auth.Mode {
	case AuthModeJWKS:
		if cfg.Auth.IssuerURL == "" || cfg.Auth.Audience == "" {
			problems = append(problems, "auth.issuer_url and auth.audience are required in jwks mode")
		}
	case AuthModeHMAC:
		if len(cfg.Auth.JWTSecret) < minJWTSecretLength {
			problems = append(problems,
				fmt.Sprintf("auth.jwt_secret must be at least %d characters in hmac mode", minJWTSecretLength))
		}
	}

	switch cfg.LLM.Provider {
	case ProviderOpenAI:
		if cfg.LLM.OpenAIAPIKey == "" {
			problems = append(problems, "llm.openai_api_key is required for the openai provider")
		}
	case ProviderGemini:
		if cfg.LLM.GeminiAPIKey == "" {
			problems = append(problems, "llm.gemini_api_key is required for the gemini provider")
		}
	}

	if cfg.Billing.Enabled() && cfg.Billing.PriceID == "" {
		problems = append(problems, "billing.price_id is required when billing is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}
