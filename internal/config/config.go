package config

// Store backend identifiers.
const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendMemory    = "memory"
)

// Identity verification modes.
const (
	AuthModeJWKS = "jwks"
	AuthModeHMAC = "hmac"
)

// Completion providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Store     StoreConfig     `mapstructure:"store"      validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Firestore FirestoreConfig `mapstructure:"firestore"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm"        validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
	Billing   BillingConfig   `mapstructure:"billing"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int      `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string   `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	AllowedOrigins         []string `mapstructure:"allowed_origins"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// StoreConfig selects the backend behind the collection store.
type StoreConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=firestore postgres memory"`
}

// DatabaseConfig contains the Postgres settings used by the postgres backend.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"omitempty,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// FirestoreConfig contains the settings used by the firestore backend.
// When FIRESTORE_EMULATOR_HOST is set the client talks to the emulator and
// CredentialsFile is ignored.
type FirestoreConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// AuthConfig contains identity verification settings.
type AuthConfig struct {
	Mode                 string `mapstructure:"mode"                   validate:"required,oneof=jwks hmac"`
	IssuerURL            string `mapstructure:"issuer_url"             validate:"omitempty,url"`
	Audience             string `mapstructure:"audience"`
	JWKSCacheMinutes     int    `mapstructure:"jwks_cache_minutes"     validate:"gte=0"`
	JWTSecret            string `mapstructure:"jwt_secret"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// LLMConfig contains the completion provider and the generation contract.
type LLMConfig struct {
	Provider           string `mapstructure:"provider"             validate:"required,oneof=openai gemini"`
	Model              string `mapstructure:"model"                validate:"required"`
	CardCount          int    `mapstructure:"card_count"           validate:"gt=0,lte=50"`
	MaxInputChars      int    `mapstructure:"max_input_chars"      validate:"gt=0"`
	TimeoutSeconds     int    `mapstructure:"timeout_seconds"      validate:"gt=0"`
	PromptTemplatePath string `mapstructure:"prompt_template_path" validate:"omitempty,file"`
	OpenAIAPIKey       string `mapstructure:"openai_api_key"`
	OpenAIBaseURL      string `mapstructure:"openai_base_url"      validate:"omitempty,url"`
	GeminiAPIKey       string `mapstructure:"gemini_api_key"`
}

// RateLimitConfig bounds how often one user may call the completion service.
type RateLimitConfig struct {
	GenerationsPerMinute float64 `mapstructure:"generations_per_minute" validate:"gt=0"`
	Burst                int     `mapstructure:"burst"                  validate:"gt=0"`
}

// BillingConfig contains the hosted checkout settings. Billing routes are
// disabled when StripeSecretKey is empty.
type BillingConfig struct {
	StripeSecretKey string `mapstructure:"stripe_secret_key"`
	PriceID         string `mapstructure:"price_id"`
}

// Enabled reports whether checkout routes should be mounted.
func (b BillingConfig) Enabled() bool {
	return b.StripeSecretKey != ""
}
