package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Mail     MailConfig     `mapstructure:"mail" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// An empty URL runs the server against the in-memory user store.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`

	// MaxConcurrentSessions bounds the refresh sessions kept per user.
	// It is read once when the auth service is constructed.
	MaxConcurrentSessions int    `mapstructure:"max_concurrent_sessions" validate:"required,gt=0"`
	PasswordAlgorithm     string `mapstructure:"password_algorithm" validate:"required,oneof=bcrypt argon2id"`
	BcryptCost            int    `mapstructure:"bcrypt_cost" validate:"omitempty,gte=4,lte=31"`
}

// RedisConfig points at the verification-code store.
// An empty Addr keeps codes in process memory.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// MailConfig controls how verification codes are generated and delivered.
type MailConfig struct {
	Driver         string `mapstructure:"driver" validate:"required,oneof=smtp log"`
	SMTPHost       string `mapstructure:"smtp_host" validate:"required_if=Driver smtp"`
	SMTPPort       int    `mapstructure:"smtp_port" validate:"omitempty,gt=0,lt=65536"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	From           string `mapstructure:"from" validate:"required_if=Driver smtp"`
	CodeLength     int    `mapstructure:"code_length" validate:"gte=4,lte=10"`
	CodeTTLMinutes int    `mapstructure:"code_ttl_minutes" validate:"gt=0"`
}
