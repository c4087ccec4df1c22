package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Gemini   GeminiConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// StorageConfig holds object-store settings. Credentials are optional at
// startup; absence is surfaced per-request as a storage-not-configured error.
type StorageConfig struct {
	Bucket          string
	CredentialsFile string
	Folder          string
}

// GeminiConfig holds generation-API settings. Model overrides the first
// candidate tried during analysis.
type GeminiConfig struct {
	APIKey string
	Model  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func (c StorageConfig) Configured() bool {
	return c.Bucket != ""
}

func (c ServerConfig) Production() bool {
	return c.Env == "production"
}

// Load reads configuration from the environment. Required settings missing
// means the process must not start.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 5000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_EXPIRY_HOURS", 168)
	v.SetDefault("STORAGE_FOLDER", "healthmate/medical-reports")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetInt("PORT"),
			Env:  v.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Expiry: time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		Storage: StorageConfig{
			Bucket:          v.GetString("GCS_BUCKET"),
			CredentialsFile: v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
			Folder:          v.GetString("STORAGE_FOLDER"),
		},
		Gemini: GeminiConfig{
			APIKey: v.GetString("GEMINI_API_KEY"),
			Model:  v.GetString("GEMINI_MODEL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate fails fast on missing secrets instead of defaulting them.
func (c *Config) validate() error {
	var missing []string
	if c.JWT.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Database.User == "" {
		missing = append(missing, "DB_USER")
	}
	if c.Database.Name == "" {
		missing = append(missing, "DB_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
