package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Store   StoreConfig
	S3      S3Config
	Log     LogConfig
	Parser  ParserConfig
	CORS    CORSConfig
	Invoice InvoiceConfig
	Notify  NotifyConfig
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "postgres" or "memory"
}

// InvoiceConfig holds invoice workflow settings.
type InvoiceConfig struct {
	// DeleteSettleDelay is how long a delete waits before verifying the
	// document is gone.
	DeleteSettleDelay time.Duration `mapstructure:"delete_settle_delay"`
	BatchConcurrency  int           `mapstructure:"batch_concurrency"`
	ProcessTimeout    time.Duration `mapstructure:"process_timeout"`
}

// NotifyConfig holds duplicate-invoice notification settings.
type NotifyConfig struct {
	Provider    string   `mapstructure:"provider"`
	Region      string   `mapstructure:"region"`
	FromAddress string   `mapstructure:"from_address"`
	FromName    string   `mapstructure:"from_name"`
	Recipients  []string `mapstructure:"recipients"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ParserProviderConfig holds settings for a single LLM provider.
type ParserProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ParserConfig holds LLM settings with multi-provider fallback.
type ParserConfig struct {
	// Legacy flat fields (backwards-compatible)
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	Primary   ParserProviderConfig `mapstructure:"primary"`
	Secondary ParserProviderConfig `mapstructure:"secondary"`
	Tertiary  ParserProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary provider config, falling back to legacy flat fields.
func (p *ParserConfig) PrimaryConfig() *ParserProviderConfig {
	if p.Primary.Provider != "" {
		return &p.Primary
	}
	return &ParserProviderConfig{
		Provider:     p.Provider,
		APIKey:       p.APIKey,
		BaseURL:      p.BaseURL,
		DefaultModel: p.DefaultModel,
		MaxRetries:   p.MaxRetries,
		TimeoutSecs:  p.TimeoutSecs,
	}
}

// ProviderChain returns the configured providers in fallback order.
func (p *ParserConfig) ProviderChain() []*ParserProviderConfig {
	chain := []*ParserProviderConfig{p.PrimaryConfig()}
	if p.Secondary.Provider != "" {
		chain = append(chain, &p.Secondary)
	}
	if p.Tertiary.Provider != "" {
		chain = append(chain, &p.Tertiary)
	}
	return chain
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds settings for archiving raw invoice text to S3.
type S3Config struct {
	ArchiveEnabled bool   `mapstructure:"archive_enabled"`
	ArchivePrefix  string `mapstructure:"archive_prefix"`
	Region         string `mapstructure:"region"`
	Bucket         string `mapstructure:"bucket"`
	Endpoint       string `mapstructure:"endpoint"`
	AccessKey      string `mapstructure:"access_key"`
	SecretKey      string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the INVOICEFLOW_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOICEFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "0s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "invoiceflow")
	v.SetDefault("db.password", "invoiceflow_secret")
	v.SetDefault("db.name", "invoiceflow_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	v.SetDefault("store.driver", "postgres")

	// S3 defaults
	v.SetDefault("s3.archive_enabled", false)
	v.SetDefault("s3.archive_prefix", "invoice-sources")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "invoiceflow-sources")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	v.SetDefault("invoice.delete_settle_delay", "500ms")
	v.SetDefault("invoice.batch_concurrency", 4)
	v.SetDefault("invoice.process_timeout", "5m")

	// Notification defaults
	v.SetDefault("notify.provider", "noop")
	v.SetDefault("notify.region", "us-east-1")
	v.SetDefault("notify.from_address", "noreply@invoiceflow.local")
	v.SetDefault("notify.from_name", "Invoiceflow")
	v.SetDefault("notify.recipients", "")

	// Parser defaults (legacy flat)
	v.SetDefault("parser.provider", "openai")
	v.SetDefault("parser.api_key", "")
	v.SetDefault("parser.base_url", "")
	v.SetDefault("parser.default_model", "")
	v.SetDefault("parser.max_retries", 2)
	v.SetDefault("parser.timeout_secs", 120)

	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		v.SetDefault("parser."+tier+".provider", "")
		v.SetDefault("parser."+tier+".api_key", "")
		v.SetDefault("parser."+tier+".base_url", "")
		v.SetDefault("parser."+tier+".default_model", "")
		v.SetDefault("parser."+tier+".max_retries", 2)
		v.SetDefault("parser."+tier+".timeout_secs", 120)
	}

	// Bind environment variables explicitly for nested keys
	keys := []string{
		"server.port", "server.read_timeout", "server.write_timeout", "server.environment",
		"db.host", "db.port", "db.user", "db.password", "db.name", "db.sslmode", "db.max_open", "db.max_idle",
		"store.driver",
		"s3.archive_enabled", "s3.archive_prefix", "s3.region", "s3.bucket", "s3.endpoint", "s3.access_key", "s3.secret_key",
		"log.level", "log.format",
		"cors.allowed_origins",
		"invoice.delete_settle_delay", "invoice.batch_concurrency", "invoice.process_timeout",
		"notify.provider", "notify.region", "notify.from_address", "notify.from_name", "notify.recipients",
		"parser.provider", "parser.api_key", "parser.base_url", "parser.default_model", "parser.max_retries", "parser.timeout_secs",
	}
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		for _, field := range []string{"provider", "api_key", "base_url", "default_model", "max_retries", "timeout_secs"} {
			keys = append(keys, "parser."+tier+"."+field)
		}
	}
	for _, key := range keys {
		_ = v.BindEnv(key, "INVOICEFLOW_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if INVOICEFLOW_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOICEFLOW_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Store = StoreConfig{
		Driver: strings.ToLower(v.GetString("store.driver")),
	}
	cfg.S3 = S3Config{
		ArchiveEnabled: v.GetBool("s3.archive_enabled"),
		ArchivePrefix:  v.GetString("s3.archive_prefix"),
		Region:         v.GetString("s3.region"),
		Bucket:         v.GetString("s3.bucket"),
		Endpoint:       v.GetString("s3.endpoint"),
		AccessKey:      v.GetString("s3.access_key"),
		SecretKey:      v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Invoice = InvoiceConfig{
		DeleteSettleDelay: v.GetDuration("invoice.delete_settle_delay"),
		BatchConcurrency:  v.GetInt("invoice.batch_concurrency"),
		ProcessTimeout:    v.GetDuration("invoice.process_timeout"),
	}
	cfg.Notify = NotifyConfig{
		Provider:    v.GetString("notify.provider"),
		Region:      v.GetString("notify.region"),
		FromAddress: v.GetString("notify.from_address"),
		FromName:    v.GetString("notify.from_name"),
		Recipients:  splitList(v.GetString("notify.recipients")),
	}

	cfg.Parser = ParserConfig{
		Provider:     v.GetString("parser.provider"),
		APIKey:       v.GetString("parser.api_key"),
		BaseURL:      v.GetString("parser.base_url"),
		DefaultModel: v.GetString("parser.default_model"),
		MaxRetries:   v.GetInt("parser.max_retries"),
		TimeoutSecs:  v.GetInt("parser.timeout_secs"),
		Primary:      providerConfig(v, "parser.primary"),
		Secondary:    providerConfig(v, "parser.secondary"),
		Tertiary:     providerConfig(v, "parser.tertiary"),
	}

	if cfg.Store.Driver != "postgres" && cfg.Store.Driver != "memory" {
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) ParserProviderConfig {
	return ParserProviderConfig{
		Provider:     v.GetString(prefix + ".provider"),
		APIKey:       v.GetString(prefix + ".api_key"),
		BaseURL:      v.GetString(prefix + ".base_url"),
		DefaultModel: v.GetString(prefix + ".default_model"),
		MaxRetries:   v.GetInt(prefix + ".max_retries"),
		TimeoutSecs:  v.GetInt(prefix + ".timeout_secs"),
	}
}

// splitList parses a comma-separated string, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
