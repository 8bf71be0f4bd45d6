package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const VERSION = "1.4"

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Security    SecurityConfig
	Tracing     TracingConfig
	Mail        MailConfig
	Editor      EditorConfig
	Environment string
	APIEndpoint string
	LogLevel    string
	Version     string
}

type ServerConfig struct {
	Port int
	Host string
	SSL  SSLConfig
}

type SSLConfig struct {
	Enabled  bool
	CertFile string
	KeyFile  string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type SecurityConfig struct {
	// JWTSecret signs and verifies HS256 bearer tokens
	JWTSecret []byte
}

type TracingConfig struct {
	Enabled             bool
	ServiceName         string
	SamplingProbability float64

	// "jaeger", "zipkin", "stackdriver", "datadog", "xray" or "none"
	TraceExporter string

	JaegerEndpoint       string
	ZipkinEndpoint       string
	StackdriverProjectID string
	DatadogAgentAddress  string
	DatadogAPIKey        string
	XRayRegion           string
	AgentEndpoint        string

	// "prometheus", "stackdriver", "datadog", "none" or a comma-separated list
	MetricsExporter string
	PrometheusPort  int
}

// Mail providers
const (
	MailProviderSMTP    = "smtp"
	MailProviderSES     = "ses"
	MailProviderConsole = "console"
)

type MailConfig struct {
	Provider  string
	FromEmail string
	FromName  string
	SMTP      SMTPConfig
	SES       SESConfig
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	TLSPolicy string
}

type SESConfig struct {
	Region           string
	AccessKey        string
	SecretKey        string
	ConfigurationSet string
}

type EditorConfig struct {
	// SessionTTL is the idle time after which an editor session is dropped
	SessionTTL     time.Duration
	RenderCacheTTL time.Duration
	// OpenTrackerURL enables the open tracking pixel when set
	OpenTrackerURL string
	// UnsubscribeURL may contain {{ log_id }} and {{ contact.email }}
	UnsubscribeURL  string
	SendConcurrency int
}

// LoadOptions contains options for loading configuration
type LoadOptions struct {
	EnvFile string // Optional environment file to load (e.g., ".env", ".env.test")
}

// Load reads the environment and an optional .env file in the working directory
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "emailbuilder")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("VERSION", VERSION)

	v.SetDefault("MAIL_PROVIDER", MailProviderConsole)
	v.SetDefault("MAIL_FROM_NAME", "Email Builder")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_TLS_POLICY", "opportunistic")
	v.SetDefault("SES_REGION", "us-east-1")

	v.SetDefault("EDITOR_SESSION_TTL", "30m")
	v.SetDefault("EDITOR_RENDER_CACHE_TTL", "10m")
	v.SetDefault("EDITOR_SEND_CONCURRENCY", 4)

	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_SERVICE_NAME", "emailbuilder-api")
	v.SetDefault("TRACING_SAMPLING_PROBABILITY", 0.1)
	v.SetDefault("TRACING_TRACE_EXPORTER", "none")
	v.SetDefault("TRACING_JAEGER_ENDPOINT", "http://localhost:14268/api/traces")
	v.SetDefault("TRACING_ZIPKIN_ENDPOINT", "http://localhost:9411/api/v2/spans")
	v.SetDefault("TRACING_STACKDRIVER_PROJECT_ID", "")
	v.SetDefault("TRACING_DATADOG_AGENT_ADDRESS", "localhost:8126")
	v.SetDefault("TRACING_DATADOG_API_KEY", "")
	v.SetDefault("TRACING_XRAY_REGION", "us-west-2")
	v.SetDefault("TRACING_AGENT_ENDPOINT", "localhost:8126")
	v.SetDefault("TRACING_METRICS_EXPORTER", "none")
	v.SetDefault("TRACING_PROMETHEUS_PORT", 9464)

	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}
		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			// A missing file is fine, a malformed one is not
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	jwtSecret := v.GetString("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	config := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
			SSL: SSLConfig{
				Enabled:  v.GetBool("SSL_ENABLED"),
				CertFile: v.GetString("SSL_CERT_FILE"),
				KeyFile:  v.GetString("SSL_KEY_FILE"),
			},
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			DBName:       v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Security: SecurityConfig{
			JWTSecret: []byte(jwtSecret),
		},
		Mail: MailConfig{
			Provider:  strings.ToLower(v.GetString("MAIL_PROVIDER")),
			FromEmail: v.GetString("MAIL_FROM_EMAIL"),
			FromName:  v.GetString("MAIL_FROM_NAME"),
			SMTP: SMTPConfig{
				Host:      v.GetString("SMTP_HOST"),
				Port:      v.GetInt("SMTP_PORT"),
				Username:  v.GetString("SMTP_USERNAME"),
				Password:  v.GetString("SMTP_PASSWORD"),
				TLSPolicy: v.GetString("SMTP_TLS_POLICY"),
			},
			SES: SESConfig{
				Region:           v.GetString("SES_REGION"),
				AccessKey:        v.GetString("SES_ACCESS_KEY"),
				SecretKey:        v.GetString("SES_SECRET_KEY"),
				ConfigurationSet: v.GetString("SES_CONFIGURATION_SET"),
			},
		},
		Editor: EditorConfig{
			SessionTTL:      v.GetDuration("EDITOR_SESSION_TTL"),
			RenderCacheTTL:  v.GetDuration("EDITOR_RENDER_CACHE_TTL"),
			OpenTrackerURL:  v.GetString("EDITOR_OPEN_TRACKER_URL"),
			UnsubscribeURL:  v.GetString("EDITOR_UNSUBSCRIBE_URL"),
			SendConcurrency: v.GetInt("EDITOR_SEND_CONCURRENCY"),
		},
		Tracing: TracingConfig{
			Enabled:             v.GetBool("TRACING_ENABLED"),
			ServiceName:         v.GetString("TRACING_SERVICE_NAME"),
			SamplingProbability: v.GetFloat64("TRACING_SAMPLING_PROBABILITY"),

			TraceExporter:        v.GetString("TRACING_TRACE_EXPORTER"),
			JaegerEndpoint:       v.GetString("TRACING_JAEGER_ENDPOINT"),
			ZipkinEndpoint:       v.GetString("TRACING_ZIPKIN_ENDPOINT"),
			StackdriverProjectID: v.GetString("TRACING_STACKDRIVER_PROJECT_ID"),
			DatadogAgentAddress:  v.GetString("TRACING_DATADOG_AGENT_ADDRESS"),
			DatadogAPIKey:        v.GetString("TRACING_DATADOG_API_KEY"),
			XRayRegion:           v.GetString("TRACING_XRAY_REGION"),
			AgentEndpoint:        v.GetString("TRACING_AGENT_ENDPOINT"),

			MetricsExporter: v.GetString("TRACING_METRICS_EXPORTER"),
			PrometheusPort:  v.GetInt("TRACING_PROMETHEUS_PORT"),
		},
		Environment: v.GetString("ENVIRONMENT"),
		APIEndpoint: v.GetString("API_ENDPOINT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Version:     v.GetString("VERSION"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.Mail.Provider {
	case MailProviderConsole:
	case MailProviderSMTP:
		if c.Mail.SMTP.Host == "" {
			return fmt.Errorf("SMTP_HOST is required when MAIL_PROVIDER is smtp")
		}
	case MailProviderSES:
		if c.Mail.SES.AccessKey == "" || c.Mail.SES.SecretKey == "" {
			return fmt.Errorf("SES_ACCESS_KEY and SES_SECRET_KEY are required when MAIL_PROVIDER is ses")
		}
	default:
		return fmt.Errorf("unknown MAIL_PROVIDER %q", c.Mail.Provider)
	}
	if c.Mail.Provider != MailProviderConsole && c.Mail.FromEmail == "" {
		return fmt.Errorf("MAIL_FROM_EMAIL is required when MAIL_PROVIDER is %s", c.Mail.Provider)
	}
	if c.Editor.SendConcurrency < 1 {
		c.Editor.SendConcurrency = 1
	}
	if c.Editor.SessionTTL <= 0 {
		return fmt.Errorf("EDITOR_SESSION_TTL must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
