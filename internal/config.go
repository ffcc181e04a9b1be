package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env           string              `mapstructure:"env" validate:"omitempty,oneof=development staging production test"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Mail          MailConfig          `mapstructure:"mail"`
	Interview     InterviewConfig     `mapstructure:"interview"`
	Company       CompanyConfig       `mapstructure:"company"`
	Digest        DigestConfig        `mapstructure:"digest"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	OpenAPIPath       string        `mapstructure:"openapi_path"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source" validate:"required"`
}

type SecurityConfig struct {
	AccessTokenSecret    string        `mapstructure:"access_token_secret" validate:"required,min=32"`
	RefreshTokenSecret   string        `mapstructure:"refresh_token_secret" validate:"required,min=32"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration" validate:"required"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" validate:"required"`
	BCryptCost           int           `mapstructure:"bcrypt_cost" validate:"required,min=4,max=15"`
}

type CacheConfig struct {
	Driver          string        `mapstructure:"driver" validate:"required,oneof=memory redis"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisAddr       string        `mapstructure:"redis_addr" validate:"required_if=Driver redis"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db" validate:"min=0"`
}

type StorageConfig struct {
	Driver  string `mapstructure:"driver" validate:"required,oneof=local s3 gcs"`
	BaseDir string `mapstructure:"base_dir" validate:"required_if=Driver local"`
	Bucket  string `mapstructure:"bucket"`
	Region  string `mapstructure:"region"`
	Prefix  string `mapstructure:"prefix"`
}

type MailConfig struct {
	Provider  string        `mapstructure:"provider" validate:"required,oneof=log sendgrid"`
	APIKey    string        `mapstructure:"api_key" validate:"required_if=Provider sendgrid"`
	FromEmail string        `mapstructure:"from_email" validate:"required,email"`
	FromName  string        `mapstructure:"from_name"`
	Templates MailTemplates `mapstructure:"templates"`
}

// MailTemplates holds provider template ids keyed by console template.
type MailTemplates struct {
	Decline           string `mapstructure:"decline"`
	InterviewOnline   string `mapstructure:"interview_online"`
	InterviewInPerson string `mapstructure:"interview_inperson"`
	Digest            string `mapstructure:"digest"`
}

type InterviewConfig struct {
	LinkBaseURL string `mapstructure:"link_base_url" validate:"required,url"`
	Timezone    string `mapstructure:"timezone"`
}

type CompanyConfig struct {
	Name             string `mapstructure:"name"`
	TaxID            string `mapstructure:"tax_id"`
	AgeReferenceDate string `mapstructure:"age_reference_date"`
}

type DigestConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Schedule   string   `mapstructure:"schedule" validate:"required_if=Enabled true"`
	Recipients []string `mapstructure:"recipients" validate:"required_if=Enabled true,dive,email"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json text"`
}

// LoadConfigFromEnv builds the configuration for container deployments.
func LoadConfigFromEnv() *Config {
	return &Config{
		Env: getEnv("APP_ENV", "production"),
		Server: ServerConfig{
			Port:              getEnvAsInt("PORT", 8080),
			BaseURL:           getEnv("BASE_URL", ""),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
			OpenAPIPath:       getEnv("OPENAPI_PATH", "./api/openapi.yml"),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DATABASE_URL", ""),
		},
		Security: SecurityConfig{
			AccessTokenSecret:    getEnv("ACCESS_TOKEN_SECRET", ""),
			RefreshTokenSecret:   getEnv("REFRESH_TOKEN_SECRET", ""),
			AccessTokenDuration:  getEnvAsDuration("ACCESS_TOKEN_DURATION", 15*time.Minute),
			RefreshTokenDuration: getEnvAsDuration("REFRESH_TOKEN_DURATION", 7*24*time.Hour),
			BCryptCost:           getEnvAsInt("BCRYPT_COST", 12),
		},
		Cache: CacheConfig{
			Driver:          getEnv("CACHE_DRIVER", "memory"),
			TTL:             getEnvAsDuration("CACHE_TTL", 20*time.Minute),
			CleanupInterval: getEnvAsDuration("CACHE_CLEANUP_INTERVAL", 10*time.Minute),
			RedisAddr:       getEnv("REDIS_ADDR", ""),
			RedisPassword:   getEnv("REDIS_PASSWORD", ""),
			RedisDB:         getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Driver:  getEnv("STORAGE_DRIVER", "local"),
			BaseDir: getEnv("UPLOAD_DIR", "./uploads"),
			Bucket:  getEnv("STORAGE_BUCKET", ""),
			Region:  getEnv("AWS_REGION", ""),
			Prefix:  getEnv("STORAGE_PREFIX", "candidates"),
		},
		Mail: MailConfig{
			Provider:  getEnv("MAIL_PROVIDER", "log"),
			APIKey:    getEnv("SENDGRID_API_KEY", ""),
			FromEmail: getEnv("MAIL_FROM_EMAIL", ""),
			FromName:  getEnv("MAIL_FROM_NAME", "FMX Consulting Team"),
			Templates: MailTemplates{
				Decline:           getEnv("MAIL_TEMPLATE_DECLINE", ""),
				InterviewOnline:   getEnv("MAIL_TEMPLATE_INTERVIEW_ONLINE", ""),
				InterviewInPerson: getEnv("MAIL_TEMPLATE_INTERVIEW_INPERSON", ""),
				Digest:            getEnv("MAIL_TEMPLATE_DIGEST", ""),
			},
		},
		Interview: InterviewConfig{
			LinkBaseURL: getEnv("INTERVIEW_LINK_BASE_URL", ""),
			Timezone:    getEnv("INTERVIEW_TIMEZONE", "UTC"),
		},
		Company: CompanyConfig{
			Name:             getEnv("COMPANY_NAME", "FMX Consulting Ltd"),
			TaxID:            getEnv("COMPANY_TAX_ID", ""),
			AgeReferenceDate: getEnv("AGE_REFERENCE_DATE", ""),
		},
		Digest: DigestConfig{
			Enabled:    getEnv("DIGEST_ENABLED", "false") == "true",
			Schedule:   getEnv("DIGEST_SCHEDULE", "0 0 8 * * MON"),
			Recipients: splitList(getEnv("DIGEST_RECIPIENTS", "")),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ----------------- VALIDATION -----------------

var configValidator = validator.New()

func (c *Config) Validate() error {
	var errs []string

	if err := configValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Interview.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("interview config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		for _, origin := range strings.Split(c.AllowedOrigins, ",") {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *StorageConfig) Validate() error {
	if (c.Driver == "s3" || c.Driver == "gcs") && c.Bucket == "" {
		return fmt.Errorf("bucket is required for the %s driver", c.Driver)
	}
	return nil
}

func (c *InterviewConfig) Validate() error {
	_, err := c.Location()
	return err
}

// Location resolves the timezone slot times are entered in. Empty means UTC.
func (c *InterviewConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
