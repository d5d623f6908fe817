// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Режимы доставки кода подтверждения.
const (
	NotificationModeSMTP   = "smtp"
	NotificationModeResend = "resend"
	NotificationModeQueue  = "queue"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Auth                    `yaml:"auth"`
	Notification            `yaml:"notification"`
	SMTP                    `yaml:"smtp"`
	Resend                  `yaml:"resend"`
	RabbitMQ                `yaml:"rabbitmq"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP  string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP  time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"60s"`
	SecureCookie bool          `yaml:"secure_cookie" env:"HTTP_SECURE_COOKIE" env-default:"false"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кеш списков задач.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
	TaskListTTL  time.Duration `yaml:"task_list_ttl" env-default:"10m"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"1h"`
}

// Auth настройки подтверждения аккаунта.
type Auth struct {
	VerificationCodeTTL time.Duration `yaml:"verification_code_ttl" env-default:"10m"`
	AdminEmails         []string      `yaml:"admin_emails" env:"ADMIN_EMAILS" env-separator:","`
}

// Notification выбирает транспорт для писем с кодом.
type Notification struct {
	Mode string `yaml:"mode" env:"NOTIFICATION_MODE" env-default:"smtp"`
	From string `yaml:"from" env:"NOTIFICATION_FROM"`
}

// SMTP параметры почтового сервера.
type SMTP struct {
	SMTPHost string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser string `yaml:"user" env:"SMTP_USER"`
	SMTPPass string `yaml:"password" env:"SMTP_PASSWORD"`
}

// Resend параметры HTTP API resend.com.
type Resend struct {
	ResendAPIKey string `yaml:"api_key" env:"RESEND_API_KEY"`
}

// RabbitMQ параметры брокера для очереди писем.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// RateLimit ограничение частоты запросов к /auth.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"1"`
	Burst int     `yaml:"burst" env-default:"5"`
}

// MustLoad функция для загрузки конфига, возвращает конфиг, сгенерированный из config/config.go
func MustLoad() *Config {
	// .env необязателен
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}
	return &cfg
}

// Validate проверяет согласованность секции notification.
func (c *Config) Validate() error {
	switch c.Mode {
	case NotificationModeSMTP:
		if c.SMTPHost == "" {
			return fmt.Errorf("smtp.host is required for notification mode %q", c.Mode)
		}
	case NotificationModeResend:
		if c.ResendAPIKey == "" {
			return fmt.Errorf("resend.api_key is required for notification mode %q", c.Mode)
		}
	case NotificationModeQueue:
		if c.RabbitMQURL == "" {
			return fmt.Errorf("rabbitmq.url is required for notification mode %q", c.Mode)
		}
		// воркер доставляет письма через Resend или SMTP
		if c.ResendAPIKey == "" && c.SMTPHost == "" {
			return fmt.Errorf("smtp.host or resend.api_key is required for notification mode %q", c.Mode)
		}
	default:
		return fmt.Errorf("unknown notification mode %q", c.Mode)
	}
	if c.VerificationCodeTTL <= 0 {
		return fmt.Errorf("auth.verification_code_ttl must be positive")
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"Auth:\n"+
			"  VerificationCodeTTL: %s\n"+
			"Notification:\n"+
			"  Mode: %s\n",
		c.Env,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TokenTTL,
		c.VerificationCodeTTL,
		c.Mode,
	)
}
