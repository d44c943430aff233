// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	Rabbit                  `yaml:"rabbit"`
	HTTPServer              `yaml:"http_server"`
	Ledger                  `yaml:"ledger"`
	JWTToken                `yaml:"jwttoken"`
	Sessions                `yaml:"sessions"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"0.0.0.0:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
	SnapshotTTL  time.Duration `yaml:"snapshot_ttl" env-default:"1h"`
}

// Rabbit структура для настройки подключения к rabbitmq
type Rabbit struct {
	RabbitURL      string `yaml:"rabbit_url"`
	EventsExchange string `yaml:"events_exchange" env-default:"contest.events"`
}

// Ledger структура для настройки клиента леджер-адаптора
type Ledger struct {
	LedgerBaseURL string        `yaml:"ledger_base_url"`
	LedgerAPIKey  string        `yaml:"ledger_api_key" env:"LEDGER_API_KEY"`
	LedgerTimeout time.Duration `yaml:"ledger_timeout" env-default:"10s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Sessions структура для настройки реестра сессий покупки
type Sessions struct {
	SessionTTL       time.Duration `yaml:"session_ttl" env-default:"24h"`
	SessionRetention time.Duration `yaml:"session_retention" env-default:"1h"`
	SweepInterval    time.Duration `yaml:"sweep_interval" env-default:"1m"`
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH
func MustLoad() *Config {
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
	return &cfg
}
