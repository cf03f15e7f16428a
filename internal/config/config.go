// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек сервиса
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	RabbitMQURL             string `yaml:"rabbitmq_url" env:"RABBITMQ_URL"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	PaymentGateway          `yaml:"payment_gateway"`
	Entitlement             `yaml:"entitlement"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
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
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// PaymentGateway структура с реквизитами платёжного шлюза.
//
// KeyID/KeySecret — пара для basic-авторизации при создании заказов,
// SigningSecret — ключ HMAC для проверки подписи завершённого платежа.
// Сумма задаётся в минимальных единицах валюты (пайсы, копейки, центы).
type PaymentGateway struct {
	BaseURL       string `yaml:"base_url" env:"GATEWAY_BASE_URL"`
	KeyID         string `yaml:"key_id" env:"GATEWAY_KEY_ID"`
	KeySecret     string `yaml:"key_secret" env:"GATEWAY_KEY_SECRET"`
	SigningSecret string `yaml:"signing_secret" env:"GATEWAY_SIGNING_SECRET"`
	PriceAmount   int64  `yaml:"price_amount" env-default:"49900"`
	PriceCurrency string `yaml:"price_currency" env-default:"INR"`
}

// Entitlement структура с настройками доступа к платным функциям.
//
// TrialEnd — момент окончания глобального пробного периода в формате RFC3339.
// Пустое или некорректное значение означает, что пробный период уже истёк.
// AdminPhones — список телефонов, которым разрешён bootstrap администратора.
type Entitlement struct {
	TrialEnd    string   `yaml:"trial_end" env:"TRIAL_END"`
	AdminPhones []string `yaml:"admin_phones" env:"ADMIN_PHONES"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH, при ошибке завершает процесс
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
