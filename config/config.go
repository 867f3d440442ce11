package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"gostockflow/internal/scoring"
)

// Config armazena todas as configurações do GoStockFlow.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Banco de Dados (PostgreSQL)
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis); RedisAddr vazio desliga cache, pub/sub e limitador distribuído.
	RedisAddr    string
	CacheTimeout time.Duration

	// Segurança (JWT)
	JWTSecretKey string
	TokenExpiry  time.Duration

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
	RateLimitBackend     string // "redis" ou "memory"

	// Regras de negócio
	SupplierLeadTimes  map[int64]int
	RequestMaxQuantity int
	FrequencyWindow    time.Duration
	LegacyScoring      bool

	// Notificações
	NotifyChannel   string
	NotifyQueueSize int
}

var defaults = map[string]interface{}{
	"PORT":                    "8080",
	"ENV":                     "development",
	"LOG_LEVEL":               "info",
	"DB_TIMEOUT_SEC":          5,
	"REDIS_ADDR":              "localhost:6379",
	"CACHE_TIMEOUT_SEC":       10,
	"JWT_EXPIRY_MIN":          60,
	"RATE_LIMIT_MAX_REQUESTS": 100,
	"RATE_LIMIT_PERIOD_MIN":   1,
	"RATE_LIMIT_BACKEND":      "redis",
	"SUPPLIER_LEAD_TIMES":     "",
	"REQUEST_MAX_QUANTITY":    0,
	"FREQUENCY_WINDOW_DAYS":   30,
	"LEGACY_SCORING":          false,
	"NOTIFY_CHANNEL":          "stock_requests.events",
	"NOTIFY_QUEUE_SIZE":       256,
}

var required = []string{"DATABASE_URL", "JWT_SECRET_KEY"}

// Load lê o .env (se existir) e as variáveis de ambiente.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range required {
		_ = v.BindEnv(key)
	}
	v.AutomaticEnv()
	return v
}

// FromViper monta a Config a partir de uma instância já carregada.
func FromViper(v *viper.Viper) (*Config, error) {
	var missing []string
	for _, key := range required {
		if strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("variáveis de ambiente obrigatórias ausentes: %s", strings.Join(missing, ", "))
	}

	backend := strings.ToLower(v.GetString("RATE_LIMIT_BACKEND"))
	if backend != "redis" && backend != "memory" {
		return nil, fmt.Errorf("RATE_LIMIT_BACKEND inválido: %q (use redis ou memory)", backend)
	}

	leadTimes, err := scoring.ParseLeadTimes(v.GetString("SUPPLIER_LEAD_TIMES"))
	if err != nil {
		return nil, fmt.Errorf("SUPPLIER_LEAD_TIMES inválido: %w", err)
	}

	maxQty := v.GetInt("REQUEST_MAX_QUANTITY")
	if maxQty < 0 {
		return nil, errors.New("REQUEST_MAX_QUANTITY não pode ser negativo")
	}

	return &Config{
		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),

		DatabaseURL: v.GetString("DATABASE_URL"),
		DBTimeout:   time.Duration(v.GetInt("DB_TIMEOUT_SEC")) * time.Second,

		RedisAddr:    v.GetString("REDIS_ADDR"),
		CacheTimeout: time.Duration(v.GetInt("CACHE_TIMEOUT_SEC")) * time.Second,

		JWTSecretKey: v.GetString("JWT_SECRET_KEY"),
		TokenExpiry:  time.Duration(v.GetInt("JWT_EXPIRY_MIN")) * time.Minute,

		RateLimitMaxRequests: v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
		RateLimitPeriod:      time.Duration(v.GetInt("RATE_LIMIT_PERIOD_MIN")) * time.Minute,
		RateLimitBackend:     backend,

		SupplierLeadTimes:  leadTimes,
		RequestMaxQuantity: maxQty,
		FrequencyWindow:    time.Duration(v.GetInt("FREQUENCY_WINDOW_DAYS")) * 24 * time.Hour,
		LegacyScoring:      v.GetBool("LEGACY_SCORING"),

		NotifyChannel:   v.GetString("NOTIFY_CHANNEL"),
		NotifyQueueSize: v.GetInt("NOTIFY_QUEUE_SIZE"),
	}, nil
}

// LoadConfig carrega as configurações e encerra o processo se estiverem inválidas.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("❌ Erro de Configuração: %v", err)
	}
	return cfg
}

// DatabaseURLFromEnv lê apenas DATABASE_URL (usado pelo cmd/migrate, que não precisa do JWT).
func DatabaseURLFromEnv() (string, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}
	v := newViper()
	url := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if url == "" {
		return "", errors.New("variável de ambiente obrigatória ausente: DATABASE_URL")
	}
	return url, nil
}
