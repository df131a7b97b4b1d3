package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/BruksfildServices01/barbersaas/internal/infra/objectstore"
	"github.com/BruksfildServices01/barbersaas/internal/notify"
	"github.com/BruksfildServices01/barbersaas/internal/timezone"
)

const (
	BackendFile  = "file"
	BackendBolt  = "bolt"
	BackendRedis = "redis"
)

type Config struct {
	ServerPort string
	JWTSecret  string
	Timezone   string

	// vazio = qualquer origem
	CORSOrigins []string
	// vazio = rotas administrativas abertas
	AdminToken string

	// -------- Persistence --------
	StoreBackend  string
	DBPath        string
	BoltPath      string
	RedisURL      string
	RemoteTimeout time.Duration

	S3 objectstore.Config

	// auditoria opcional em postgres
	DBUrl string

	// -------- Automation --------
	AutomationInterval time.Duration
	SendTimeout        time.Duration
	DefaultCountry     string
	WhatsApp           notify.Config
}

// Load lê o .env (quando existe) e depois o ambiente.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env ignored: %v", err)
	}

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		JWTSecret:  getEnv("JWT_SECRET", "changeme"),
		Timezone:   getEnv("TIMEZONE", timezone.DefaultTimezone),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "")),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),

		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", BackendFile)),
		DBPath:        getEnv("DB_PATH", "data/db.json"),
		BoltPath:      getEnv("BOLT_PATH", "data/barbersaas.bolt"),
		RedisURL:      getEnv("REDIS_URL", ""),
		RemoteTimeout: getMillis("REMOTE_TIMEOUT_MS", 5000),

		S3: objectstore.Config{
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			PublicURL: getEnv("S3_PUBLIC_URL", ""),
		},

		DBUrl: getEnv("DATABASE_URL", ""),

		AutomationInterval: getMillis("AUTOMATION_INTERVAL_MS", 60000),
		SendTimeout:        getMillis("SEND_TIMEOUT_MS", 7000),
		DefaultCountry:     getEnv("WHATSAPP_DEFAULT_COUNTRY", "55"),
		WhatsApp: notify.Config{
			Provider:   strings.ToLower(getEnv("WHATSAPP_PROVIDER", notify.ProviderLog)),
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			From:       getEnv("TWILIO_WHATSAPP_FROM", ""),
		},
	}

	if !timezone.IsValid(cfg.Timezone) {
		log.Printf("[config] invalid TIMEZONE %q, using %s", cfg.Timezone, timezone.DefaultTimezone)
		cfg.Timezone = timezone.DefaultTimezone
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getMillis: valores inválidos ou <= 0 usam o padrão
func getMillis(key string, def int) time.Duration {
	ms := def
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n > 0 {
			ms = n
		} else {
			log.Printf("[config] invalid %s=%q, using %d", key, v, def)
		}
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}
