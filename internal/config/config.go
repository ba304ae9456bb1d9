package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Porta            string
	LogLevel         string
	LogFormat        string
	WebhookAlertaURL string
	RazaoSocial      string
	RetencaoFilaDias int
	PollerIntervalo  time.Duration
	PollerHabilitado bool
	DBHost           string
	DBPorta          uint
	DBNome           string
	DBUsuario        string
	DBSenha          string
	DBSSLModeDisable bool
}

// Load lê as variáveis de ambiente (com suporte a .env) e aplica defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Porta:            getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "INFO"),
		LogFormat:        getEnv("LOG_FORMAT", "TEXT"),
		WebhookAlertaURL: getEnv("WEBHOOK_ALERTA_URL", ""),
		RazaoSocial:      getEnv("RAZAO_SOCIAL_FORNECEDOR", ""),
		RetencaoFilaDias: getEnvInt("FILA_RETENCAO_DIAS", 7),
		PollerIntervalo:  time.Duration(getEnvInt("POLLER_INTERVALO_SEG", 60)) * time.Second,
		PollerHabilitado: getEnv("POLLER_HABILITADO", "true") == "true",
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPorta:          uint(getEnvInt("DB_PORT", 5432)),
		DBNome:           getEnv("DB_NAME", "agendamento"),
		DBUsuario:        getEnv("DB_USER", "postgres"),
		DBSenha:          getEnv("DB_PASSWORD", "postgres"),
		DBSSLModeDisable: getEnv("DB_SSL_MODE_DISABLE", "true") == "true",
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
