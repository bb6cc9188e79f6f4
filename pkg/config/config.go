package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: todas as variáveis de ambiente são lidas somente aqui
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External
	BCB BCBConfig

	// Pipeline
	Pipeline PipelineConfig

	// Clustering
	Clustering ClusteringConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// BCBConfig holds Banco Central do Brasil endpoints
type BCBConfig struct {
	SGSBaseURL   string // API de séries temporais (SGS)
	SCRPortalURL string // página de dados abertos do SCR.data
	RatePerSec   int    // limite de requisições por segundo
}

// PipelineConfig holds ETL file layout configuration
type PipelineConfig struct {
	RawSCRDir string // extratos mensais brutos (planilha_YYYYMM.csv)
	RawSGSDir string // séries SGS brutas (sgs_<codigo>_<nome>.csv)
}

// ClusteringConfig holds k-means parameters
// K e Seed são fixos por contrato: mudar invalida a comparabilidade entre execuções
type ClusteringConfig struct {
	K       int
	Seed    int64
	MaxIter int
	NInit   int
}

// Load reads configuration from environment variables
// ⭐ SSOT: somente esta função chama os.Getenv()
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8091"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "credtech"),
			User:            getEnv("DB_USER", "credtech"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// External
		BCB: BCBConfig{
			SGSBaseURL:   getEnv("BCB_SGS_BASE_URL", "https://api.bcb.gov.br/dados/serie"),
			SCRPortalURL: getEnv("BCB_SCR_PORTAL_URL", "https://www.bcb.gov.br/estabilidadefinanceira/scrdata"),
			RatePerSec:   getEnvAsInt("BCB_RATE_PER_SEC", 3),
		},

		// Pipeline
		Pipeline: PipelineConfig{
			RawSCRDir: getEnv("RAW_SCR_DIR", "raw_data/scr"),
			RawSGSDir: getEnv("RAW_SGS_DIR", "raw_data/outros"),
		},

		// Clustering
		Clustering: ClusteringConfig{
			K:       getEnvAsInt("CLUSTERING_K", 4),
			Seed:    int64(getEnvAsInt("CLUSTERING_SEED", 42)),
			MaxIter: getEnvAsInt("CLUSTERING_MAX_ITER", 300),
			NInit:   getEnvAsInt("CLUSTERING_N_INIT", 10),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Database URL is required
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Clustering.K < 2 {
		return fmt.Errorf("CLUSTERING_K must be at least 2")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
