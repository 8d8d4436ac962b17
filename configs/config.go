package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port          string
	Environment   string
	APIKey        string
	AdminUsername string
	AdminPassword string

	// 市場データ関連
	HistoricalCount int           // 起動時に生成する履歴件数
	StreamInterval  time.Duration // ストリーミングの生成間隔
	Timezone        string        // 表示・日付境界のタイムゾーン
	CatalogPath     string        // 煤種・地点カタログのYAML（空なら組み込み値）
	RandomSeed      int64         // 0 の場合は時刻から生成
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		APIKey:          getEnv("API_KEY", ""),
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		HistoricalCount: getEnvInt("MARKET_HISTORICAL_COUNT", 800),
		StreamInterval:  getEnvDuration("MARKET_STREAM_INTERVAL", time.Second),
		Timezone:        getEnv("MARKET_TIMEZONE", "Asia/Shanghai"),
		CatalogPath:     getEnv("MARKET_CATALOG_PATH", ""),
		RandomSeed:      int64(getEnvInt("MARKET_RANDOM_SEED", 0)),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt 整数の環境変数を読み込む（不正値はデフォルト）
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// getEnvDuration 期間の環境変数を読み込む（例: "1s", "500ms"）
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
