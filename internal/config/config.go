package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config eldercare-data（HTTP API）配置
type Config struct {
	HTTP struct {
		Addr string
	}
	Database DatabaseConfig
	Redis    struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	Notify NotifyConfig
	Audit  AuditConfig
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// NotifyConfig 消息网关配置（WhatsApp/SMS 下发）
type NotifyConfig struct {
	Enabled     bool
	GatewayAddr string // 网关服务地址
	APIKey      string
	Timeout     time.Duration
}

// AuditConfig 审计日志归档配置
type AuditConfig struct {
	DrainInterval time.Duration // temp_audit_logs 轮询间隔
	BatchSize     int           // 单次搬运条数上限
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "eldercare")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "25"), 25)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	// 消息网关（默认禁用，本地开发无网关也可启动）
	cfg.Notify.Enabled = getEnv("NOTIFY_ENABLED", "false") == "true"
	cfg.Notify.GatewayAddr = getEnv("NOTIFY_GATEWAY_ADDR", "http://localhost:9090")
	cfg.Notify.APIKey = getEnv("NOTIFY_API_KEY", "")
	cfg.Notify.Timeout = parseDuration(getEnv("NOTIFY_TIMEOUT", "10s"), 10*time.Second)

	cfg.Audit.DrainInterval = parseDuration(getEnv("AUDIT_DRAIN_INTERVAL", "60s"), 60*time.Second)
	cfg.Audit.BatchSize = parseInt(getEnv("AUDIT_BATCH_SIZE", "500"), 500)

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
