package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用运行配置，全部来自环境变量（支持 .env）
type Config struct {
	Port          string
	DBDriver      string // postgres | sqlite
	DatabaseURL   string
	SessionSecret string
	SiteName      string
	SiteURL       string // used in sitemap.xml / robots.txt
	AdminEmail    string
	AdminPassword string
	PageCacheSize int
	PageCacheTTL  time.Duration
	GinMode       string
}

// Load reads .env (if any) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	cfg := &Config{
		Port:          os.Getenv("PORT"),
		DBDriver:      os.Getenv("DB_DRIVER"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SiteName:      os.Getenv("SITE_NAME"),
		SiteURL:       os.Getenv("SITE_URL"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		GinMode:       os.Getenv("GIN_MODE"),
		PageCacheSize: envInt("PAGE_CACHE_SIZE", 500),
		PageCacheTTL:  envDuration("PAGE_CACHE_TTL", 5*time.Minute),
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.DBDriver == "" {
		c.DBDriver = "postgres"
	}
	if c.DatabaseURL == "" {
		if c.DBDriver == "sqlite" {
			c.DatabaseURL = "sekolahku.db"
		} else {
			// Fallback for local dev if not set
			c.DatabaseURL = "host=localhost user=postgres password=postgres dbname=sekolahku port=5432 sslmode=disable TimeZone=Asia/Jakarta"
		}
	}
	if c.SessionSecret == "" {
		c.SessionSecret = "secret_key_change_me"
	}
	if c.SiteName == "" {
		c.SiteName = "SD Negeri Harapan"
	}
	if c.SiteURL == "" {
		c.SiteURL = "http://localhost:" + c.Port
	}
	c.SiteURL = strings.TrimRight(c.SiteURL, "/")
	if c.PageCacheSize <= 0 {
		c.PageCacheSize = 500
	}
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}
