package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// CMS connection
	CMSURL     string
	CMSAPIKey  string
	CMSTimeout time.Duration

	// Site
	SiteTitle    string
	PageSize     int
	RecentPosts  int
	SanitizeHTML bool

	// Latency window for /api/stats/cms
	StatsWindow time.Duration

	// Import
	ImportWorkers    int
	ImportMaxRetries int
	MaxImportBytes   int64

	// PDF
	PDFFallbackPdftotext bool

	// MCP
	MCPAddr string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		CMSURL:     envOr("CMS_URL", "http://localhost:3000/api"),
		CMSAPIKey:  os.Getenv("CMS_API_KEY"),
		CMSTimeout: envDuration("CMS_TIMEOUT", 10*time.Second),

		SiteTitle:    envOr("SITE_TITLE", "TechBlog Pro"),
		PageSize:     envInt("PAGE_SIZE", 10),
		RecentPosts:  envInt("RECENT_POSTS", 3),
		SanitizeHTML: envBool("SANITIZE_HTML", true),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		ImportWorkers:    envInt("IMPORT_WORKERS", 4),
		ImportMaxRetries: envInt("IMPORT_MAX_RETRIES", 3),
		MaxImportBytes:   envInt64("MAX_IMPORT_BYTES", 52428800), // 50MB

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		MCPAddr: os.Getenv("MCP_ADDR"),
	}

	if cfg.CMSTimeout <= 0 {
		cfg.CMSTimeout = 10 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.RecentPosts <= 0 {
		cfg.RecentPosts = 3
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}
	if cfg.ImportWorkers <= 0 {
		cfg.ImportWorkers = 4
	}
	if cfg.ImportMaxRetries <= 0 {
		cfg.ImportMaxRetries = 3
	}
	if cfg.MaxImportBytes <= 0 {
		cfg.MaxImportBytes = 52428800
	}

	return cfg
}

func (c Config) Validate() error {
	if c.CMSURL == "" {
		return fmt.Errorf("CMS_URL is required")
	}
	u, err := url.Parse(c.CMSURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("CMS_URL %q is not an absolute URL", c.CMSURL)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT %q is not a number", c.Port)
	}
	return nil
}

// ValidateWrite checks the settings needed to create posts.
func (c Config) ValidateWrite() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.CMSAPIKey == "" {
		return fmt.Errorf("CMS_API_KEY is required to create posts")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
