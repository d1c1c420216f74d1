package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig holds file and environment driven configuration values.
// Secrets such as DBPassword have no defaults and must come from the file or the environment.
type AppConfig struct {
	AppPort            string
	ShutdownTimeoutSec int
	AllowedOrigins     []string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Storage: "mysql" or "memory"
	DatabaseDriver string
	DatabaseURI    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Write-time length limits
	TitleMax      int
	AuthorNameMax int
	// Prometheus exposition
	MetricsEnabled bool
	MetricsPath    string
}

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// fileConfig mirrors the grouped layout of config.yaml / config.json.
type fileConfig struct {
	App struct {
		AppPort            string   `json:"AppPort" yaml:"AppPort"`
		ShutdownTimeoutSec int      `json:"ShutdownTimeoutSec" yaml:"ShutdownTimeoutSec"`
		AllowedOrigins     []string `json:"AllowedOrigins" yaml:"AllowedOrigins"`
	} `json:"app" yaml:"app"`
	Gin struct {
		Mode    string `json:"Mode" yaml:"Mode"`
		LogPath string `json:"LogPath" yaml:"LogPath"`
	} `json:"gin" yaml:"gin"`
	Database struct {
		Driver      string `json:"Driver" yaml:"Driver"`
		DatabaseURI string `json:"DatabaseURI" yaml:"DatabaseURI"`
		DBHost      string `json:"DBHost" yaml:"DBHost"`
		DBPort      string `json:"DBPort" yaml:"DBPort"`
		DBUser      string `json:"DBUser" yaml:"DBUser"`
		DBPassword  string `json:"DBPassword" yaml:"DBPassword"`
		DBName      string `json:"DBName" yaml:"DBName"`
	} `json:"database" yaml:"database"`
	Log struct {
		Level      string `json:"Level" yaml:"Level"`
		Path       string `json:"Path" yaml:"Path"`
		MaxSizeMB  int    `json:"MaxSizeMB" yaml:"MaxSizeMB"`
		MaxBackups int    `json:"MaxBackups" yaml:"MaxBackups"`
		MaxAgeDays int    `json:"MaxAgeDays" yaml:"MaxAgeDays"`
		Compress   bool   `json:"Compress" yaml:"Compress"`
	} `json:"log" yaml:"log"`
	Validation struct {
		TitleMax      int `json:"TitleMax" yaml:"TitleMax"`
		AuthorNameMax int `json:"AuthorNameMax" yaml:"AuthorNameMax"`
	} `json:"validation" yaml:"validation"`
	Metrics struct {
		Enabled *bool  `json:"Enabled" yaml:"Enabled"`
		Path    string `json:"Path" yaml:"Path"`
	} `json:"metrics" yaml:"metrics"`
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	c, err := load(resolvePath())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg = c
	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// load applies the precedence config file -> defaults -> environment overrides.
func load(path string) (AppConfig, error) {
	c := AppConfig{MetricsEnabled: true}
	if path != "" {
		if err := loadFile(path, &c); err != nil {
			return AppConfig{}, err
		}
	}
	applyDefaults(&c)
	applyEnvOverrides(&c)
	return c, nil
}

// resolvePath picks $CONFIG_PATH, then config/config.yaml, then config/config.json.
func resolvePath() string {
	if p := getEnv("CONFIG_PATH", ""); p != "" {
		return p
	}
	for _, name := range []string{"config.yaml", "config.json"} {
		p := filepath.Join("config", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// loadFile reads path into out. A missing file is not an error; a malformed one is.
func loadFile(path string, out *AppConfig) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &fc)
	default:
		err = json.Unmarshal(raw, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	out.AppPort = fc.App.AppPort
	out.ShutdownTimeoutSec = fc.App.ShutdownTimeoutSec
	out.AllowedOrigins = fc.App.AllowedOrigins
	out.GinMode = fc.Gin.Mode
	out.GinPath = fc.Gin.LogPath

	out.DatabaseDriver = fc.Database.Driver
	out.DatabaseURI = fc.Database.DatabaseURI
	out.DBHost = fc.Database.DBHost
	out.DBPort = fc.Database.DBPort
	out.DBUser = fc.Database.DBUser
	out.DBPassword = fc.Database.DBPassword
	out.DBName = fc.Database.DBName

	out.LogLevel = fc.Log.Level
	out.LogPath = fc.Log.Path
	out.LogMaxSizeMB = fc.Log.MaxSizeMB
	out.LogMaxBackups = fc.Log.MaxBackups
	out.LogMaxAgeDays = fc.Log.MaxAgeDays
	out.LogCompress = fc.Log.Compress

	out.TitleMax = fc.Validation.TitleMax
	out.AuthorNameMax = fc.Validation.AuthorNameMax

	if fc.Metrics.Enabled != nil {
		out.MetricsEnabled = *fc.Metrics.Enabled
	}
	out.MetricsPath = fc.Metrics.Path
	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.ShutdownTimeoutSec == 0 {
		c.ShutdownTimeoutSec = 30
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.DatabaseDriver == "" {
		c.DatabaseDriver = DriverMySQL
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "articles"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.TitleMax == 0 {
		c.TitleMax = 255
	}
	if c.AuthorNameMax == 0 {
		c.AuthorNameMax = 50
	}
	if c.MetricsPath == "" {
		c.MetricsPath = "/metrics"
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("APP_PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("SHUTDOWN_TIMEOUT_SEC", ""); v != "" {
		c.ShutdownTimeoutSec = mustParseInt(v)
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = readListEnv("CORS_ALLOWED_ORIGINS", c.AllowedOrigins)
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("DATABASE_DRIVER", ""); v != "" {
		c.DatabaseDriver = strings.ToLower(v)
	}
	if v := getEnv("DATABASE_URI", ""); v != "" {
		c.DatabaseURI = v
	}
	if v := getEnv("DB_HOST", ""); v != "" {
		c.DBHost = v
	}
	if v := getEnv("DB_PORT", ""); v != "" {
		c.DBPort = v
	}
	if v := getEnv("DB_USER", ""); v != "" {
		c.DBUser = v
	}
	if v := getEnv("DB_PASSWORD", ""); v != "" {
		c.DBPassword = v
	}
	if v := getEnv("DB_NAME", ""); v != "" {
		c.DBName = v
	}
	// Logging env overrides
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "true"
	}
	if v := getEnv("TITLE_MAX", ""); v != "" {
		c.TitleMax = mustParseInt(v)
	}
	if v := getEnv("AUTHOR_NAME_MAX", ""); v != "" {
		c.AuthorNameMax = mustParseInt(v)
	}
	if v := getEnv("METRICS_ENABLED", ""); v != "" {
		c.MetricsEnabled = v == "true"
	}
	if v := getEnv("METRICS_PATH", ""); v != "" {
		c.MetricsPath = v
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func readListEnv(key string, defaults []string) []string {
	if raw := os.Getenv(key); raw != "" {
		return splitAndTrim(raw)
	}
	return defaults
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
