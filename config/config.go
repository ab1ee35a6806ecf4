package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Password hashing schemes supported by the password policy.
const (
	PasswordSchemeBcrypt = "bcrypt"
	PasswordSchemePBKDF2 = "pbkdf2"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided
// via the config file or the environment.
type AppConfig struct {
	AppPort     string
	GinMode     string
	GinPath     string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Redis for the session store; leave RedisHost empty to fall back to the
	// in-memory store (single-instance only).
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// CORS
	AllowedOrigins []string
	// Rate limiting on auth endpoints
	RateLimitPerMinute int
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Sessions
	SessionTTLHours int
	// Uploads
	UploadDir         string
	AllowedUploadExts []string
	// Password policy
	PasswordMinLength int
	PasswordScheme    string
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during
// boot. Precedence: config/config.json -> defaults -> environment overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

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

// Set replaces the cached configuration. Intended for tests.
func Set(c AppConfig) {
	cfg = c
	loaded = true
}

// loadJSONConfig reads a flat JSON object keyed by the environment variable
// names into out if present. Returns an error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}
	for key, val := range raw {
		assign(out, key, toString(val))
	}
	return nil
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/access.log"
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
		c.DBName = "campusboard"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 30
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/app.log"
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
	if c.SessionTTLHours == 0 {
		c.SessionTTLHours = 72
	}
	if c.UploadDir == "" {
		c.UploadDir = filepath.Join("static", "uploads")
	}
	if len(c.AllowedUploadExts) == 0 {
		c.AllowedUploadExts = []string{"png", "jpg", "jpeg", "gif", "pdf", "docx", "ppt", "pptx"}
	}
	if c.PasswordMinLength == 0 {
		c.PasswordMinLength = 6
	}
	if c.PasswordScheme == "" {
		c.PasswordScheme = PasswordSchemeBcrypt
	}
}

func applyEnvOverrides(c *AppConfig) {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			assign(c, key, val)
		}
	}
}

var envKeys = []string{
	"APP_PORT", "GIN_MODE", "GIN_PATH",
	"DATABASE_URI", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"REDIS_HOST", "REDIS_PORT", "REDIS_DB", "REDIS_PASSWORD",
	"ALLOWED_ORIGINS", "RATE_LIMIT_PER_MINUTE",
	"LOG_LEVEL", "LOG_PATH", "LOG_MAX_SIZE_MB", "LOG_MAX_BACKUPS", "LOG_MAX_AGE_DAYS", "LOG_COMPRESS",
	"SESSION_TTL_HOURS",
	"UPLOAD_DIR", "ALLOWED_UPLOAD_EXTS",
	"PASSWORD_MIN_LENGTH", "PASSWORD_SCHEME",
}

// assign maps one configuration key onto its AppConfig field.
func assign(c *AppConfig, key, val string) {
	switch key {
	case "APP_PORT":
		c.AppPort = val
	case "GIN_MODE":
		c.GinMode = val
	case "GIN_PATH":
		c.GinPath = val
	case "DATABASE_URI":
		c.DatabaseURI = val
	case "DB_HOST":
		c.DBHost = val
	case "DB_PORT":
		c.DBPort = val
	case "DB_USER":
		c.DBUser = val
	case "DB_PASSWORD":
		c.DBPassword = val
	case "DB_NAME":
		c.DBName = val
	case "REDIS_HOST":
		c.RedisHost = val
	case "REDIS_PORT":
		c.RedisPort = parseInt(val, c.RedisPort)
	case "REDIS_DB":
		c.RedisDB = parseInt(val, c.RedisDB)
	case "REDIS_PASSWORD":
		c.RedisPassword = val
	case "ALLOWED_ORIGINS":
		c.AllowedOrigins = splitAndTrim(val)
	case "RATE_LIMIT_PER_MINUTE":
		c.RateLimitPerMinute = parseInt(val, c.RateLimitPerMinute)
	case "LOG_LEVEL":
		c.LogLevel = val
	case "LOG_PATH":
		c.LogPath = val
	case "LOG_MAX_SIZE_MB":
		c.LogMaxSizeMB = parseInt(val, c.LogMaxSizeMB)
	case "LOG_MAX_BACKUPS":
		c.LogMaxBackups = parseInt(val, c.LogMaxBackups)
	case "LOG_MAX_AGE_DAYS":
		c.LogMaxAgeDays = parseInt(val, c.LogMaxAgeDays)
	case "LOG_COMPRESS":
		c.LogCompress = strings.EqualFold(val, "true") || val == "1"
	case "SESSION_TTL_HOURS":
		c.SessionTTLHours = parseInt(val, c.SessionTTLHours)
	case "UPLOAD_DIR":
		c.UploadDir = val
	case "ALLOWED_UPLOAD_EXTS":
		c.AllowedUploadExts = splitAndTrim(val)
	case "PASSWORD_MIN_LENGTH":
		c.PasswordMinLength = parseInt(val, c.PasswordMinLength)
	case "PASSWORD_SCHEME":
		c.PasswordScheme = strings.ToLower(val)
	}
}

func parseInt(val string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return fallback
	}
	return n
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, toString(e))
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}
