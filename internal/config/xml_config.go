// Package config provides XML-based configuration with environment and flag
// overrides.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file created next to the binary on first run.
const FileName = "StudyAssist.config.xml"

// EnvPrefix prefixes every environment override, e.g. STUDYASSIST_SERVER_PORT.
const EnvPrefix = "STUDYASSIST"

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"StudyAssist"`

	Server   ServerConfig   `xml:"Server"`
	Upload   UploadConfig   `xml:"Upload"`
	Tools    ToolsConfig    `xml:"Tools"`
	Progress ProgressConfig `xml:"Progress"`
	Redis    RedisConfig    `xml:"Redis"`
	NATS     NATSConfig     `xml:"NATS"`
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port            int    `xml:"Port"`
	BindAddress     string `xml:"BindAddress"`
	EnableCORS      bool   `xml:"EnableCORS"`
	AllowOrigins    string `xml:"AllowOrigins"`
	ReadTimeout     int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout    int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout     int    `xml:"IdleTimeoutSeconds"`
	ShutdownTimeout int    `xml:"ShutdownTimeoutSeconds"`
	BodyLimit       string `xml:"BodyLimit"`
}

// UploadConfig contains the upload simulation and acceptance settings
type UploadConfig struct {
	TickIntervalMs    int     `xml:"TickIntervalMs"`
	ProcessingDelayMs int     `xml:"ProcessingDelayMs"`
	MaxIncrement      float64 `xml:"MaxIncrement"`
	Classifier        string  `xml:"Classifier"`
	Categories        string  `xml:"Categories"`
	AllowedFileTypes  string  `xml:"AllowedFileTypes"`
	MaxFileSize       string  `xml:"MaxFileSize"`
	EnforcePolicy     bool    `xml:"EnforcePolicy"`
}

// ToolsConfig contains the quiz and summary settings
type ToolsConfig struct {
	GenerationDelayMs      int    `xml:"GenerationDelayMs"`
	MaxAttempts            int    `xml:"MaxAttempts"`
	AttemptTimeoutMinutes  int    `xml:"AttemptTimeoutMinutes"`
	CleanupIntervalMinutes int    `xml:"CleanupIntervalMinutes"`
	SeedDirectory          string `xml:"SeedDirectory"`
}

// ProgressConfig selects the dashboard aggregation engine
type ProgressConfig struct {
	Engine string `xml:"Engine"`
}

// RedisConfig contains the upload mirror settings
type RedisConfig struct {
	Enabled    bool   `xml:"Enabled"`
	Addr       string `xml:"Addr"`
	Password   string `xml:"Password"`
	DB         int    `xml:"DB"`
	KeyPrefix  string `xml:"KeyPrefix"`
	TTLSeconds int    `xml:"TTLSeconds"`
}

// NATSConfig contains the upload event publisher settings
type NATSConfig struct {
	Enabled       bool   `xml:"Enabled"`
	URL           string `xml:"URL"`
	SubjectPrefix string `xml:"SubjectPrefix"`
	MaxReconnects int    `xml:"MaxReconnects"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel                string `xml:"LogLevel"`
	LogFormat               string `xml:"LogFormat"`
	EnableRequestLogging    bool   `xml:"EnableRequestLogging"`
	EnableCompression       bool   `xml:"EnableCompression"`
	CompressionLevel        int    `xml:"CompressionLevel"`
	WebSocketMaxMessageSize int    `xml:"WebSocketMaxMessageSizeKB"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:            8089,
			BindAddress:     "0.0.0.0",
			EnableCORS:      true,
			AllowOrigins:    "*",
			ReadTimeout:     30,
			WriteTimeout:    30,
			IdleTimeout:     120,
			ShutdownTimeout: 10,
			BodyLimit:       "2M",
		},
		Upload: UploadConfig{
			TickIntervalMs:    200,
			ProcessingDelayMs: 2000,
			MaxIncrement:      15,
			Classifier:        "random",
			Categories:        "Mathematics,Science,History,Literature,Languages,Other",
			AllowedFileTypes:  ".pdf,.doc,.docx,.txt,.jpg,.jpeg,.png,.gif,.ppt,.pptx",
			MaxFileSize:       "50MB",
			EnforcePolicy:     false,
		},
		Tools: ToolsConfig{
			GenerationDelayMs:      3000,
			MaxAttempts:            100,
			AttemptTimeoutMinutes:  30,
			CleanupIntervalMinutes: 5,
		},
		Progress: ProgressConfig{
			Engine: "memory",
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			KeyPrefix:  "studyassist:upload:",
			TTLSeconds: 3600,
		},
		NATS: NATSConfig{
			Enabled:       false,
			URL:           "nats://localhost:4222",
			SubjectPrefix: "studyassist.uploads",
			MaxReconnects: 10,
		},
		Advanced: AdvancedConfig{
			LogLevel:                "info",
			LogFormat:               "text",
			EnableRequestLogging:    true,
			EnableCompression:       true,
			CompressionLevel:        5,
			WebSocketMaxMessageSize: 64,
		},
	}
}

// LoadConfig loads configuration from an XML file, writing the defaults
// there first if it does not exist.
func LoadConfig(configPath string) (*AppConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := xml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.resolvePaths(filepath.Dir(configPath))
	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- StudyAssist Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// NewViper returns a viper instance reading STUDYASSIST_* environment
// variables, keyed like "server.port".
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyOverrides copies every key set in v (environment or changed flag)
// over the file values.
func (c *AppConfig) ApplyOverrides(v *viper.Viper) {
	str(v, "server.bind_address", &c.Server.BindAddress)
	num(v, "server.port", &c.Server.Port)
	flag(v, "server.enable_cors", &c.Server.EnableCORS)
	str(v, "server.allow_origins", &c.Server.AllowOrigins)
	str(v, "server.body_limit", &c.Server.BodyLimit)

	num(v, "upload.tick_interval_ms", &c.Upload.TickIntervalMs)
	num(v, "upload.processing_delay_ms", &c.Upload.ProcessingDelayMs)
	if v.IsSet("upload.max_increment") {
		c.Upload.MaxIncrement = v.GetFloat64("upload.max_increment")
	}
	str(v, "upload.classifier", &c.Upload.Classifier)
	str(v, "upload.categories", &c.Upload.Categories)
	str(v, "upload.allowed_file_types", &c.Upload.AllowedFileTypes)
	str(v, "upload.max_file_size", &c.Upload.MaxFileSize)
	flag(v, "upload.enforce_policy", &c.Upload.EnforcePolicy)

	num(v, "tools.generation_delay_ms", &c.Tools.GenerationDelayMs)
	num(v, "tools.max_attempts", &c.Tools.MaxAttempts)
	str(v, "tools.seed_directory", &c.Tools.SeedDirectory)

	str(v, "progress.engine", &c.Progress.Engine)

	flag(v, "redis.enabled", &c.Redis.Enabled)
	str(v, "redis.addr", &c.Redis.Addr)
	str(v, "redis.password", &c.Redis.Password)
	num(v, "redis.db", &c.Redis.DB)

	flag(v, "nats.enabled", &c.NATS.Enabled)
	str(v, "nats.url", &c.NATS.URL)
	str(v, "nats.subject_prefix", &c.NATS.SubjectPrefix)

	str(v, "advanced.log_level", &c.Advanced.LogLevel)
	str(v, "advanced.log_format", &c.Advanced.LogFormat)
	flag(v, "advanced.enable_request_logging", &c.Advanced.EnableRequestLogging)
}

func str(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func num(v *viper.Viper, key string, dst *int) {
	if v.IsSet(key) {
		*dst = v.GetInt(key)
	}
}

func flag(v *viper.Viper, key string, dst *bool) {
	if v.IsSet(key) {
		*dst = v.GetBool(key)
	}
}

// Validate reports settings the server cannot start with.
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Upload.TickIntervalMs <= 0 {
		return fmt.Errorf("tick interval must be positive, got %dms", c.Upload.TickIntervalMs)
	}
	if c.Upload.ProcessingDelayMs < 0 {
		return fmt.Errorf("processing delay must not be negative, got %dms", c.Upload.ProcessingDelayMs)
	}
	if c.Upload.MaxIncrement <= 0 {
		return fmt.Errorf("max increment must be positive, got %v", c.Upload.MaxIncrement)
	}
	if c.Tools.GenerationDelayMs < 0 {
		return fmt.Errorf("generation delay must not be negative, got %dms", c.Tools.GenerationDelayMs)
	}
	switch strings.ToLower(c.Advanced.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Advanced.LogFormat)
	}
	return nil
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if c.Tools.SeedDirectory != "" && !filepath.IsAbs(c.Tools.SeedDirectory) {
		c.Tools.SeedDirectory = filepath.Join(configDir, c.Tools.SeedDirectory)
	}
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// Categories returns the configured upload categories.
func (c *AppConfig) Categories() []string {
	var out []string
	for _, s := range strings.Split(c.Upload.Categories, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Millis converts a millisecond setting to a duration.
func Millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
