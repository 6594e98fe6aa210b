// Package main is the entry point for the study assistant backend.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/studyassist/backend/internal/config"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// rootCmd runs the server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "studyassist",
	Short: "Study assistant backend",
	Long: `studyassist serves the study assistant tools over HTTP: the simulated notes
uploader with its websocket feed, the goal tracker, the quiz generator, the
summariser and the progress dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		return nil
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default)",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of studyassist",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("studyassist %s (built %s)\n", Version, BuildTime)
	},
}

// flagKeys maps serve flags onto config override keys.
var flagKeys = map[string]string{
	"port":       "server.port",
	"bind":       "server.bind_address",
	"engine":     "progress.engine",
	"seed-dir":   "tools.seed_directory",
	"classifier": "upload.classifier",
	"enforce":    "upload.enforce_policy",
	"redis":      "redis.enabled",
	"nats":       "nats.enabled",
	"log-level":  "advanced.log_level",
	"log-format": "advanced.log_format",
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: "+config.FileName+" next to the binary)")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading the environment")

	for _, cmd := range []*cobra.Command{rootCmd, serveCmd} {
		f := cmd.Flags()
		f.Int("port", 0, "HTTP port")
		f.String("bind", "", "bind address")
		f.String("engine", "", "progress aggregation engine (memory, duckdb)")
		f.String("seed-dir", "", "directory with sample data YAML files")
		f.String("classifier", "", "upload category classifier (random, round-robin)")
		f.Bool("enforce", false, "mark files violating the upload policy as failed")
		f.Bool("redis", false, "mirror upload records into Redis")
		f.Bool("nats", false, "publish upload events to NATS")
		f.String("log-level", "", "log level (debug, info, warn, error)")
		f.String("log-format", "", "log format (text, json)")
	}

	rootCmd.AddCommand(serveCmd, versionCmd)
}

// loadConfig reads the XML config and applies environment and flag
// overrides, flags winning.
func loadConfig(cmd *cobra.Command) (*config.AppConfig, string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		exePath, err := os.Executable()
		if err != nil {
			return nil, "", fmt.Errorf("get executable path: %w", err)
		}
		path = filepath.Join(filepath.Dir(exePath), config.FileName)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, path, err
	}

	v := config.NewViper()
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return nil, path, err
	}
	cfg.ApplyOverrides(v)

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, path, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// newLogger builds the process logger from the advanced settings.
func newLogger(cfg config.AdvancedConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
