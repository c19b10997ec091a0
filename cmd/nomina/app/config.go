// Package app holds CLI application configuration assembled from flags,
// environment variables, .env files, and the user config file.
package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/nomina-io/nomina/pkg/cache"
	"github.com/nomina-io/nomina/pkg/reconciler"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	Output  string

	// Config file
	ConfigFile string

	// Engine configuration
	Workers        int
	CacheSize      int
	CandidateLimit int
	DatabasePath   string

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.nomina.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("NOMINA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".nomina")
		}
	}

	// Missing config files are fine; everything has a default.
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		Output:  viper.GetString("output"),

		ConfigFile: viper.ConfigFileUsed(),

		Workers:        viper.GetInt("workers"),
		CacheSize:      viper.GetInt("cache_size"),
		CandidateLimit: viper.GetInt("candidate_limit"),
		DatabasePath:   viper.GetString("database_path"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
	}

	if config.Workers <= 0 {
		config.Workers = reconciler.DefaultWorkers
	}
	if config.CacheSize <= 0 {
		config.CacheSize = cache.DefaultCapacity
	}
	if config.CandidateLimit <= 0 {
		config.CandidateLimit = reconciler.DefaultCandidateLimit
	}

	return config, nil
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
