package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix        = "SRS"
	DataDirName      = ".srs"
	configFileName   = "srs"
	defaultCacheSize = 512
)

type Config struct {
	VaultPath    string
	DataDir      string
	DBPath       string
	LinksDBPath  string
	SettingsPath string
	LogLevel     string
	CacheSize    int
}

// Options carries explicit overrides, usually command line flags. Empty fields
// fall back to the config file, SRS_* environment variables and defaults.
type Options struct {
	VaultPath  string
	ConfigFile string
	LogLevel   string
	EnvFile    string
}

func Load(opts Options) (Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetDefault("vault", ".")
	v.SetDefault("log_level", "info")
	v.SetDefault("cache_size", defaultCacheSize)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName(configFileName)
		v.AddConfigPath(firstNonEmpty(opts.VaultPath, v.GetString("vault")))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if opts.VaultPath != "" {
		v.Set("vault", opts.VaultPath)
	}
	if opts.LogLevel != "" {
		v.Set("log_level", opts.LogLevel)
	}
	return New(v.GetString("vault"), v.GetString("log_level"), v.GetInt("cache_size"))
}

func New(vaultPath, logLevel string, cacheSize int) (Config, error) {
	if strings.TrimSpace(vaultPath) == "" {
		return Config{}, fmt.Errorf("vault path is required")
	}
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	dataDir := filepath.Join(vaultPath, DataDirName)
	return Config{
		VaultPath:    vaultPath,
		DataDir:      dataDir,
		DBPath:       filepath.Join(dataDir, "srs.db"),
		LinksDBPath:  filepath.Join(dataDir, "links.db"),
		SettingsPath: filepath.Join(dataDir, "data.json"),
		LogLevel:     logLevel,
		CacheSize:    cacheSize,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
