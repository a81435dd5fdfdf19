package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. SHOWLOOM_TOP_N_GENRES.
const EnvPrefix = "SHOWLOOM"

// Global configuration structure.
type Global struct {
	DefaultCSV     string `mapstructure:"default_csv" yaml:"default_csv"`
	TopNGenres     int    `mapstructure:"top_n_genres" yaml:"top_n_genres"`
	MaxLanguages   int    `mapstructure:"max_languages" yaml:"max_languages"`
	ReportFileName string `mapstructure:"report_file_name" yaml:"report_file_name"`
	PreviewRows    int    `mapstructure:"preview_rows" yaml:"preview_rows"`

	// HTTP server
	ListenAddr  string `mapstructure:"listen_addr" yaml:"listen_addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Keys lists every settable key in display order.
var Keys = []string{
	"default_csv",
	"top_n_genres",
	"max_languages",
	"report_file_name",
	"preview_rows",
	"listen_addr",
	"max_upload_mb",
	"log_level",
	"log_format",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("default_csv", "netflix_titles.csv")
	v.SetDefault("top_n_genres", 10)
	v.SetDefault("max_languages", 20)
	v.SetDefault("report_file_name", "summary_report.txt")
	v.SetDefault("preview_rows", 50)
	v.SetDefault("listen_addr", "127.0.0.1:8080")
	v.SetDefault("max_upload_mb", 32)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Defaults returns the built-in configuration without reading files or env.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

// Dir returns ~/.showloom.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".showloom"), nil
}

// Save writes the configuration to cfgFile, or ~/.showloom/config.yaml when empty.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load reads configuration.
// Precedence: env (including .env in the working directory) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Get returns the string form of a key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "default_csv":
		return c.DefaultCSV, nil
	case "top_n_genres":
		return strconv.Itoa(c.TopNGenres), nil
	case "max_languages":
		return strconv.Itoa(c.MaxLanguages), nil
	case "report_file_name":
		return c.ReportFileName, nil
	case "preview_rows":
		return strconv.Itoa(c.PreviewRows), nil
	case "listen_addr":
		return c.ListenAddr, nil
	case "max_upload_mb":
		return strconv.Itoa(c.MaxUploadMB), nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set parses and assigns a value by key.
func (c *Global) Set(key, val string) error {
	positive := func(name string) (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return 0, fmt.Errorf("invalid positive int for %s: %v", name, val)
		}
		return i, nil
	}
	// setPositive leaves dst untouched on error.
	setPositive := func(dst *int) error {
		i, err := positive(key)
		if err != nil {
			return err
		}
		*dst = i
		return nil
	}
	var err error
	switch key {
	case "default_csv":
		c.DefaultCSV = val
	case "top_n_genres":
		var i int
		if i, err = positive(key); err == nil {
			if i < 3 || i > 20 {
				return fmt.Errorf("top_n_genres must be between 3 and 20: %d", i)
			}
			c.TopNGenres = i
		}
	case "max_languages":
		err = setPositive(&c.MaxLanguages)
	case "report_file_name":
		if strings.TrimSpace(val) == "" || strings.ContainsAny(val, `/\`) {
			return fmt.Errorf("invalid report_file_name: %q", val)
		}
		c.ReportFileName = val
	case "preview_rows":
		err = setPositive(&c.PreviewRows)
	case "listen_addr":
		c.ListenAddr = val
	case "max_upload_mb":
		err = setPositive(&c.MaxUploadMB)
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "warning", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "text", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use text or json)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}
