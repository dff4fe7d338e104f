// Package config loads runtime settings from a config file, environment
// variables, and built-in defaults (in increasing order of locality).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/terrapane/aescrypt-desktop/internal/pathutil"
)

// Defaults mirror the values the original desktop tool shipped with.
const (
	DefaultSuffix           = pathutil.DefaultSuffix
	DefaultKDFIterations    = 300_000
	DefaultProgressInterval = 250 * time.Millisecond
	DefaultIOBufferSize     = 131_072
)

// Config holds all runtime settings.
type Config struct {
	// Suffix is the reserved extension appended on encrypt and required
	// (then stripped) on decrypt.
	Suffix string

	// KDFIterations is the key-derivation iteration count used when
	// encrypting. Decryption reads the count from the file header.
	KDFIterations uint32

	// ProgressInterval is the minimum delay between progress notifications
	// forwarded to the UI surface. The terminal update bypasses it.
	ProgressInterval time.Duration

	// IOBufferSize is the buffered-I/O size, in bytes, for reading inputs
	// and writing outputs.
	IOBufferSize int

	// Notifications enables desktop notifications for batch outcomes and
	// error alerts.
	Notifications bool
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Suffix:           DefaultSuffix,
		KDFIterations:    DefaultKDFIterations,
		ProgressInterval: DefaultProgressInterval,
		IOBufferSize:     DefaultIOBufferSize,
		Notifications:    true,
	}
}

// Load reads configuration from path, falling back to
// $XDG_CONFIG_HOME/aescrypt/config.yaml (or the OS equivalent) when path is
// empty. A missing default config file is not an error; a missing explicit
// path is.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("suffix", DefaultSuffix)
	v.SetDefault("kdf_iterations", DefaultKDFIterations)
	v.SetDefault("progress_interval", DefaultProgressInterval)
	v.SetDefault("io_buffer_size", DefaultIOBufferSize)
	v.SetDefault("notifications", true)

	v.SetEnvPrefix("AESCRYPT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "aescrypt"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	cfg := &Config{
		Suffix:           v.GetString("suffix"),
		KDFIterations:    v.GetUint32("kdf_iterations"),
		ProgressInterval: v.GetDuration("progress_interval"),
		IOBufferSize:     v.GetInt("io_buffer_size"),
		Notifications:    v.GetBool("notifications"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Suffix) < 2 || c.Suffix[0] != '.' {
		return fmt.Errorf("suffix %q must start with '.' and name an extension", c.Suffix)
	}
	if c.KDFIterations == 0 {
		return errors.New("kdf_iterations must be positive")
	}
	if c.ProgressInterval <= 0 {
		return errors.New("progress_interval must be positive")
	}
	if c.IOBufferSize < 4096 {
		return fmt.Errorf("io_buffer_size %d below minimum of 4096", c.IOBufferSize)
	}
	return nil
}
