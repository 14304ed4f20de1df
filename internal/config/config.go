// Package config loads and validates the skysync YAML configuration and
// builds the S3 client used by the s3 backend.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/13rac1/skysync/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	defaultBaseLocale    = "en"
	defaultStringsRoot   = "config/locales"
	defaultOneSkyBaseURL = "https://platform.api.onesky.io/1"
	defaultOneSkyTimeout = 30 * time.Second
	defaultS3Prefix      = "skysync/"
)

// Load reads and validates configuration from the specified path.
// Tilde (~) in paths is expanded to the user's home directory. A relative
// strings_root is resolved against the directory holding the config file.
func Load(path string) (*types.Config, error) {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", expandedPath, err)
	}

	var cfg types.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	if err := applyDefaults(&cfg, filepath.Dir(expandedPath)); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional config fields.
func applyDefaults(cfg *types.Config, configDir string) error {
	if cfg.BaseLocale == "" {
		cfg.BaseLocale = defaultBaseLocale
	}

	if cfg.StringsRoot == "" {
		cfg.StringsRoot = defaultStringsRoot
	}

	expandedRoot, err := expandTilde(cfg.StringsRoot)
	if err != nil {
		return fmt.Errorf("expanding strings_root: %w", err)
	}
	if !filepath.IsAbs(expandedRoot) {
		expandedRoot = filepath.Join(configDir, expandedRoot)
	}
	cfg.StringsRoot = expandedRoot

	if cfg.Backend == "" {
		cfg.Backend = types.BackendOneSky
	}
	cfg.Backend = strings.ToLower(cfg.Backend)

	if cfg.OneSky.BaseURL == "" {
		cfg.OneSky.BaseURL = defaultOneSkyBaseURL
	}
	cfg.OneSky.BaseURL = strings.TrimSuffix(cfg.OneSky.BaseURL, "/")

	if cfg.OneSky.Timeout <= 0 {
		cfg.OneSky.Timeout = defaultOneSkyTimeout
	}

	if cfg.S3.Prefix == "" {
		cfg.S3.Prefix = defaultS3Prefix
	}

	// Ensure prefix has trailing slash for consistent key building
	if !strings.HasSuffix(cfg.S3.Prefix, "/") {
		cfg.S3.Prefix = cfg.S3.Prefix + "/"
	}

	return nil
}

// validate ensures required config fields are present and valid.
// An empty locale list is not rejected here; upload and download check it
// before doing any work.
func validate(cfg *types.Config) error {
	switch cfg.Backend {
	case types.BackendOneSky:
		if cfg.OneSky.APIKey == "" {
			return fmt.Errorf("onesky.api_key is required")
		}
		if cfg.OneSky.APISecret == "" {
			return fmt.Errorf("onesky.api_secret is required")
		}
		if cfg.OneSky.ProjectID == "" {
			return fmt.Errorf("onesky.project_id is required")
		}
	case types.BackendS3:
		if cfg.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required")
		}
		if cfg.S3.Region == "" {
			return fmt.Errorf("s3.region is required")
		}
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", cfg.Backend, types.BackendOneSky, types.BackendS3)
	}

	return nil
}

// expandTilde replaces ~ at the start of a path with the user's home directory.
func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	if path == "~" {
		return homeDir, nil
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:]), nil
	}

	return path, nil
}
