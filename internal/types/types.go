// Package types defines the core data structures used throughout skysync.
// This includes configuration structs, discovered source files, and shared errors.
package types

import (
	"errors"
	"time"
)

// ErrConfiguration marks errors caused by invalid or incomplete configuration.
// These abort an operation before any network or file I/O happens.
var ErrConfiguration = errors.New("invalid configuration")

// Backend names accepted in Config.Backend.
const (
	BackendOneSky = "onesky"
	BackendS3     = "s3"
)

// Config represents the complete configuration for skysync.
type Config struct {
	BaseLocale  string       `yaml:"base_locale"`
	Locales     []string     `yaml:"locales"`
	StringsRoot string       `yaml:"strings_root"`
	Backend     string       `yaml:"backend"`
	Upload      UploadConfig `yaml:"upload"`
	OneSky      OneSkyConfig `yaml:"onesky"`
	S3          S3Config     `yaml:"s3"`
	Auth        AuthConfig   `yaml:"auth"`
}

// UploadConfig holds the upload filter and string retention settings.
type UploadConfig struct {
	Only                []string `yaml:"only"`
	Except              []string `yaml:"except"`
	IsKeepingAllStrings *bool    `yaml:"is_keeping_all_strings"`
}

// KeepAllStrings reports whether the remote side should keep strings missing
// from an upload. It is true unless explicitly set to false.
func (u UploadConfig) KeepAllStrings() bool {
	if u.IsKeepingAllStrings == nil {
		return true
	}
	return *u.IsKeepingAllStrings
}

// OneSkyConfig holds OneSky Platform API settings.
type OneSkyConfig struct {
	APIKey    string        `yaml:"api_key"`
	APISecret string        `yaml:"api_secret"`
	ProjectID string        `yaml:"project_id"`
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

// S3Config holds S3-compatible storage settings for the s3 backend.
type S3Config struct {
	Bucket         string `yaml:"bucket"`
	Prefix         string `yaml:"prefix"`
	Region         string `yaml:"region"`
	Endpoint       string `yaml:"endpoint"`
	ForcePathStyle bool   `yaml:"force_path_style"`
}

// AuthConfig holds AWS authentication credentials for the s3 backend.
type AuthConfig struct {
	Profile         string `yaml:"profile"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
}

// SourceFile is a base-language string file found under the strings root.
type SourceFile struct {
	Path    string // Full path on disk
	RelPath string // Path relative to the strings root, slash separated
	Name    string // Base file name, used as the remote source file name
}

// TranslationUnit pairs a source file with one locale to synchronize.
type TranslationUnit struct {
	Source      SourceFile
	Locale      string
	RemoteCode  string // Locale code in the remote service's convention
	Destination string // Local path the translation is written to
}
