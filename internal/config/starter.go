package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const starterConfig = `# skysync configuration
#
# Base locale of the project. Files under strings_root whose top-level key
# equals this locale are uploaded as translation sources.
base_locale: en

# Target locales to download. When empty, skysync asks the OneSky project
# for its languages.
locales: []

# Directory holding the YAML string files, relative to this file.
strings_root: config/locales

# Remote backend: onesky or s3.
backend: onesky

upload:
  # Limit uploads to these files (paths relative to strings_root) ...
  only: []
  # ... or upload everything except these. Do not set both.
  except: []
  is_keeping_all_strings: true

onesky:
  api_key: YOUR-API-KEY
  api_secret: YOUR-API-SECRET
  project_id: "YOUR-PROJECT-ID"

# Used when backend is s3.
# s3:
#   bucket: YOUR-BUCKET-NAME
#   region: us-east-1
#   prefix: skysync/
#   endpoint: ""
#   force_path_style: false
# auth:
#   profile: default
`

// CreateStarterConfig writes a commented starter configuration to path.
// It refuses to overwrite an existing file.
func CreateStarterConfig(path string) error {
	expandedPath, err := expandTilde(path)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	if dir := filepath.Dir(expandedPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(expandedPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("creating config file %s: %w", expandedPath, err)
	}

	if _, err := f.WriteString(starterConfig); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing config file %s: %w", expandedPath, err)
	}

	return f.Close()
}
