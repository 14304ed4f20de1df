package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/13rac1/skysync/internal/types"
)

// JSONOutput represents the complete JSON output structure.
type JSONOutput struct {
	GeneratedAt string         `json:"generatedAt"`
	Config      ConfigInfo     `json:"config"`
	Units       []Unit         `json:"units"`
	Locales     []LocaleStatus `json:"locales,omitempty"`
}

// ConfigInfo holds configuration details for JSON output.
type ConfigInfo struct {
	Backend     string   `json:"backend"`
	BaseLocale  string   `json:"baseLocale"`
	Locales     []string `json:"locales"`
	StringsRoot string   `json:"stringsRoot"`
	ProjectID   string   `json:"projectId,omitempty"`
	Bucket      string   `json:"bucket,omitempty"`
	Prefix      string   `json:"prefix,omitempty"`
	Endpoint    string   `json:"endpoint,omitempty"`
}

// Unit represents one translation unit in JSON output.
type Unit struct {
	Locale      string `json:"locale"`
	RemoteCode  string `json:"remoteCode"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Present     bool   `json:"present"`
}

// PrintJSON formats and prints a download plan as JSON to stdout.
// targets are the resolved target locales; statuses may be nil.
func PrintJSON(units []types.TranslationUnit, statuses []LocaleStatus, cfg *types.Config, root string, targets []string) error {
	output := JSONOutput{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Config:      buildConfigInfo(cfg, root, targets),
		Units:       buildUnits(units),
		Locales:     statuses,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}

	fmt.Println(string(data))
	return nil
}

// buildConfigInfo extracts config information for JSON output.
func buildConfigInfo(cfg *types.Config, root string, targets []string) ConfigInfo {
	info := ConfigInfo{
		Backend:     cfg.Backend,
		BaseLocale:  cfg.BaseLocale,
		Locales:     append(make([]string, 0, len(targets)), targets...),
		StringsRoot: root,
	}

	if cfg.Backend == types.BackendS3 {
		info.Bucket = cfg.S3.Bucket
		info.Prefix = cfg.S3.Prefix
		info.Endpoint = cfg.S3.Endpoint
	} else {
		info.ProjectID = cfg.OneSky.ProjectID
	}

	return info
}

func buildUnits(units []types.TranslationUnit) []Unit {
	out := make([]Unit, 0, len(units))

	for _, u := range units {
		out = append(out, Unit{
			Locale:      u.Locale,
			RemoteCode:  u.RemoteCode,
			Source:      u.Source.RelPath,
			Destination: u.Destination,
			Present:     fileExists(u.Destination),
		})
	}

	return out
}
