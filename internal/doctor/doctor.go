// Package doctor checks a loaded configuration and the strings root and
// prints a pass/fail checklist.
package doctor

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/13rac1/skysync/internal/discover"
	"github.com/13rac1/skysync/internal/filter"
	"github.com/13rac1/skysync/internal/localepath"
	"github.com/13rac1/skysync/internal/types"
)

const (
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// Placeholder values written by the starter config.
const (
	placeholderAPIKey    = "YOUR-API-KEY"
	placeholderAPISecret = "YOUR-API-SECRET"
	placeholderProjectID = "YOUR-PROJECT-ID"
	placeholderBucket    = "YOUR-BUCKET-NAME"
)

func checkmark() string {
	return colorGreen + "✓" + colorReset
}

func crossmark() string {
	return colorRed + "✗" + colorReset
}

func warnmark() string {
	return colorYellow + "!" + colorReset
}

// RunChecks performs all doctor checks and returns whether all passed.
// Warnings are printed but do not fail the run.
func RunChecks(cfg *types.Config, configPath string) bool {
	fmt.Println("skysync doctor - Configuration check")
	fmt.Println()

	allPassed := true

	fmt.Println("Configuration:")
	fmt.Printf("  %s Config file loaded: %s\n", checkmark(), configPath)

	if !checkBackend(cfg, configPath) {
		allPassed = false
	}

	if err := localepath.Validate(cfg.BaseLocale); err != nil {
		fmt.Printf("  %s Base locale %q is not a valid language tag: %v\n", warnmark(), cfg.BaseLocale, err)
	} else {
		fmt.Printf("  %s Base locale: %s\n", checkmark(), cfg.BaseLocale)
	}

	checkLocales(cfg)

	f, err := filter.Compile(cfg.Upload.Only, cfg.Upload.Except)
	if err != nil {
		fmt.Printf("  %s Upload filter invalid: %v\n", crossmark(), err)
		fmt.Printf("    → Edit %s and set only upload.only or upload.except\n", configPath)
		allPassed = false
	} else {
		fmt.Printf("  %s Upload filter: %s\n", checkmark(), describeFilter(f, cfg.Upload))
	}

	fmt.Println()

	fmt.Println("Local filesystem:")
	if !checkStringsRoot(cfg, f) {
		allPassed = false
	}

	fmt.Println()
	printSummary(allPassed)
	return allPassed
}

// checkBackend reports the backend settings and flags placeholders left
// over from the starter config.
func checkBackend(cfg *types.Config, configPath string) bool {
	passed := true

	switch cfg.Backend {
	case types.BackendS3:
		fmt.Printf("  %s Backend: s3\n", checkmark())

		if cfg.S3.Bucket == "" || cfg.S3.Bucket == placeholderBucket {
			fmt.Printf("  %s S3 bucket not configured (still set to placeholder)\n", crossmark())
			fmt.Printf("    → Edit %s and set s3.bucket\n", configPath)
			passed = false
		} else {
			fmt.Printf("  %s S3 bucket configured: %s\n", checkmark(), cfg.S3.Bucket)
		}

		if cfg.S3.Region == "" {
			fmt.Printf("  %s S3 region not configured\n", crossmark())
			fmt.Printf("    → Edit %s and set s3.region\n", configPath)
			passed = false
		} else {
			fmt.Printf("  %s S3 region configured: %s\n", checkmark(), cfg.S3.Region)
		}

		fmt.Printf("  %s S3 prefix configured: %s\n", checkmark(), cfg.S3.Prefix)

	default:
		fmt.Printf("  %s Backend: onesky (%s)\n", checkmark(), cfg.OneSky.BaseURL)

		fields := []struct {
			key, value, placeholder string
		}{
			{"onesky.api_key", cfg.OneSky.APIKey, placeholderAPIKey},
			{"onesky.api_secret", cfg.OneSky.APISecret, placeholderAPISecret},
			{"onesky.project_id", cfg.OneSky.ProjectID, placeholderProjectID},
		}
		for _, field := range fields {
			if field.value == "" || field.value == field.placeholder {
				fmt.Printf("  %s %s not configured (still set to placeholder)\n", crossmark(), field.key)
				fmt.Printf("    → Edit %s and set %s\n", configPath, field.key)
				passed = false
			}
		}
		if passed {
			fmt.Printf("  %s OneSky credentials configured for project %s\n", checkmark(), cfg.OneSky.ProjectID)
		}
	}

	return passed
}

// checkLocales prints the configured target locales. Problems here are
// warnings only.
func checkLocales(cfg *types.Config) {
	if len(cfg.Locales) == 0 {
		fmt.Printf("  %s No target locales configured; they will be fetched from the %s backend\n", warnmark(), cfg.Backend)
		return
	}

	valid := 0
	for _, locale := range cfg.Locales {
		if locale == cfg.BaseLocale {
			fmt.Printf("  %s Locale %q is the base locale and is ignored as a target\n", warnmark(), locale)
			continue
		}
		if err := localepath.Validate(locale); err != nil {
			fmt.Printf("  %s Locale %q is not a valid language tag: %v\n", warnmark(), locale, err)
			continue
		}
		valid++
	}

	localeWord := "locales"
	if valid == 1 {
		localeWord = "locale"
	}
	fmt.Printf("  %s %d target %s configured\n", checkmark(), valid, localeWord)
}

// checkStringsRoot verifies the strings root and counts base-language files.
func checkStringsRoot(cfg *types.Config, f filter.Filter) bool {
	info, err := os.Stat(cfg.StringsRoot)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("  %s Strings root does not exist: %s\n", crossmark(), cfg.StringsRoot)
			fmt.Printf("    → Create the directory or update strings_root in config\n")
			return false
		}
		fmt.Printf("  %s Cannot access strings root: %s\n", crossmark(), cfg.StringsRoot)
		fmt.Printf("    → Error: %v\n", err)
		return false
	}

	if !info.IsDir() {
		fmt.Printf("  %s Strings root is not a directory: %s\n", crossmark(), cfg.StringsRoot)
		fmt.Printf("    → Ensure strings_root points to a directory\n")
		return false
	}

	fmt.Printf("  %s Strings root exists: %s\n", checkmark(), cfg.StringsRoot)

	files, err := discover.DiscoverLocal(cfg.StringsRoot, cfg.BaseLocale, f)
	if err != nil {
		fmt.Printf("  %s Failed to discover source files: %v\n", crossmark(), err)
		return false
	}

	if len(files) == 0 {
		fmt.Printf("  %s No %s source files found (nothing to upload)\n", warnmark(), cfg.BaseLocale)
		return true
	}

	fileWord := "files"
	if len(files) == 1 {
		fileWord = "file"
	}
	fmt.Printf("  %s Found %d %s source %s\n", checkmark(), len(files), cfg.BaseLocale, fileWord)

	dups := discover.DuplicateNames(files)
	names := make([]string, 0, len(dups))
	for name := range dups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s Sources share the name %s and overwrite each other remotely: %s\n",
			warnmark(), name, strings.Join(dups[name], ", "))
	}
	return true
}

func describeFilter(f filter.Filter, u types.UploadConfig) string {
	switch f.Kind() {
	case filter.Only:
		return fmt.Sprintf("only %d file(s)", len(u.Only))
	case filter.Except:
		return fmt.Sprintf("all except %d file(s)", len(u.Except))
	default:
		return "all files"
	}
}

func printSummary(allPassed bool) {
	if allPassed {
		fmt.Println("All checks passed! Ready to use skysync.")
	} else {
		fmt.Println("Some checks failed. Please fix the issues above.")
	}
}
