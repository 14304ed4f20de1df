// Command skysync uploads Rails YAML string files to a OneSky project (or an
// S3 bucket) and downloads their translations into onesky_<locale>/ directories.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/13rac1/skysync/internal/client"
	"github.com/13rac1/skysync/internal/config"
	"github.com/13rac1/skysync/internal/doctor"
	"github.com/13rac1/skysync/internal/onesky"
	"github.com/13rac1/skysync/internal/output"
	"github.com/13rac1/skysync/internal/s3store"
	"github.com/13rac1/skysync/internal/syncer"
	"github.com/13rac1/skysync/internal/types"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var defaultConfigPath = ".skysync.yaml"

var (
	configPath string
	rootDir    string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "skysync",
	Short:   "Sync Rails YAML locale files with OneSky",
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Long: `skysync uploads base-language YAML string files (e.g. config/locales/*.en.yml)
to a OneSky project and downloads their translations into onesky_<locale>/
directories next to them. An S3 bucket can stand in for OneSky.`,
	SilenceUsage: true,
}

var (
	jsonOutput bool
	baseOnly   bool
	allLocales bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload base-language string files",
	Long: `Discovers every .yml file under the strings root whose top-level key is the
base locale and uploads it. upload.only / upload.except limit the files sent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		c, err := newClient(ctx, cfg)
		if err != nil {
			return err
		}

		uploaded, err := syncer.New(cfg, c, cmd.OutOrStdout()).Upload(ctx, cfg.StringsRoot)
		if err != nil {
			return fmt.Errorf("uploading files: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nUploaded %d %s\n", len(uploaded), plural(len(uploaded), "file", "files"))
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download translations of the base-language files",
	Long: `Fetches the translation of every base-language file for each target locale
and writes it to onesky_<locale>/. Files the service has no translation for are
skipped and existing copies are left in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		c, err := newClient(ctx, cfg)
		if err != nil {
			return err
		}

		result, err := syncer.New(cfg, c, cmd.OutOrStdout()).Download(ctx, cfg.StringsRoot, downloadMode())
		if err != nil {
			return fmt.Errorf("downloading translations: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nDownloaded %d %s", len(result.Written), plural(len(result.Written), "file", "files"))
		if len(result.Skipped) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), " (%d without translation)", len(result.Skipped))
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the files a download would write",
	Long: `Lists every (locale, source file) pair a download covers with its destination
path. With the s3 backend the translation files present in the bucket are
compared with the local copies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		c, err := newClient(ctx, cfg)
		if err != nil {
			return err
		}

		s := syncer.New(cfg, c, nil)
		units, err := s.Plan(ctx, cfg.StringsRoot, downloadMode())
		if err != nil {
			return fmt.Errorf("planning download: %w", err)
		}
		targets, err := s.TargetLocales(ctx)
		if err != nil {
			return err
		}

		var statuses []output.LocaleStatus
		var uploaded []string
		if store, ok := c.(*s3store.Store); ok {
			uploaded = store.UploadedSources(ctx)
			remote, err := store.ListLocales(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not list remote locales: %v\n", err)
			} else {
				counts := make(map[string]int, len(remote))
				order := make([]string, 0, len(remote))
				for _, l := range remote {
					counts[l.Locale] = l.Files
					order = append(order, l.Locale)
				}
				statuses = output.MergeLocaleStatus(units, counts, order)
			}
		}

		if jsonOutput {
			if err := output.PrintJSON(units, statuses, cfg, cfg.StringsRoot, targets); err != nil {
				return fmt.Errorf("printing JSON output: %w", err)
			}
			return nil
		}

		output.PrintPlan(units, cfg.StringsRoot)
		if statuses != nil {
			fmt.Println()
			output.PrintLocaleStatus(statuses)
		}
		if uploaded != nil {
			fmt.Printf("\n%d uploaded %s recorded in the manifest\n", len(uploaded), plural(len(uploaded), "source", "sources"))
		}
		return nil
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Validate configuration and the strings root",
	Long: `Checks that the configuration is complete, locale codes are well formed,
the upload filter is valid and the strings root contains base-language files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		allPassed := doctor.RunChecks(cfg, configPath)
		if !allPassed {
			exitFunc(1)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to config file")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "strings root directory, relative to the working directory (overrides strings_root, which is relative to the config file)")

	for _, cmd := range []*cobra.Command{downloadCmd, listCmd} {
		cmd.Flags().BoolVar(&baseOnly, "base-only", false, "only the base locale")
		cmd.Flags().BoolVar(&allLocales, "all", false, "the base locale and all target locales")
		cmd.MarkFlagsMutuallyExclusive("base-only", "all")
	}
	listCmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doctorCmd)
}

var exitFunc = os.Exit

func loadConfig() (*types.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if configPath == defaultConfigPath {
				if err := config.CreateStarterConfig(configPath); err != nil {
					return nil, fmt.Errorf("creating starter config: %w", err)
				}
				printWelcomeMessage(configPath)
				exitFunc(0)
			}
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
	}

	if rootDir != "" {
		cfg.StringsRoot = rootDir
	}
	return cfg, nil
}

// newClient builds the remote backend selected by cfg.Backend.
func newClient(ctx context.Context, cfg *types.Config) (client.ProjectClient, error) {
	switch cfg.Backend {
	case types.BackendS3:
		s3Client, err := config.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		return s3store.New(s3Client, cfg.S3.Bucket, cfg.S3.Prefix), nil
	default:
		return onesky.New(cfg.OneSky), nil
	}
}

func downloadMode() syncer.Mode {
	switch {
	case baseOnly:
		return syncer.ModeBaseOnly
	case allLocales:
		return syncer.ModeAll
	default:
		return syncer.ModeDefault
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func printWelcomeMessage(configPath string) {
	fmt.Println("Welcome to skysync!")
	fmt.Println()
	fmt.Printf("A starter configuration file has been created at:\n")
	fmt.Printf("  %s\n", configPath)
	fmt.Println()
	fmt.Println("Please edit this file and configure:")
	fmt.Println("  1. onesky.api_key, onesky.api_secret - Your OneSky API credentials")
	fmt.Println("  2. onesky.project_id - The OneSky project to sync with")
	fmt.Println("  3. locales - Target locales, e.g. [fr, de, ms_MY]")
	fmt.Println()
	fmt.Println("To use an S3 bucket instead of OneSky:")
	fmt.Println("  - Set backend: s3 and fill in the s3 and auth sections")
	fmt.Println()
	fmt.Println("After configuration, run:")
	fmt.Println("  skysync doctor     # Validate configuration")
	fmt.Println("  skysync upload     # Upload base-language files")
	fmt.Println("  skysync download   # Download translations")
}
