// Package syncer drives uploads of base-language string files and downloads
// of their translations. Work is sequential: one remote call at a time, in a
// fixed order, so progress output and written files are deterministic.
package syncer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/13rac1/skysync/internal/client"
	"github.com/13rac1/skysync/internal/discover"
	"github.com/13rac1/skysync/internal/filter"
	"github.com/13rac1/skysync/internal/localepath"
	"github.com/13rac1/skysync/internal/types"
)

// Mode selects which locales a download covers.
type Mode int

const (
	// ModeDefault downloads the target locales only.
	ModeDefault Mode = iota
	// ModeBaseOnly downloads the base locale only.
	ModeBaseOnly
	// ModeAll downloads the base locale followed by the target locales.
	ModeAll
)

func (m Mode) String() string {
	switch m {
	case ModeBaseOnly:
		return "base-only"
	case ModeAll:
		return "all"
	default:
		return "default"
	}
}

// Syncer runs uploads and downloads for one project configuration.
type Syncer struct {
	cfg     *types.Config
	client  client.ProjectClient
	out     io.Writer
	targets []string
}

// New creates a Syncer. Progress is written to out.
func New(cfg *types.Config, c client.ProjectClient, out io.Writer) *Syncer {
	if out == nil {
		out = io.Discard
	}
	return &Syncer{cfg: cfg, client: c, out: out}
}

// TargetLocales returns the configured target locales, without the base
// locale or duplicates. When none are configured and the client can list
// project languages, they are fetched once and cached. An empty result is a
// configuration error.
func (s *Syncer) TargetLocales(ctx context.Context) ([]string, error) {
	if s.targets != nil {
		return s.targets, nil
	}

	locales := s.cfg.Locales
	if len(locales) == 0 {
		if lister, ok := s.client.(client.LanguageLister); ok {
			languages, err := lister.ListLanguages(ctx)
			if err != nil {
				return nil, fmt.Errorf("fetching project languages: %w", err)
			}
			for _, l := range languages {
				if !l.IsBase {
					locales = append(locales, localepath.LocalCode(l.Code))
				}
			}
		}
	}

	targets := make([]string, 0, len(locales))
	seen := map[string]bool{s.cfg.BaseLocale: true}
	for _, l := range locales {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		targets = append(targets, l)
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: languages not verified (no target locales configured)", types.ErrConfiguration)
	}

	s.targets = targets
	return targets, nil
}

// ResolveLocales returns the locales a download in mode covers, in order.
func ResolveLocales(base string, targets []string, mode Mode) []string {
	switch mode {
	case ModeBaseOnly:
		return []string{base}
	case ModeAll:
		return append([]string{base}, targets...)
	default:
		return append([]string(nil), targets...)
	}
}

// prepare validates configuration and discovers the source files under root.
// The filter is compiled before anything else so a bad upload section fails
// without any remote call.
func (s *Syncer) prepare(ctx context.Context, root string) ([]string, []types.SourceFile, error) {
	f, err := filter.Compile(s.cfg.Upload.Only, s.cfg.Upload.Except)
	if err != nil {
		return nil, nil, err
	}

	targets, err := s.TargetLocales(ctx)
	if err != nil {
		return nil, nil, err
	}

	files, err := discover.DiscoverLocal(root, s.cfg.BaseLocale, f)
	if err != nil {
		return nil, nil, fmt.Errorf("discovering source files: %w", err)
	}
	return targets, files, nil
}

// Upload sends every discovered source file under root and returns their
// paths. A file counts as processed whatever status the service answers;
// only a failure to reach the service stops the run.
func (s *Syncer) Upload(ctx context.Context, root string) ([]string, error) {
	_, files, err := s.prepare(ctx, root)
	if err != nil {
		return nil, err
	}

	keepAll := s.cfg.Upload.KeepAllStrings()
	uploaded := make([]string, 0, len(files))

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return uploaded, fmt.Errorf("upload cancelled: %w", err)
		}

		fmt.Fprintf(s.out, "[%d/%d] Uploading %s", i+1, len(files), file.Name)

		resp, err := s.client.UploadFile(ctx, file.Path, client.FileFormat, keepAll)
		if err != nil {
			fmt.Fprintln(s.out) // Complete the line
			return uploaded, fmt.Errorf("uploading %s: %w", file.RelPath, err)
		}

		switch {
		case resp.Success():
			fmt.Fprintln(s.out)
		case resp.StatusCode == http.StatusNotModified:
			fmt.Fprintln(s.out, " (unchanged)")
		default:
			fmt.Fprintf(s.out, " (status %d)\n", resp.StatusCode)
		}

		uploaded = append(uploaded, file.Path)
	}

	return uploaded, nil
}

// Skip records a (file, locale) pair the service had no translation for.
type Skip struct {
	Locale     string
	Source     string
	StatusCode int
}

// DownloadResult summarizes a download.
type DownloadResult struct {
	Written []string // Paths of translation files written
	Skipped []Skip
}

// Download fetches the translation of every discovered source file for each
// locale selected by mode, locale by locale, and writes it with the
// translation notice prepended. Pairs answered with anything but 200 are
// skipped: nothing is written or removed for them.
func (s *Syncer) Download(ctx context.Context, root string, mode Mode) (*DownloadResult, error) {
	targets, files, err := s.prepare(ctx, root)
	if err != nil {
		return nil, err
	}

	mapper := localepath.New(root, s.cfg.BaseLocale)
	result := &DownloadResult{}

	for _, locale := range ResolveLocales(s.cfg.BaseLocale, targets, mode) {
		fmt.Fprintf(s.out, "%s/\n", relDir(root, mapper.DestinationDir(locale)))
		remoteLocale := localepath.RemoteCode(locale)

		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return result, fmt.Errorf("download cancelled: %w", err)
			}

			resp, err := s.client.ExportTranslation(ctx, file.Name, remoteLocale)
			if err != nil {
				return result, fmt.Errorf("exporting %s for %s: %w", file.Name, locale, err)
			}
			if !resp.OK() {
				result.Skipped = append(result.Skipped, Skip{Locale: locale, Source: file.Name, StatusCode: resp.StatusCode})
				continue
			}

			path, err := s.saveTranslation(mapper, locale, file.Name, resp.Body)
			if err != nil {
				return result, err
			}
			result.Written = append(result.Written, path)
			fmt.Fprintf(s.out, "  %s\n", filepath.Base(path))
		}
	}

	return result, nil
}

// Plan lists the translation units a download in mode would process, with
// their destinations. It touches neither the remote files nor the disk
// beyond discovery.
func (s *Syncer) Plan(ctx context.Context, root string, mode Mode) ([]types.TranslationUnit, error) {
	targets, files, err := s.prepare(ctx, root)
	if err != nil {
		return nil, err
	}

	mapper := localepath.New(root, s.cfg.BaseLocale)
	var units []types.TranslationUnit
	for _, locale := range ResolveLocales(s.cfg.BaseLocale, targets, mode) {
		for _, file := range files {
			units = append(units, types.TranslationUnit{
				Source:      file,
				Locale:      locale,
				RemoteCode:  localepath.RemoteCode(locale),
				Destination: mapper.Destination(file.Name, locale),
			})
		}
	}
	return units, nil
}

// saveTranslation writes body for (locale, source) and returns the path.
func (s *Syncer) saveTranslation(mapper localepath.Mapper, locale, source string, body []byte) (string, error) {
	dir, err := mapper.EnsureDir(locale)
	if err != nil {
		return "", err
	}

	content, err := renderTranslation(body)
	if err != nil {
		return "", fmt.Errorf("rendering %s for %s: %w", source, locale, err)
	}

	path := filepath.Join(dir, mapper.FileName(source, locale))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("writing translation %s: %w", path, err)
	}
	return path, nil
}

// relDir renders dir relative to root for progress output.
func relDir(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return dir
	}
	return filepath.ToSlash(rel)
}
