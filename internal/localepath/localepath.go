// Package localepath maps a (source file, locale) pair to the directory and
// file name its translation is written to.
//
// Translations for the base locale are written next to the sources. Other
// locales go into an onesky_<locale> directory under the strings root, with
// the locale segment of the file name replaced:
//
//	config/locales/app.en.yml -> config/locales/onesky_fr/app.fr.yml
package localepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// DirPrefix prefixes every per-locale translation directory.
const DirPrefix = "onesky_"

// FilenameOverrides maps a locale code to the code used in file names when
// the two differ. Rails loads Malay from *.ms.yml while the translation
// service names the locale ms_MY.
var FilenameOverrides = map[string]string{
	"ms_MY": "ms",
}

// Mapper computes destinations relative to a strings root.
type Mapper struct {
	Root       string
	BaseLocale string
}

// New returns a Mapper for the given strings root and base locale.
func New(root, baseLocale string) Mapper {
	return Mapper{Root: root, BaseLocale: baseLocale}
}

// DirName returns the translation directory name for locale.
func DirName(locale string) string {
	return DirPrefix + locale
}

// DestinationDir returns the directory translations for locale are written to.
func (m Mapper) DestinationDir(locale string) string {
	if locale == m.BaseLocale {
		return m.Root
	}
	return filepath.Join(m.Root, DirName(locale))
}

// EnsureDir returns DestinationDir(locale), creating it if needed.
// Calling it again for the same locale is a no-op.
func (m Mapper) EnsureDir(locale string) (string, error) {
	dir := m.DestinationDir(locale)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating translation directory %s: %w", dir, err)
	}
	return dir, nil
}

// FileName returns the translated file name for source in the target locale.
// The second dot-separated segment of the name (ignoring the extension) must
// equal the base locale for a substitution to happen; other names are
// returned unchanged.
func (m Mapper) FileName(source, target string) string {
	ext := filepath.Ext(source)
	segments := strings.Split(strings.TrimSuffix(source, ext), ".")
	if len(segments) < 2 || segments[1] != m.BaseLocale {
		return source
	}

	segments[1] = FilenameCode(target)
	return strings.Join(segments, ".") + ext
}

// Destination returns the full path a translation of source is written to,
// without creating anything.
func (m Mapper) Destination(source, locale string) string {
	return filepath.Join(m.DestinationDir(locale), m.FileName(source, locale))
}

// FilenameCode returns the code used for locale inside file names.
func FilenameCode(locale string) string {
	if code, ok := FilenameOverrides[locale]; ok {
		return code
	}
	return locale
}

// RemoteCode converts a local locale code (pt_BR) to the remote service form (pt-BR).
func RemoteCode(locale string) string {
	return strings.ReplaceAll(locale, "_", "-")
}

// LocalCode converts a remote locale code (pt-BR) to the local form (pt_BR).
func LocalCode(code string) string {
	return strings.ReplaceAll(code, "-", "_")
}

// Validate checks that locale is a well-formed BCP 47 tag once underscores
// are read as hyphens.
func Validate(locale string) error {
	if _, err := language.Parse(RemoteCode(locale)); err != nil {
		return fmt.Errorf("invalid locale code %q: %w", locale, err)
	}
	return nil
}
