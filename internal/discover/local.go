// Package discover finds the base-language string files under a strings root.
// A file qualifies when it has the .yml extension, passes the upload filter,
// and its YAML document has a top-level key equal to the base locale.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/13rac1/skysync/internal/filter"
	"github.com/13rac1/skysync/internal/types"
	"gopkg.in/yaml.v3"
)

// StringFileExt is the extension of string files considered for discovery.
const StringFileExt = ".yml"

// DiscoverLocal walks root and returns the base-language source files in walk order.
//
// Returns an error if root doesn't exist or is not a directory. Files that fail
// to read or parse, and files without a base locale key, are skipped silently.
func DiscoverLocal(root, baseLocale string, f filter.Filter) ([]types.SourceFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("strings root does not exist: %s", root)
		}
		return nil, fmt.Errorf("accessing strings root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("strings root is not a directory: %s", root)
	}

	var files []types.SourceFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// Log warning but keep walking the rest of the tree
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(d.Name()) != StringFileExt {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("computing relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		if !f.Accept(relPath) {
			return nil
		}

		if !HasLocaleKey(path, baseLocale) {
			return nil
		}

		files = append(files, types.SourceFile{
			Path:    path,
			RelPath: relPath,
			Name:    d.Name(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking strings root %s: %w", root, err)
	}

	return files, nil
}

// DuplicateNames returns the base names shared by more than one source file,
// mapped to their relative paths in discovery order. Remote backends key
// sources by base name, so such files overwrite each other remotely.
func DuplicateNames(files []types.SourceFile) map[string][]string {
	byName := make(map[string][]string)
	for _, f := range files {
		byName[f.Name] = append(byName[f.Name], f.RelPath)
	}

	dups := make(map[string][]string)
	for name, paths := range byName {
		if len(paths) > 1 {
			dups[name] = paths
		}
	}
	return dups
}

// HasLocaleKey reports whether the YAML file at path is a mapping with a
// top-level key equal to locale. Unreadable or malformed files report false.
func HasLocaleKey(path, locale string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return hasTopLevelKey(data, locale)
}

func hasTopLevelKey(data []byte, key string) bool {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false
	}

	// yaml.Unmarshal wraps the document in a DocumentNode.
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return false
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return false
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		k := root.Content[i]
		if k.Kind == yaml.ScalarNode && k.Value == key {
			return true
		}
	}
	return false
}
