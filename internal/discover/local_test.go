package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/13rac1/skysync/internal/filter"
	"github.com/13rac1/skysync/internal/types"
)

func TestDiscoverLocal(t *testing.T) {
	tests := []struct {
		name       string
		setupFunc  func(t *testing.T) string // returns strings root
		only       []string
		except     []string
		wantErr    bool
		wantErrMsg string
		wantRel    []string // expected relative paths, sorted
	}{
		{
			name: "base locale files at root and nested",
			setupFunc: func(t *testing.T) string {
				root := t.TempDir()
				writeFile(t, filepath.Join(root, "app.en.yml"), "en:\n  hello: Hello\n")
				writeFile(t, filepath.Join(root, "models", "user.en.yml"), "en:\n  name: Name\n")
				return root
			},
			wantRel: []string{"app.en.yml", "models/user.en.yml"},
		},
		{
			name: "files without base locale key are skipped",
			setupFunc: func(t *testing.T) string {
				root := t.TempDir()
				writeFile(t, filepath.Join(root, "app.en.yml"), "en:\n  hello: Hello\n")
				writeFile(t, filepath.Join(root, "app.fr.yml"), "fr:\n  hello: Bonjour\n")
				writeFile(t, filepath.Join(root, "onesky_de", "app.de.yml"), "de:\n  hello: Hallo\n")
				writeFile(t, filepath.Join(root, "nested.yml"), "greeting:\n  en: Hello\n")
				return root
			},
			wantRel: []string{"app.en.yml"},
		},
		{
			name: "unparseable and empty files are skipped",
			setupFunc: func(t *testing.T) string {
				root := t.TempDir()
				writeFile(t, filepath.Join(root, "app.en.yml"), "en:\n  hello: Hello\n")
				writeFile(t, filepath.Join(root, "broken.en.yml"), "en: [unclosed\n")
				writeFile(t, filepath.Join(root, "empty.en.yml"), "")
				writeFile(t, filepath.Join(root, "list.en.yml"), "- en\n- fr\n")
				writeFile(t, filepath.Join(root, "scalar.en.yml"), "en\n")
				return root
			},
			wantRel: []string{"app.en.yml"},
		},
		{
			name: "only yml extension is considered",
			setupFunc: func(t *testing.T) string {
				root := t.TempDir()
				writeFile(t, filepath.Join(root, "app.en.yml"), "en:\n  a: b\n")
				writeFile(t, filepath.Join(root, "app.en.yaml"), "en:\n  a: b\n")
				writeFile(t, filepath.Join(root, "app.en.YML"), "en:\n  a: b\n")
				writeFile(t, filepath.Join(root, "notes.txt"), "en: x\n")
				return root
			},
			wantRel: []string{"app.en.yml"},
		},
		{
			name: "hidden directories are not descended",
			setupFunc: func(t *testing.T) string {
				root := t.TempDir()
				writeFile(t, filepath.Join(root, "app.en.yml"), "en:\n  a: b\n")
				writeFile(t, filepath.Join(root, ".git", "stale.en.yml"), "en:\n  a: b\n")
				return root
			},
			wantRel: []string{"app.en.yml"},
		},
		{
			name: "only filter",
			setupFunc: func(t *testing.T) string {
				root := t.TempDir()
				writeFile(t, filepath.Join(root, "app.en.yml"), "en:\n  a: b\n")
				writeFile(t, filepath.Join(root, "devise.en.yml"), "en:\n  a: b\n")
				writeFile(t, filepath.Join(root, "models", "user.en.yml"), "en:\n  a: b\n")
				return root
			},
			only:    []string{"app.en.yml", "models/user.en.yml"},
			wantRel: []string{"app.en.yml", "models/user.en.yml"},
		},
		{
			name: "except filter",
			setupFunc: func(t *testing.T) string {
				root := t.TempDir()
				writeFile(t, filepath.Join(root, "app.en.yml"), "en:\n  a: b\n")
				writeFile(t, filepath.Join(root, "devise.en.yml"), "en:\n  a: b\n")
				return root
			},
			except:  []string{"devise.en.yml"},
			wantRel: []string{"app.en.yml"},
		},
		{
			name: "filter match does not bypass the base locale check",
			setupFunc: func(t *testing.T) string {
				root := t.TempDir()
				writeFile(t, filepath.Join(root, "app.en.yml"), "fr:\n  a: b\n")
				return root
			},
			only:    []string{"app.en.yml"},
			wantRel: nil,
		},
		{
			name: "empty root",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantRel: nil,
		},
		{
			name: "nonexistent root",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing")
			},
			wantErr:    true,
			wantErrMsg: "strings root does not exist",
		},
		{
			name: "root is a file",
			setupFunc: func(t *testing.T) string {
				root := t.TempDir()
				path := filepath.Join(root, "app.en.yml")
				writeFile(t, path, "en: {}\n")
				return path
			},
			wantErr:    true,
			wantErrMsg: "strings root is not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tt.setupFunc(t)

			f, err := filter.Compile(tt.only, tt.except)
			if err != nil {
				t.Fatalf("filter.Compile() error = %v", err)
			}

			files, err := DiscoverLocal(root, "en", f)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !strings.Contains(err.Error(), tt.wantErrMsg) {
					t.Errorf("expected error to contain %q, got %q", tt.wantErrMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := relPaths(files)
			if strings.Join(got, ",") != strings.Join(tt.wantRel, ",") {
				t.Errorf("discovered %v, want %v", got, tt.wantRel)
			}

			for _, sf := range files {
				if sf.Name != filepath.Base(sf.Path) {
					t.Errorf("Name = %q, want base of %q", sf.Name, sf.Path)
				}
				if filepath.Join(root, filepath.FromSlash(sf.RelPath)) != sf.Path {
					t.Errorf("RelPath %q does not resolve to Path %q", sf.RelPath, sf.Path)
				}
			}
		})
	}
}

func TestHasTopLevelKey(t *testing.T) {
	tests := []struct {
		name string
		data string
		key  string
		want bool
	}{
		{name: "rails style", data: "en:\n  a: b\n", key: "en", want: true},
		{name: "second key", data: "fr:\n  a: b\nen:\n  a: c\n", key: "en", want: true},
		{name: "nested only", data: "root:\n  en: x\n", key: "en", want: false},
		{name: "quoted key", data: "\"ms_MY\":\n  a: b\n", key: "ms_MY", want: true},
		{name: "null value still counts", data: "en:\n", key: "en", want: true},
		{name: "norwegian is a string key", data: "no:\n  a: b\n", key: "no", want: true},
		{name: "comment only", data: "# nothing here\n", key: "en", want: false},
		{name: "malformed", data: "en: [", key: "en", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasTopLevelKey([]byte(tt.data), tt.key); got != tt.want {
				t.Errorf("hasTopLevelKey(%q, %q) = %v, want %v", tt.data, tt.key, got, tt.want)
			}
		})
	}
}

func relPaths(files []types.SourceFile) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.RelPath)
	}
	sort.Strings(out)
	return out
}

// writeFile creates parent directories and writes content to path.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

func TestDuplicateNames(t *testing.T) {
	files := []types.SourceFile{
		{RelPath: "a/app.en.yml", Name: "app.en.yml"},
		{RelPath: "devise.en.yml", Name: "devise.en.yml"},
		{RelPath: "b/app.en.yml", Name: "app.en.yml"},
	}

	dups := DuplicateNames(files)
	if len(dups) != 1 {
		t.Fatalf("DuplicateNames() = %v, want one entry", dups)
	}
	if got := strings.Join(dups["app.en.yml"], ","); got != "a/app.en.yml,b/app.en.yml" {
		t.Errorf("DuplicateNames()[app.en.yml] = %s", got)
	}

	if dups := DuplicateNames(files[:2]); len(dups) != 0 {
		t.Errorf("DuplicateNames() without duplicates = %v", dups)
	}
}
