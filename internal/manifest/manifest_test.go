package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestNew(t *testing.T) {
	m := New()

	if m.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", m.Version, CurrentVersion)
	}
	if m.Files == nil || len(m.Files) != 0 {
		t.Errorf("Files = %v, want empty initialized map", m.Files)
	}
}

func TestUnchanged(t *testing.T) {
	base := FileEntry{
		Mtime:          time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Size:           120,
		Format:         "RUBY_YAML",
		KeepAllStrings: true,
	}
	m := New()
	m.Files["skysync/sources/app.en.yml"] = base

	tests := []struct {
		name  string
		key   string
		entry FileEntry
		want  bool
	}{
		{name: "identical", key: "skysync/sources/app.en.yml", entry: base, want: true},
		{
			name: "sub-second mtime difference",
			key:  "skysync/sources/app.en.yml",
			entry: FileEntry{
				Mtime: base.Mtime.Add(500 * time.Millisecond), Size: 120, Format: "RUBY_YAML", KeepAllStrings: true,
			},
			want: true,
		},
		{
			name:  "newer mtime",
			key:   "skysync/sources/app.en.yml",
			entry: FileEntry{Mtime: base.Mtime.Add(time.Minute), Size: 120, Format: "RUBY_YAML", KeepAllStrings: true},
			want:  false,
		},
		{
			name:  "size changed",
			key:   "skysync/sources/app.en.yml",
			entry: FileEntry{Mtime: base.Mtime, Size: 121, Format: "RUBY_YAML", KeepAllStrings: true},
			want:  false,
		},
		{
			name:  "keep all strings toggled",
			key:   "skysync/sources/app.en.yml",
			entry: FileEntry{Mtime: base.Mtime, Size: 120, Format: "RUBY_YAML", KeepAllStrings: false},
			want:  false,
		},
		{name: "unknown key", key: "skysync/sources/other.en.yml", entry: base, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Unchanged(tt.key, tt.entry); got != tt.want {
				t.Errorf("Unchanged() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeysSorted(t *testing.T) {
	m := New()
	m.Files["b"] = FileEntry{}
	m.Files["a"] = FileEntry{}
	m.Files["c"] = FileEntry{}

	got := fmt.Sprint(m.Keys())
	if got != "[a b c]" {
		t.Errorf("Keys() = %s, want [a b c]", got)
	}
}

func TestManifestJSONFormat(t *testing.T) {
	m := &Manifest{
		Version: 1,
		Files: map[string]FileEntry{
			"app.en.yml": {
				Mtime:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				Size:           100,
				Format:         "RUBY_YAML",
				KeepAllStrings: true,
			},
		},
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent failed: %v", err)
	}

	want := `{
  "version": 1,
  "files": {
    "app.en.yml": {
      "mtime": "2025-01-01T00:00:00Z",
      "size": 100,
      "format": "RUBY_YAML",
      "keepAllStrings": true
    }
  }
}`
	if string(data) != want {
		t.Errorf("JSON format mismatch:\ngot:\n%s\nwant:\n%s", data, want)
	}
}

type mockS3Client struct {
	getObjectResp *s3.GetObjectOutput
	getObjectErr  error
	putObjectErr  error
	putBody       []byte
	putKey        string
}

func (m *mockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return m.getObjectResp, m.getObjectErr
}

func (m *mockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putObjectErr != nil {
		return nil, m.putObjectErr
	}
	m.putKey = *params.Key
	m.putBody, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestLoad(t *testing.T) {
	body := func(s string) *s3.GetObjectOutput {
		return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte(s)))}
	}

	tests := []struct {
		name      string
		mock      *mockS3Client
		wantErr   bool
		wantFiles int
	}{
		{name: "missing manifest (NoSuchKey)", mock: &mockS3Client{getObjectErr: &s3types.NoSuchKey{}}},
		{name: "missing manifest (NotFound)", mock: &mockS3Client{getObjectErr: &s3types.NotFound{}}},
		{
			name: "existing manifest",
			mock: &mockS3Client{getObjectResp: body(`{
				"version": 1,
				"files": {"skysync/sources/app.en.yml": {"mtime": "2025-01-01T12:00:00Z", "size": 12, "format": "RUBY_YAML", "keepAllStrings": true}}
			}`)},
			wantFiles: 1,
		},
		{name: "null files map", mock: &mockS3Client{getObjectResp: body(`{"version": 1, "files": null}`)}},
		{name: "corrupt JSON", mock: &mockS3Client{getObjectResp: body("not json")}, wantErr: true},
		{name: "unsupported version", mock: &mockS3Client{getObjectResp: body(`{"version": 999, "files": {}}`)}, wantErr: true},
		{name: "network error", mock: &mockS3Client{getObjectErr: errors.New("network timeout")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Load(context.Background(), tt.mock, "bucket", "skysync/.manifest.json")
			if tt.wantErr {
				if err == nil {
					t.Fatal("Load() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if m.Files == nil {
				t.Fatal("Files map is nil, want initialized map")
			}
			if len(m.Files) != tt.wantFiles {
				t.Errorf("len(Files) = %d, want %d", len(m.Files), tt.wantFiles)
			}
		})
	}
}

func TestSave(t *testing.T) {
	m := New()
	m.Files["skysync/sources/app.en.yml"] = FileEntry{Size: 5, Format: "RUBY_YAML"}
	mock := &mockS3Client{}

	if err := Save(context.Background(), mock, "bucket", "skysync/.manifest.json", m); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if mock.putKey != "skysync/.manifest.json" {
		t.Errorf("put key = %q", mock.putKey)
	}

	var saved Manifest
	if err := json.Unmarshal(mock.putBody, &saved); err != nil {
		t.Fatalf("saved manifest is not JSON: %v", err)
	}
	if saved.Files["skysync/sources/app.en.yml"].Size != 5 {
		t.Errorf("saved entry = %+v", saved.Files["skysync/sources/app.en.yml"])
	}
}

func TestSaveNetworkError(t *testing.T) {
	mock := &mockS3Client{putObjectErr: errors.New("network timeout")}
	if err := Save(context.Background(), mock, "bucket", "key", New()); err == nil {
		t.Fatal("Save() error = nil, want error")
	}
}
