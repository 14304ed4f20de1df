// Package s3store implements the remote project operations on top of an
// S3-compatible bucket. Uploaded sources land under <prefix>sources/ and
// translations are read from <prefix>translations/<locale>/<source name>,
// where an external translation pipeline is expected to drop them.
package s3store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/13rac1/skysync/internal/client"
	"github.com/13rac1/skysync/internal/manifest"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const (
	sourcesDir      = "sources/"
	translationsDir = "translations/"
)

// API is the subset of the S3 client used by Store.
type API interface {
	manager.UploadAPIClient
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store is a client.ProjectClient backed by an S3 bucket.
type Store struct {
	api      API
	bucket   string
	prefix   string
	uploader *manager.Uploader
	manifest *manifest.Manifest
}

var (
	_ client.ProjectClient  = (*Store)(nil)
	_ client.LanguageLister = (*Store)(nil)
)

// New creates a Store for bucket. A non-empty prefix is normalized to end with "/".
func New(api API, bucket, prefix string) *Store {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Store{
		api:    api,
		bucket: bucket,
		prefix: prefix,
		uploader: manager.NewUploader(api, func(u *manager.Uploader) {
			u.PartSize = 5 * 1024 * 1024
			u.Concurrency = 1
		}),
	}
}

// SourceKey returns the object key an uploaded source file is stored under.
// Only the base name is used, so nested sources sharing a name share a key.
func (s *Store) SourceKey(name string) string {
	return s.prefix + sourcesDir + name
}

// TranslationKey returns the object key a translation is read from.
func (s *Store) TranslationKey(locale, sourceFileName string) string {
	return s.prefix + translationsDir + locale + "/" + sourceFileName
}

// UploadFile stores the file under its source key. Files whose modification
// time, size and options match the manifest are not sent again; those
// report 304 Not Modified.
func (s *Store) UploadFile(ctx context.Context, path, format string, keepAllStrings bool) (*client.Response, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("getting file info for %s: %w", path, err)
	}

	m := s.loadManifest(ctx)
	key := s.SourceKey(filepath.Base(path))
	entry := manifest.FileEntry{
		Mtime:          info.ModTime().UTC(),
		Size:           info.Size(),
		Format:         format,
		KeepAllStrings: keepAllStrings,
	}
	if m.Unchanged(key, entry) {
		return &client.Response{StatusCode: http.StatusNotModified}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close file %s: %v\n", path, closeErr)
		}
	}()

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/x-yaml"),
		Metadata: map[string]string{
			"file-format":            format,
			"is-keeping-all-strings": strconv.FormatBool(keepAllStrings),
		},
	})
	if err != nil {
		return s.classify("s3 upload", err)
	}

	m.Files[key] = entry
	if err := manifest.Save(ctx, s.api, s.bucket, s.manifestKey(), m); err != nil {
		// Log warning but don't fail - the file itself was uploaded
		fmt.Fprintf(os.Stderr, "Warning: failed to save manifest (upload succeeded): %v\n", err)
	}

	return &client.Response{StatusCode: http.StatusCreated}, nil
}

// ExportTranslation reads the translation of sourceFileName for locale.
// A missing object is a 404 response, not an error.
func (s *Store) ExportTranslation(ctx context.Context, sourceFileName, locale string) (*client.Response, error) {
	key := s.TranslationKey(locale, sourceFileName)
	obj, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return s.classify("get object "+key, err)
	}
	defer func() { _ = obj.Body.Close() }()

	body, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, fmt.Errorf("reading object %s: %w", key, err)
	}

	return &client.Response{StatusCode: http.StatusOK, Body: body}, nil
}

// UploadedSources returns the names of the source files recorded in the
// manifest, sorted.
func (s *Store) UploadedSources(ctx context.Context) []string {
	m := s.loadManifest(ctx)
	root := s.prefix + sourcesDir

	var names []string
	for _, key := range m.Keys() {
		if name, ok := strings.CutPrefix(key, root); ok {
			names = append(names, name)
		}
	}
	return names
}

func (s *Store) manifestKey() string {
	return s.prefix + manifest.FileName
}

// loadManifest loads the manifest once per Store.
func (s *Store) loadManifest(ctx context.Context) *manifest.Manifest {
	if s.manifest != nil {
		return s.manifest
	}

	m, err := manifest.Load(ctx, s.api, s.bucket, s.manifestKey())
	if err != nil {
		// Log warning but continue - treat as first run
		fmt.Fprintf(os.Stderr, "Warning: failed to load manifest (treating as first run): %v\n", err)
		m = manifest.New()
	}
	s.manifest = m
	return m
}

// ErrBucketUnavailable marks failures that affect the whole bucket rather
// than one object: a missing bucket or denied access.
var ErrBucketUnavailable = errors.New("bucket unavailable")

// classify turns an S3 error into a per-object status or a run-level error.
// Only a missing object is a status (404); everything else aborts the run.
func (s *Store) classify(op string, err error) (*client.Response, error) {
	if isBucketError(err) {
		return nil, fmt.Errorf("%s: bucket %s: %w: %w", op, s.bucket, ErrBucketUnavailable, err)
	}
	if manifest.IsNotFound(err) {
		return &client.Response{StatusCode: http.StatusNotFound}, nil
	}
	return nil, fmt.Errorf("%s: %w", op, err)
}

func isBucketError(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "AccessDenied", "AllAccessDisabled", "NoSuchBucket", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return true
	}
	return false
}
