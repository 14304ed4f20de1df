// Package client declares the remote project operations the sync engine
// depends on. Backends live in the onesky and s3store packages.
package client

import (
	"context"
	"net/http"
)

// FileFormat is the format identifier sent with every uploaded string file.
const FileFormat = "RUBY_YAML"

// Response is the outcome of a remote call that reached the service.
// Non-success status codes are reported here, not as errors.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response carries a 200 status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode == http.StatusOK
}

// Success reports whether the response carries any 2xx status.
func (r *Response) Success() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// ProjectClient uploads source files to, and exports translations from, a
// remote translation project. Errors are returned only when the service
// could not be reached or the request could not be built.
type ProjectClient interface {
	UploadFile(ctx context.Context, path, format string, keepAllStrings bool) (*Response, error)
	ExportTranslation(ctx context.Context, sourceFileName, locale string) (*Response, error)
}

// Language is a project language as reported by the remote service.
type Language struct {
	Code   string // Remote form, e.g. "pt-BR"
	IsBase bool
}

// LanguageLister is implemented by backends that can report the project's
// languages. It is used when no locales are configured.
type LanguageLister interface {
	ListLanguages(ctx context.Context) ([]Language, error)
}
