// Package onesky is a client for the OneSky Platform API v1, covering the
// calls skysync needs: file upload, translation export, and project languages.
package onesky

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/13rac1/skysync/internal/client"
	"github.com/13rac1/skysync/internal/types"
	"github.com/go-resty/resty/v2"
)

// Sentinel errors for calls that do not return a client.Response.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// Client talks to one OneSky project.
type Client struct {
	apiKey    string
	apiSecret string
	projectID string
	http      *resty.Client
	now       func() time.Time
}

// New creates a Client from the onesky config section.
func New(cfg types.OneSkyConfig) *Client {
	return &Client{
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		projectID: cfg.ProjectID,
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout).
			SetHeader("User-Agent", "skysync"),
		now: time.Now,
	}
}

var (
	_ client.ProjectClient  = (*Client)(nil)
	_ client.LanguageLister = (*Client)(nil)
)

// UploadFile sends a string file to POST /projects/{id}/files.
func (c *Client) UploadFile(ctx context.Context, path, format string, keepAllStrings bool) (*client.Response, error) {
	resp, err := c.request(ctx).
		SetFile("file", path).
		SetFormData(map[string]string{
			"file_format":            format,
			"is_keeping_all_strings": strconv.FormatBool(keepAllStrings),
		}).
		Post("/projects/{project_id}/files")
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", path, err)
	}
	return toResponse(resp), nil
}

// ExportTranslation downloads one translated file from GET /projects/{id}/translations.
// OneSky answers 202 while an export is still being prepared and 204 when
// there is nothing to export; both pass through as-is.
func (c *Client) ExportTranslation(ctx context.Context, sourceFileName, locale string) (*client.Response, error) {
	resp, err := c.request(ctx).
		SetQueryParam("source_file_name", sourceFileName).
		SetQueryParam("locale", locale).
		Get("/projects/{project_id}/translations")
	if err != nil {
		return nil, fmt.Errorf("exporting %s (%s): %w", sourceFileName, locale, err)
	}
	return toResponse(resp), nil
}

type languagesResponse struct {
	Data []struct {
		Code           string `json:"code"`
		IsBaseLanguage bool   `json:"is_base_language"`
	} `json:"data"`
}

// ListLanguages returns the languages enabled in the project.
func (c *Client) ListLanguages(ctx context.Context) ([]client.Language, error) {
	var result languagesResponse
	resp, err := c.request(ctx).
		SetResult(&result).
		Get("/projects/{project_id}/languages")
	if err != nil {
		return nil, fmt.Errorf("listing languages: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("listing languages: %w", ErrUnauthorized)
	case http.StatusNotFound:
		return nil, fmt.Errorf("listing languages for project %s: %w", c.projectID, ErrNotFound)
	default:
		return nil, fmt.Errorf("listing languages: unexpected status %d", resp.StatusCode())
	}

	languages := make([]client.Language, 0, len(result.Data))
	for _, l := range result.Data {
		languages = append(languages, client.Language{Code: l.Code, IsBase: l.IsBaseLanguage})
	}
	return languages, nil
}

// request starts a request carrying the project path parameter and auth query.
func (c *Client) request(ctx context.Context) *resty.Request {
	timestamp := strconv.FormatInt(c.now().Unix(), 10)
	return c.http.R().
		SetContext(ctx).
		SetPathParam("project_id", c.projectID).
		SetQueryParams(map[string]string{
			"api_key":   c.apiKey,
			"timestamp": timestamp,
			"dev_hash":  devHash(timestamp, c.apiSecret),
		})
}

// devHash is the request signature: hex md5 of timestamp followed by the API secret.
func devHash(timestamp, secret string) string {
	sum := md5.Sum([]byte(timestamp + secret))
	return hex.EncodeToString(sum[:])
}

func toResponse(resp *resty.Response) *client.Response {
	return &client.Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}
}
