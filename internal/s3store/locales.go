package s3store

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/13rac1/skysync/internal/client"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// LocaleCount is a translation locale present in the bucket with its file count.
type LocaleCount struct {
	Locale string // Remote form, as used in the object key
	Prefix string
	Files  int
}

// ListLocales lists the locale directories under <prefix>translations/ and
// counts the .yml objects in each. Results are sorted by locale.
func (s *Store) ListLocales(ctx context.Context) ([]LocaleCount, error) {
	root := s.prefix + translationsDir

	prefixes, err := s.listPrefixes(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("list locale prefixes: %w", err)
	}

	var locales []LocaleCount
	for _, p := range prefixes {
		locale := path.Base(strings.TrimSuffix(strings.TrimPrefix(p, root), "/"))
		if locale == "" || locale == "." {
			continue
		}

		count, err := s.countFiles(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("count files for %s: %w", locale, err)
		}

		locales = append(locales, LocaleCount{Locale: locale, Prefix: p, Files: count})
	}

	sort.Slice(locales, func(i, j int) bool {
		return locales[i].Locale < locales[j].Locale
	})

	return locales, nil
}

// ListLanguages reports every locale that has a translations directory.
// The bucket has no notion of a base language.
func (s *Store) ListLanguages(ctx context.Context) ([]client.Language, error) {
	locales, err := s.ListLocales(ctx)
	if err != nil {
		return nil, err
	}

	languages := make([]client.Language, 0, len(locales))
	for _, l := range locales {
		languages = append(languages, client.Language{Code: l.Locale})
	}
	return languages, nil
}

// listPrefixes returns the immediate child prefixes of prefix, across all pages.
func (s *Store) listPrefixes(ctx context.Context, prefix string) ([]string, error) {
	var prefixes []string

	paginator := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, cp := range page.CommonPrefixes {
			if cp.Prefix != nil {
				prefixes = append(prefixes, *cp.Prefix)
			}
		}
	}

	return prefixes, nil
}

// countFiles counts .yml objects under prefix, across all pages.
func (s *Store) countFiles(ctx context.Context, prefix string) (int, error) {
	count := 0

	paginator := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil && strings.HasSuffix(*obj.Key, ".yml") {
				count++
			}
		}
	}

	return count, nil
}
