// Package filter compiles the upload only/except settings into a predicate
// over string file paths relative to the strings root.
package filter

import (
	"fmt"

	"github.com/13rac1/skysync/internal/types"
)

// Kind identifies which rule a Filter applies.
type Kind int

const (
	// AcceptAll accepts every path. It is the zero value.
	AcceptAll Kind = iota
	// Only accepts exactly the listed paths.
	Only
	// Except accepts every path except the listed ones.
	Except
)

func (k Kind) String() string {
	switch k {
	case Only:
		return "only"
	case Except:
		return "except"
	default:
		return "all"
	}
}

// Filter decides which relative paths take part in an upload.
// The zero Filter accepts everything.
type Filter struct {
	kind  Kind
	paths map[string]struct{}
}

// Compile builds a Filter from the upload.only and upload.except lists.
// Setting both is a configuration error.
func Compile(only, except []string) (Filter, error) {
	if len(only) > 0 && len(except) > 0 {
		return Filter{}, fmt.Errorf("%w: can't use both `only` and `except` upload options", types.ErrConfiguration)
	}

	switch {
	case len(only) > 0:
		return Filter{kind: Only, paths: toSet(only)}, nil
	case len(except) > 0:
		return Filter{kind: Except, paths: toSet(except)}, nil
	default:
		return Filter{}, nil
	}
}

// Kind returns the rule this filter applies.
func (f Filter) Kind() Kind {
	return f.kind
}

// Accept reports whether relPath passes the filter. Matching is exact.
func (f Filter) Accept(relPath string) bool {
	_, listed := f.paths[relPath]
	switch f.kind {
	case Only:
		return listed
	case Except:
		return !listed
	default:
		return true
	}
}

func toSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set
}
