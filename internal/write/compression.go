package write

import (
	"strings"

	"github.com/cheminfo/filelist/internal/pathutil"
)

// SkipCompressionFunc returns true when an entry should be stored uncompressed.
// It is called once per entry and should be inexpensive.
type SkipCompressionFunc func(path string) bool

// SkipExtensions returns a SkipCompressionFunc matching the last extension of
// a path, case-insensitively, against any of the given extension lists.
// Extensions are given without the leading dot, as in "zip" or "gz".
func SkipExtensions(lists ...[]string) SkipCompressionFunc {
	exts := make(map[string]struct{})
	for _, list := range lists {
		for _, ext := range list {
			exts[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
		}
	}
	return func(path string) bool {
		if len(exts) == 0 {
			return false
		}
		_, ok := exts[pathutil.Ext(path)]
		return ok
	}
}

// ShouldSkip checks if any predicate returns true for the given path.
func ShouldSkip(path string, predicates ...SkipCompressionFunc) bool {
	for _, fn := range predicates {
		if fn == nil {
			continue
		}
		if fn(path) {
			return true
		}
	}
	return false
}

// MethodFor returns Store when any predicate asks to skip compression and
// fallback otherwise.
func MethodFor(path string, fallback Method, predicates ...SkipCompressionFunc) Method {
	if ShouldSkip(path, predicates...) {
		return Store
	}
	return fallback
}
