package pathutil

import (
	"net/url"
	"regexp"
	"strings"
)

// IumBase is the base URL of data embedded in a container.
const IumBase = "ium:/"

var (
	controlChars  = regexp.MustCompile(`[\x{0000}-\x{001F}\x{007F}\x{00FF}]`)
	hostileChars  = regexp.MustCompile(`[#*:<>?\\|+,;=\[\]]+`)
	leadingSlash  = regexp.MustCompile(`^\.?/+`)
	leadingDotSl  = regexp.MustCompile(`^\.?/`)
	repeatedSlash = regexp.MustCompile(`//+`)
)

// NameInfo resolves name against ium:/ and returns the relative path (the
// pathname without its leading slash) and the last path segment.
func NameInfo(name string) (relativePath, base string) {
	pathname := MustPathname(name, IumBase)
	relativePath = strings.TrimPrefix(pathname, "/")
	return relativePath, pathname[strings.LastIndex(pathname, "/")+1:]
}

// SafePath turns a URL pathname into a path every common filesystem accepts.
// The transform is lossy; callers keep the original path alongside.
func SafePath(pathname string) string {
	decoded, err := url.PathUnescape(pathname)
	if err != nil {
		decoded = pathname
	}
	decoded = controlChars.ReplaceAllString(decoded, "")
	decoded = hostileChars.ReplaceAllString(decoded, "-")
	decoded = leadingSlash.ReplaceAllString(decoded, "")
	return repeatedSlash.ReplaceAllString(decoded, "/")
}

// IumLegacyPath returns the entry name used by containers written before
// path safety existed, for a source about to be embedded.
func IumLegacyPath(relativePath string, extra bool) string {
	ref := relativePath
	if !extra {
		ref = "data/" + strings.TrimLeft(relativePath, "/")
	}
	return MustPathname(ref, IumBase)
}

// IumPath returns the entry name for a source about to be embedded.
func IumPath(relativePath string, extra bool) string {
	return SafePath(IumLegacyPath(relativePath, extra))
}

// SourcePaths resolves a manifest record back to its URL, its safe entry
// name and its legacy entry name.
func SourcePaths(relativePath, baseURL string, extra bool) (u URL, safe, legacy string, err error) {
	if baseURL == "" {
		baseURL = IumBase
	}
	u, err = Resolve(relativePath, baseURL)
	if err != nil {
		return URL{}, "", "", err
	}
	legacy = u.Pathname()
	if !extra {
		legacy = "/data/" + strings.TrimPrefix(legacy, "/")
	}
	return u, SafePath(legacy), legacy, nil
}

// ZipPath returns the entry name of a source in a plain zip export. A name
// already present in used is disambiguated by prefixing the source uuid.
// The chosen name is recorded in used.
func ZipPath(relativePath, baseURL, uuid string, used map[string]struct{}) string {
	if baseURL == "" {
		baseURL = IumBase
	}
	basePath := MustPathname("", baseURL)
	legacy := repeatedSlash.ReplaceAllString(basePath+"/"+relativePath, "/")
	safe := SafePath(legacy)
	if _, ok := used[safe]; ok {
		safe = SafePath(repeatedSlash.ReplaceAllString(uuid+"/"+legacy, "/"))
	}
	used[safe] = struct{}{}
	return safe
}

// NormalizeRelative strips one leading "/" or "./".
func NormalizeRelative(p string) string {
	return leadingDotSl.ReplaceAllString(p, "")
}

// JoinSub prefixes p with subPath and normalizes the result.
func JoinSub(subPath, p string) string {
	return NormalizeRelative(subPath + "/" + p)
}

// SanitizeSubPath normalizes a merge or subroot prefix.
func SanitizeSubPath(subPath string) string {
	return strings.TrimRight(NormalizeRelative(subPath), "/")
}

// EntryName normalizes a zip entry name for lookups: repeated slashes are
// collapsed and leading slashes removed.
func EntryName(name string) string {
	return strings.TrimLeft(repeatedSlash.ReplaceAllString(name, "/"), "/")
}
