// Package manifest reads and writes index.json, the manifest of an IUM
// container, and migrates older manifest versions to the current one.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/cheminfo/filelist/internal/pathutil"
)

// Version is the manifest version written by this package.
const Version = 2

// Name is the entry name of the manifest in a container.
const Name = "index.json"

// ErrUnsupportedVersion is returned for manifests newer than Version.
var ErrUnsupportedVersion = errors.New("manifest: unsupported version")

// Index is the decoded manifest.
//
// Options hold collection options verbatim so the manifest stays
// independent of their Go representation.
type Index struct {
	Version int             `json:"version,omitempty"`
	Options json.RawMessage `json:"options"`
	Sources []SourceRecord  `json:"sources"`
	// Paths maps a source UUID to the entry holding its data, and
	// "<uuid>_legacy" to the entry name used before paths were sanitized.
	Paths map[string]string `json:"paths,omitempty"`
}

// SourceRecord describes one source of the collection.
type SourceRecord struct {
	UUID                 string          `json:"uuid"`
	RelativePath         string          `json:"relativePath"`
	OriginalRelativePath string          `json:"originalRelativePath,omitempty"`
	BaseURL              string          `json:"baseURL,omitempty"`
	LastModified         int64           `json:"lastModified,omitempty"`
	Size                 int64           `json:"size,omitempty"`
	Extra                bool            `json:"extra,omitempty"`
	Options              json.RawMessage `json:"options,omitempty"`
}

// LegacyKey returns the Paths key of the legacy entry name of a source.
func LegacyKey(uuid string) string {
	return uuid + "_legacy"
}

// Load parses a manifest of any known version and returns it migrated to
// Version.
func Load(data []byte) (Index, error) {
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return Index{}, fmt.Errorf("manifest: decode: %w", err)
	}
	switch idx.Version {
	case 0, 1:
		return MigrateV1ToV2(idx)
	case Version:
		if idx.Paths == nil {
			idx.Paths = make(map[string]string)
		}
		return idx, nil
	default:
		return Index{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, idx.Version)
	}
}

// MigrateV1ToV2 adds the Paths map: every source with a UUID gets the
// sanitized entry name and the legacy entry name derived from its path and
// base URL. Sources without a UUID have no key to file them under; readers
// derive their entry names from the record itself. Sources are left
// untouched.
func MigrateV1ToV2(idx Index) (Index, error) {
	out := idx.Clone()
	out.Version = Version
	out.Paths = make(map[string]string, 2*len(idx.Sources))
	for _, s := range idx.Sources {
		if s.UUID == "" {
			continue
		}
		_, safe, legacy, err := pathutil.SourcePaths(s.RelativePath, s.BaseURL, s.Extra)
		if err != nil {
			return Index{}, fmt.Errorf("manifest: migrate source %s: %w", s.UUID, err)
		}
		out.Paths[s.UUID] = safe
		out.Paths[LegacyKey(s.UUID)] = legacy
	}
	return out, nil
}

// Marshal encodes idx as indented JSON.
func (idx Index) Marshal() ([]byte, error) {
	if len(idx.Options) == 0 {
		idx.Options = json.RawMessage("{}")
	}
	if idx.Sources == nil {
		idx.Sources = []SourceRecord{}
	}
	return json.MarshalIndent(idx, "", "  ")
}

// Clone returns a deep copy of idx.
func (idx Index) Clone() Index {
	out := Index{
		Version: idx.Version,
		Options: slices.Clone(idx.Options),
		Sources: make([]SourceRecord, len(idx.Sources)),
	}
	for i, s := range idx.Sources {
		s.Options = slices.Clone(s.Options)
		out.Sources[i] = s
	}
	if idx.Paths != nil {
		out.Paths = maps.Clone(idx.Paths)
	}
	return out
}
