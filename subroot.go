package filelist

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cheminfo/filelist/internal/pathutil"
)

// Subroot returns a new collection holding the files below subPath with
// that prefix removed. Their sources are cloned with fresh UUIDs and keep
// their previous path in OriginalRelativePath.
func (c *Collection) Subroot(subPath string) (*Collection, error) {
	prefix := pathutil.SanitizeSubPath(subPath) + "/"
	out := c.empty()

	sources := make(map[string]*Source)
	for _, s := range c.Sources() {
		sources[s.UUID] = s
	}
	added := make(map[string]string)

	for _, f := range c.Files() {
		rel, ok := strings.CutPrefix(f.RelativePath, prefix)
		if !ok {
			continue
		}

		id, ok := added[f.SourceUUID]
		if !ok {
			s, found := sources[f.SourceUUID]
			if !found {
				return nil, fmt.Errorf("%w: source not found for UUID: %s", ErrUnreachable, f.SourceUUID)
			}
			ns := s.Clone()
			ns.UUID = uuid.NewString()
			if ns.OriginalRelativePath == "" {
				ns.OriginalRelativePath = s.RelativePath
			}
			if trimmed, ok := strings.CutPrefix(s.RelativePath, prefix); ok {
				ns.RelativePath = trimmed
			} else {
				// The source is the archive holding the subroot.
				ns.RelativePath = s.Name()
			}
			id = ns.UUID
			added[f.SourceUUID] = id
			out.sources = append(out.sources, ns)
		}

		nf := f.Clone()
		nf.SourceUUID = id
		nf.RelativePath = rel
		out.files = append(out.files, nf)
	}
	return out, nil
}
