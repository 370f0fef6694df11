package filelist

// Filter returns a new collection holding clones of the files for which
// keep returns true and of the sources they come from. The new collection
// has the options of c.
func (c *Collection) Filter(keep func(f *File, index int) bool) *Collection {
	out := c.empty()

	files := c.Files()
	sources := make(map[string]*Source)
	for _, s := range c.Sources() {
		sources[s.UUID] = s
	}
	added := make(map[string]struct{})
	for i, f := range files {
		if !keep(f, i) {
			continue
		}
		out.files = append(out.files, f.Clone())

		s, ok := sources[f.SourceUUID]
		if !ok {
			continue
		}
		if _, ok := added[f.SourceUUID]; ok {
			continue
		}
		added[f.SourceUUID] = struct{}{}
		out.sources = append(out.sources, s.Clone())
	}
	return out
}
