// Package filelist builds virtual collections of files from heterogeneous
// sources and stores them in IUM containers.
//
// A [Collection] holds two views of the same content: the sources that were
// appended (a directory on disk, a web listing, raw bytes, an archive) and
// the flat, path-addressed files derived from them. Zip and gzip sources
// are expanded into their entries according to [Options], and remote
// sources are fetched lazily through the package http client, optionally
// backed by a fetch cache (see [WithFetchCache]).
//
// # Quick Start
//
// Collect a directory and write it as an IUM container:
//
//	c, err := filelist.FromPath(ctx, "./spectra")
//	if err != nil {
//	    return err
//	}
//	data, err := c.ToIum(ctx)
//
// Decode a container and read a file:
//
//	c, err := filelist.FromIum(ctx, data)
//	if err != nil {
//	    return err
//	}
//	f, ok := c.File("spectra/1h.jdx")
//	content, err := f.Text(ctx)
//
// # Containers
//
// An IUM container is a zip archive whose first entry is a stored
// "mimetype" entry, followed by the data of every embedded source and an
// index.json manifest. [IsIum] and [IsIumAt] recognize containers from
// their first bytes only. Version 1 manifests are migrated on load.
//
// # Combining collections
//
// [Collection.AppendCollection] merges another collection below a sub
// path with a [MergeStrategy] for colliding files, and [Collection.Subroot]
// extracts the files below a path into a new collection.
//
// The registry subpackage pushes and pulls containers as OCI artifacts.
package filelist
