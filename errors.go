package filelist

import (
	"errors"

	filehttp "github.com/cheminfo/filelist/http"
)

// The messages below are matched by callers and tools; keep them stable.
//
//nolint:staticcheck // capitalized messages are part of the public contract
var (
	// ErrDuplicatePath is returned when an append or merge would produce two
	// files with the same relative path.
	ErrDuplicatePath = errors.New("Duplicate relativePath")

	// ErrInvalidIum is returned when a container is missing its manifest, has
	// the wrong mimetype or lacks the data of an embedded source.
	ErrInvalidIum = errors.New("Invalid IUM file")

	// ErrMissingBaseURL is returned when a remote source entry has no base
	// URL and no default was configured with WithBaseURL.
	ErrMissingBaseURL = errors.New("We could not find a baseURL")

	// ErrDuplicateUUID is returned when an appended source carries the UUID
	// of a source already in the collection.
	ErrDuplicateUUID = errors.New("Duplicate source uuid")

	// ErrUnreachable signals a broken collection invariant.
	ErrUnreachable = errors.New("Unreachable")

	// ErrKeyNotFound is returned by Get when no file has the key.
	ErrKeyNotFound = errors.New("Key not found")

	// ErrUnknownMergeStrategy is returned by AppendCollection.
	ErrUnknownMergeStrategy = errors.New("Unknown merge strategy")

	// ErrMissingSourceUUID is returned when an item reaches expansion without
	// the identity of its source.
	ErrMissingSourceUUID = errors.New("sourceUUID is not defined")

	// ErrUnsupportedContent is returned when a Content value cannot be read.
	ErrUnsupportedContent = errors.New("unsupported content")
)

// ErrFetch is returned when a remote source answers with a non-2xx status.
var ErrFetch = filehttp.ErrStatus
