package registry

import "github.com/cheminfo/filelist"

const (
	// ArtifactType identifies IUM collections as an OCI 1.1 artifact type.
	ArtifactType = "application/vnd.cheminfo.ium.v1"

	// MediaTypeIum is the default media type of the container layer.
	MediaTypeIum = filelist.DefaultMimetype

	// DefaultLayerTitle is the file name recorded on the layer.
	DefaultLayerTitle = "collection.ium"
)

// Annotation keys set on pushed manifests.
const (
	AnnotationSources = "org.cheminfo.ium.sources"
	AnnotationFiles   = "org.cheminfo.ium.files"
)
