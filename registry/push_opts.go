package registry

import (
	"maps"

	"github.com/cheminfo/filelist"
)

// PushOption configures a push.
type PushOption func(*pushConfig)

type pushConfig struct {
	tags        []string
	annotations map[string]string
	mediaType   string
	title       string
	iumOpts     []filelist.IumOption
}

func newPushConfig(opts []PushOption) pushConfig {
	cfg := pushConfig{
		annotations: make(map[string]string),
		mediaType:   MediaTypeIum,
		title:       DefaultLayerTitle,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithTags applies extra tags after the manifest is pushed under the tag
// of the reference.
func WithTags(tags ...string) PushOption {
	return func(cfg *pushConfig) {
		cfg.tags = append(cfg.tags, tags...)
	}
}

// WithAnnotations adds manifest annotations. They override the ones set
// automatically (creation time, source and file counts).
func WithAnnotations(annotations map[string]string) PushOption {
	return func(cfg *pushConfig) {
		maps.Copy(cfg.annotations, annotations)
	}
}

// WithMediaType sets the container mimetype, which is also the layer media
// type. Defaults to filelist.DefaultMimetype.
func WithMediaType(mediaType string) PushOption {
	return func(cfg *pushConfig) {
		cfg.mediaType = mediaType
	}
}

// WithTitle sets the file name recorded on the layer.
func WithTitle(title string) PushOption {
	return func(cfg *pushConfig) {
		cfg.title = title
	}
}

// WithIumOptions passes options to Collection.ToIum.
func WithIumOptions(opts ...filelist.IumOption) PushOption {
	return func(cfg *pushConfig) {
		cfg.iumOpts = append(cfg.iumOpts, opts...)
	}
}
