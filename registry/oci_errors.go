package registry

import (
	"errors"
	"fmt"

	"github.com/cheminfo/filelist/registry/oras"
)

// mapOCIError translates transport errors to registry sentinels.
func mapOCIError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidManifest), errors.Is(err, ErrDigestMismatch),
		errors.Is(err, ErrLayerTooLarge):
		return err
	case errors.Is(err, oras.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, oras.ErrUnauthorized), errors.Is(err, oras.ErrForbidden):
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	case errors.Is(err, oras.ErrInvalidReference):
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	case errors.Is(err, oras.ErrManifestInvalid), errors.Is(err, oras.ErrInvalidDescriptor):
		return fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	case errors.Is(err, oras.ErrDigestMismatch):
		return fmt.Errorf("%w: %v", ErrDigestMismatch, err)
	case errors.Is(err, oras.ErrTooLarge):
		return fmt.Errorf("%w: %v", ErrLayerTooLarge, err)
	default:
		return err
	}
}
