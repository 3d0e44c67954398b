package field

import (
	"errors"
	"fmt"

	"github.com/san-kum/grinprobe/internal/grin"
)

var (
	// ErrInvalidConfig indicates a scan or grid request that cannot be sampled.
	ErrInvalidConfig = errors.New("field: invalid sampling configuration")

	// ErrCanceled indicates sampling was interrupted by its context.
	ErrCanceled = errors.New("field: sampling canceled by context")

	// ErrNilMedium indicates a sampler built without a medium.
	ErrNilMedium = errors.New("field: no medium")
)

// SampleError wraps a medium error with the point that produced it.
type SampleError struct {
	Index   int
	Pos     grin.Vec3
	Wrapped error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("sample %d at (%g, %g, %g): %v", e.Index, e.Pos.X, e.Pos.Y, e.Pos.Z, e.Wrapped)
}

func (e *SampleError) Unwrap() error {
	return e.Wrapped
}

func canceled(err error) error {
	return fmt.Errorf("%w: %w", ErrCanceled, err)
}
