package plant

import "errors"

var (
	// ErrValidation wraps every rejected input; see ValidationError.
	ErrValidation = errors.New("invalid plant")
	ErrNotFound   = errors.New("plant not found")

	// ErrCapabilityDenied is returned by an ImageSource when the user or the
	// system refused access to the device.
	ErrCapabilityDenied = errors.New("capability denied")
	// ErrNoImage means the source finished without producing an image.
	ErrNoImage = errors.New("no image")
)

// ValidationError describes the first invalid field of a NewPlant. Message is
// ready to be shown to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }
