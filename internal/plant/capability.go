package plant

import "context"

// ImageSource produces an opaque image reference for a new plant, such as a
// URL or a data: URI. It returns ErrCapabilityDenied or ErrNoImage when no
// reference can be produced.
type ImageSource interface {
	RequestImage(ctx context.Context) (string, error)
}

// ImageSourceFunc adapts a function to ImageSource.
type ImageSourceFunc func(ctx context.Context) (string, error)

func (f ImageSourceFunc) RequestImage(ctx context.Context) (string, error) { return f(ctx) }

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }
