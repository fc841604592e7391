// Package capture turns what the user points at (a remote URL or a local
// photo) into the opaque image reference stored on a plant.
package capture

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/sadopc/cantinho/internal/plant"
)

// DefaultMaxBytes bounds the size of an embedded photo.
const DefaultMaxBytes = 5 << 20

var ErrNotImage = errors.New("file is not an image")

// File reads a local photo and embeds it as a data: URI.
type File struct {
	Path     string
	MaxBytes int64
}

var _ plant.ImageSource = File{}

func (f File) RequestImage(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(f.Path) == "" {
		return "", plant.ErrNoImage
	}
	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}

	path, err := expandHome(f.Path)
	if err != nil {
		return "", err
	}
	fh, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return "", fmt.Errorf("open %s: %w", path, plant.ErrCapabilityDenied)
		}
		return "", fmt.Errorf("open image: %w", err)
	}
	defer fh.Close()

	data, err := io.ReadAll(io.LimitReader(fh, limit+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("image %s is larger than %d bytes", path, limit)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s (%s): %w", path, mime, ErrNotImage)
	}
	return DataURI(mime, data), nil
}

// DataURI encodes data as a base64 data: URI.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Resolve maps free-form input to an image reference: http(s) URLs are kept
// as they are, anything else is read as a local file. Empty input yields
// plant.ErrNoImage.
func Resolve(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", plant.ErrNoImage
	}
	if IsRemote(input) {
		return input, nil
	}
	return File{Path: input}.RequestImage(ctx)
}

// Source adapts Resolve to plant.ImageSource for a fixed input.
func Source(input string) plant.ImageSource {
	return plant.ImageSourceFunc(func(ctx context.Context) (string, error) {
		return Resolve(ctx, input)
	})
}

// IsRemote reports whether ref is an http or https URL.
func IsRemote(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsEmbedded reports whether ref carries its own image payload.
func IsEmbedded(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
