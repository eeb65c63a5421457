// Package photo prepares photos for the analysis endpoints and tracks the
// selected image and the latest diagnosis.
package photo

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"

	// Decoders for the formats Load accepts.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// JPEGQuality matches the compression the backend was tuned for.
	JPEGQuality = 80
	// MaxDimension bounds the longest side of an uploaded image.
	MaxDimension = 1600
	// MaxFileSize rejects files too large to be a photo.
	MaxFileSize = 32 << 20
)

// Encoded is a photo ready for upload.
type Encoded struct {
	Path   string
	Format string
	Width  int
	Height int
	Base64 string
}

// ExpandPath trims whitespace and the quotes terminals add to dropped files,
// and expands a leading ~ to the home directory.
func ExpandPath(path string) string {
	path = strings.TrimSpace(path)
	if len(path) >= 2 && (path[0] == '\'' || path[0] == '"') && path[len(path)-1] == path[0] {
		path = path[1 : len(path)-1]
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// Load reads the image at path and converts it to base64 JPEG.
func Load(path string) (*Encoded, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("image is too large (%d bytes)", info.Size())
	}

	enc, err := Encode(f)
	if err != nil {
		return nil, err
	}
	enc.Path = path
	return enc, nil
}

// Encode decodes any supported image from r, clamps it to MaxDimension and
// re-encodes it as base64 JPEG.
func Encode(r io.Reader) (*Encoded, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	img = clamp(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	b := img.Bounds()
	return &Encoded{
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
		Base64: base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// clamp scales img down so its longest side is at most limit pixels.
func clamp(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return img
	}

	var nw, nh int
	if w >= h {
		nw, nh = limit, h*limit/w
	} else {
		nw, nh = w*limit/h, limit
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
