package qrcode

import (
	"fmt"

	qrlib "github.com/skip2/go-qrcode"
)

// ImageRenderer renders tokens as PNG images for email attachments and
// wallet passes.
type ImageRenderer struct{}

func NewImageRenderer() *ImageRenderer {
	return &ImageRenderer{}
}

func (r *ImageRenderer) RenderPNG(token string, size int) ([]byte, error) {
	if token == "" {
		return nil, fmt.Errorf("token is required")
	}
	if size <= 0 {
		size = 256
	}

	// Medium recovery keeps the module count manageable for long tokens
	// while surviving typical screen glare and print damage.
	png, err := qrlib.Encode(token, qrlib.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR image: %w", err)
	}
	return png, nil
}
