package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
)

// Engine là OCR engine đã train sẵn: ảnh trong bộ nhớ + mã ngôn ngữ -> text.
type Engine interface {
	Recognize(ctx context.Context, img image.Image, lang string) (string, error)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
