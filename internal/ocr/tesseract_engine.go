package ocr

import (
	"context"
	"fmt"
	"image"
	"plate_reader/internal/logger"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine mở một gosseract client cho mỗi lần gọi, client không an toàn khi dùng chung giữa các goroutine.
type TesseractEngine struct {
	clientFactory func() *gosseract.Client
}

func NewTesseractEngine() *TesseractEngine {
	return &TesseractEngine{clientFactory: gosseract.NewClient}
}

func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image, lang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}

	client := e.clientFactory()
	defer client.Close()

	if lang != "" {
		if err := client.SetLanguage(lang); err != nil {
			return "", fmt.Errorf("set language %s: %w", lang, err)
		}
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	logger.DebugLog("TesseractEngine: raw text %q", text)
	return strings.TrimSpace(text), nil
}
