package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"plate_reader/internal/ocr"
	"plate_reader/internal/storage"
	"strings"

	"github.com/disintegration/imaging"
)

var ErrPlateImageNotFound = errors.New("plate image file not found")

type OCRService struct {
	engine   ocr.Engine
	store    *storage.UploadStore
	language string
	recorder *PlateRecorder
}

func NewOCRService(engine ocr.Engine, store *storage.UploadStore, language string, recorder *PlateRecorder) *OCRService {
	return &OCRService{engine: engine, store: store, language: language, recorder: recorder}
}

// Recognize đọc biển số từ ảnh đã lưu trong thư mục upload.
func (s *OCRService) Recognize(ctx context.Context, plateImagePath string) (string, error) {
	absPath, err := s.store.Resolve(plateImagePath)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(absPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrPlateImageNotFound
		}
		return "", fmt.Errorf("stat %s: %w", plateImagePath, err)
	}

	img, err := imaging.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("open image %s: %w", plateImagePath, err)
	}

	text, err := s.engine.Recognize(ctx, img, s.language)
	if err != nil {
		return "", fmt.Errorf("ocr engine: %w", err)
	}
	text = strings.TrimSpace(text)
	log.Printf("OCRService: recognized %q from %s", text, plateImagePath)

	s.recorder.RecordRecognition(ctx, plateImagePath, text)
	return text, nil
}
