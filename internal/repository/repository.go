package repository

import (
	"context"
	"errors"
	"plate_reader/internal/domain"
	"time"
)

var ErrNotFound = errors.New("record not found")

type PlateReadingRepository interface {
	Create(ctx context.Context, reading *domain.PlateReading) error
	// RecordText ghi kết quả OCR vào bản ghi mới nhất có plate_image = plateImage
	RecordText(ctx context.Context, plateImage string, text string, recognizedAt time.Time) error
	FindByID(ctx context.Context, id string) (*domain.PlateReading, error)
}
