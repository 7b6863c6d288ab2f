package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"plate_reader/internal/domain"
	"plate_reader/internal/repository"
	"time"
)

// CREATE TABLE plate_readings (
//     id              UUID PRIMARY KEY,
//     uploaded_image  TEXT NOT NULL,
//     plate_image     TEXT NOT NULL,
//     box_count       INT NOT NULL,
//     box_x1 INT, box_y1 INT, box_x2 INT, box_y2 INT,
//     recognized_text TEXT,
//     recognized_at   TIMESTAMPTZ,
//     created_at      TIMESTAMPTZ NOT NULL
// );

type pgPlateReadingRepository struct {
	db *sql.DB
}

func NewPgPlateReadingRepository(db *sql.DB) repository.PlateReadingRepository {
	return &pgPlateReadingRepository{db: db}
}

func (r *pgPlateReadingRepository) Create(ctx context.Context, reading *domain.PlateReading) error {
	query := `INSERT INTO plate_readings
		(id, uploaded_image, plate_image, box_count, box_x1, box_y1, box_x2, box_y2, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		reading.ID, reading.UploadedImage, reading.PlateImage, reading.BoxCount,
		reading.BoxX1, reading.BoxY1, reading.BoxX2, reading.BoxY2,
		reading.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("PlateReadingRepository.Create: %w", err)
	}
	return nil
}

func (r *pgPlateReadingRepository) RecordText(ctx context.Context, plateImage string, text string, recognizedAt time.Time) error {
	query := `UPDATE plate_readings SET recognized_text = $1, recognized_at = $2
		WHERE id = (SELECT id FROM plate_readings WHERE plate_image = $3 ORDER BY created_at DESC LIMIT 1)`

	result, err := r.db.ExecContext(ctx, query, text, recognizedAt, plateImage)
	if err != nil {
		return fmt.Errorf("PlateReadingRepository.RecordText: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("PlateReadingRepository.RecordText: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgPlateReadingRepository) FindByID(ctx context.Context, id string) (*domain.PlateReading, error) {
	reading := &domain.PlateReading{}
	query := `SELECT id, uploaded_image, plate_image, box_count, box_x1, box_y1, box_x2, box_y2,
		recognized_text, recognized_at, created_at
		FROM plate_readings WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&reading.ID, &reading.UploadedImage, &reading.PlateImage, &reading.BoxCount,
		&reading.BoxX1, &reading.BoxY1, &reading.BoxX2, &reading.BoxY2,
		&reading.RecognizedText, &reading.RecognizedAt, &reading.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("PlateReadingRepository.FindByID: %w", err)
	}
	reading.CreatedAt = reading.CreatedAt.In(time.UTC)
	return reading, nil
}
