package service

import (
	"context"
	"errors"
	"log"
	"plate_reader/internal/domain"
	"plate_reader/internal/repository"
	"time"

	"github.com/google/uuid"
)

// EventPublisher được hiện thực bởi các publisher trong package iot
type EventPublisher interface {
	Publish(ctx context.Context, event domain.PlateEvent) error
}

// PlateRecorder ghi log kết quả vào DB và publish event. Lỗi chỉ được log lại,
// không ảnh hưởng đến response của request. Recorder nil thì không làm gì.
type PlateRecorder struct {
	readingRepo repository.PlateReadingRepository
	publishers  []EventPublisher
}

func NewPlateRecorder(readingRepo repository.PlateReadingRepository, publishers ...EventPublisher) *PlateRecorder {
	return &PlateRecorder{readingRepo: readingRepo, publishers: publishers}
}

func (r *PlateRecorder) RecordDetection(ctx context.Context, res *domain.DetectResult) {
	if r == nil {
		return
	}
	id := uuid.NewString()
	if r.readingRepo != nil {
		if err := r.readingRepo.Create(ctx, domain.NewPlateReading(id, res)); err != nil {
			log.Printf("PlateRecorder: could not store reading %s: %v", id, err)
		}
	}
	r.publish(ctx, domain.PlateEvent{
		EventID:       id,
		EventType:     domain.PlateEventDetected,
		UploadedImage: res.UploadedImage,
		PlateImage:    res.PlateImage,
		BoxCount:      len(res.Boxes),
		Timestamp:     time.Now().UTC(),
	})
}

func (r *PlateRecorder) RecordRecognition(ctx context.Context, plateImage string, text string) {
	if r == nil {
		return
	}
	now := time.Now().UTC()
	if r.readingRepo != nil {
		err := r.readingRepo.RecordText(ctx, plateImage, text, now)
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("PlateRecorder: no reading found for %s", plateImage)
		} else if err != nil {
			log.Printf("PlateRecorder: could not store text for %s: %v", plateImage, err)
		}
	}
	r.publish(ctx, domain.PlateEvent{
		EventID:    uuid.NewString(),
		EventType:  domain.PlateEventRecognized,
		PlateImage: plateImage,
		Text:       text,
		Timestamp:  now,
	})
}

func (r *PlateRecorder) publish(ctx context.Context, event domain.PlateEvent) {
	for _, p := range r.publishers {
		if err := p.Publish(ctx, event); err != nil {
			log.Printf("PlateRecorder: publish %s failed: %v", event.EventType, err)
		}
	}
}
