package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"plate_reader/internal/domain"
	"plate_reader/internal/storage"
	"sync"
	"testing"
	"time"
)

type fakeDetector struct {
	boxes    []domain.BoundingBox
	err      error
	gotPaths []string
}

func (d *fakeDetector) Predict(_ context.Context, imagePath string) ([]domain.BoundingBox, error) {
	d.gotPaths = append(d.gotPaths, imagePath)
	return d.boxes, d.err
}

type fakeEngine struct {
	text    string
	err     error
	gotLang string
	gotSize image.Point
}

func (e *fakeEngine) Recognize(_ context.Context, img image.Image, lang string) (string, error) {
	e.gotLang = lang
	e.gotSize = img.Bounds().Size()
	return e.text, e.err
}

type fakeReadingRepo struct {
	mu       sync.Mutex
	created  []*domain.PlateReading
	texts    map[string]string
	textErr  error
	createEr error
}

func (r *fakeReadingRepo) Create(_ context.Context, reading *domain.PlateReading) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, reading)
	return r.createEr
}

func (r *fakeReadingRepo) RecordText(_ context.Context, plateImage string, text string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.texts == nil {
		r.texts = map[string]string{}
	}
	r.texts[plateImage] = text
	return r.textErr
}

func (r *fakeReadingRepo) FindByID(_ context.Context, _ string) (*domain.PlateReading, error) {
	return nil, nil
}

type fakePublisher struct {
	events []domain.PlateEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event domain.PlateEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func newTestStore(t *testing.T) *storage.UploadStore {
	t.Helper()
	store, err := storage.NewUploadStore(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("NewUploadStore() error = %v", err)
	}
	return store
}

// carPNG vẽ ảnh 200x100 nền xám với một vùng biển số trắng tại (40,20)-(160,60)
func carPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			c := color.RGBA{R: 90, G: 90, B: 90, A: 255}
			if x >= 40 && x < 160 && y >= 20 && y < 60 {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}
