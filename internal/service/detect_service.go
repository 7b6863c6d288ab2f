package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"plate_reader/internal/detector"
	"plate_reader/internal/domain"
	"plate_reader/internal/storage"

	"github.com/disintegration/imaging"
)

var ErrDegenerateBox = errors.New("bounding box is empty or outside the image")

type DetectService struct {
	detector detector.Detector
	store    *storage.UploadStore
	recorder *PlateRecorder
}

func NewDetectService(d detector.Detector, store *storage.UploadStore, recorder *PlateRecorder) *DetectService {
	return &DetectService{detector: d, store: store, recorder: recorder}
}

// Detect lưu ảnh upload, gọi detector và cắt biển số theo box cuối cùng detector trả về.
func (s *DetectService) Detect(ctx context.Context, filename string, src io.Reader) (*domain.DetectResult, error) {
	imagePath, err := s.store.SaveUpload(filename, src)
	if err != nil {
		return nil, err
	}
	log.Printf("DetectService: saved upload %s", imagePath)

	boxes, err := s.detector.Predict(ctx, imagePath)
	if err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}
	log.Printf("DetectService: detector returned %d box(es) for %s", len(boxes), imagePath)

	result := &domain.DetectResult{
		UploadedImage: imagePath,
		PlateImage:    imagePath,
		Boxes:         boxes,
	}

	if len(boxes) > 0 {
		// Box cuối cùng thắng, không chọn theo confidence
		selected := boxes[len(boxes)-1]
		plate, err := cropPlate(imagePath, selected)
		if err != nil {
			return nil, err
		}
		cropPath, err := s.store.SaveCrop(plate)
		if err != nil {
			return nil, err
		}
		result.PlateImage = cropPath
		result.Selected = &selected
	}

	s.recorder.RecordDetection(ctx, result)
	return result, nil
}

func cropPlate(imagePath string, box domain.BoundingBox) (image.Image, error) {
	img, err := imaging.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", imagePath, err)
	}

	if box.X2 <= box.X1 || box.Y2 <= box.Y1 || !box.Rect().In(img.Bounds()) {
		return nil, fmt.Errorf("%w: (%d,%d,%d,%d) in %v", ErrDegenerateBox,
			box.X1, box.Y1, box.X2, box.Y2, img.Bounds())
	}

	return toRGB(imaging.Crop(img, box.Rect())), nil
}

// toRGB bỏ kênh alpha (không blend với nền), ảnh kết quả luôn opaque
func toRGB(img *image.NRGBA) *image.NRGBA {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}
