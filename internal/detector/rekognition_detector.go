package detector

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"plate_reader/internal/domain"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

const plateLabel = "License Plate"

// RekognitionLabelsAPI là phần của *rekognition.Client mà detector dùng
type RekognitionLabelsAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// RekognitionDetector dùng nhãn "License Plate" của Rekognition DetectLabels làm detector.
type RekognitionDetector struct {
	client        RekognitionLabelsAPI
	minConfidence float32
}

func NewRekognitionDetector(client RekognitionLabelsAPI, minConfidence float64) *RekognitionDetector {
	return &RekognitionDetector{client: client, minConfidence: float32(minConfidence * 100)}
}

func (d *RekognitionDetector) Predict(ctx context.Context, imagePath string) ([]domain.BoundingBox, error) {
	if d.client == nil {
		return nil, fmt.Errorf("Rekognition client is not initialised")
	}

	imageBytes, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("RekognitionDetector: read %s: %w", imagePath, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("RekognitionDetector: decode header %s: %w", imagePath, err)
	}

	input := &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: imageBytes},
		MinConfidence: aws.Float32(d.minConfidence),
	}

	log.Println("RekognitionDetector: calling Rekognition DetectLabels...")
	result, err := d.client.DetectLabels(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("RekognitionDetector: DetectLabels: %w", err)
	}

	var boxes []domain.BoundingBox
	for _, label := range result.Labels {
		if label.Name == nil || !strings.EqualFold(*label.Name, plateLabel) {
			continue
		}
		for _, inst := range label.Instances {
			if inst.BoundingBox == nil {
				continue
			}
			boxes = append(boxes, toPixelBox(inst.BoundingBox, aws.ToFloat32(inst.Confidence), cfg.Width, cfg.Height))
		}
	}
	log.Printf("RekognitionDetector: %d plate instance(s) found.", len(boxes))
	return boxes, nil
}

// Rekognition trả box theo tỉ lệ [0,1] so với kích thước ảnh
func toPixelBox(bb *types.BoundingBox, confidence float32, width, height int) domain.BoundingBox {
	left := aws.ToFloat32(bb.Left) * float32(width)
	top := aws.ToFloat32(bb.Top) * float32(height)
	w := aws.ToFloat32(bb.Width) * float32(width)
	h := aws.ToFloat32(bb.Height) * float32(height)
	return domain.BoundingBox{
		X1:    int(left),
		Y1:    int(top),
		X2:    int(left + w),
		Y2:    int(top + h),
		Score: confidence / 100,
	}
}
