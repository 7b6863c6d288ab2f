package ocr

import (
	"context"
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// RekognitionTextAPI là phần của *rekognition.Client mà engine dùng
type RekognitionTextAPI interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// RekognitionEngine dùng Rekognition DetectText. Rekognition tự nhận dạng chữ Latin nên lang bị bỏ qua.
type RekognitionEngine struct {
	client RekognitionTextAPI
}

func NewRekognitionEngine(client RekognitionTextAPI) *RekognitionEngine {
	return &RekognitionEngine{client: client}
}

func (e *RekognitionEngine) Recognize(ctx context.Context, img image.Image, _ string) (string, error) {
	if e.client == nil {
		return "", fmt.Errorf("Rekognition client is not initialised")
	}

	imageBytes, err := encodePNG(img)
	if err != nil {
		return "", err
	}

	log.Println("RekognitionEngine: calling Rekognition DetectText...")
	result, err := e.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: imageBytes},
	})
	if err != nil {
		return "", fmt.Errorf("RekognitionEngine: DetectText: %w", err)
	}

	// Chỉ lấy LINE, WORD là bản lặp lại của cùng nội dung
	var lines []string
	for _, detection := range result.TextDetections {
		if detection.Type != types.TextTypesLine || detection.DetectedText == nil {
			continue
		}
		lines = append(lines, *detection.DetectedText)
	}
	log.Printf("RekognitionEngine: %d line(s) detected.", len(lines))
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
