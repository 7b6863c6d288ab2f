package detector

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"plate_reader/internal/domain"
	"plate_reader/internal/logger"
	"time"
)

type HTTPOptions struct {
	URL        string
	ModelPath  string
	Confidence float64
	Timeout    time.Duration // 0 = không giới hạn
}

type predictRequest struct {
	Model      string  `json:"model"`
	ImageB64   string  `json:"image_b64"`
	Confidence float64 `json:"conf,omitempty"`
}

type predictResponse struct {
	Boxes []struct {
		XYXY []float64 `json:"xyxy"`
		Conf float32   `json:"conf"`
		Cls  int       `json:"cls"`
	} `json:"boxes"`
}

// HTTPDetector gọi inference server đã nạp model (MODEL_PATH) và nhận về danh sách box.
type HTTPDetector struct {
	opts   HTTPOptions
	client *http.Client
}

func NewHTTPDetector(opts HTTPOptions) *HTTPDetector {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPDetector{
		opts:   opts,
		client: &http.Client{Transport: transport},
	}
}

func (d *HTTPDetector) Predict(ctx context.Context, imagePath string) ([]domain.BoundingBox, error) {
	imageBytes, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("HTTPDetector: read %s: %w", imagePath, err)
	}

	body, err := json.Marshal(predictRequest{
		Model:      d.opts.ModelPath,
		ImageB64:   base64.StdEncoding.EncodeToString(imageBytes),
		Confidence: d.opts.Confidence,
	})
	if err != nil {
		return nil, err
	}

	reqCtx := ctx
	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, d.opts.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	logger.DebugLog("HTTPDetector: predicting %s with model %s", imagePath, d.opts.ModelPath)
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPDetector: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("HTTPDetector: predict failed: status %d: %s", resp.StatusCode, string(data))
	}

	var parsed predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("HTTPDetector: decode response: %w", err)
	}

	boxes := make([]domain.BoundingBox, 0, len(parsed.Boxes))
	for i, b := range parsed.Boxes {
		if len(b.XYXY) < 4 {
			return nil, fmt.Errorf("HTTPDetector: box %d has %d coordinates", i, len(b.XYXY))
		}
		// Cắt phần thập phân giống tensor.int()
		boxes = append(boxes, domain.BoundingBox{
			X1:    int(b.XYXY[0]),
			Y1:    int(b.XYXY[1]),
			X2:    int(b.XYXY[2]),
			Y2:    int(b.XYXY[3]),
			Score: b.Conf,
			Class: b.Cls,
		})
	}
	return boxes, nil
}
