package detector

import (
	"context"
	"plate_reader/internal/domain"
)

// Detector là model phát hiện biển số đã train sẵn, gọi đồng bộ một lần cho mỗi ảnh.
// Thứ tự box trả về được giữ nguyên như model trả.
type Detector interface {
	Predict(ctx context.Context, imagePath string) ([]domain.BoundingBox, error)
}
