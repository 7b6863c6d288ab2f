package domain

import "image"

// BoundingBox là một vùng do detector trả về, tọa độ pixel (x1,y1)-(x2,y2)
type BoundingBox struct {
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Score float32 `json:"score"` // Không dùng để chọn box
	Class int     `json:"class"`
}

func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// DetectResult là kết quả của một lần /detect
type DetectResult struct {
	UploadedImage string
	PlateImage    string // Bằng UploadedImage nếu không tìm thấy box nào
	Boxes         []BoundingBox
	Selected      *BoundingBox
}

type DetectResponseDTO struct {
	Message       string `json:"message"`
	UploadedImage string `json:"uploaded_image"`
	PlateImage    string `json:"plate_image"`
}

type OCRRequestDTO struct {
	PlateImagePath string `json:"plate_image_path" binding:"required"`
}

type OCRResponseDTO struct {
	Text       string `json:"text"`
	PlateImage string `json:"plate_image"`
}
