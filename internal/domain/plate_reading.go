package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

// PlateReading là một dòng trong bảng plate_readings
type PlateReading struct {
	ID             string      `json:"id"`
	UploadedImage  string      `json:"uploaded_image"`
	PlateImage     string      `json:"plate_image"`
	BoxCount       int         `json:"box_count"`
	BoxX1          null.Int    `json:"box_x1"`
	BoxY1          null.Int    `json:"box_y1"`
	BoxX2          null.Int    `json:"box_x2"`
	BoxY2          null.Int    `json:"box_y2"`
	RecognizedText null.String `json:"recognized_text"`
	RecognizedAt   null.Time   `json:"recognized_at"`
	CreatedAt      time.Time   `json:"created_at"`
}

// NewPlateReading dựng bản ghi từ kết quả detect
func NewPlateReading(id string, res *DetectResult) *PlateReading {
	reading := &PlateReading{
		ID:            id,
		UploadedImage: res.UploadedImage,
		PlateImage:    res.PlateImage,
		BoxCount:      len(res.Boxes),
		CreatedAt:     time.Now().UTC(),
	}
	if res.Selected != nil {
		reading.BoxX1 = null.IntFrom(int64(res.Selected.X1))
		reading.BoxY1 = null.IntFrom(int64(res.Selected.Y1))
		reading.BoxX2 = null.IntFrom(int64(res.Selected.X2))
		reading.BoxY2 = null.IntFrom(int64(res.Selected.Y2))
	}
	return reading
}
