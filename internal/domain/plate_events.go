package domain

import "time"

type PlateEventType string

const (
	PlateEventDetected   PlateEventType = "plate_detected"
	PlateEventRecognized PlateEventType = "plate_recognized"
)

// PlateEvent được publish ra SQS / MQTT sau mỗi lần detect hoặc OCR
type PlateEvent struct {
	EventID       string         `json:"event_id"`
	EventType     PlateEventType `json:"event_type"`
	UploadedImage string         `json:"uploaded_image,omitempty"`
	PlateImage    string         `json:"plate_image"`
	BoxCount      int            `json:"box_count,omitempty"`
	Text          string         `json:"text,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}
