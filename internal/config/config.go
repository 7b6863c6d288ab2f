package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort     string
	UploadDir      string
	MaxUploadBytes int64

	DetectorBackend    string // "http" hoặc "rekognition"
	DetectorURL        string
	ModelPath          string // Pretrained model artifact gửi cho inference server
	DetectorConfidence float64
	DetectorTimeout    time.Duration

	OCRBackend  string // "tesseract" hoặc "rekognition"
	OCRLanguage string

	RetentionTTL   time.Duration // 0 = giữ file vĩnh viễn
	RetentionSweep time.Duration

	DBHost     string // Rỗng = không ghi plate_readings
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	AWSRegion         string
	SQSResultQueueURL string
	IoTMQTTEndpoint   string
	IoTResultTopic    string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	maxUploadMB, _ := strconv.ParseInt(getEnv("MAX_UPLOAD_MB", "32"), 10, 64)
	confidence, _ := strconv.ParseFloat(getEnv("DETECTOR_CONFIDENCE", "0.25"), 64)
	detectorTimeoutSec, _ := strconv.Atoi(getEnv("DETECTOR_TIMEOUT_SECONDS", "0"))
	retentionHours, _ := strconv.Atoi(getEnv("RETENTION_HOURS", "0"))
	sweepMinutes, _ := strconv.Atoi(getEnv("RETENTION_SWEEP_MINUTES", "10"))
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))

	if sweepMinutes <= 0 {
		sweepMinutes = 10
	}

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "5000"),
		UploadDir:      getEnv("UPLOAD_DIR", "static/uploads"),
		MaxUploadBytes: maxUploadMB << 20,

		DetectorBackend:    getEnv("DETECTOR_BACKEND", "http"),
		DetectorURL:        getEnv("DETECTOR_URL", "http://127.0.0.1:8000/predict"),
		ModelPath:          getEnv("MODEL_PATH", "best.pt"),
		DetectorConfidence: confidence,
		DetectorTimeout:    time.Duration(detectorTimeoutSec) * time.Second,

		OCRBackend:  getEnv("OCR_BACKEND", "tesseract"),
		OCRLanguage: getEnv("OCR_LANGUAGE", "eng"),

		RetentionTTL:   time.Duration(retentionHours) * time.Hour,
		RetentionSweep: time.Duration(sweepMinutes) * time.Minute,

		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "plate_reader"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		AWSRegion:         getEnv("AWS_REGION", "ap-southeast-1"),
		SQSResultQueueURL: getEnv("SQS_RESULT_QUEUE_URL", ""),
		IoTMQTTEndpoint:   getEnv("IOT_MQTT_ENDPOINT", ""),
		IoTResultTopic:    getEnv("IOT_RESULT_TOPIC", "lpr/readings"),
	}
}

// NeedsAWS báo có thành phần nào cần AWS SDK config hay không.
func (c *Config) NeedsAWS() bool {
	return c.DetectorBackend == "rekognition" || c.OCRBackend == "rekognition" ||
		c.SQSResultQueueURL != "" || c.IoTMQTTEndpoint != ""
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable '%s' not set, using default: '%s'", key, fallback)
	return fallback
}
