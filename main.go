package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"plate_reader/internal/api"
	"plate_reader/internal/config"
	"plate_reader/internal/detector"
	"plate_reader/internal/iot"
	"plate_reader/internal/ocr"
	"plate_reader/internal/repository"
	"plate_reader/internal/repository/postgresql"
	"plate_reader/internal/service"
	"plate_reader/internal/storage"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsgo_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	log.Println("Configuration loaded.")

	// 2. Upload directory (tạo một lần lúc khởi động)
	store, err := storage.NewUploadStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Could not prepare upload directory: %v", err)
	}
	log.Println("Upload directory:", cfg.UploadDir)

	// 3. AWS SDK config, chỉ khi có thành phần cần đến
	var awsSDKCfg aws.Config
	if cfg.NeedsAWS() {
		awsSDKCfg, err = awsgo_config.LoadDefaultConfig(context.TODO(), awsgo_config.WithRegion(cfg.AWSRegion))
		if err != nil {
			log.Fatalf("Could not load AWS SDK config: %v", err)
		}
		log.Println("AWS SDK config loaded for region:", cfg.AWSRegion)
	}

	var rekognitionClient *rekognition.Client
	if cfg.DetectorBackend == "rekognition" || cfg.OCRBackend == "rekognition" {
		rekognitionClient = rekognition.NewFromConfig(awsSDKCfg)
	}

	// 4. Detector: nạp một lần, dùng chung cho mọi request
	var plateDetector detector.Detector
	switch cfg.DetectorBackend {
	case "http", "":
		plateDetector = detector.NewHTTPDetector(detector.HTTPOptions{
			URL:        cfg.DetectorURL,
			ModelPath:  cfg.ModelPath,
			Confidence: cfg.DetectorConfidence,
			Timeout:    cfg.DetectorTimeout,
		})
	case "rekognition":
		plateDetector = detector.NewRekognitionDetector(rekognitionClient, cfg.DetectorConfidence)
	default:
		log.Fatalf("Unknown DETECTOR_BACKEND: %s", cfg.DetectorBackend)
	}
	log.Printf("Detector backend: %s (model %s)", cfg.DetectorBackend, cfg.ModelPath)

	// 5. OCR engine
	var ocrEngine ocr.Engine
	switch cfg.OCRBackend {
	case "tesseract", "":
		ocrEngine = ocr.NewTesseractEngine()
	case "rekognition":
		ocrEngine = ocr.NewRekognitionEngine(rekognitionClient)
	default:
		log.Fatalf("Unknown OCR_BACKEND: %s", cfg.OCRBackend)
	}
	log.Printf("OCR backend: %s (language %s)", cfg.OCRBackend, cfg.OCRLanguage)

	// 6. Reading log (tuỳ chọn)
	var readingRepo repository.PlateReadingRepository
	if cfg.DBHost != "" {
		db, err := postgresql.NewDB(cfg)
		if err != nil {
			log.Fatalf("Could not connect to database: %v", err)
		}
		defer db.Close()
		readingRepo = postgresql.NewPgPlateReadingRepository(db)
		log.Println("Connected to database, plate readings will be stored.")
	} else {
		log.Println("DB_HOST not set, plate readings will not be stored.")
	}

	// 7. Event publishers (tuỳ chọn)
	var publishers []service.EventPublisher
	if cfg.SQSResultQueueURL != "" {
		sqsClient := sqs.NewFromConfig(awsSDKCfg)
		publishers = append(publishers, iot.NewSQSPublisher(sqsClient, cfg.SQSResultQueueURL))
		log.Println("Publishing plate events to SQS queue:", cfg.SQSResultQueueURL)
	}
	if cfg.IoTMQTTEndpoint != "" {
		iotDataPlaneClient := iotdataplane.NewFromConfig(awsSDKCfg, func(o *iotdataplane.Options) {
			endpointWithSchema := cfg.IoTMQTTEndpoint
			if !strings.HasPrefix(endpointWithSchema, "https://") && !strings.HasPrefix(endpointWithSchema, "http://") {
				endpointWithSchema = "https://" + endpointWithSchema
			}
			o.BaseEndpoint = aws.String(endpointWithSchema)
		})
		publishers = append(publishers, iot.NewMQTTPublisher(iotDataPlaneClient, cfg.IoTResultTopic))
		log.Println("Publishing plate events to MQTT topic:", cfg.IoTResultTopic)
	}

	// 8. Services
	recorder := service.NewPlateRecorder(readingRepo, publishers...)
	detectService := service.NewDetectService(plateDetector, store, recorder)
	ocrService := service.NewOCRService(ocrEngine, store, cfg.OCRLanguage, recorder)

	// 9. Retention job (RETENTION_HOURS=0 thì giữ file vĩnh viễn)
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	if cfg.RetentionTTL > 0 {
		go startUploadRetentionJob(jobCtx, store, cfg.RetentionTTL, cfg.RetentionSweep)
	}

	// 10. Setup HTTP Router
	router := api.SetupRouter(detectService, ocrService, store, cfg.MaxUploadBytes)

	// 11. Start HTTP Server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server listening on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancelJobs()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shut down: %v", err)
	}

	log.Println("Server stopped.")
}

func startUploadRetentionJob(ctx context.Context, store *storage.UploadStore, ttl, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	log.Printf("Retention job started: removing uploads older than %s every %s", ttl, every)
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			count, err := store.Sweep(ttl, now)
			if err != nil {
				log.Printf("Retention job error: %v", err)
			} else if count > 0 {
				log.Printf("Retention job removed %d expired upload(s)", count)
			}
		}
	}
}
