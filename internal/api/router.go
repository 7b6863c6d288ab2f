package api

import (
	"path/filepath"
	"plate_reader/internal/api/handler"
	"plate_reader/internal/api/middleware"
	"plate_reader/internal/service"
	"plate_reader/internal/storage"
	"strings"

	"github.com/gin-gonic/gin"
)

func SetupRouter(ds *service.DetectService, ocrSvc *service.OCRService, store *storage.UploadStore, maxUploadBytes int64) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())

	if maxUploadBytes > 0 {
		r.MaxMultipartMemory = maxUploadBytes
		r.Use(middleware.LimitBody(maxUploadBytes))
	}

	detectH := handler.NewDetectHandler(ds)
	r.POST("/detect", detectH.Detect)

	ocrH := handler.NewOCRHandler(ocrSvc)
	r.POST("/ocr", ocrH.Recognize)

	// Client hiển thị ảnh crop tại "/<plate_image>", chỉ áp dụng khi UPLOAD_DIR là đường dẫn tương đối
	if prefix, ok := staticPrefix(store.Dir()); ok {
		r.Static(prefix, store.Dir())
	}

	return r
}

func staticPrefix(dir string) (string, bool) {
	clean := filepath.ToSlash(filepath.Clean(dir))
	if filepath.IsAbs(dir) || clean == "." || strings.HasPrefix(clean, "..") {
		return "", false
	}
	return "/" + clean, true
}
