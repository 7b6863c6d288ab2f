package handler

import (
	"errors"
	"log"
	"net/http"
	"plate_reader/internal/domain"
	"plate_reader/internal/service"
	"plate_reader/internal/storage"

	"github.com/gin-gonic/gin"
)

type OCRHandler struct {
	ocrService *service.OCRService
}

func NewOCRHandler(ocrService *service.OCRService) *OCRHandler {
	return &OCRHandler{ocrService: ocrService}
}

// POST /ocr
func (h *OCRHandler) Recognize(c *gin.Context) {
	var req domain.OCRRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No plate image path provided"})
		return
	}

	text, err := h.ocrService.Recognize(c.Request.Context(), req.PlateImagePath)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlateImageNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Plate image file not found."})
		case errors.Is(err, storage.ErrOutsideRoot):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Plate image path is outside the upload directory."})
		default:
			log.Printf("OCRHandler: recognition failed for %s: %v", req.PlateImagePath, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Plate recognition failed", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, domain.OCRResponseDTO{
		Text:       text,
		PlateImage: req.PlateImagePath,
	})
}
