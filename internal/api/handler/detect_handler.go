package handler

import (
	"log"
	"net/http"
	"plate_reader/internal/domain"
	"plate_reader/internal/service"

	"github.com/gin-gonic/gin"
)

type DetectHandler struct {
	detectService *service.DetectService
}

func NewDetectHandler(detectService *service.DetectService) *DetectHandler {
	return &DetectHandler{detectService: detectService}
}

// POST /detect
func (h *DetectHandler) Detect(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("DetectHandler: could not open upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read uploaded image", "details": err.Error()})
		return
	}
	defer file.Close()

	result, err := h.detectService.Detect(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		log.Printf("DetectHandler: detection failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Plate detection failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, domain.DetectResponseDTO{
		Message:       "Processed successfully",
		UploadedImage: result.UploadedImage,
		PlateImage:    result.PlateImage,
	})
}
