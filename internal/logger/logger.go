package logger

import (
	"log"
	"os"
)

// DebugLog chỉ in khi DEBUG=1
func DebugLog(format string, args ...any) {
	if os.Getenv("DEBUG") == "1" {
		log.Printf("[DEBUG] "+format, args...)
	}
}
