package storage

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var ErrOutsideRoot = errors.New("path is outside the upload directory")

// UploadStore quản lý thư mục upload dùng chung cho mọi request.
// Không có lock: tên file sinh từ uuid nên các request không ghi đè nhau.
type UploadStore struct {
	dir     string // Đường dẫn như cấu hình, dùng để trả về cho client
	absRoot string
}

// NewUploadStore tạo thư mục nếu chưa có.
func NewUploadStore(dir string) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("UploadStore: create %s: %w", dir, err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("UploadStore: resolve %s: %w", dir, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return &UploadStore{dir: dir, absRoot: abs}, nil
}

func (s *UploadStore) Dir() string { return s.dir }

// SaveUpload ghi file client gửi lên với tên "<hex>_<filename>".
func (s *UploadStore) SaveUpload(filename string, src io.Reader) (string, error) {
	name := newHex() + "_" + baseName(filename)
	path := filepath.Join(s.dir, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("UploadStore.SaveUpload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("UploadStore.SaveUpload: write %s: %w", path, err)
	}
	return path, nil
}

// SaveCrop lưu ảnh biển số dưới dạng "cropped_<hex>.jpg" (JPEG luôn là 3 kênh).
func (s *UploadStore) SaveCrop(img image.Image) (string, error) {
	path := filepath.Join(s.dir, "cropped_"+newHex()+".jpg")
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("UploadStore.SaveCrop: %w", err)
	}
	return path, nil
}

// Resolve kiểm tra path client gửi nằm trong thư mục upload và trả về đường dẫn tuyệt đối.
func (s *UploadStore) Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutsideRoot, err)
	}
	// File chưa tồn tại thì EvalSymlinks lỗi, giữ nguyên abs để caller trả về not found
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(s.absRoot, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return abs, nil
}

// Sweep xoá các file cũ hơn ttl, trả về số file đã xoá.
func (s *UploadStore) Sweep(ttl time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("UploadStore.Sweep: %w", err)
	}

	cutoff := now.Add(-ttl)
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
				log.Printf("UploadStore: could not remove %s: %v", entry.Name(), err)
				continue
			}
			removed++
		}
	}
	return removed, nil
}

func newHex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func baseName(filename string) string {
	name := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(filename, `\`, "/")))
	if name == "/" || name == "." || name == "" {
		return "upload"
	}
	return name
}
