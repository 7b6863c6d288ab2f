package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"plate_reader/internal/domain"
	"plate_reader/internal/service"
	"plate_reader/internal/storage"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubDetector struct {
	boxes []domain.BoundingBox
}

func (d *stubDetector) Predict(context.Context, string) ([]domain.BoundingBox, error) {
	return d.boxes, nil
}

// stubEngine trả về ground truth chỉ khi nhận đúng kích thước ảnh biển số
type stubEngine struct {
	plateSize image.Point
	text      string
}

func (e *stubEngine) Recognize(_ context.Context, img image.Image, _ string) (string, error) {
	if img.Bounds().Size() == e.plateSize {
		return e.text + "\n", nil
	}
	return "", nil
}

type testServer struct {
	router *gin.Engine
	store  *storage.UploadStore
}

func newTestServer(t *testing.T, dir string, boxes []domain.BoundingBox) *testServer {
	t.Helper()
	store, err := storage.NewUploadStore(dir)
	if err != nil {
		t.Fatalf("NewUploadStore() error = %v", err)
	}
	engine := &stubEngine{plateSize: image.Pt(120, 40), text: "51G12345"}
	ds := service.NewDetectService(&stubDetector{boxes: boxes}, store, nil)
	ocrSvc := service.NewOCRService(engine, store, "eng", nil)
	return &testServer{router: SetupRouter(ds, ocrSvc, store, 1<<20), store: store}
}

func fixturePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func (s *testServer) upload(t *testing.T, field string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, "car.png")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/detect", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) ocr(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ocr", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func TestDetect_MissingImage(t *testing.T) {
	s := newTestServer(t, t.TempDir(), nil)

	for _, w := range []*httptest.ResponseRecorder{
		s.upload(t, "file", fixturePNG(t)),
		func() *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/detect", nil))
			return w
		}(),
	} {
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
		body := decode[map[string]string](t, w)
		if body["error"] != "No image provided" {
			t.Errorf("error = %q", body["error"])
		}
	}
}

func TestDetect_NoPlateFound(t *testing.T) {
	s := newTestServer(t, t.TempDir(), nil)

	w := s.upload(t, "image", fixturePNG(t))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode[domain.DetectResponseDTO](t, w)
	if resp.Message != "Processed successfully" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.PlateImage != resp.UploadedImage {
		t.Errorf("plate_image = %s, want uploaded_image %s", resp.PlateImage, resp.UploadedImage)
	}
}

func TestDetect_InvalidImageIsServerError(t *testing.T) {
	s := newTestServer(t, t.TempDir(), []domain.BoundingBox{{X1: 0, Y1: 0, X2: 10, Y2: 10}})

	w := s.upload(t, "image", []byte("definitely not a png"))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestDetectThenOCR_RoundTrip(t *testing.T) {
	s := newTestServer(t, t.TempDir(), []domain.BoundingBox{{X1: 40, Y1: 20, X2: 160, Y2: 60, Score: 0.9}})

	w := s.upload(t, "image", fixturePNG(t))
	if w.Code != http.StatusOK {
		t.Fatalf("detect status = %d, body %s", w.Code, w.Body.String())
	}
	detected := decode[domain.DetectResponseDTO](t, w)
	if detected.PlateImage == detected.UploadedImage {
		t.Fatal("expected a cropped plate image")
	}

	f, err := os.Open(detected.PlateImage)
	if err != nil {
		t.Fatalf("open crop: %v", err)
	}
	cfg, _, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		t.Fatalf("decode crop: %v", err)
	}
	if cfg.Width != 120 || cfg.Height != 40 {
		t.Errorf("crop = %dx%d, want 120x40", cfg.Width, cfg.Height)
	}

	reqBody, _ := json.Marshal(domain.OCRRequestDTO{PlateImagePath: detected.PlateImage})
	w = s.ocr(t, string(reqBody))
	if w.Code != http.StatusOK {
		t.Fatalf("ocr status = %d, body %s", w.Code, w.Body.String())
	}
	recognized := decode[domain.OCRResponseDTO](t, w)
	if recognized.Text != "51G12345" {
		t.Errorf("text = %q, want 51G12345", recognized.Text)
	}
	if recognized.PlateImage != detected.PlateImage {
		t.Errorf("plate_image = %s, want %s", recognized.PlateImage, detected.PlateImage)
	}
}

func TestOCR_BadRequests(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, dir, nil)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"missing field", `{}`, "No plate image path provided"},
		{"empty field", `{"plate_image_path": ""}`, "No plate image path provided"},
		{"invalid json", `not json`, "No plate image path provided"},
		{"missing file", `{"plate_image_path": "` + filepath.Join(dir, "nope.jpg") + `"}`, "Plate image file not found."},
		{"outside upload dir", `{"plate_image_path": "/etc/passwd"}`, "Plate image path is outside the upload directory."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.ocr(t, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
			if got := decode[map[string]string](t, w)["error"]; got != tt.wantErr {
				t.Errorf("error = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, t.TempDir(), nil)

	req := httptest.NewRequest(http.MethodOptions, "/detect", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestStaticUploadsServed(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	s := newTestServer(t, filepath.Join("static", "uploads"), nil)
	w := s.upload(t, "image", fixturePNG(t))
	if w.Code != http.StatusOK {
		t.Fatalf("detect status = %d", w.Code)
	}
	resp := decode[domain.DetectResponseDTO](t, w)

	req := httptest.NewRequest(http.MethodGet, "/"+filepath.ToSlash(resp.UploadedImage), nil)
	get := httptest.NewRecorder()
	s.router.ServeHTTP(get, req)

	if get.Code != http.StatusOK {
		t.Fatalf("GET %s status = %d", req.URL.Path, get.Code)
	}
	if !bytes.Equal(get.Body.Bytes(), fixturePNG(t)) {
		t.Error("served file differs from upload")
	}
}

func TestStaticPrefix(t *testing.T) {
	tests := []struct {
		dir    string
		want   string
		wantOK bool
	}{
		{"static/uploads", "/static/uploads", true},
		{"./uploads/", "/uploads", true},
		{"/var/lib/plates", "", false},
		{"../shared", "", false},
		{".", "", false},
	}
	for _, tt := range tests {
		got, ok := staticPrefix(tt.dir)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("staticPrefix(%q) = %q, %v; want %q, %v", tt.dir, got, ok, tt.want, tt.wantOK)
		}
	}
}
