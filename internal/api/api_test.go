package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/youruser/iconframe/internal/assets"
	"github.com/youruser/iconframe/internal/export"
	"github.com/youruser/iconframe/internal/frames"
	imagepkg "github.com/youruser/iconframe/internal/image"
)

func pngOf(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode PNG: %v", err)
	}
	return buf.Bytes()
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return routerFor(newTestHandler(t))
}

func routerFor(h *Handler) *gin.Engine {
	r := gin.New()
	RegisterRoutes(r, h)
	return r
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	for name, c := range map[string]color.NRGBA{
		"red.png":    {R: 200, A: 255},
		"yellow.png": {R: 220, G: 200, A: 255},
	} {
		if err := os.WriteFile(filepath.Join(dir, name), pngOf(t, 128, 128, c), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat := frames.Default()
	store := assets.Load(assets.Options{Dir: dir, Catalogue: cat, Logger: log})
	return &Handler{
		Catalogue: cat,
		Store:     store,
		Runner:    &export.Runner{Compositor: imagepkg.NewCompositor(), Assets: store, Log: log},
		Log:       log,
	}
}

// upload builds a multipart request with an optional portrait file and
// plain form fields.
func upload(t *testing.T, path string, portrait []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if portrait != nil {
		fw, err := mw.CreateFormFile("portrait", "musketeer_portrait.png")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(portrait); err != nil {
			t.Fatal(err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp struct {
		Status   string            `json:"status"`
		Failures []json.RawMessage `json:"asset_failures"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" {
		t.Errorf("Expected status ok, got %q", resp.Status)
	}
	// only red and yellow exist in the asset dir
	if len(resp.Failures) == 0 {
		t.Error("Expected the missing frame files to be reported")
	}
}

func TestFrames(t *testing.T) {
	r := newTestRouter(t)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/frames?top=yellow&bottom=red,white", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp struct {
		Singles   []frames.Frame  `json:"singles"`
		Mixed     []frames.Frame  `json:"mixed"`
		Available map[string]bool `json:"available"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Singles) != len(frames.Default().Singles) {
		t.Errorf("Expected %d singles, got %d", len(frames.Default().Singles), len(resp.Singles))
	}
	if len(resp.Mixed) != 2 {
		t.Fatalf("Expected 2 mixed frames, got %d", len(resp.Mixed))
	}
	if resp.Mixed[0].ID != frames.MixedID("yellow", "white") && resp.Mixed[0].ID != frames.MixedID("yellow", "red") {
		t.Errorf("Unexpected mixed frame %q", resp.Mixed[0].ID)
	}
	if !resp.Available["red"] {
		t.Error("Expected red to be available")
	}
}

func TestCompose(t *testing.T) {
	r := newTestRouter(t)
	req := upload(t, "/api/compose", pngOf(t, 60, 40, color.NRGBA{B: 255, A: 255}), map[string]string{"frame": "red"})
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "hc_musketeer_red.png") {
		t.Errorf("Unexpected disposition %q", cd)
	}
	_, width, height, err := imagepkg.DecodeRaw(w.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if width != imagepkg.FrameSize || height != imagepkg.FrameSize {
		t.Errorf("Expected %dx%d, got %dx%d", imagepkg.FrameSize, imagepkg.FrameSize, width, height)
	}
}

func TestCompose_SizeAndUnit(t *testing.T) {
	r := newTestRouter(t)
	req := upload(t, "/api/compose", pngOf(t, 20, 20, color.NRGBA{G: 255, A: 255}),
		map[string]string{"frame": "red", "size": "64", "unit": "fort wagon"})
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "hc_fort_wagon_red.png") {
		t.Errorf("Unexpected disposition %q", cd)
	}
	if _, width, _, err := imagepkg.DecodeRaw(w.Body.Bytes()); err != nil || width != 64 {
		t.Errorf("Expected width 64, got %d (%v)", width, err)
	}

	bad := upload(t, "/api/compose", pngOf(t, 20, 20, color.NRGBA{A: 255}), map[string]string{"frame": "red", "size": "0"})
	if w := serve(r, bad); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for size 0, got %d", w.Code)
	}
}

func TestCompose_MaskExport(t *testing.T) {
	r := newTestRouter(t)
	// transparent portrait with no mask is split into colour and mask
	req := upload(t, "/api/compose", pngOf(t, 32, 32, color.NRGBA{R: 90, G: 90, B: 90, A: 128}), map[string]string{"frame": "mask"})
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "musketeer") {
		t.Errorf("Unexpected disposition %q", cd)
	}
	if _, width, _, err := imagepkg.DecodeRaw(w.Body.Bytes()); err != nil || width != imagepkg.QuickExportSize {
		t.Errorf("Expected width %d, got %d (%v)", imagepkg.QuickExportSize, width, err)
	}

	opaque := upload(t, "/api/compose", pngOf(t, 32, 32, color.NRGBA{A: 255}), map[string]string{"frame": "mask"})
	if w := serve(r, opaque); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a mask, got %d", w.Code)
	}
}

func TestCompose_Errors(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, upload(t, "/api/compose", pngOf(t, 8, 8, color.NRGBA{A: 255}), map[string]string{"frame": "nope"}))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown frame, got %d", w.Code)
	}

	w = serve(r, upload(t, "/api/compose", nil, map[string]string{"frame": "red"}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without portrait, got %d", w.Code)
	}

	w = serve(r, upload(t, "/api/compose", []byte("not a png"), nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for undecodable portrait, got %d", w.Code)
	}
}

func TestBatch_JSON(t *testing.T) {
	r := newTestRouter(t)
	req := upload(t, "/api/batch", pngOf(t, 30, 30, color.NRGBA{B: 200, A: 255}), map[string]string{
		"frames": "red,white",
		"top":    "yellow",
		"bottom": "red",
	})
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Unit    string      `json:"unit"`
		Count   int         `json:"count"`
		Results []batchItem `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Unit != "musketeer" {
		t.Errorf("Expected unit musketeer, got %q", resp.Unit)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(resp.Results))
	}
	// white needs a mask and the portrait is opaque
	if resp.Count != 2 {
		t.Errorf("Expected 2 successes, got %d", resp.Count)
	}
	if resp.Results[1].Error == "" || resp.Results[1].PNG != nil {
		t.Errorf("Expected white to fail, got %+v", resp.Results[1])
	}
	if _, _, _, err := imagepkg.DecodeRaw(resp.Results[2].PNG); err != nil {
		t.Errorf("mixed result: %v", err)
	}
}

func TestBatch_PDF(t *testing.T) {
	r := newTestRouter(t)
	req := upload(t, "/api/batch", pngOf(t, 30, 30, color.NRGBA{B: 200, A: 255}), map[string]string{
		"frames": "red,yellow",
		"format": "pdf",
	})
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Error("Expected a PDF document")
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "musketeer_icons.pdf") {
		t.Errorf("Unexpected disposition %q", cd)
	}
}

func TestBatch_NothingRendered(t *testing.T) {
	r := newTestRouter(t)
	req := upload(t, "/api/batch", pngOf(t, 30, 30, color.NRGBA{A: 255}), map[string]string{"frames": "white"})
	if w := serve(r, req); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", w.Code)
	}
}

func TestQR(t *testing.T) {
	r := newTestRouter(t)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/frames/yellow/examples/0/qr?size=128", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 128 {
		t.Errorf("Expected width 128, got %d", cfg.Width)
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/frames/yellow/examples/9/qr", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing example, got %d", w.Code)
	}
	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/frames/nope/examples/0/qr", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown frame, got %d", w.Code)
	}
}

func TestCompose_MalformedMultipart(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/compose", strings.NewReader("garbage"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	if w := serve(r, req); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/batch", strings.NewReader("garbage"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	if w := serve(r, req); w.Code != http.StatusBadRequest {
		t.Errorf("batch: expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestCompose_PortraitURL(t *testing.T) {
	body := pngOf(t, 16, 16, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer remote.Close()

	h := newTestHandler(t)
	r := routerFor(h)
	form := url.Values{"frame": {frames.PortraitOnlyID}, "portrait_url": {remote.URL + "/hussar.png"}}

	// off unless configured
	if w := serve(r, formRequest("/api/compose", form)); w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 with remote fetching disabled, got %d", w.Code)
	}

	h.AllowRemote = true
	w := serve(r, formRequest("/api/compose", form))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "hussar_portrait.png") {
		t.Errorf("Unexpected disposition %q", cd)
	}

	form.Set("portrait_url", "file:///etc/passwd")
	if w := serve(r, formRequest("/api/compose", form)); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a file URL, got %d", w.Code)
	}
}
