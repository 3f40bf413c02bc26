package lowres

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestServer() *Server {
	return NewServer(&ServerConfig{HTTPPort: 8080})
}

func postProcess(t *testing.T, s *Server, url string, req processRequest) (*httptest.ResponseRecorder, processResponse) {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest("POST", url, bytes.NewReader(body)))
	var resp processResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return rec, resp
}

func TestServerAlive(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Router().ServeHTTP(rec, httptest.NewRequest("GET", "/alive", nil))
	if rec.Code != 200 {
		t.Fatalf("/alive = %d, want 200", rec.Code)
	}
}

func TestServerProcess(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "photo.png")
	writeTestPNG(t, input, makeGradientImage(16, 8))

	rec, resp := postProcess(t, newTestServer(), "/process", processRequest{
		Input:   input,
		Options: Options{Block: intp(2)},
	})
	if rec.Code != 200 {
		t.Fatalf("status = %d, error = %q", rec.Code, resp.Error)
	}

	want := filepath.Join(dir, "photo_lowres.png")
	if resp.Output != want {
		t.Fatalf("output = %q, want %q", resp.Output, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if !strings.HasPrefix(resp.DataURI, "data:image/png;base64,") {
		t.Fatal("data_uri has wrong prefix")
	}
}

func TestServerProcessQueryOverrides(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "photo.png")
	writeTestPNG(t, input, makeGradientImage(100, 50))

	rec, resp := postProcess(t, newTestServer(), "/process?w=50", processRequest{Input: input})
	if rec.Code != 200 {
		t.Fatalf("status = %d, error = %q", rec.Code, resp.Error)
	}
	out, err := FileSource{}.GetImage(resp.Output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	img, err := DecodeImage(out)
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if img.Rect.Dx() != 50 || img.Rect.Dy() != 25 {
		t.Fatalf("output dims = %dx%d, want 50x25", img.Rect.Dx(), img.Rect.Dy())
	}
}

func TestServerProcessErrorsAsStrings(t *testing.T) {
	rec, resp := postProcess(t, newTestServer(), "/process", processRequest{
		Input: filepath.Join(t.TempDir(), "missing.png"),
	})
	if rec.Code == 200 {
		t.Fatal("expected failure status")
	}
	if resp.Error == "" {
		t.Fatal("expected an error string in the response")
	}
}

func TestServerProcessRequiresInput(t *testing.T) {
	rec, resp := postProcess(t, newTestServer(), "/process", processRequest{})
	if rec.Code != http.StatusBadRequest || resp.Error == "" {
		t.Fatalf("status = %d, error = %q; want 400 with message", rec.Code, resp.Error)
	}
}

func TestServerImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	writeTestPNG(t, path, makeGradientImage(4, 4))

	rec := httptest.NewRecorder()
	newTestServer().Router().ServeHTTP(rec, httptest.NewRequest("GET", "/image?path="+path, nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp processResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if !strings.HasPrefix(resp.DataURI, "data:image/png;base64,") {
		t.Fatal("data_uri has wrong prefix")
	}
}

func TestServerRejectsS3WithoutCredentials(t *testing.T) {
	rec, resp := postProcess(t, newTestServer(), "/process", processRequest{
		Input: "s3://bucket/key.png",
	})
	if rec.Code != http.StatusBadRequest || resp.Error == "" {
		t.Fatalf("status = %d, error = %q; want 400 with message", rec.Code, resp.Error)
	}
}
