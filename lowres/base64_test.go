package lowres

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestMimeForExt(t *testing.T) {
	cases := map[string]string{
		".png":  "image/png",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".JPG":  "image/jpeg",
		".gif":  "image/gif",
		".webp": "image/webp",
		".bmp":  "application/octet-stream",
		"":      "application/octet-stream",
	}
	for ext, want := range cases {
		if got := mimeForExt(ext); got != want {
			t.Fatalf("mimeForExt(%q) = %q, want %q", ext, got, want)
		}
	}
}

func TestFileToDataURI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pic.png")
	writeTestPNG(t, path, makeGradientImage(4, 4))

	uri, err := FileToDataURI(path)
	if err != nil {
		t.Fatalf("FileToDataURI: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("uri %q has wrong prefix", uri[:40])
	}
}

func TestFileToDataURIMissingFile(t *testing.T) {
	if _, err := FileToDataURI(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
