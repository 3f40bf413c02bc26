package lowres

import "testing"

func intp(v int) *int { return &v }

func TestResolveSize(t *testing.T) {
	cases := []struct {
		name          string
		origW, origH  int
		width, height *int
		mode          ResizeMode
		wantW, wantH  int
	}{
		{"neither given defaults to 64x64", 100, 50, nil, nil, ModeAuto, 64, 64},
		{"width only preserves aspect", 100, 50, intp(50), nil, ModeAuto, 50, 25},
		{"height only preserves aspect", 100, 50, nil, intp(25), ModeAuto, 50, 25},
		{"both given exact", 100, 50, intp(30), intp(30), ModeExact, 30, 30},
		{"both given auto still verbatim", 100, 50, intp(30), intp(30), ModeAuto, 30, 30},
		{"derived height rounds", 100, 51, intp(50), nil, ModeAuto, 50, 26},
		{"derived dimension floors at 1", 1000, 10, intp(1), nil, ModeAuto, 1, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, h, err := ResolveSize(c.origW, c.origH, c.width, c.height, c.mode)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w != c.wantW || h != c.wantH {
				t.Fatalf("got %dx%d, want %dx%d", w, h, c.wantW, c.wantH)
			}
		})
	}
}

func TestResolveSizeRejectsZeroDimensions(t *testing.T) {
	if _, _, err := ResolveSize(0, 50, intp(10), nil, ModeAuto); err == nil {
		t.Fatal("expected error for zero original width")
	}
	if _, _, err := ResolveSize(100, 0, nil, intp(10), ModeAuto); err == nil {
		t.Fatal("expected error for zero original height")
	}
}

func TestParseResizeMode(t *testing.T) {
	if m, err := ParseResizeMode(""); err != nil || m != ModeAuto {
		t.Fatalf("empty mode should default to auto, got %v, %v", m, err)
	}
	if _, err := ParseResizeMode("stretch"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestParseResample(t *testing.T) {
	for _, s := range []string{"nearest", "triangle", "catmullrom", "gaussian", "lanczos3"} {
		if _, err := ParseResample(s); err != nil {
			t.Fatalf("expected %q to parse: %v", s, err)
		}
	}
	if _, err := ParseResample("bicubic"); err == nil {
		t.Fatal("expected error for unknown filter")
	}
}
