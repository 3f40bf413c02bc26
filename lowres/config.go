package lowres

import (
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"
)

// ResizeMode controls how missing dimensions are handled. With Auto the
// missing side is computed from the original aspect ratio; Exact forces the
// given width and height. When both dimensions are present the modes behave
// identically.
type ResizeMode string

const (
	ModeAuto  ResizeMode = "auto"
	ModeExact ResizeMode = "exact"
)

func ParseResizeMode(s string) (ResizeMode, error) {
	switch ResizeMode(s) {
	case ModeAuto, ModeExact:
		return ResizeMode(s), nil
	case "":
		return ModeAuto, nil
	}
	return "", errors.Errorf("unknown resize mode %q (expected auto or exact)", s)
}

// Resample names a resampling kernel for the resize path.
type Resample string

const (
	Nearest    Resample = "nearest"
	Triangle   Resample = "triangle"
	CatmullRom Resample = "catmullrom"
	Gaussian   Resample = "gaussian"
	Lanczos3   Resample = "lanczos3"
)

func ParseResample(s string) (Resample, error) {
	switch Resample(s) {
	case Nearest, Triangle, CatmullRom, Gaussian, Lanczos3:
		return Resample(s), nil
	case "":
		return Nearest, nil
	}
	return "", errors.Errorf("unknown resample filter %q (expected nearest, triangle, catmullrom, gaussian or lanczos3)", s)
}

// Options holds the per-conversion settings. Width, Height and Block use nil
// for "not given"; a set Block selects the pixelation path. PixelDownFilter
// is accepted for compatibility but the block averaging always computes an
// unweighted mean, so it never affects output.
type Options struct {
	Width           *int       `json:"width,omitempty"`
	Height          *int       `json:"height,omitempty"`
	Mode            ResizeMode `json:"mode,omitempty"`
	Filter          Resample   `json:"filter,omitempty"`
	Block           *int       `json:"block,omitempty"`
	PixelDownFilter Resample   `json:"pixel_down_filter,omitempty"`
	DPI             int        `json:"dpi,omitempty"`
}

// normalized returns a copy with defaults filled in: mode auto, filter
// nearest, pixel-down filter triangle, 300 DPI.
func (o Options) normalized() Options {
	if o.Mode == "" {
		o.Mode = ModeAuto
	}
	if o.Filter == "" {
		o.Filter = Nearest
	}
	if o.PixelDownFilter == "" {
		o.PixelDownFilter = Triangle
	}
	if o.DPI == 0 {
		o.DPI = 300
	}
	return o
}

func (o Options) validate() error {
	if _, err := ParseResizeMode(string(o.Mode)); err != nil {
		return err
	}
	if _, err := ParseResample(string(o.Filter)); err != nil {
		return err
	}
	if _, err := ParseResample(string(o.PixelDownFilter)); err != nil {
		return err
	}
	if o.DPI < 0 {
		return errors.Errorf("dpi must be positive, got %d", o.DPI)
	}
	return nil
}

// ServerConfig configures the remote command surface.
type ServerConfig struct {
	HTTPPort        int    `json:"http_port"`
	ScratchDir      string `json:"scratch_dir"`
	Database        string `json:"database"`
	VerificationKey string `json:"verification_key"`
	AWSAccess       string `json:"aws_access"`
	AWSSecret       string `json:"aws_secret"`
}

func LoadServerConfig(path string) (*ServerConfig, error) {
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read config %v", path)
	}
	var conf ServerConfig
	if err := json.Unmarshal(content, &conf); err != nil {
		return nil, errors.Wrapf(err, "config %v is not valid JSON", path)
	}
	if conf.HTTPPort == 0 {
		conf.HTTPPort = 8080
	}
	return &conf, nil
}
