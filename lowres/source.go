package lowres

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kr/s3"
	"github.com/pkg/errors"
)

// ImageSource fetches the raw bytes of an input image.
type ImageSource interface {
	GetImage(path string) ([]byte, error)
}

// FileSource reads images from the local filesystem.
type FileSource struct{}

func (FileSource) GetImage(path string) ([]byte, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file %v", path)
	}
	return data, nil
}

// S3Source fetches images addressed as s3://bucket/key with a signed GET.
type S3Source struct {
	AWSAccess string
	AWSSecret string
}

var s3SourceOnce sync.Once

func NewS3Source(access, secret string) *S3Source {
	s3SourceOnce.Do(func() {
		http.DefaultClient.Timeout = 15 * time.Second
	})
	return &S3Source{AWSAccess: access, AWSSecret: secret}
}

func (s *S3Source) GetImage(path string) ([]byte, error) {
	bucket, key, err := splitS3Path(path)
	if err != nil {
		return nil, err
	}
	reqURL := fmt.Sprintf("https://%v.s3.amazonaws.com/%v", bucket, key)
	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not create request")
	}
	req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	s3.Sign(req, s3.Keys{
		AccessKey: s.AWSAccess,
		SecretKey: s.AWSSecret,
	})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %v", reqURL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("%v error while fetching %v", resp.StatusCode, reqURL)
	}
	return ioutil.ReadAll(resp.Body)
}

// IsS3Path reports whether path addresses an object in S3 rather than the
// local filesystem.
func IsS3Path(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

func splitS3Path(path string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(path, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid s3 path %q, expected s3://bucket/key", path)
	}
	return parts[0], parts[1], nil
}
