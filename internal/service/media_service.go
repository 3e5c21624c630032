package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoFile reports an upload request without a file payload.
var ErrNoFile = errors.New("no file uploaded")

const (
	uploadsURLPath  = "/uploads"
	placeholderPath = "/assets/placeholder.png"
)

// MediaConfig carries the upload directory and the base URL under which
// stored files are publicly reachable.
type MediaConfig struct {
	Dir     string
	BaseURL string
}

// MediaService is the sole owner of the image directory's contents.
type MediaService struct {
	cfg MediaConfig
}

func NewMediaService(cfg MediaConfig) *MediaService {
	if cfg.Dir == "" {
		cfg.Dir = "uploads"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &MediaService{cfg: cfg}
}

var _ Media = (*MediaService)(nil)

// Store writes the upload under a timestamp-prefixed name and returns its
// public URL.
func (s *MediaService) Store(originalName string, src io.Reader) (string, error) {
	if src == nil || strings.TrimSpace(originalName) == "" {
		return "", ErrNoFile
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir %q: %w", s.cfg.Dir, err)
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeFilename(originalName))
	dst, err := os.Create(filepath.Join(s.cfg.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file %q: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload file %q: %w", name, err)
	}

	return s.cfg.BaseURL + uploadsURLPath + "/" + name, nil
}

// Release deletes the file referenced by imageRef from the upload directory.
// A missing file and the shared placeholder are no-ops.
func (s *MediaService) Release(imageRef string) error {
	if strings.TrimSpace(imageRef) == "" || imageRef == s.Placeholder() {
		return nil
	}

	// Only the base name is honoured, so a crafted reference cannot reach
	// outside the upload directory.
	name := path.Base(strings.ReplaceAll(imageRef, `\`, `/`))
	if name == "." || name == "/" || name == "" {
		return nil
	}

	err := os.Remove(filepath.Join(s.cfg.Dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image %q: %w", name, err)
	}
	return nil
}

// Placeholder returns the fixed default image reference.
func (s *MediaService) Placeholder() string {
	return s.cfg.BaseURL + placeholderPath
}

// sanitizeFilename strips any path components and characters that are
// unsafe in a URL path segment.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, `/`))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
