package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/opencatalog/blogext/utils"
)

// PublicPrefix is the URL root the portal's static asset server exposes for
// blog uploads. It is an external contract and must not change.
const PublicPrefix = "/fanstatic/blog/uploads/"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// UploadStore writes submitted files into a local directory under
// collision-free names and hands back their public paths.
type UploadStore struct {
	dir string
}

// NewUploadStore resolves the upload directory, creating it if absent.
func NewUploadStore(dir string) (*UploadStore, error) {
	if dir == "" {
		dir = filepath.Join(".", "public", "uploads")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", dir, err)
	}
	return &UploadStore{dir: dir}, nil
}

// Dir returns the resolved upload directory on disk.
func (s *UploadStore) Dir() string {
	return s.dir
}

// Save stores an uploaded file and returns its public path. A nil header,
// an empty original filename, or a name that sanitizes to nothing is a
// no-op and returns "". Write failures are logged and also return "" so a
// single bad file never aborts the surrounding request.
func (s *UploadStore) Save(fh *multipart.FileHeader, prefix string) string {
	if fh == nil || fh.Filename == "" {
		return ""
	}
	name := SecureFilename(fh.Filename)
	if name == "" {
		return ""
	}

	stored := fmt.Sprintf("%s_%s_%s", prefix, randomHex8(), name)
	dst := filepath.Join(s.dir, stored)

	if err := s.write(fh, dst); err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorw("failed to save uploaded file", "name", fh.Filename, "err", err)
		}
		return ""
	}
	if _, err := os.Stat(dst); err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorw("uploaded file missing after write", "path", dst, "err", err)
		}
		return ""
	}
	return PublicPrefix + stored
}

func (s *UploadStore) write(fh *multipart.FileHeader, dst string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}

// PublicURL normalizes a stored reference into a public path. Absolute
// paths and full URLs pass through unchanged, so the function is idempotent.
func PublicURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") || strings.HasPrefix(path, "/") {
		return path
	}
	return PublicPrefix + path
}

// SecureFilename strips path components and collapses the name to a safe
// character set. Returns "" when nothing usable remains.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// randomHex8 yields an 8 hex char slice of a fresh UUID, enough to keep
// concurrent uploads of identically named files apart.
func randomHex8() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
