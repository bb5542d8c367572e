package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fileHeader builds a real multipart.FileHeader the way gin hands it to us.
func fileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse multipart form failed: %v", err)
	}
	files := req.MultipartForm.File["file"]
	if len(files) != 1 {
		t.Fatalf("expected one file header, got %d", len(files))
	}
	return files[0]
}

func newTestStore(t *testing.T) *UploadStore {
	t.Helper()
	store, err := NewUploadStore(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("new upload store failed: %v", err)
	}
	return store
}

func TestSaveStoresFileUnderPublicPrefix(t *testing.T) {
	store := newTestStore(t)

	path := store.Save(fileHeader(t, "photo.png", "png-bytes"), "thumb")
	if path == "" {
		t.Fatal("expected stored path")
	}
	if !strings.HasPrefix(path, PublicPrefix) {
		t.Fatalf("path %q missing prefix %q", path, PublicPrefix)
	}

	stored := strings.TrimPrefix(path, PublicPrefix)
	if !strings.HasPrefix(stored, "thumb_") || !strings.HasSuffix(stored, "_photo.png") {
		t.Fatalf("unexpected stored name: %s", stored)
	}

	b, err := os.ReadFile(filepath.Join(store.Dir(), stored))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(b) != "png-bytes" {
		t.Fatalf("stored content mismatch: %q", b)
	}
}

func TestSaveIdenticalNamesDoNotCollide(t *testing.T) {
	store := newTestStore(t)

	first := store.Save(fileHeader(t, "same.png", "one"), "img")
	second := store.Save(fileHeader(t, "same.png", "two"), "img")
	if first == "" || second == "" {
		t.Fatalf("expected both stored, got %q / %q", first, second)
	}
	if first == second {
		t.Fatalf("stored names collide: %s", first)
	}

	for _, path := range []string{first, second} {
		stored := strings.TrimPrefix(path, PublicPrefix)
		if _, err := os.Stat(filepath.Join(store.Dir(), stored)); err != nil {
			t.Fatalf("file %s missing on disk: %v", stored, err)
		}
	}
}

func TestSaveNothingToStore(t *testing.T) {
	store := newTestStore(t)

	if got := store.Save(nil, "img"); got != "" {
		t.Fatalf("nil header want \"\" got %q", got)
	}
	if got := store.Save(fileHeader(t, "...", "x"), "img"); got != "" {
		t.Fatalf("unsanitizable name want \"\" got %q", got)
	}

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("no-op saves left %d files", len(entries))
	}
}

func TestSaveSanitizesHostileFilenames(t *testing.T) {
	store := newTestStore(t)

	path := store.Save(fileHeader(t, "../../etc/pass wd$$.png", "x"), "img")
	if path == "" {
		t.Fatal("expected stored path")
	}
	stored := strings.TrimPrefix(path, PublicPrefix)
	if strings.Contains(stored, "/") || strings.Contains(stored, "..") || strings.Contains(stored, "$") {
		t.Fatalf("unsafe stored name: %s", stored)
	}
	if !strings.HasSuffix(stored, "pass_wd.png") {
		t.Fatalf("unexpected sanitized name: %s", stored)
	}
}

func TestSecureFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"my report.pdf", "my_report.pdf"},
		{"../../../etc/passwd", "passwd"},
		{`..\..\evil.exe`, "evil.exe"},
		{"héllo wörld.png", "hllo_wrld.png"},
		{"...", ""},
		{"", ""},
		{".hidden", "hidden"},
	}
	for _, c := range cases {
		if got := SecureFilename(c.in); got != c.want {
			t.Fatalf("SecureFilename(%q) want %q got %q", c.in, c.want, got)
		}
	}
}

func TestPublicURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/fanstatic/blog/uploads/img_ab12cd34_a.png", "/fanstatic/blog/uploads/img_ab12cd34_a.png"},
		{"/anywhere/else.png", "/anywhere/else.png"},
		{"http://example.com/a.png", "http://example.com/a.png"},
		{"https://example.com/a.png", "https://example.com/a.png"},
		{"bare.png", PublicPrefix + "bare.png"},
	}
	for _, c := range cases {
		if got := PublicURL(c.in); got != c.want {
			t.Fatalf("PublicURL(%q) want %q got %q", c.in, c.want, got)
		}
	}
}

func TestPublicURLIdempotent(t *testing.T) {
	inputs := []string{"", "bare.png", "/abs.png", "http://example.com/x.png"}
	for _, in := range inputs {
		once := PublicURL(in)
		if twice := PublicURL(once); twice != once {
			t.Fatalf("PublicURL not idempotent on %q: %q -> %q", in, once, twice)
		}
	}
}
