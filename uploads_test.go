package folio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestUploads(t *testing.T) *Uploads {
	t.Helper()
	return NewUploads(filepath.Join(t.TempDir(), "uploads"), DefaultAllowedExtensions)
}

func TestIsAllowedExtension(t *testing.T) {
	u := NewUploads(t.TempDir(), DefaultAllowedExtensions)

	tests := []struct {
		filename string
		want     bool
	}{
		{"photo.png", true},
		{"Photo.JPG", true},
		{"image.jpeg", true},
		{"anim.gif", true},
		{"pic.webp", true},
		{"archive.tar.gz", false},
		{"noext", false},
		{"evil.exe", false},
		{"png", false},
		{".png", true},
		{"trailingdot.", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := u.IsAllowedExtension(tt.filename); got != tt.want {
				t.Errorf("IsAllowedExtension(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestNewUploadsNormalizesExtensions(t *testing.T) {
	u := NewUploads(t.TempDir(), []string{".PNG", "png", " jpg ", ""})
	if !u.IsAllowedExtension("a.png") || !u.IsAllowedExtension("b.JPG") {
		t.Error("normalized extensions should be allowed")
	}
	if got := u.allowedList(); got != "PNG or JPG" {
		t.Errorf("allowedList = %q, want %q", got, "PNG or JPG")
	}
}

func TestAllowedList(t *testing.T) {
	u := NewUploads(t.TempDir(), DefaultAllowedExtensions)
	if got, want := u.allowedList(), "PNG, JPG, JPEG, GIF, or WEBP"; got != want {
		t.Errorf("allowedList = %q, want %q", got, want)
	}
}

func TestStoreUniqueNames(t *testing.T) {
	u := newTestUploads(t)

	first, err := u.Store(strings.NewReader("one"), "photo.png")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	second, err := u.Store(strings.NewReader("two"), "photo.png")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if first == second {
		t.Fatalf("names should differ, both %q", first)
	}
	for name, body := range map[string]string{first: "one", second: "two"} {
		if !strings.HasSuffix(name, "_photo.png") {
			t.Errorf("name %q should end with _photo.png", name)
		}
		data, err := os.ReadFile(filepath.Join(u.Dir(), name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(data) != body {
			t.Errorf("content of %s = %q, want %q", name, data, body)
		}
	}
}

func TestStoreSanitizesName(t *testing.T) {
	u := newTestUploads(t)

	name, err := u.Store(strings.NewReader("x"), "../../etc/My Holiday.JPG")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if strings.ContainsAny(name, `/\ `) {
		t.Errorf("name %q should be flat and contain no spaces", name)
	}
	if !strings.HasSuffix(name, "_etc_My_Holiday.JPG") {
		t.Errorf("name = %q, want suffix _etc_My_Holiday.JPG", name)
	}
	if _, err := os.Stat(filepath.Join(u.Dir(), name)); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
}

func TestStoreFallbackName(t *testing.T) {
	u := newTestUploads(t)

	name, err := u.Store(strings.NewReader("x"), "日本.PNG")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if !strings.HasSuffix(name, "_upload.png") {
		t.Errorf("name = %q, want suffix _upload.png", name)
	}
}

func TestStoreRejectsDisallowedExtension(t *testing.T) {
	u := newTestUploads(t)

	_, err := u.Store(strings.NewReader("MZ"), "evil.exe")
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("err = %v, want ErrUnsupportedImage", err)
	}
	if _, err := os.Stat(u.Dir()); !os.IsNotExist(err) {
		t.Errorf("upload dir should not be created, stat err = %v", err)
	}
}

func TestRemove(t *testing.T) {
	u := newTestUploads(t)

	name, err := u.Store(strings.NewReader("x"), "a.gif")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := u.Remove(name); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(u.Dir(), name)); !os.IsNotExist(err) {
		t.Errorf("file should be gone, stat err = %v", err)
	}
	if err := u.Remove(name); err != nil {
		t.Errorf("removing a missing file should be a no-op, got %v", err)
	}
	if err := u.Remove("../outside.png"); err != nil {
		t.Errorf("Remove of an invalid name should be a no-op, got %v", err)
	}
}

func TestRemoveReportsFailure(t *testing.T) {
	u := newTestUploads(t)

	name, err := u.Store(strings.NewReader("x"), "a.png")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	blockRemoval(t, u, name)

	err = u.Remove(name)
	if err == nil {
		t.Fatal("Remove of a non-empty directory should fail")
	}
	if errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, should not be a not-exist error", err)
	}
}

func TestRemoveMissingDir(t *testing.T) {
	u := NewUploads(filepath.Join(t.TempDir(), "never-created"), DefaultAllowedExtensions)
	if err := u.Remove("x.png"); err != nil {
		t.Errorf("Remove = %v, want nil", err)
	}
}

func TestOpen(t *testing.T) {
	u := newTestUploads(t)

	name, err := u.Store(strings.NewReader("hello"), "a.webp")
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	f, info, err := u.Open(name)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	f.Close()
	if info.Size() != 5 {
		t.Errorf("Size = %d, want 5", info.Size())
	}

	outside := filepath.Join(filepath.Dir(u.Dir()), "secret.png")
	if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, bad := range []string{"", ".", "..", "../secret.png", `..\secret.png`, "missing.png"} {
		if _, _, err := u.Open(bad); !errors.Is(err, ErrNotFound) {
			t.Errorf("Open(%q) err = %v, want ErrNotFound", bad, err)
		}
	}
}

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.png", "photo.png"},
		{"My Photo.png", "My_Photo.png"},
		{"../../etc/passwd", "etc_passwd"},
		{`C:\Users\me\pic.jpg`, "C_Users_me_pic.jpg"},
		{"café.gif", "cafe.gif"},
		{"日本.png", "png"},
		{"...", ""},
		{"a$b%c.webp", "abc.webp"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SecureFilename(tt.in); got != tt.want {
				t.Errorf("SecureFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
