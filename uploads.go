package folio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// ErrUnsupportedImage is returned by Store when the file extension is not on
// the allow-list. Nothing is written in that case.
var ErrUnsupportedImage = errors.New("folio: unsupported image type")

var reUnsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Uploads stores image files verbatim in a flat directory. It does not know
// which posts reference which files.
type Uploads struct {
	dir     string
	exts    []string
	allowed map[string]struct{}
}

// NewUploads creates an Uploads rooted at dir accepting the given extensions
// (without dots, case-insensitive).
func NewUploads(dir string, allowedExtensions []string) *Uploads {
	u := &Uploads{dir: dir, allowed: make(map[string]struct{}, len(allowedExtensions))}
	for _, ext := range allowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if _, dup := u.allowed[ext]; ext == "" || dup {
			continue
		}
		u.allowed[ext] = struct{}{}
		u.exts = append(u.exts, ext)
	}
	return u
}

// allowedList formats the allow-list for messages, e.g. "PNG, JPG, or GIF".
func (u *Uploads) allowedList() string {
	names := make([]string, len(u.exts))
	for i, ext := range u.exts {
		names[i] = strings.ToUpper(ext)
	}
	switch len(names) {
	case 0:
		return "no"
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
}

// Dir returns the upload directory.
func (u *Uploads) Dir() string {
	return u.dir
}

// IsAllowedExtension reports whether filename has an extension on the
// allow-list. "Photo.JPG" is allowed, "archive.tar.gz" and "noext" are not.
func (u *Uploads) IsAllowedExtension(filename string) bool {
	if !strings.Contains(filename, ".") {
		return false
	}
	_, ok := u.allowed[extension(filename)]
	return ok
}

// extension returns the lowercase suffix after the last '.', or "".
func extension(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// Store writes src under a new unique name derived from originalName and
// returns that name.
func (u *Uploads) Store(src io.Reader, originalName string) (string, error) {
	if !u.IsAllowedExtension(originalName) {
		return "", ErrUnsupportedImage
	}
	safe := SecureFilename(originalName)
	if !u.IsAllowedExtension(safe) {
		safe = "upload" + strings.ToLower(filepath.Ext(originalName))
	}
	name := uuid.NewString() + "_" + safe

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", fmt.Errorf("folio: create uploads dir: %w", err)
	}
	root, err := os.OpenRoot(u.dir)
	if err != nil {
		return "", fmt.Errorf("folio: open uploads dir: %w", err)
	}
	defer root.Close()

	f, err := root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("folio: create upload: %w", err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return "", errors.Join(fmt.Errorf("folio: write upload: %w", err), root.Remove(name))
	}
	if err := f.Close(); err != nil {
		return "", errors.Join(fmt.Errorf("folio: write upload: %w", err), root.Remove(name))
	}
	return name, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (u *Uploads) Remove(name string) error {
	if !validStoredName(name) {
		return nil
	}
	root, err := os.OpenRoot(u.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("folio: open uploads dir: %w", err)
	}
	defer root.Close()
	if err := root.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("folio: remove upload %s: %w", name, err)
	}
	return nil
}

// Open returns a stored file by exact name. Names that would escape the
// upload directory, and missing files, yield ErrNotFound. The caller closes
// the file.
func (u *Uploads) Open(name string) (*os.File, fs.FileInfo, error) {
	if !validStoredName(name) {
		return nil, nil, ErrNotFound
	}
	root, err := os.OpenRoot(u.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("folio: open uploads dir: %w", err)
	}
	defer root.Close()
	f, err := root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("folio: open upload: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("folio: stat upload: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, ErrNotFound
	}
	return f, info, nil
}

func validStoredName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}

// SecureFilename reduces a client-supplied filename to a flat ASCII name made
// of letters, digits, '_', '.' and '-'. The result may be empty.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	var b strings.Builder
	for _, r := range name {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	name = strings.NewReplacer("/", " ", `\`, " ").Replace(b.String())
	name = strings.Join(strings.Fields(name), "_")
	name = reUnsafeFilename.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}
