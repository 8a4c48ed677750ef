package static

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrForbidden is returned for directories, non-regular files and any
	// path that would leave the served root.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when no file exists at the requested path.
	ErrNotFound = errors.New("not found")
)

// Resolver maps URL paths to files below a fixed root directory.
//
// The root is made absolute and symlink-free once in [NewResolver] and never
// changes afterwards, so a Resolver is safe for concurrent use.
type Resolver struct {
	root string
}

// NewResolver creates a [Resolver] serving the directory at root.
//
// Returns an error if root is empty, does not exist or is not a directory.
func NewResolver(root string) (*Resolver, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("served root is required")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve served root %q: %w", root, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve served root %q: %w", root, err)
	}

	info, err := os.Stat(real)
	if err != nil {
		return nil, fmt.Errorf("failed to stat served root %q: %w", real, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("served root %q is not a directory", real)
	}

	return &Resolver{root: real}, nil
}

// Root returns the absolute, symlink-free served root.
func (r *Resolver) Root() string {
	return r.root
}

// Asset is an open regular file under the served root.
//
// The caller owns the Asset and must Close it.
type Asset struct {
	// Path is the real filesystem path of the file.
	Path string

	// ContentType is resolved from the requested name's extension.
	ContentType string

	Size    int64
	ModTime time.Time

	file *os.File
}

// Read implements io.Reader over the file contents.
func (a *Asset) Read(p []byte) (int, error) {
	return a.file.Read(p)
}

// Close releases the underlying file.
func (a *Asset) Close() error {
	return a.file.Close()
}

// Resolve opens the file addressed by urlPath.
//
// Resolution fails with [ErrForbidden] when the path climbs above the root
// (via ".." segments or a symlink), names a directory (index files are never
// substituted) or names something other than a regular file. It fails with
// [ErrNotFound] when nothing exists at the path, or when a regular file is
// requested with a trailing slash.
func (r *Resolver) Resolve(urlPath string) (*Asset, error) {
	if strings.IndexByte(urlPath, 0) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrForbidden, urlPath)
	}

	rel, err := cleanRelative(urlPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, urlPath)
	}

	full := filepath.Join(r.root, filepath.FromSlash(rel))
	real, err := filepath.EvalSymlinks(full)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", classify(err), urlPath)
	}
	if !within(r.root, real) {
		return nil, fmt.Errorf("%w: %q escapes served root", ErrForbidden, urlPath)
	}

	info, err := os.Stat(real)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", classify(err), urlPath)
	}
	if info.IsDir() || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %q", ErrForbidden, urlPath)
	}
	if strings.HasSuffix(urlPath, "/") {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, urlPath)
	}

	f, err := os.Open(real)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", classify(err), urlPath)
	}

	return &Asset{
		Path:        real,
		ContentType: ContentType(rel),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		file:        f,
	}, nil
}

// cleanRelative walks the slash-separated segments of urlPath and returns the
// equivalent root-relative path. A ".." that would step above the root is
// rejected rather than clamped.
func cleanRelative(urlPath string) (string, error) {
	parts := make([]string, 0, strings.Count(urlPath, "/")+1)
	for _, seg := range strings.Split(urlPath, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(parts) == 0 {
				return "", ErrForbidden
			}
			parts = parts[:len(parts)-1]
		default:
			// on Windows a segment could smuggle in a separator or volume
			if filepath.Separator != '/' && strings.ContainsRune(seg, filepath.Separator) {
				return "", ErrForbidden
			}
			if filepath.VolumeName(seg) != "" {
				return "", ErrForbidden
			}
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, "/"), nil
}

// within reports whether path is root or lies below it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}

// classify maps filesystem errors onto the resolver's sentinels.
func classify(err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return ErrForbidden
	}
	return ErrNotFound
}
