package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Load decodes the image file at path into a new Buffer.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. JPEG EXIF
// orientation is applied, so the buffer is upright as a viewer shows it.
// Alpha is dropped.
//
// Parameters:
//   - path: File to read. It is used as given; callers resolve relative
//     paths first.
//
// Returns:
//   - *Buffer: A new buffer owned by the caller.
//   - error: Non-nil if the file cannot be opened or decoded.
//
// # Errors
//
//   - Returns a wrapped OS error if the file does not exist or cannot be read
//   - Returns an error wrapping ErrInvalidFormat if the file exists but is not
//     a supported image. Callers report it and keep their current state.
func Load(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %v: %w", filepath.Base(path), err, ErrInvalidFormat)
	}
	return FromImage(img), nil
}

// Save encodes b to path, replacing any existing file.
//
// The format follows the file extension: png, jpg, jpeg, gif, tif, tiff or
// bmp. JPEG is written at the default quality of the imaging package.
//
// # Errors
//
//   - Returns an error wrapping ErrInvalidFormat for any other extension,
//     before the file is touched
//   - Returns a wrapped error if the file cannot be created or written
func Save(b *Buffer, path string) error {
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("cannot save %s: %w", filepath.Base(path), ErrInvalidFormat)
	}
	if err := imaging.Save(b.Image(), path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// EncodedImage is a PNG rendering of a buffer for transport.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Encode renders b as a base64 PNG, the form tool results carry images in.
//
// Returns:
//   - *EncodedImage: Dimensions, MIME type and the base64 payload.
//   - error: Non-nil only if PNG encoding fails.
func Encode(b *Buffer) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, b.Image(), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &EncodedImage{
		Width:       b.Width(),
		Height:      b.Height(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// ImageCache caches decoded buffers by path to avoid redundant disk reads.
//
// Load hands out clones, so edits made by callers never reach the cached
// pixels. ImageCache is safe for concurrent use.
type ImageCache struct {
	mu      sync.RWMutex
	buffers map[string]*Buffer
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		buffers: make(map[string]*Buffer),
	}
}

// Load returns a private copy of the buffer decoded from path, reading the
// file only on the first request.
//
// Parameters:
//   - path: Cache key and file to read. Different spellings of the same file
//     (relative vs absolute) are separate entries.
//
// Returns:
//   - *Buffer: A clone the caller may edit freely.
//   - error: As for the package-level Load. Failures are not cached.
func (c *ImageCache) Load(path string) (*Buffer, error) {
	c.mu.RLock()
	if b, ok := c.buffers[path]; ok {
		c.mu.RUnlock()
		return b.Clone(), nil
	}
	c.mu.RUnlock()

	b, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.buffers[path] = b
	c.mu.Unlock()

	return b.Clone(), nil
}

// Evict removes path from the cache. Writers call it after overwriting a
// file so the next Load sees the new content.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.buffers, path)
	c.mu.Unlock()
}

// Clear removes every cached buffer.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.buffers = make(map[string]*Buffer)
	c.mu.Unlock()
}

// Len returns the number of cached paths.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buffers)
}

// FileInfo describes an image file that was opened for editing.
type FileInfo struct {
	// Path is the file that was read.
	Path string `json:"path"`

	// Width and Height are the decoded dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is derived from the extension: "png", "jpeg", "gif", "bmp",
	// "tiff", "webp" or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Stat describes the file at path that decoded into b.
//
// The dimensions come from b, not from the file header, so they reflect
// EXIF orientation. Format is derived from the extension.
func Stat(path string, b *Buffer) (*FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return &FileInfo{
		Path:          path,
		Width:         b.Width(),
		Height:        b.Height(),
		Format:        formatFromExt(path),
		FileSizeBytes: st.Size(),
	}, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	}
	return "unknown"
}

// IsInvalidFormat reports whether err is a codec format failure.
func IsInvalidFormat(err error) bool {
	return errors.Is(err, ErrInvalidFormat)
}
