package media

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	apperrors "github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/errors"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/logging"
)

// MaxImageBytes bounds the size of an imported image.
const MaxImageBytes = 32 << 20

var hashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// DefaultThumbnailSize is the longest thumbnail edge in pixels.
const DefaultThumbnailSize = 320

// Image describes an imported background image.
type Image struct {
	URI          string `json:"uri"`
	ThumbnailURI string `json:"thumbnailUri"`
	Hash         string `json:"hash"`
	Format       string `json:"format"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Size         int64  `json:"size"`
}

// Importer copies picked images into a content-addressed directory:
// <dir>/<sha256>.<ext> plus a JPEG thumbnail <dir>/<sha256>_thumb.jpg.
// Importing the same bytes twice reuses the existing files.
type Importer struct {
	dir       string
	thumbSize int
	log       *logging.Logger
}

// NewImporter creates dir if needed.
func NewImporter(dir string, thumbSize int, log *logging.Logger) (*Importer, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve images directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}
	if thumbSize <= 0 {
		thumbSize = DefaultThumbnailSize
	}
	if log == nil {
		log = logging.Get()
	}
	return &Importer{dir: dir, thumbSize: thumbSize, log: log}, nil
}

// Import decodes the image at src (a path or file:// URI) and stores it with a thumbnail.
func (im *Importer) Import(ctx context.Context, src string) (*Image, error) {
	path, err := localPath(src)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "failed to open picked image", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageBytes+1))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrImageInvalid, "failed to read picked image", err)
	}
	if len(data) > MaxImageBytes {
		return nil, apperrors.Newf(apperrors.ErrImageInvalid, "image exceeds %d bytes", MaxImageBytes)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCancelled, "import cancelled", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrImageInvalid, "file is not a supported image", err)
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	imagePath := filepath.Join(im.dir, hash+"."+extension(format))
	thumbPath := filepath.Join(im.dir, hash+"_thumb.jpg")

	if _, err := os.Stat(imagePath); os.IsNotExist(err) {
		if err := writeAtomic(imagePath, data); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorageWrite, "failed to store image", err)
		}
	}
	if _, err := os.Stat(thumbPath); os.IsNotExist(err) {
		thumb := imaging.Fit(img, im.thumbSize, im.thumbSize, imaging.Lanczos)
		if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(85)); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorageWrite, "failed to store thumbnail", err)
		}
	}

	bounds := img.Bounds()
	result := &Image{
		URI:          fileURI(imagePath),
		ThumbnailURI: fileURI(thumbPath),
		Hash:         hash,
		Format:       format,
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		Size:         int64(len(data)),
	}
	im.log.Info("Background image imported", map[string]interface{}{
		"hash":   hash,
		"format": format,
		"width":  result.Width,
		"height": result.Height,
	})
	return result, nil
}

// Remove deletes an imported image and its thumbnail. uri must name an
// imported image or thumbnail inside the images directory; missing files are ignored.
func (im *Importer) Remove(uri string) error {
	path, err := localPath(uri)
	if err != nil {
		return err
	}
	path, err = filepath.Abs(path)
	if err != nil || filepath.Dir(path) != im.dir {
		return apperrors.Newf(apperrors.ErrInvalid, "%s is not an imported image", uri)
	}
	hash, ok := imageHash(filepath.Base(path))
	if !ok {
		return apperrors.Newf(apperrors.ErrInvalid, "%s is not an imported image", uri)
	}

	images, err := filepath.Glob(filepath.Join(im.dir, hash+".*"))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, "failed to list image files", err)
	}
	for _, p := range append(images, filepath.Join(im.dir, hash+"_thumb.jpg")) {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return apperrors.Wrap(apperrors.ErrStorageWrite, "failed to delete image", err)
		}
	}
	im.log.Info("Background image removed", map[string]interface{}{"hash": hash})
	return nil
}

// imageHash returns the content hash from an imported file name:
// <sha256>.<ext> or <sha256>_thumb.jpg.
func imageHash(name string) (string, bool) {
	if hash, ok := strings.CutSuffix(name, "_thumb.jpg"); ok {
		return hash, hashPattern.MatchString(hash)
	}
	hash, ext, ok := strings.Cut(name, ".")
	if !ok || ext == "" || strings.Contains(ext, ".") {
		return "", false
	}
	return hash, hashPattern.MatchString(hash)
}

// Dir returns the images directory.
func (im *Importer) Dir() string {
	return im.dir
}

func extension(format string) string {
	switch format {
	case "jpeg":
		return "jpg"
	case "":
		return "img"
	}
	return format
}

func localPath(src string) (string, error) {
	if src == "" {
		return "", apperrors.New(apperrors.ErrInvalid, "image uri must not be empty")
	}
	if !strings.Contains(src, "://") {
		return src, nil
	}
	u, err := url.Parse(src)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalid, "invalid image uri", err)
	}
	if u.Scheme != "file" {
		return "", apperrors.Newf(apperrors.ErrInvalid, "unsupported image uri scheme %q", u.Scheme)
	}
	return filepath.FromSlash(u.Path), nil
}

func fileURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

// writeAtomic writes data to a temp file in the target directory and renames it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".import-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
