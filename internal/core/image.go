// Session image state with thread-safe operations
package core

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"

	"image-transformer/internal/algorithms"
)

// ImageData holds the original image, its latest transform and the
// request that produced it.
//
// generation changes whenever a pending transform result must no longer
// be stored: a new original, a reset, a clear or a newer transform.
type ImageData struct {
	mu          sync.RWMutex
	original    *image.Gray
	transformed *image.Gray
	lastRequest algorithms.Request
	filepath    string
	metadata    ImageMetadata
	generation  uint64
}

// ImageMetadata contains image information
type ImageMetadata struct {
	Width  int
	Height int
	Format string
}

func NewImageData() *ImageData {
	return &ImageData{}
}

// SetOriginal replaces the session image and drops any transform of the
// previous one
func (img *ImageData) SetOriginal(gray *image.Gray, path string) error {
	if err := ValidateImage(gray); err != nil {
		return err
	}

	img.mu.Lock()
	defer img.mu.Unlock()

	img.original = algorithms.Clone(gray)
	img.transformed = nil
	img.lastRequest = nil
	img.generation++
	img.filepath = path
	img.metadata = ImageMetadata{
		Width:  gray.Bounds().Dx(),
		Height: gray.Bounds().Dy(),
		Format: getFormatFromPath(path),
	}

	return nil
}

// BeginTransform returns a copy of the original to transform and the
// generation its result must be stored under. Results of transforms begun
// earlier become stale.
func (img *ImageData) BeginTransform() (*image.Gray, uint64) {
	img.mu.Lock()
	defer img.mu.Unlock()

	if img.original == nil {
		return nil, img.generation
	}
	img.generation++
	return algorithms.Clone(img.original), img.generation
}

// SetTransformed stores the result of req applied to the original. gen
// comes from BeginTransform; a result whose generation has been superseded
// is rejected with ErrStaleResult.
func (img *ImageData) SetTransformed(gray *image.Gray, req algorithms.Request, gen uint64) error {
	img.mu.Lock()
	defer img.mu.Unlock()

	if img.original == nil {
		return ErrNoImage
	}
	if gen != img.generation {
		return ErrStaleResult
	}
	if gray == nil || gray.Bounds().Empty() {
		return fmt.Errorf("cannot set empty transformed image")
	}

	img.transformed = algorithms.Clone(gray)
	img.lastRequest = req
	return nil
}

// GetOriginal returns a copy of the original image, nil when none is loaded
func (img *ImageData) GetOriginal() *image.Gray {
	img.mu.RLock()
	defer img.mu.RUnlock()

	if img.original == nil {
		return nil
	}
	return algorithms.Clone(img.original)
}

// GetTransformed returns a copy of the transformed image, nil when none exists
func (img *ImageData) GetTransformed() *image.Gray {
	img.mu.RLock()
	defer img.mu.RUnlock()

	if img.transformed == nil {
		return nil
	}
	return algorithms.Clone(img.transformed)
}

func (img *ImageData) HasImage() bool {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.original != nil
}

func (img *ImageData) HasTransformed() bool {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.transformed != nil
}

// LastRequest returns the request behind the current transformed image
func (img *ImageData) LastRequest() algorithms.Request {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.lastRequest
}

func (img *ImageData) GetMetadata() ImageMetadata {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.metadata
}

func (img *ImageData) GetFilepath() string {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.filepath
}

// ResetToOriginal drops the transformed image
func (img *ImageData) ResetToOriginal() error {
	img.mu.Lock()
	defer img.mu.Unlock()

	if img.original == nil {
		return ErrNoImage
	}
	img.transformed = nil
	img.lastRequest = nil
	img.generation++
	return nil
}

// Clear clears all image data
func (img *ImageData) Clear() {
	img.mu.Lock()
	defer img.mu.Unlock()

	img.original = nil
	img.transformed = nil
	img.lastRequest = nil
	img.filepath = ""
	img.metadata = ImageMetadata{}
	img.generation++
}

func (img *ImageData) Close() {
	img.Clear()
}

func getFormatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}

// ValidateImage checks a grayscale image for basic requirements
func ValidateImage(gray *image.Gray) error {
	if gray == nil || gray.Bounds().Empty() {
		return fmt.Errorf("image is empty")
	}

	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	if w > algorithms.MaxDimension || h > algorithms.MaxDimension {
		return fmt.Errorf("image too large: %dx%d (max: %d)", w, h, algorithms.MaxDimension)
	}

	return nil
}
