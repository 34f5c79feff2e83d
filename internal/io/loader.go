// Image loading and saving as 8-bit grayscale
package io

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-transformer/internal/algorithms"
)

// DefaultJPEGQuality matches OpenCV's imwrite default.
const DefaultJPEGQuality = 95

var supportedFormats = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}

// Options configure an ImageLoader.
type Options struct {
	// Backend is the codec implementation, algorithms.BackendOpenCV or
	// algorithms.BackendNative.
	Backend     string
	JPEGQuality int
}

// ImageLoader handles image file operations
type ImageLoader struct {
	logger  *logrus.Logger
	backend string
	quality int
}

func NewImageLoader(logger *logrus.Logger, opts Options) (*ImageLoader, error) {
	switch opts.Backend {
	case algorithms.BackendOpenCV, algorithms.BackendNative:
	case "":
		opts.Backend = algorithms.BackendOpenCV
	default:
		return nil, fmt.Errorf("unknown codec backend: %s", opts.Backend)
	}

	if opts.JPEGQuality == 0 {
		opts.JPEGQuality = DefaultJPEGQuality
	}
	if opts.JPEGQuality < 1 || opts.JPEGQuality > 100 {
		return nil, fmt.Errorf("jpeg quality must be within 1-100, got %d", opts.JPEGQuality)
	}

	return &ImageLoader{
		logger:  logger,
		backend: opts.Backend,
		quality: opts.JPEGQuality,
	}, nil
}

// LoadGrayscale reads path as a single channel 8-bit image. A path that
// does not resolve to a readable file yields ErrNotFound, anything that
// is not a decodable image yields ErrDecode.
func (il *ImageLoader) LoadGrayscale(path string) (*image.Gray, error) {
	il.logger.WithFields(logrus.Fields{"filepath": path, "backend": il.backend}).Debug("Loading image as grayscale")

	if err := checkReadable(path); err != nil {
		return nil, err
	}

	if !il.IsSupportedFormat(path) {
		return nil, &algorithms.Error{Kind: algorithms.KindDecode, Op: "load", Path: path,
			Err: fmt.Errorf("unsupported image format %q", filepath.Ext(path))}
	}

	var (
		img *image.Gray
		err error
	)
	if il.backend == algorithms.BackendNative {
		img, err = decodeNative(path)
	} else {
		img, err = decodeOpenCV(path)
	}
	if err != nil {
		return nil, err
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    img.Bounds().Dx(),
		"height":   img.Bounds().Dy(),
	}).Info("Grayscale image loaded successfully")

	return img, nil
}

// SaveImage encodes img in the format implied by the extension of path.
func (il *ImageLoader) SaveImage(img *image.Gray, path string) error {
	il.logger.WithFields(logrus.Fields{"filepath": path, "backend": il.backend}).Debug("Saving image")

	if img == nil || img.Bounds().Empty() {
		return &algorithms.Error{Kind: algorithms.KindEncode, Op: "save", Path: path,
			Err: errors.New("cannot save empty image")}
	}

	if !il.IsSupportedFormat(path) {
		return &algorithms.Error{Kind: algorithms.KindEncode, Op: "save", Path: path,
			Err: fmt.Errorf("unsupported image format %q", filepath.Ext(path))}
	}

	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil {
		return &algorithms.Error{Kind: algorithms.KindIO, Op: "save", Path: path, Err: err}
	} else if !info.IsDir() {
		return &algorithms.Error{Kind: algorithms.KindIO, Op: "save", Path: path,
			Err: fmt.Errorf("%s is not a directory", dir)}
	}

	var err error
	if il.backend == algorithms.BackendNative {
		err = il.encodeNative(img, path)
	} else {
		err = il.encodeOpenCV(img, path)
	}
	if err != nil {
		return err
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    img.Bounds().Dx(),
		"height":   img.Bounds().Dy(),
	}).Info("Image saved successfully")

	return nil
}

func (il *ImageLoader) IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}

// Extensions lists the accepted file extensions, dot included.
func (il *ImageLoader) Extensions() []string {
	return append([]string(nil), supportedFormats...)
}

func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &algorithms.Error{Kind: algorithms.KindNotFound, Op: "load", Path: path, Err: err}
	}
	if info.IsDir() {
		return &algorithms.Error{Kind: algorithms.KindNotFound, Op: "load", Path: path,
			Err: errors.New("path is a directory")}
	}
	f, err := os.Open(path)
	if err != nil {
		return &algorithms.Error{Kind: algorithms.KindNotFound, Op: "load", Path: path, Err: err}
	}
	return f.Close()
}

func decodeOpenCV(path string) (*image.Gray, error) {
	mat := gocv.IMRead(path, gocv.IMReadGrayScale)
	defer mat.Close()

	if mat.Empty() {
		return nil, &algorithms.Error{Kind: algorithms.KindDecode, Op: "load", Path: path,
			Err: errors.New("opencv could not decode the file")}
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, &algorithms.Error{Kind: algorithms.KindDecode, Op: "load", Path: path, Err: err}
	}
	return algorithms.ToGray(img), nil
}

func decodeNative(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &algorithms.Error{Kind: algorithms.KindNotFound, Op: "load", Path: path, Err: err}
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &algorithms.Error{Kind: algorithms.KindDecode, Op: "load", Path: path, Err: err}
	}
	return algorithms.ToGray(img), nil
}

func (il *ImageLoader) encodeOpenCV(img *image.Gray, path string) error {
	mat, err := gocv.ImageGrayToMatGray(algorithms.Normalize(img))
	if err != nil {
		return &algorithms.Error{Kind: algorithms.KindEncode, Op: "save", Path: path, Err: err}
	}
	defer mat.Close()

	var params []int
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		params = []int{int(gocv.IMWriteJpegQuality), il.quality}
	}

	if !gocv.IMWriteWithParams(path, mat, params) {
		return &algorithms.Error{Kind: algorithms.KindIO, Op: "save", Path: path,
			Err: errors.New("opencv could not write the file")}
	}
	return nil
}

func (il *ImageLoader) encodeNative(img *image.Gray, path string) error {
	err := imaging.Save(img, path, imaging.JPEGQuality(il.quality))
	if err == nil {
		return nil
	}

	var pathErr *fs.PathError
	switch {
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return &algorithms.Error{Kind: algorithms.KindEncode, Op: "save", Path: path, Err: err}
	case errors.As(err, &pathErr):
		return &algorithms.Error{Kind: algorithms.KindIO, Op: "save", Path: path, Err: err}
	default:
		return &algorithms.Error{Kind: algorithms.KindEncode, Op: "save", Path: path, Err: err}
	}
}
