// Transform engine contract, backend registry and request dispatch
package algorithms

import (
	"fmt"
	"image"
	"sort"

	"golang.org/x/image/draw"
)

// Engine performs the four geometric primitives on grayscale images.
// Implementations must not modify src and must return a new image.
type Engine interface {
	Name() string
	Rotate(src *image.Gray, angleDegrees float64) (*image.Gray, error)
	Scale(src *image.Gray, fx, fy float64) (*image.Gray, error)
	Flip(src *image.Gray, axis Axis) (*image.Gray, error)
	Translate(src *image.Gray, dx, dy int) (*image.Gray, error)
}

const (
	BackendOpenCV = "opencv"
	BackendNative = "native"
)

var engines = make(map[string]Engine)

func Register(name string, engine Engine) {
	engines[name] = engine
}

func Get(name string) (Engine, bool) {
	engine, exists := engines[name]
	return engine, exists
}

// MustGet is Get for names that were already validated.
func MustGet(name string) Engine {
	engine, exists := engines[name]
	if !exists {
		panic(fmt.Sprintf("engine not registered: %s", name))
	}
	return engine
}

func IsValidBackend(name string) bool {
	_, exists := engines[name]
	return exists
}

// Names returns the registered backends, sorted.
func Names() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply validates req and runs it on engine.
func Apply(engine Engine, src *image.Gray, req Request) (*image.Gray, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, InvalidParameter("apply", "empty image")
	}
	if req == nil {
		return nil, InvalidParameter("apply", "no transform requested")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	switch r := req.(type) {
	case Rotate:
		return engine.Rotate(src, r.AngleDegrees)
	case Scale:
		return engine.Scale(src, r.FactorX, r.FactorY)
	case Flip:
		return engine.Flip(src, r.Axis)
	case Translate:
		return engine.Translate(src, r.DX, r.DY)
	default:
		return nil, InvalidParameter("apply", "unsupported request %T", req)
	}
}

// Normalize returns img when it is already zero-origin and tightly
// packed, and a compact copy otherwise. Backends rely on Pix being
// exactly width*height bytes.
func Normalize(img *image.Gray) *image.Gray {
	b := img.Bounds()
	if b.Min == (image.Point{}) && img.Stride == b.Dx() {
		return img
	}
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// ToGray converts any image to an 8-bit grayscale copy using the
// ITU-R 601 luma weights of color.GrayModel.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return Normalize(g)
	}
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Clone returns a deep copy of img.
func Clone(img *image.Gray) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

func init() {
	Register(BackendOpenCV, NewOpenCVEngine())
	Register(BackendNative, NewNativeEngine())
}
