// Pure Go backend built on golang.org/x/image/draw and imaging
package algorithms

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// NativeEngine needs no cgo. Rotation and scaling resample bilinearly
// with x/image/draw, flips and shifts are exact pixel copies.
//
// When shrinking, draw.BiLinear widens its kernel and averages more
// source pixels than OpenCV's INTER_LINEAR, so downscaled output may
// differ from the opencv backend by a few levels. Rotations agree with
// it up to OpenCV's fixed point rounding of sample positions.
type NativeEngine struct {
	interp draw.Interpolator
}

func NewNativeEngine() *NativeEngine {
	return &NativeEngine{interp: draw.BiLinear}
}

func (e *NativeEngine) Name() string {
	return BackendNative
}

func (e *NativeEngine) Rotate(src *image.Gray, angleDegrees float64) (*image.Gray, error) {
	src = Normalize(src)
	b := src.Bounds()
	m := RotationMatrix(float64(b.Dx())/2, float64(b.Dy())/2, angleDegrees, 1.0)

	// x/image clamps samples to the source rectangle. A one pixel black
	// frame makes edge samples blend towards zero, as OpenCV's constant
	// border does. Pixels mapping outside the frame stay zero.
	framed := image.NewGray(b.Inset(-1))
	draw.Draw(framed, b, src, b.Min, draw.Src)

	dst := image.NewGray(b)
	e.interp.Transform(dst, m.Aff3(), framed, framed.Bounds(), draw.Src, nil)
	return dst, nil
}

func (e *NativeEngine) Scale(src *image.Gray, fx, fy float64) (*image.Gray, error) {
	src = Normalize(src)
	b := src.Bounds()
	size, err := ScaledSize(b.Dx(), b.Dy(), fx, fy)
	if err != nil {
		return nil, err
	}

	dst := image.NewGray(image.Rectangle{Max: size})
	e.interp.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, nil
}

func (e *NativeEngine) Flip(src *image.Gray, axis Axis) (*image.Gray, error) {
	switch axis {
	case AxisHorizontal:
		return ToGray(imaging.FlipV(src)), nil
	case AxisVertical:
		return ToGray(imaging.FlipH(src)), nil
	}
	return nil, InvalidParameter("flip", "unknown axis %d", int(axis))
}

func (e *NativeEngine) Translate(src *image.Gray, dx, dy int) (*image.Gray, error) {
	src = Normalize(src)
	b := src.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), color.Black)
	return ToGray(imaging.Paste(canvas, src, image.Pt(dx, dy))), nil
}
