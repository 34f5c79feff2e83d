// 2x3 affine matrices shared by both engine backends
package algorithms

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// MaxDimension bounds the width and height of any produced image.
const MaxDimension = 16384

// Affine is the 2x3 matrix
//
//	| A B C |
//	| D E F |
//
// mapping source pixel coordinates to destination coordinates, with
// pixel centres at integer positions.
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// Identity leaves every point in place.
var Identity = Affine{A: 1, E: 1}

// RotationMatrix rotates by angleDegrees about center and scales by scale.
// Positive angles turn counter-clockwise on screen (y pointing down).
func RotationMatrix(cx, cy, angleDegrees, scale float64) Affine {
	theta := angleDegrees * math.Pi / 180
	alpha := scale * math.Cos(theta)
	beta := scale * math.Sin(theta)
	return Affine{
		A: alpha, B: beta, C: (1-alpha)*cx - beta*cy,
		D: -beta, E: alpha, F: beta*cx + (1-alpha)*cy,
	}
}

// TranslationMatrix shifts by (dx, dy).
func TranslationMatrix(dx, dy float64) Affine {
	return Affine{A: 1, C: dx, E: 1, F: dy}
}

// Transform maps the point (x, y).
func (m Affine) Transform(x, y float64) (float64, float64) {
	return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
}

// Rows returns the matrix row-major, as OpenCV expects it.
func (m Affine) Rows() [2][3]float64 {
	return [2][3]float64{{m.A, m.B, m.C}, {m.D, m.E, m.F}}
}

// Aff3 converts m to x/image's convention, where the centre of pixel
// (x, y) sits at (x+0.5, y+0.5).
func (m Affine) Aff3() f64.Aff3 {
	c := m.C + 0.5 - 0.5*(m.A+m.B)
	f := m.F + 0.5 - 0.5*(m.D+m.E)
	return f64.Aff3{m.A, m.B, c, m.D, m.E, f}
}

// ScaledSize returns the output size of a resize by (fx, fy). Rounding is
// half to even, matching OpenCV's cvRound.
func ScaledSize(width, height int, fx, fy float64) (image.Point, error) {
	w := math.RoundToEven(float64(width) * fx)
	h := math.RoundToEven(float64(height) * fy)
	if w < 1 || h < 1 {
		return image.Point{}, InvalidParameter("scale", "result %vx%v is empty", w, h)
	}
	if w > MaxDimension || h > MaxDimension {
		return image.Point{}, InvalidParameter("scale", "result %vx%v exceeds %d", w, h, MaxDimension)
	}
	return image.Pt(int(w), int(h)), nil
}
